package ingest

import (
	"sort"
	"sync"
	"time"

	"github.com/arloliu/ptcloud/writer"
)

// ScanRecord summarizes one ingested scan.
type ScanRecord struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Points    uint64    `json:"points"`
	Flushes   int       `json:"flushes"`
	Packets   uint32    `json:"packets"`
	Bytes     int64     `json:"bytes"`
	Bounds    *Bounds   `json:"bounds,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Bounds is the cartesian extent of a scan. It is omitted for scans without a
// finite coordinate.
type Bounds struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
	ZMin float64 `json:"z_min"`
	ZMax float64 `json:"z_max"`
}

func boundsOf(r writer.Ranges) *Bounds {
	if r.X.IsEmpty() || r.Y.IsEmpty() || r.Z.IsEmpty() {
		return nil
	}

	return &Bounds{
		XMin: r.X.Min, XMax: r.X.Max,
		YMin: r.Y.Min, YMax: r.Y.Max,
		ZMin: r.Z.Min, ZMax: r.Z.Max,
	}
}

// ScanStore is the in-memory registry of finished scans.
type ScanStore struct {
	mu    sync.Mutex
	scans map[string]ScanRecord
}

func NewScanStore() *ScanStore {
	return &ScanStore{scans: make(map[string]ScanRecord)}
}

func (s *ScanStore) Put(rec ScanRecord) {
	s.mu.Lock()
	s.scans[rec.ID] = rec
	s.mu.Unlock()
}

func (s *ScanStore) Get(id string) (ScanRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.scans[id]

	return rec, ok
}

// List returns every record, oldest first.
func (s *ScanStore) List() []ScanRecord {
	s.mu.Lock()
	out := make([]ScanRecord, 0, len(s.scans))
	for _, rec := range s.scans {
		out = append(out, rec)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}

		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out
}
