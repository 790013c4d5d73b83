// Package ingest serves an HTTP endpoint that turns uploaded point text into
// ptcloud files.
//
// Every upload runs its own writer session against its own file; sessions never
// share state beyond the scan registry.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/format"
	"github.com/arloliu/ptcloud/internal/logger"
	"github.com/arloliu/ptcloud/internal/pts"
	"github.com/arloliu/ptcloud/writer"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

// DefaultMaxBodyBytes limits the size of an uploaded point text body.
const DefaultMaxBodyBytes = 256 << 20

// Config configures a Server.
type Config struct {
	// OutputDir receives the written files.
	OutputDir string
	// MaxBodyBytes limits upload size. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// WriterOptions apply to every session before per-request overrides.
	WriterOptions []writer.Option
	// Logger defaults to logger.Nop().
	Logger logger.Logger
}

// Server handles scan uploads.
type Server struct {
	dir     string
	maxBody int64
	opts    []writer.Option
	store   *ScanStore
	log     logger.Logger
	clock   func() time.Time
	newID   func() string
}

// NewServer creates a server writing into cfg.OutputDir.
func NewServer(cfg Config, store *ScanStore) *Server {
	if store == nil {
		store = NewScanStore()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Server{
		dir:     cfg.OutputDir,
		maxBody: maxBody,
		opts:    cfg.WriterOptions,
		store:   store,
		log:     log,
		clock:   time.Now,
		newID:   uuid.NewString,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/scans", s.handleCreateScan)
	e.GET("/v1/scans", s.handleListScans)
	e.GET("/v1/scans/:id", s.handleGetScan)
}

// handleCreateScan writes the request body to <id>.ptc.
//
// Query parameters: name, compression (none|zstd|s2|lz4), time_encoding (raw|gorilla).
func (s *Server) handleCreateScan(c *echo.Context) error {
	opts, err := s.requestOptions(c)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, s.maxBody+1))
	if err != nil {
		return writeBadRequest(c, "read body: "+err.Error())
	}
	if int64(len(body)) > s.maxBody {
		return writeError(c, http.StatusRequestEntityTooLarge, "request_too_large",
			fmt.Sprintf("body exceeds %d bytes", s.maxBody))
	}

	id := s.newID()
	path := filepath.Join(s.dir, id+".ptc")
	stats, err := s.writeScan(path, body, opts)
	if err != nil {
		s.log.Warn("scan ingest failed", "id", id, "error", err)
		if errors.Is(err, errs.ErrMalformedInput) {
			return writeBadRequest(c, err.Error())
		}

		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}

	name := c.QueryParam("name")
	if name == "" {
		name = writer.DefaultScanName
	}
	rec := ScanRecord{
		ID:        id,
		Path:      path,
		Name:      name,
		Points:    stats.Points,
		Flushes:   stats.Flushes,
		Packets:   stats.Packets,
		Bytes:     stats.Bytes,
		Bounds:    boundsOf(stats.Ranges),
		CreatedAt: s.clock().UTC(),
	}
	s.store.Put(rec)
	s.log.Info("scan ingested", "id", id, "points", stats.Points, "bytes", stats.Bytes)

	return c.JSON(http.StatusCreated, rec)
}

// writeScan runs one writer session over body. A parse error removes the partial file.
func (s *Server) writeScan(path string, body []byte, opts []writer.Option) (writer.Stats, error) {
	w, err := writer.New(opts...)
	if err != nil {
		return writer.Stats{}, err
	}
	if err := w.Open(path); err != nil {
		return writer.Stats{}, err
	}

	for p, err := range pts.Parse(body) {
		if err == nil {
			err = w.WritePoint(p)
		}
		if err != nil {
			if abortErr := w.Abort(); abortErr != nil {
				s.log.Warn("remove partial scan", "path", path, "error", abortErr)
			}

			return writer.Stats{}, err
		}
	}

	if err := w.Close(); err != nil {
		return writer.Stats{}, err
	}

	return w.Stats(), nil
}

func (s *Server) requestOptions(c *echo.Context) ([]writer.Option, error) {
	opts := append([]writer.Option{}, s.opts...)
	opts = append(opts, writer.WithLogger(s.log))

	if name := c.QueryParam("name"); name != "" {
		opts = append(opts, writer.WithScanName(name))
	}
	if v := c.QueryParam("compression"); v != "" {
		comp, ok := format.ParseCompression(v)
		if !ok {
			return nil, fmt.Errorf("unknown compression %q", v)
		}
		opts = append(opts, writer.WithCompression(comp))
	}
	if v := c.QueryParam("time_encoding"); v != "" {
		enc, ok := format.ParseEncoding(v)
		if !ok || (enc != format.TypeRaw && enc != format.TypeGorilla) {
			return nil, fmt.Errorf("unknown time encoding %q", v)
		}
		opts = append(opts, writer.WithTimeEncoding(enc))
	}

	return opts, nil
}

func (s *Server) handleGetScan(c *echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return writeNotFound(c, "scan not found")
	}
	rec, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, "scan not found")
	}

	return c.JSON(http.StatusOK, rec)
}

func (s *Server) handleListScans(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"scans": s.store.List()})
}

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{Message: msg, Type: errType},
	})
}
