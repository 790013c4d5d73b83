package document

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/ptcloud/compress"
	"github.com/arloliu/ptcloud/endian"
	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/internal/hash"
	"github.com/arloliu/ptcloud/internal/logger"
	"github.com/arloliu/ptcloud/internal/options"
	"github.com/arloliu/ptcloud/section"
)

// Library identification written by Versions.
const (
	FormatName     = "ptcloud 3D Imaging Data File"
	LibraryVersion = "ptcloud-go 0.1.0"
)

// Versions returns the format version and the library identification string.
func Versions() (major int64, minor int64, library string) {
	return int64(section.VersionMajor), int64(section.VersionMinor), LibraryVersion
}

// output is the subset of *os.File an ImageFile writes through.
type output interface {
	io.Writer
	io.WriterAt
	io.Closer
	Sync() error
}

// ImageFile is a ptcloud document being written.
type ImageFile struct {
	path   string
	file   output
	cfg    *config
	log    logger.Logger
	root   *StructureNode
	offset int64 // end of the data written so far
	writer *BlockWriter
	closed bool
}

// Create creates the file at path, truncating an existing one, and reserves the header.
//
// Parameters:
//   - path: Destination file
//   - opts: Document options
//
// Returns:
//   - *ImageFile: The open document with an empty root structure
//   - error: Option or filesystem errors; no file is left behind on failure
func Create(path string, opts ...Option) (*ImageFile, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	cleanup := func() {
		_ = file.Close()
		_ = os.Remove(path)
	}

	// header is patched by Close
	if _, err := file.Write(make([]byte, section.FileHeaderSize)); err != nil {
		cleanup()
		return nil, fmt.Errorf("reserve header %s: %w", path, err)
	}

	f := &ImageFile{
		path:   path,
		file:   file,
		cfg:    cfg,
		log:    cfg.logger.With("path", path),
		offset: section.FileHeaderSize,
	}
	f.root = NewStructureNode(f)
	f.log.Debug("image file created", "guid", cfg.guid, "packet_records", cfg.packetRecords)

	return f, nil
}

// Root returns the root structure.
func (f *ImageFile) Root() *StructureNode { return f.root }

// Path returns the file path.
func (f *ImageFile) Path() string { return f.path }

// GUID returns the document GUID configured with WithGUID.
func (f *ImageFile) GUID() string { return f.cfg.guid }

// Endian returns the byte order of packets.
func (f *ImageFile) Endian() endian.EndianEngine { return f.cfg.engine }

// IsOpen reports whether the file has been neither closed nor aborted.
func (f *ImageFile) IsOpen() bool { return !f.closed }

// IsWriterOpen reports whether a BlockWriter is currently open.
func (f *ImageFile) IsWriterOpen() bool { return f.writer != nil }

// Size returns the number of bytes written so far, header included.
func (f *ImageFile) Size() int64 { return f.offset }

func (f *ImageFile) checkMutable() error {
	if f.closed {
		return errs.ErrImageFileClosed
	}
	if f.writer != nil {
		return errs.ErrWriterOpen
	}

	return nil
}

func (f *ImageFile) writeData(p []byte) error {
	n, err := f.file.Write(p)
	f.offset += int64(n)
	if err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}

	return nil
}

// Close writes the metadata section, patches the header and closes the file.
//
// A failed Close still releases the file, removes the incomplete output and leaves the
// ImageFile closed. Calling Close on a closed file returns nil.
//
// Returns:
//   - error: ErrWriterOpen if a BlockWriter is still open (the file stays open),
//     serialization or I/O errors otherwise
func (f *ImageFile) Close() error {
	if f.closed {
		return nil
	}
	if f.writer != nil {
		return errs.ErrWriterOpen
	}

	if err := f.commit(); err != nil {
		f.closed = true
		_ = f.file.Close()
		_ = os.Remove(f.path)
		f.log.Warn("image file close failed", "error", err)

		return err
	}

	f.closed = true
	if err := f.file.Close(); err != nil {
		_ = os.Remove(f.path)
		f.log.Warn("image file close failed", "error", err)

		return fmt.Errorf("close %s: %w", f.path, err)
	}
	f.log.Debug("image file closed", "bytes", f.offset)

	return nil
}

func (f *ImageFile) commit() error {
	metadata, err := MarshalTree(f.root)
	if err != nil {
		return fmt.Errorf("serialize metadata: %w", err)
	}

	codec, err := compress.CreateCodec(f.cfg.metadataCompression, "metadata")
	if err != nil {
		return err
	}
	stored, err := codec.Compress(metadata)
	if err != nil {
		return fmt.Errorf("compress metadata: %w", err)
	}

	flag := section.NewFileFlag()
	flag.SetMetadataCompression(f.cfg.metadataCompression)
	if endian.IsBigEndian(f.cfg.engine) {
		flag.WithBigEndian()
	}

	header := section.NewFileHeader(flag)
	header.DataLength = uint64(f.offset - section.FileHeaderSize) //nolint:gosec // offset >= header size
	header.PacketCount = f.packetCount()
	header.MetadataOffset = uint64(f.offset) //nolint:gosec // positive
	header.MetadataLength = uint64(len(stored))
	header.MetadataChecksum = hash.Checksum(stored)

	if err := f.writeData(stored); err != nil {
		return err
	}
	header.FileSize = uint64(f.offset) //nolint:gosec // positive

	if _, err := f.file.WriteAt(header.Bytes(), 0); err != nil {
		return fmt.Errorf("patch header %s: %w", f.path, err)
	}
	if f.cfg.sync {
		if err := f.file.Sync(); err != nil {
			return fmt.Errorf("sync %s: %w", f.path, err)
		}
	}

	return nil
}

// packetCount sums the packets of every compressed vector in the tree.
func (f *ImageFile) packetCount() uint32 {
	var total uint32
	var walk func(n Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *StructureNode:
			for _, name := range v.names {
				walk(v.children[name])
			}
		case *VectorNode:
			for _, item := range v.items {
				walk(item)
			}
		case *CompressedVectorNode:
			total += v.packets
		}
	}
	walk(f.root)

	return total
}

// Abort closes the file without committing and removes it. An open BlockWriter is
// released. Calling Abort on a closed file returns nil, so it is safe to defer.
func (f *ImageFile) Abort() error {
	if f.closed {
		return nil
	}

	if f.writer != nil {
		f.writer.release()
	}
	f.closed = true

	errClose := f.file.Close()
	errRemove := os.Remove(f.path)
	if errors.Is(errRemove, os.ErrNotExist) {
		errRemove = nil
	}
	f.log.Debug("image file aborted")

	return errors.Join(errClose, errRemove)
}

var _ io.Closer = (*ImageFile)(nil)
