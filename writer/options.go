package writer

import (
	"fmt"
	"math"

	"github.com/arloliu/ptcloud/compress"
	"github.com/arloliu/ptcloud/document"
	"github.com/arloliu/ptcloud/endian"
	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/format"
	"github.com/arloliu/ptcloud/internal/logger"
	"github.com/arloliu/ptcloud/internal/options"
)

// Defaults of a Writer.
const (
	DefaultBufferSize  = 1000
	DefaultScanName    = "scanPointCloud"
	DefaultDescription = "created by ptcloud"
	DefaultScanGUID    = "{A545CFC4-5CDE-45D4-9C79-11A37C9557FB}"
)

// EmptyBounds decides how a range that observed no finite value is written.
type EmptyBounds uint8

const (
	// EmptyBoundsOmit leaves the limit nodes of empty ranges out of the metadata.
	EmptyBoundsOmit EmptyBounds = iota
	// EmptyBoundsZero writes 0 for both limits of empty ranges.
	EmptyBoundsZero
)

func (e EmptyBounds) String() string {
	switch e {
	case EmptyBoundsOmit:
		return "omit"
	case EmptyBoundsZero:
		return "zero"
	default:
		return "unknown"
	}
}

// Offset is the coordinate translation recorded as the scan pose. It is never
// applied to the points.
type Offset struct {
	X, Y, Z float64
}

type config struct {
	bufferSize    int
	packetRecords int
	compression   format.CompressionType
	timeEncoding  format.EncodingType
	engine        endian.EndianEngine
	offset        Offset
	emptyBounds   EmptyBounds
	scanName      string
	description   string
	sync          bool
	logger        logger.Logger
}

func defaultConfig() *config {
	return &config{
		bufferSize:    DefaultBufferSize,
		packetRecords: document.DefaultPacketRecords,
		compression:   format.CompressionZstd,
		timeEncoding:  format.TypeRaw,
		engine:        endian.GetLittleEndianEngine(),
		emptyBounds:   EmptyBoundsOmit,
		scanName:      DefaultScanName,
		description:   DefaultDescription,
		sync:          true,
		logger:        logger.Nop(),
	}
}

// Option configures a Writer.
type Option = options.Option[*config]

// WithBufferSize sets the number of points staged before a block write.
// Defaults to DefaultBufferSize. It does not change the output bytes.
func WithBufferSize(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidBufferSize, n)
		}
		c.bufferSize = n

		return nil
	})
}

// WithPacketRecords sets the number of records per packet.
// Defaults to document.DefaultPacketRecords.
func WithPacketRecords(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("%w: packet records must be positive, got %d", errs.ErrInvalidOption, n)
		}
		c.packetRecords = n

		return nil
	})
}

// WithCompression sets the codec applied to every column. Defaults to Zstd.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(c *config) error {
		if _, err := compress.CreateCodec(compression, "column"); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidOption, err)
		}
		c.compression = compression

		return nil
	})
}

// WithTimeEncoding selects Raw (default) or Gorilla for the timeStamp column.
func WithTimeEncoding(enc format.EncodingType) Option {
	return options.New(func(c *config) error {
		if enc != format.TypeRaw && enc != format.TypeGorilla {
			return fmt.Errorf("%w: time encoding %s", errs.ErrInvalidOption, enc)
		}
		c.timeEncoding = enc

		return nil
	})
}

// WithLittleEndian writes packets little-endian. This is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *config) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian writes packets big-endian.
func WithBigEndian() Option {
	return options.NoError(func(c *config) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithOffset records a coordinate translation as the scan pose.
func WithOffset(x, y, z float64) Option {
	return options.New(func(c *config) error {
		for _, v := range []float64{x, y, z} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: offset must be finite", errs.ErrInvalidOption)
			}
		}
		c.offset = Offset{X: x, Y: y, Z: z}

		return nil
	})
}

// WithEmptyBounds sets the policy for ranges without finite values. Defaults to EmptyBoundsOmit.
func WithEmptyBounds(policy EmptyBounds) Option {
	return options.New(func(c *config) error {
		if policy != EmptyBoundsOmit && policy != EmptyBoundsZero {
			return fmt.Errorf("%w: empty bounds policy %d", errs.ErrInvalidOption, policy)
		}
		c.emptyBounds = policy

		return nil
	})
}

// WithScanName sets the scan name. Defaults to DefaultScanName.
func WithScanName(name string) Option {
	return options.NoError(func(c *config) {
		c.scanName = name
	})
}

// WithDescription sets the scan description.
func WithDescription(description string) Option {
	return options.NoError(func(c *config) {
		c.description = description
	})
}

// WithSync controls fsync at close. Defaults to true.
func WithSync(sync bool) Option {
	return options.NoError(func(c *config) {
		c.sync = sync
	})
}

// WithLogger sets the session logger. Defaults to logger.Nop().
func WithLogger(l logger.Logger) Option {
	return options.NoError(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}
