package document

import (
	"fmt"

	"github.com/arloliu/ptcloud/compress"
	"github.com/arloliu/ptcloud/endian"
	"github.com/arloliu/ptcloud/errs"
	"github.com/arloliu/ptcloud/format"
	"github.com/arloliu/ptcloud/internal/logger"
	"github.com/arloliu/ptcloud/internal/options"
)

// DefaultPacketRecords is the number of records per packet.
const DefaultPacketRecords = 4096

// config holds the settings of an ImageFile.
type config struct {
	engine              endian.EndianEngine
	metadataCompression format.CompressionType
	guid                string
	sync                bool
	packetRecords       int
	logger              logger.Logger
}

func defaultConfig() *config {
	return &config{
		engine:              endian.GetLittleEndianEngine(),
		metadataCompression: format.CompressionNone,
		guid:                DefaultGUID,
		sync:                true,
		packetRecords:       DefaultPacketRecords,
		logger:              logger.Nop(),
	}
}

// Option configures an ImageFile.
type Option = options.Option[*config]

// WithEndian sets the byte order of packets. Defaults to little-endian.
func WithEndian(engine endian.EndianEngine) Option {
	return options.New(func(c *config) error {
		if engine == nil {
			return fmt.Errorf("%w: nil endian engine", errs.ErrInvalidOption)
		}
		c.engine = engine

		return nil
	})
}

// WithMetadataCompression sets the codec applied to the serialized tree.
// Defaults to format.CompressionNone.
func WithMetadataCompression(compression format.CompressionType) Option {
	return options.New(func(c *config) error {
		if _, err := compress.CreateCodec(compression, "metadata"); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidOption, err)
		}
		c.metadataCompression = compression

		return nil
	})
}

// WithGUID sets the document GUID returned by ImageFile.GUID.
// The value must parse as a UUID, with or without braces.
func WithGUID(guid string) Option {
	return options.New(func(c *config) error {
		normalized, err := NormalizeGUID(guid)
		if err != nil {
			return err
		}
		c.guid = normalized

		return nil
	})
}

// WithSync controls whether Close calls fsync before closing the file. Defaults to true.
func WithSync(sync bool) Option {
	return options.NoError(func(c *config) {
		c.sync = sync
	})
}

// WithPacketRecords sets the number of records per packet. Defaults to DefaultPacketRecords.
func WithPacketRecords(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("%w: packet records must be positive, got %d", errs.ErrInvalidOption, n)
		}
		c.packetRecords = n

		return nil
	})
}

// WithLogger sets the logger for file and packet events. Defaults to logger.Nop().
func WithLogger(l logger.Logger) Option {
	return options.NoError(func(c *config) {
		if l != nil {
			c.logger = l
		}
	})
}
