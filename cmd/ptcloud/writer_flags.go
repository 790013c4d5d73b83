package main

import (
	"fmt"

	"github.com/arloliu/ptcloud/document"
	"github.com/arloliu/ptcloud/format"
	"github.com/arloliu/ptcloud/internal/logger"
	"github.com/arloliu/ptcloud/writer"
	"github.com/urfave/cli/v3"
)

func writerFlags(s *writerSettings) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "buffer-size",
			Usage:       "points staged per block write",
			Value:       writer.DefaultBufferSize,
			Destination: &s.bufferSize,
		},
		&cli.IntFlag{
			Name:        "packet-records",
			Usage:       "records per packet",
			Value:       document.DefaultPacketRecords,
			Destination: &s.packetRecords,
		},
		&cli.StringFlag{
			Name:        "compression",
			Usage:       "column compression (none, zstd, s2, lz4)",
			Value:       "zstd",
			Destination: &s.compression,
		},
		&cli.StringFlag{
			Name:        "time-encoding",
			Usage:       "timeStamp column encoding (raw, gorilla)",
			Value:       "raw",
			Destination: &s.timeEncoding,
		},
		&cli.BoolFlag{
			Name:        "sync",
			Usage:       "fsync the file before close",
			Value:       true,
			Destination: &s.sync,
		},
	}
}

// options translates the settings into writer options.
func (s *writerSettings) options(log logger.Logger) ([]writer.Option, error) {
	comp, ok := format.ParseCompression(s.compression)
	if !ok {
		return nil, fmt.Errorf("unknown compression %q", s.compression)
	}
	enc, ok := format.ParseEncoding(s.timeEncoding)
	if !ok {
		return nil, fmt.Errorf("unknown time encoding %q", s.timeEncoding)
	}

	return []writer.Option{
		writer.WithBufferSize(s.bufferSize),
		writer.WithPacketRecords(s.packetRecords),
		writer.WithCompression(comp),
		writer.WithTimeEncoding(enc),
		writer.WithSync(s.sync),
		writer.WithLogger(log),
	}, nil
}
