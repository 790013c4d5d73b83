package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/ptcloud"
	"github.com/arloliu/ptcloud/internal/logger"
	"github.com/arloliu/ptcloud/internal/pts"
	"github.com/arloliu/ptcloud/writer"
	"github.com/urfave/cli/v3"
)

func convertCmd() *cli.Command {
	var (
		settings    writerSettings
		input       string
		output      string
		scanName    string
		description string
		offset      writer.Offset
		bigEndian   bool
		zeroBounds  bool
	)

	return &cli.Command{
		Name:  "convert",
		Usage: "Convert a PTS text file to a ptcloud file",
		Flags: append(writerFlags(&settings),
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "input PTS file",
				Required:    true,
				Destination: &input,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output file, defaults to the input with a .ptc extension",
				Destination: &output,
			},
			&cli.StringFlag{
				Name:        "scan-name",
				Value:       writer.DefaultScanName,
				Destination: &scanName,
			},
			&cli.StringFlag{
				Name:        "description",
				Value:       writer.DefaultDescription,
				Destination: &description,
			},
			&cli.Float64Flag{
				Name:        "offset-x",
				Usage:       "x offset recorded in the scan pose",
				Destination: &offset.X,
			},
			&cli.Float64Flag{
				Name:        "offset-y",
				Usage:       "y offset recorded in the scan pose",
				Destination: &offset.Y,
			},
			&cli.Float64Flag{
				Name:        "offset-z",
				Usage:       "z offset recorded in the scan pose",
				Destination: &offset.Z,
			},
			&cli.BoolFlag{
				Name:        "big-endian",
				Usage:       "write packets big-endian",
				Destination: &bigEndian,
			},
			&cli.BoolFlag{
				Name:        "zero-empty-bounds",
				Usage:       "write 0 limits for fields without finite values instead of omitting them",
				Destination: &zeroBounds,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			cfg, err := LoadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			applyWriterConfig(cmd, cfg, &settings)

			opts, err := settings.options(log)
			if err != nil {
				return err
			}
			opts = append(opts,
				writer.WithScanName(scanName),
				writer.WithDescription(description),
				writer.WithOffset(offset.X, offset.Y, offset.Z),
			)
			if bigEndian {
				opts = append(opts, writer.WithBigEndian())
			}
			if zeroBounds {
				opts = append(opts, writer.WithEmptyBounds(writer.EmptyBoundsZero))
			}

			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".ptc"
			}

			stats, err := convert(input, output, log, opts...)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.Root().Writer, "%s: %d points, %d packets, %d bytes\n",
				output, stats.Points, stats.Packets, stats.Bytes)

			return nil
		},
	}
}

// convert writes the points of the PTS file at input to output. On a parse error
// the output file is removed.
func convert(input, output string, log logger.Logger, opts ...writer.Option) (writer.Stats, error) {
	in, err := pts.Open(input)
	if err != nil {
		return writer.Stats{}, err
	}
	defer in.Close()

	var parseErr error
	seq := func(yield func(writer.Point) bool) {
		for p, err := range in.Points() {
			if err != nil {
				parseErr = err
				return
			}
			if !yield(p) {
				return
			}
		}
	}

	stats, err := ptcloud.WriteFile(output, seq, opts...)
	if err != nil {
		return stats, err
	}
	if parseErr != nil {
		if rmErr := os.Remove(output); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Warn("remove partial output", "path", output, "error", rmErr)
		}

		return writer.Stats{}, fmt.Errorf("%s: %w", input, parseErr)
	}

	if declared, ok := in.DeclaredCount(); ok && uint64(declared) != stats.Points { //nolint:gosec // non-negative
		log.Warn("point count differs from count line", "declared", declared, "written", stats.Points)
	}
	log.Info("converted", "input", input, "output", output, "points", stats.Points, "flushes", stats.Flushes)

	return stats, nil
}
