package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/arloliu/ptcloud/internal/ingest"
	"github.com/arloliu/ptcloud/internal/logger"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	var (
		settings    writerSettings
		addr        string
		outputDir   string
		maxBody     int64
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the scan ingest API",
		Flags: append(writerFlags(&settings),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "output-dir",
				Usage:       "directory receiving ingested scans",
				Value:       "scans",
				Destination: &outputDir,
			},
			&cli.Int64Flag{
				Name:        "max-body",
				Usage:       "maximum upload size in bytes",
				Value:       ingest.DefaultMaxBodyBytes,
				Destination: &maxBody,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			cfg, err := LoadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			applyWriterConfig(cmd, cfg, &settings)
			applyServeConfig(cmd, cfg, &addr, &outputDir, &maxBody)

			opts, err := settings.options(log)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			server := ingest.NewServer(ingest.Config{
				OutputDir:     outputDir,
				MaxBodyBytes:  maxBody,
				WriterOptions: opts,
				Logger:        log,
			}, nil)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr, "output_dir", outputDir)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}

			return sc.Start(ctx, e)
		},
	}
}
