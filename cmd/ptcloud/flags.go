package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/arloliu/ptcloud/internal/logger"
	"github.com/urfave/cli/v3"
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level (debug, info, warn, error)",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "log format (auto, json, pretty)",
			Value: "auto",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "config file, defaults to ~/.config/ptcloud/config.yaml",
		},
	}
}

// setupLogger builds the process logger from the global flags and the config file
// and stores it in the context.
func setupLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}

	level := cmd.String("log-level")
	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		level = cfg.LogLevel
	}
	format := cmd.String("log-format")
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		format = cfg.LogFormat
	}

	log, err := newLogger(format, level)
	if err != nil {
		return ctx, err
	}

	return logger.WithContext(ctx, log), nil
}

func newLogger(format, level string) (logger.Logger, error) {
	lvl := logger.ParseLevel(level)

	switch strings.ToLower(format) {
	case "auto", "":
		if isTerminal(os.Stderr) {
			return logger.Pretty(os.Stderr, lvl), nil
		}

		return logger.JSON(os.Stderr, lvl), nil
	case "json":
		return logger.JSON(os.Stderr, lvl), nil
	case "pretty":
		return logger.Pretty(os.Stderr, lvl), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
