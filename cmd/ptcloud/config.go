package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the ptcloud configuration file (~/.config/ptcloud/config.yaml).
// Numeric fields are pointers so "not set" differs from zero.
type Config struct {
	// Writer defaults
	BufferSize    *int   `yaml:"buffer_size"`
	PacketRecords *int   `yaml:"packet_records"`
	Compression   string `yaml:"compression"`
	TimeEncoding  string `yaml:"time_encoding"`
	Sync          *bool  `yaml:"sync"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
	OutputDir     string `yaml:"output_dir"`
	MaxBodyBytes  *int64 `yaml:"max_body_bytes"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "ptcloud", "config.yaml")
}

// LoadConfig reads the config file at path, or the default location when path is
// empty. A missing default file yields a zero Config; a missing explicit file is an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
		if path == "" {
			return Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}

		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// writerSettings are the writer flags shared by convert and serve.
type writerSettings struct {
	bufferSize    int
	packetRecords int
	compression   string
	timeEncoding  string
	sync          bool
}

// applyWriterConfig applies config file defaults to the writer flags that were not
// set on the command line.
func applyWriterConfig(c *cli.Command, cfg Config, s *writerSettings) {
	if cfg.BufferSize != nil && !c.IsSet("buffer-size") {
		s.bufferSize = *cfg.BufferSize
	}
	if cfg.PacketRecords != nil && !c.IsSet("packet-records") {
		s.packetRecords = *cfg.PacketRecords
	}
	if cfg.Compression != "" && !c.IsSet("compression") {
		s.compression = cfg.Compression
	}
	if cfg.TimeEncoding != "" && !c.IsSet("time-encoding") {
		s.timeEncoding = cfg.TimeEncoding
	}
	if cfg.Sync != nil && !c.IsSet("sync") {
		s.sync = *cfg.Sync
	}
}

// applyServeConfig applies config file defaults to the serve flags.
func applyServeConfig(c *cli.Command, cfg Config, addr, outputDir *string, maxBody *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.OutputDir != "" && !c.IsSet("output-dir") {
		*outputDir = cfg.OutputDir
	}
	if cfg.MaxBodyBytes != nil && !c.IsSet("max-body") {
		*maxBody = *cfg.MaxBodyBytes
	}
}
