package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/ptcloud/document"
	"github.com/arloliu/ptcloud/internal/testutil"
	"github.com/arloliu/ptcloud/writer"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

const samplePTS = `4
0 0 0 0.1 255 0 0 10
1 2 3 0.2 0 255 0 11
# comment
-4 5 6 0.3 0 0 255 12

7 -8 9 0.4 300 -1 17 13
`

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"ptcloud", "--log-level", "error", "--log-format", "json"}, args...))

	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestConvertCommand(t *testing.T) {
	input := writeTemp(t, "scan.pts", samplePTS)
	output := filepath.Join(t.TempDir(), "scan.ptc")

	out, err := runApp(t, "convert",
		"--input", input,
		"--output", output,
		"--buffer-size", "3",
		"--packet-records", "2",
		"--compression", "lz4",
		"--time-encoding", "gorilla",
		"--sync=false",
		"--scan-name", "survey",
		"--offset-x", "1000",
	)
	require.NoError(t, err)
	require.Contains(t, out, "4 points, 2 packets")

	f, err := testutil.ReadFile(output)
	require.NoError(t, err)
	name, ok := f.String("data3D/0/name")
	require.True(t, ok)
	require.Equal(t, "survey", name)
	x, ok := f.Float("data3D/0/pose/translation/x")
	require.True(t, ok)
	require.Equal(t, 1000.0, x)

	cols, err := f.Points("data3D/0/points")
	require.NoError(t, err)
	require.Equal(t, []int64{255, 0, 0, 255}, cols.Ints[writer.FieldColorRed])
	require.Equal(t, []int64{0, 255, 0, 0}, cols.Ints[writer.FieldColorGreen])
	require.Equal(t, []float64{10, 11, 12, 13}, cols.Floats[writer.FieldTimeStamp])
	for _, c := range cols.Packets {
		require.LessOrEqual(t, c.RecordCount, uint32(2))
	}
}

func TestConvertCommand_DefaultOutput(t *testing.T) {
	input := writeTemp(t, "room.pts", samplePTS)

	_, err := runApp(t, "convert", "-i", input, "--sync=false")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(filepath.Dir(input), "room.ptc"))
}

func TestConvertCommand_MalformedInput(t *testing.T) {
	input := writeTemp(t, "bad.pts", "1 2 3 4 5 6 7\n1 2\n")
	output := filepath.Join(t.TempDir(), "bad.ptc")

	_, err := runApp(t, "convert", "--input", input, "--output", output, "--sync=false")
	require.ErrorContains(t, err, "line 2")
	require.NoFileExists(t, output)
}

func TestConvertCommand_BadFlags(t *testing.T) {
	input := writeTemp(t, "scan.pts", samplePTS)

	_, err := runApp(t, "convert", "--input", input, "--compression", "brotli")
	require.ErrorContains(t, err, "brotli")

	_, err = runApp(t, "convert", "--input", input, "--buffer-size", "0")
	require.Error(t, err)

	_, err = runApp(t, "convert", "--input", filepath.Join(t.TempDir(), "missing.pts"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvertCommand_ConfigFile(t *testing.T) {
	input := writeTemp(t, "scan.pts", samplePTS)
	output := filepath.Join(t.TempDir(), "scan.ptc")
	config := writeTemp(t, "config.yaml", "packet_records: 1\nsync: false\n")

	out, err := runApp(t, "--config", config, "convert", "--input", input, "--output", output)
	require.NoError(t, err)
	require.Contains(t, out, "4 points, 4 packets")
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	require.NoError(t, err)

	_, _, library := document.Versions()
	require.Contains(t, out, library)
	require.Contains(t, out, document.FormatName)
}

func TestUnknownLogFormat(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), []string{"ptcloud", "--log-format", "xml", "version"})
	require.ErrorContains(t, err, "xml")
}

func TestApplyWriterConfig(t *testing.T) {
	bufferSize := 42
	sync := false
	cfg := Config{BufferSize: &bufferSize, Compression: "s2", TimeEncoding: "gorilla", Sync: &sync}

	var s writerSettings
	cmd := &cli.Command{
		Name:  "test",
		Flags: writerFlags(&s),
		Action: func(_ context.Context, cmd *cli.Command) error {
			applyWriterConfig(cmd, cfg, &s)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"test", "--compression", "lz4"}))

	require.Equal(t, 42, s.bufferSize)
	require.Equal(t, "lz4", s.compression)
	require.Equal(t, "gorilla", s.timeEncoding)
	require.Equal(t, document.DefaultPacketRecords, s.packetRecords)
	require.False(t, s.sync)
}

func TestApplyServeConfig(t *testing.T) {
	maxBody := int64(1024)
	cfg := Config{ServerAddress: ":9999", OutputDir: "/srv/scans", MaxBodyBytes: &maxBody}

	addr, dir, body := ":8080", "scans", int64(1)
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Destination: &addr},
			&cli.StringFlag{Name: "output-dir", Destination: &dir},
			&cli.Int64Flag{Name: "max-body", Destination: &body},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, cfg, &addr, &dir, &body)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"test", "--output-dir", "/tmp/in"}))

	require.Equal(t, ":9999", addr)
	require.Equal(t, "/tmp/in", dir)
	require.Equal(t, int64(1024), body)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := writeTemp(t, "bad.yaml", "buffer_size: [1, 2\n")
	_, err = LoadConfig(bad)
	require.Error(t, err)

	good := writeTemp(t, "config.yaml", "buffer_size: 0\ncompression: s2\nlog_level: debug\nserver_address: \":9000\"\n")
	cfg, err = LoadConfig(good)
	require.NoError(t, err)
	require.NotNil(t, cfg.BufferSize)
	require.Equal(t, 0, *cfg.BufferSize)
	require.Equal(t, "s2", cfg.Compression)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, ":9000", cfg.ServerAddress)
	require.Nil(t, cfg.PacketRecords)
}
