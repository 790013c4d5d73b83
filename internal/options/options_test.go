package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	capacity int
	name     string
	calls    []string
}

func (c *testConfig) setCapacity(n int) error {
	if n <= 0 {
		return errors.New("capacity must be positive")
	}
	c.capacity = n
	c.calls = append(c.calls, "capacity")

	return nil
}

func TestNew(t *testing.T) {
	cfg := &testConfig{}

	t.Run("applies value", func(t *testing.T) {
		err := New(func(c *testConfig) error { return c.setCapacity(1000) }).apply(cfg)
		require.NoError(t, err)
		require.Equal(t, 1000, cfg.capacity)
	})

	t.Run("propagates error", func(t *testing.T) {
		err := New(func(c *testConfig) error { return c.setCapacity(0) }).apply(cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "capacity must be positive")
		require.Equal(t, 1000, cfg.capacity)
	})
}

func TestNoError(t *testing.T) {
	cfg := &testConfig{}
	err := NoError(func(c *testConfig) { c.name = "scan" }).apply(cfg)
	require.NoError(t, err)
	require.Equal(t, "scan", cfg.name)
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg,
			New(func(c *testConfig) error { return c.setCapacity(10) }),
			NoError(func(c *testConfig) { c.calls = append(c.calls, "name") }),
			New(func(c *testConfig) error { return c.setCapacity(20) }),
		)
		require.NoError(t, err)
		require.Equal(t, 20, cfg.capacity)
		require.Equal(t, []string{"capacity", "name", "capacity"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg,
			New(func(c *testConfig) error { return c.setCapacity(-1) }),
			NoError(func(c *testConfig) { c.name = "unreachable" }),
		)
		require.Error(t, err)
		require.Empty(t, cfg.name)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply[*testConfig](cfg, nil, NoError(func(c *testConfig) { c.name = "ok" }))
		require.NoError(t, err)
		require.Equal(t, "ok", cfg.name)
	})
}
