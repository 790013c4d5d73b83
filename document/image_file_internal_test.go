package document

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// closeFailure closes the underlying file and reports err anyway.
type closeFailure struct {
	output
	err error
}

func (c closeFailure) Close() error {
	_ = c.output.Close()
	return c.err
}

func TestImageFile_CloseFailureRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "close.ptc")
	f, err := Create(path, WithSync(false))
	require.NoError(t, err)
	require.NoError(t, f.Root().Set("name", NewStringNode(f, "scan")))

	ioErr := errors.New("input/output error")
	f.file = closeFailure{output: f.file, err: ioErr}

	err = f.Close()
	require.ErrorIs(t, err, ioErr)
	require.False(t, f.IsOpen())
	require.NoFileExists(t, path)
	require.NoError(t, f.Close())
}
