package ftpserver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDriverErrorUnwraps(t *testing.T) {
	inner := errors.New("disk full")
	err := NewDriverError("write file", inner)

	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "disk full")
}

func TestNetworkErrorUnwraps(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewNetworkError("dial", inner)

	require.ErrorIs(t, err, inner)
}

func TestFileAccessErrorUnwraps(t *testing.T) {
	inner := errors.New("permission denied")
	err := NewFileAccessError("open", inner)

	require.ErrorIs(t, err, inner)
}
