package ftpserver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsApplyDefaults(t *testing.T) {
	s := &Settings{}
	s.applyDefaults()

	require.NotNil(t, s.Network)
	require.Equal(t, defaultFileBufSize, s.FileBufSize)
	require.Equal(t, defaultConnectTimeout, s.ConnectTimeout)
}

func TestSettingsApplyDefaultsPreservesOverrides(t *testing.T) {
	s := &Settings{FileBufSize: 1024, ConnectTimeout: 5}
	s.applyDefaults()

	require.Equal(t, 1024, s.FileBufSize)
	require.Equal(t, 5, s.ConnectTimeout)
}

func TestNewOSClientDriverImplementsSymlinkExtension(t *testing.T) {
	d := NewOSClientDriver()

	_, ok := d.(ClientDriverExtensionSymlink)
	require.True(t, ok)
}
