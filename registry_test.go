package ftpserver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryNextNumIncrements(t *testing.T) {
	r := newSessionRegistry()

	require.EqualValues(t, 0, r.nextNum())
	require.EqualValues(t, 1, r.nextNum())
	require.EqualValues(t, 2, r.nextNum())
}

func TestRegistryDoubleIncrementSkipsNumbers(t *testing.T) {
	r := newSessionRegistry()

	first := r.nextNum()
	r.bump()
	second := r.nextNum()

	require.EqualValues(t, first+2, second)
}

func TestRegistryAddRemoveSnapshot(t *testing.T) {
	r := newSessionRegistry()

	s1 := &session{num: r.nextNum()}
	s2 := &session{num: r.nextNum()}

	r.add(s1)
	r.add(s2)

	require.Equal(t, 2, r.len())
	require.Len(t, r.snapshot(), 2)

	r.remove(s1)

	require.Equal(t, 1, r.len())

	r.clear()

	require.Equal(t, 0, r.len())
}
