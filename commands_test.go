package ftpserver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommandLine(t *testing.T) {
	cases := []struct {
		line, verb, arg string
	}{
		{"NOOP\r\n", "NOOP", ""},
		{"USER anonymous\r\n", "USER", "anonymous"},
		{"PORT 127,0,0,1,195,80\r\n", "PORT", "127,0,0,1,195,80"},
		{"RETR some file with spaces.txt\r\n", "RETR", "some file with spaces.txt"},
	}

	for _, c := range cases {
		verb, arg := parseCommandLine(c.line)
		require.Equal(t, c.verb, verb)
		require.Equal(t, c.arg, arg)
	}
}

func TestAddCommandFillsSlotsThenFails(t *testing.T) {
	srv := NewServer(newMemDriver())

	noop := func(ClientSession, string) error { return nil }

	for i := 0; i < maxCustomCommands; i++ {
		require.NoError(t, srv.AddCommand("X"+string(rune('A'+i)), noop))
	}

	require.ErrorIs(t, srv.AddCommand("OVERFLOW", noop), ErrCustomCommandSlotsFull)
}

func TestRemoveCommandUnknown(t *testing.T) {
	srv := NewServer(newMemDriver())

	require.ErrorIs(t, srv.RemoveCommand("NOSUCHCOMMAND"), ErrUnknownCustomCommand)
}

func TestAddThenRemoveCommandFreesSlot(t *testing.T) {
	srv := NewServer(newMemDriver())

	fn := func(ClientSession, string) error { return nil }

	require.NoError(t, srv.AddCommand("ABCD", fn))
	require.NoError(t, srv.RemoveCommand("ABCD"))

	_, ok := srv.lookupCustom("ABCD")
	require.False(t, ok)
}
