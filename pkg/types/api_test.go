package types

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMatchesByKind(t *testing.T) {
	err := New(ErrKindOutOfRange, "read 4 bytes at 0x10", nil)
	wrapped := fmt.Errorf("target foo.dll: %w", err)

	require.ErrorIs(t, wrapped, ErrOutOfRange)
	require.NotErrorIs(t, wrapped, ErrUnrecognized)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	require.Equal(t, ErrKindOutOfRange, kind)
}

func TestErrorUnwrapsCause(t *testing.T) {
	err := New(ErrKindIO, "open foo.dll", fs.ErrNotExist)

	require.ErrorIs(t, err, fs.ErrNotExist)
	require.ErrorIs(t, err, ErrIO)
	require.Equal(t, "open foo.dll: file does not exist", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	require.False(t, ok)
}

func TestErrKindString(t *testing.T) {
	require.Equal(t, "unknown choice", ErrKindUnknownChoice.String())
	require.Equal(t, "unknown", ErrKind(99).String())

	var nilErr *Error
	require.Equal(t, "<nil>", nilErr.Error())
}
