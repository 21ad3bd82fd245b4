package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNopDoesNotPanic(t *testing.T) {
	var l Logger = Nop{}
	l.Warn("anything", Field{Key: "k", Value: "v"})
}

func TestZerologWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerolog(zerolog.New(&buf))

	z.Warn("decode failed", Field{Key: "offset", Value: 42})

	out := buf.String()
	require.Contains(t, out, "decode failed")
	require.Contains(t, out, "42")
}
