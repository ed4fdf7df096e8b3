package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Prefix: "worker", Writer: &buf})
	l.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "worker")
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Writer: &buf})
	l.Debug("should not appear")
	require.Zero(t, buf.Len(), "debug line leaked through default info level")

	l.Info("should appear")
	require.NotZero(t, buf.Len(), "info line missing at default level")
}
