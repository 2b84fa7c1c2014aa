package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Parallel()

	units := newTestCache(t)
	s, err := NewServer(&ServerConfig{
		ProjectPath: t.TempDir(),
		Inliner:     &mockInliner{},
		Units:       units,
	})
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, "dev", s.config.Version)
	assert.NotNil(t, s.config.Writer)
}

func TestNewServer_MissingDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewServer(nil)
	assert.Error(t, err)

	_, err = NewServer(&ServerConfig{ProjectPath: t.TempDir()})
	assert.Error(t, err)
}
