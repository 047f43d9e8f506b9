package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/tagq/internal/config"
)

func TestServerConfigFlagsOverride(t *testing.T) {
	resetFlags(serveCmd)
	t.Cleanup(func() { resetFlags(serveCmd) })
	base := config.ServerConfig{Addr: ":8000", MaxTags: 15, Fuzzy: true, CORSOrigins: []string{"*"}}

	assert.Equal(t, base, serverConfig(serveCmd, base))

	require.NoError(t, serveCmd.Flags().Parse([]string{
		"--addr", "127.0.0.1:9000", "--max-tags", "5", "--no-fuzzy", "--cors-origin", "http://a,http://b", "--tags-file", "t.yaml",
	}))
	got := serverConfig(serveCmd, base)
	assert.Equal(t, config.ServerConfig{
		Addr:        "127.0.0.1:9000",
		TagsFile:    "t.yaml",
		MaxTags:     5,
		Fuzzy:       false,
		CORSOrigins: []string{"http://a", "http://b"},
	}, got)
}

func TestCLI_ServeStopsOnCancel(t *testing.T) {
	orig := serveContext
	serveContext = func(parent context.Context) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(parent)
		cancel()
		return ctx, cancel
	}
	t.Cleanup(func() { serveContext = orig })

	_, err := runCLI(t, "serve", "--addr", "127.0.0.1:0", "--tags-file", writeTags(t))
	require.NoError(t, err)
}

func TestCLI_ServeBadTagsFile(t *testing.T) {
	_, err := runCLI(t, "serve", "--addr", "127.0.0.1:0", "--tags-file", "does-not-exist.yaml")
	require.Error(t, err)
}
