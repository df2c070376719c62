package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServerConfig_Defaults(t *testing.T) {
	cfg, err := ParseServerConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9001", cfg.Addr)
	assert.Equal(t, "AAPL", cfg.Symbol)
	assert.Equal(t, 10, cfg.Workers)
	assert.False(t, cfg.Journaling)
}

func TestParseServerConfig_Overrides(t *testing.T) {
	cfg, err := ParseServerConfig([]string{"-addr", ":9100", "-symbol", "MSFT", "-workers", "4", "-journaling"})
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Addr)
	assert.Equal(t, "MSFT", cfg.Symbol)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Journaling)
}

func TestParseClientConfig_Defaults(t *testing.T) {
	cfg, err := ParseClientConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9001", cfg.ServerAddr)
	assert.Equal(t, "limit", cfg.Action)
	assert.Equal(t, "buy", cfg.Side)
	assert.Equal(t, "gtc", cfg.TIF)
}

func TestParseClientConfig_RejectsUnknownFlag(t *testing.T) {
	_, err := ParseClientConfig([]string{"-bogus", "1"})
	assert.Error(t, err)
}
