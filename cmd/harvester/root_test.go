package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-campus-harvester/internal/capture"
	"go-campus-harvester/internal/config"
)

func TestSelectSources(t *testing.T) {
	cfg := &config.Config{}
	cfg.Sources.Bytedance.Enabled = true

	sources, err := selectSources(cfg, capture.Options{}, nil)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "bytedance", sources[0].Key)

	sources, err = selectSources(cfg, capture.Options{}, []string{"tencent"})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "tencent", sources[0].Key, "named sources run even when disabled")

	_, err = selectSources(&config.Config{}, capture.Options{}, nil)
	assert.Error(t, err)

	_, err = selectSources(cfg, capture.Options{}, []string{"nope"})
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "fetch", "clean", "version"} {
		assert.True(t, names[want], want)
	}

	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, config.DefaultPath, flag.DefValue)
}
