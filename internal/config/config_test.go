// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default().Cache.MaxSize, cfg.Cache.MaxSize)
}

func TestLoadOverlaysYAMLOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	yamlBody := "port: 9090\ncache:\n  maxsize: 500\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 500, cfg.Cache.MaxSize)
	// Untouched defaults survive the overlay.
	require.Equal(t, Default().Router.LowMinStrength, cfg.Router.LowMinStrength)
}

func TestEnvOverridesTakePrecedence(t *testing.T) {
	t.Setenv("MAX_CACHE_SIZE", "42")
	t.Setenv("OPTIMIZATION_INTERVAL", "7")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, 42, cfg.Cache.MaxSize)
	require.Equal(t, int64(7), cfg.Optimizer.Interval)
}
