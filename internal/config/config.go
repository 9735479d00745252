// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the gateway's YAML configuration, the way the
// teacher's internal/config/config.go loads its own root Config: read the
// file, set defaults before unmarshal so omitted keys keep them, then
// unmarshal over those defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/traylinx/semantic-gateway/internal/batcher"
	"github.com/traylinx/semantic-gateway/internal/cache"
	"github.com/traylinx/semantic-gateway/internal/llmprovider"
	"github.com/traylinx/semantic-gateway/internal/optimizer"
	"github.com/traylinx/semantic-gateway/internal/router"
)

// Config is the gateway's root configuration, matching spec.md §6's
// "Configuration (environment)" list plus the ambient server settings the
// teacher's own Config always carries (host/port, logging).
type Config struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`

	LoggingToFile bool   `yaml:"logging-to-file" json:"logging-to-file"`
	LogDir        string `yaml:"log-dir" json:"log-dir"`
	Debug         bool   `yaml:"debug" json:"debug"`

	CatalogPath string `yaml:"catalog-path" json:"catalog-path"`

	// EmbeddingModel names a model directory under the embedding.ModelLocator
	// base directory (model.onnx + vocab.txt). The gateway falls back to the
	// dependency-free HashProvider whenever that directory doesn't exist,
	// which is also what the default value "hash-fallback" guarantees.
	EmbeddingModel     string `yaml:"embedding-model" json:"embedding-model"`
	EmbeddingDimension int    `yaml:"embedding-dimension" json:"embedding-dimension"`

	// EmbeddingModelBaseDir overrides embedding.ModelLocator's default
	// "~/.semantic-gateway/models" base directory; left empty in most
	// deployments.
	EmbeddingModelBaseDir string `yaml:"embedding-model-base-dir" json:"embedding-model-base-dir"`

	LLMProvider struct {
		BaseURL string `yaml:"base-url" json:"base-url"`
		APIKey  string `yaml:"api-key" json:"-"`
	} `yaml:"llm-provider" json:"llm_provider"`

	Cache     cache.Config     `yaml:"cache" json:"cache"`
	Router    router.Config    `yaml:"router" json:"router"`
	Batcher   batcher.Config   `yaml:"batcher" json:"batcher"`
	Optimizer optimizer.Config `yaml:"optimizer" json:"optimizer"`

	Pricing map[string]llmprovider.PricingEntry `yaml:"pricing" json:"pricing"`
}

// Default returns a Config with every subsystem's own defaults nested in,
// matching spec.md §4's stated default values.
func Default() Config {
	return Config{
		Host: "",
		Port: 8080,

		LoggingToFile: false,
		LogDir:        "./logs",
		Debug:         false,

		CatalogPath: "./catalog.yaml",

		EmbeddingModel:     "hash-fallback",
		EmbeddingDimension: 768,

		Cache:     cache.DefaultConfig(),
		Router:    router.DefaultConfig(),
		Batcher:   batcher.DefaultConfig(),
		Optimizer: optimizer.DefaultConfig(),

		Pricing: map[string]llmprovider.PricingEntry{},
	}
}

// Load reads YAML from path and overlays it onto Default(), so omitted
// keys keep their defaults rather than zero-valuing the whole struct.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides lets deployment environments override the handful of
// settings spec.md §6 names explicitly as environment configuration,
// without requiring a YAML edit — mirroring the teacher's pattern of
// layering environment state on top of a parsed Config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}
	// LLM_MODEL names a catalog entry selected per-request by the router;
	// it has no corresponding Config field to override.
	if v := os.Getenv("MAX_CACHE_SIZE"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			cfg.Cache.MaxSize = n
		}
	}
	if v := os.Getenv("OPTIMIZATION_INTERVAL"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			cfg.Optimizer.Interval = int64(n)
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLMProvider.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLMProvider.BaseURL = v
	}
}

func parsePositiveInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("config: value %q must be positive", s)
	}
	return n, nil
}
