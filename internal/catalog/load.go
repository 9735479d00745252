// Copyright 2026 The switchAILocal Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSchema is the on-disk shape of a catalog YAML file.
type fileSchema struct {
	Models []Model `yaml:"models"`
}

// LoadFile reads a catalog from a YAML file on disk. The file is parsed
// once at startup; the resulting Catalog is immutable thereafter (spec §5).
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var schema fileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(schema.Models) == 0 {
		return nil, fmt.Errorf("catalog: %s defines no models", path)
	}

	return New(schema.Models), nil
}
