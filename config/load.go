package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load parses a TOML configuration document. Top-level keys override
// the built-in defaults and become the document configuration; each
// [layer.<name>] table is merged over the document configuration and
// registered for that layer.
func Load(data []byte) (*Set, error) {
	document := Default()
	if err := toml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Second pass for the per-layer tables. Each table is round-tripped
	// through TOML onto a copy of the document configuration, so that
	// unspecified layer options inherit document values.
	var tables struct {
		Layer map[string]map[string]interface{} `toml:"layer"`
	}
	if err := toml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	set := NewSet(document)
	for name, table := range tables.Layer {
		layerCfg := document
		encoded, err := toml.Marshal(table)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q: %v", ErrInvalidConfig, name, err)
		}
		if err := toml.Unmarshal(encoded, &layerCfg); err != nil {
			return nil, fmt.Errorf("%w: layer %q: %v", ErrInvalidConfig, name, err)
		}
		tracer().Debugf("loaded configuration for layer %q", name)
		set.Put(name, layerCfg)
	}
	if err := set.Check(); err != nil {
		return nil, err
	}
	return set, nil
}

// LoadFile reads and parses a TOML configuration file.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}
	return Load(data)
}
