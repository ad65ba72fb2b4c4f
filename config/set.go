package config

import (
	"github.com/emirpasic/gods/maps/treemap"
)

// Set resolves configurations per layer. It holds the document default
// plus zero or more complete per-layer configurations, kept sorted by
// layer name. Layer configurations are fully resolved at insertion:
// For never merges, it only selects.
type Set struct {
	document Config
	layers   *treemap.Map // layer name -> Config
}

// NewSet creates a configuration set with the given document default.
func NewSet(document Config) *Set {
	return &Set{
		document: document,
		layers:   treemap.NewWithStringComparator(),
	}
}

// Document returns the document-level configuration.
func (s *Set) Document() Config {
	return s.document
}

// Put registers a resolved configuration for a layer, replacing any
// previous one.
func (s *Set) Put(layer string, c Config) {
	s.layers.Put(layer, c)
}

// For returns the configuration resolved for a layer: its registered
// configuration if present, the document default otherwise.
func (s *Set) For(layer string) Config {
	if c, ok := s.layers.Get(layer); ok {
		return c.(Config)
	}
	return s.document
}

// HasLayer is a predicate: does the set hold a configuration
// specifically for this layer?
func (s *Set) HasLayer(layer string) bool {
	_, ok := s.layers.Get(layer)
	return ok
}

// Layers returns the names of all layers with a registered
// configuration, in sorted order.
func (s *Set) Layers() []string {
	keys := s.layers.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.(string)
	}
	return names
}

// Check verifies the document configuration and every layer
// configuration in the set.
func (s *Set) Check() error {
	if err := s.document.Check(); err != nil {
		return err
	}
	it := s.layers.Iterator()
	for it.Next() {
		c := it.Value().(Config)
		if err := c.Check(); err != nil {
			return err
		}
	}
	return nil
}
