/*
Package heightmap provides surface elevation maps over a 2D domain.

Height maps drive surface compensation during G-code generation: the
auto-leveling head queries the map on every traced move to adjust the
Z height, and the adaptive power tool modulates tool power with the
surface elevation. Two variants are provided:

  - Raster maps: dense grids of samples loaded from grayscale images
    (PNG or TIFF), where pixel brightness maps linearly to elevation.
    Queries between grid points interpolate bilinearly; queries outside
    the grid clamp to the nearest edge sample.
  - Sparse maps: irregular (x, y, z) sample sets loaded from tabular
    files (CSV), interpolated by inverse-square-distance weighting over
    the nearest samples.

DepthAt is a pure function of the map's immutable sample set and the
query point. It never returns NaN: out-of-domain and degenerate inputs
resolve to the nearest valid sample, or to a flat 0 datum for maps
without usable samples. Maps are therefore safe for concurrent reads.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package heightmap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'gcode.heightmap'
func tracer() tracing.Trace {
	return tracing.Select("gcode.heightmap")
}

var (
	// ErrUnreadableMap indicates a missing or corrupt height map file.
	ErrUnreadableMap = errors.New("height map file cannot be read")
	// ErrUnsupportedFormat indicates an unrecognized file extension.
	ErrUnsupportedFormat = errors.New("unsupported height map format")
	// ErrMalformedRecord indicates a tabular record with fewer than
	// three fields.
	ErrMalformedRecord = errors.New("malformed height map record")
)

// Map is an elevation field over a 2D domain.
type Map interface {
	// DepthAt returns the elevation at (x, y). Implementations are
	// pure and deterministic and never return NaN.
	DepthAt(x, y float64) float64
}

// Bounded is a Map with a known rectangular sample domain.
type Bounded interface {
	Map
	// Bounds returns the extent of the sample domain. Queries are
	// valid on [0, width-1] × [0, height-1]; coordinates outside clamp
	// to the nearest edge sample.
	Bounds() (width, height int)
}

// Load reads a height map file, dispatching on the file extension:
// ".png", ".tif" and ".tiff" load raster maps, ".csv", ".txt" and
// ".xyz" load sparse maps. Missing or corrupt files fail with
// ErrUnreadableMap, unrecognized extensions with ErrUnsupportedFormat.
func Load(path string) (Map, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".tif", ".tiff":
		return LoadRaster(path)
	case ".csv", ".txt", ".xyz":
		return LoadSparse(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

func openMapFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableMap, err)
	}
	return f, nil
}
