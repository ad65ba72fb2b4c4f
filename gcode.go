/*
Package gcode generates G-code programs for CNC machines, laser and
beam engravers, extruder-style devices, and pen plotters.

The package is organized around three building blocks:

  - A Document type holding layers of polyline paths, constructed with
    a builder API similar to the path builders in package arithm/jhobby.
  - A Builder type that emits well-formed G-code statements and keeps
    track of head position, feed rates and machine work-area limits.
  - Sub-package render, which walks a document layer by layer and
    drives pluggable machine components (head, tool, rack, coolant,
    fan, bed) to produce a complete program.

Sub-package heightmap supplies surface elevation maps used by the
auto-leveling head and the adaptive power tool to compensate Z-height
and tool power for surface variation.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package gcode

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'gcode'
func tracer() tracing.Trace {
	return tracing.Select("gcode")
}

// Version of this package, included in generated program headers.
const Version = "0.2"
