/*
Package render walks a document layer by layer and turns it into a
G-code program.

The Renderer delegates machine operations to six pluggable components,
one per machine subsystem:

  - Head: movement (travel, plunge, trace, retract, park)
  - Tool: the active tool (activation, power)
  - Rack: tool changes
  - Coolant: coolant system
  - Fan: part cooling fan
  - Bed: machine bed

Each component is a small strategy selected per layer from the
configured mode, so machines with different capabilities swap variants
without touching the renderer's sequencing logic. The renderer walks
the hierarchy Document → Layers → Paths → Segments and owns all
machine state (active tool, plunge/retract state); components stay
stateless and only read the rendering context.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package render

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'gcode.render'
func tracer() tracing.Trace {
	return tracing.Select("gcode.render")
}

var (
	// ErrToolChangeWithoutRack indicates a layer requiring a different
	// tool number while the rack mode is "off".
	ErrToolChangeWithoutRack = errors.New("tool change requires a rack, but rack mode is off")
	// ErrPathOutsideWorkArea indicates a toolpath exceeding the machine
	// work area.
	ErrPathOutsideWorkArea = errors.New("toolpath exceeds machine work area")
	// ErrRendererBusy indicates a renderer re-used while a document is
	// being processed.
	ErrRendererBusy = errors.New("renderer is already processing a document")
)
