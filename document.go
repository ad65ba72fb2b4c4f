package gcode

import (
	"errors"
	"fmt"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/gcode/config"
)

var (
	// ErrEmptyPath indicates a path without any knots.
	ErrEmptyPath = errors.New("path has no knots")
	// ErrEmptyLayer indicates a layer without any paths.
	ErrEmptyLayer = errors.New("layer has no paths")
	// ErrEmptyDocument indicates a document without any layers.
	ErrEmptyDocument = errors.New("document has no layers")
)

// === Paths =================================================================

// Path is an open or closed polyline toolpath. Paths are built with a
// chained builder API and are read-only afterwards:
//
//	p := gcode.NullPath().Knot(arithm.P(0, 0)).Knot(arithm.P(10, 0)).
//	    Knot(arithm.P(10, 10)).Knot(arithm.P(0, 10)).Cycle()
//
// Rendering never mutates a path.
type Path struct {
	points []arithm.Pair
	cycle  bool
	sealed bool
}

// NullPath creates an empty path, to be extended by subsequent builder
// calls.
func NullPath() *Path {
	return &Path{}
}

// Knot appends a vertex to the path.
func (p *Path) Knot(pt arithm.Pair) *Path {
	if p.sealed {
		panic("gcode: knot appended to sealed path")
	}
	p.points = append(p.points, pt)
	return p
}

// End seals the path as an open polyline.
func (p *Path) End() *Path {
	p.sealed = true
	return p
}

// Cycle seals the path as a closed polyline. The closing edge back to
// the first knot is implicit; clients should not repeat the first knot.
func (p *Path) Cycle() *Path {
	p.sealed = true
	p.cycle = true
	return p
}

// N returns the number of knots.
func (p *Path) N() int {
	return len(p.points)
}

// Z returns knot number i.
func (p *Path) Z(i int) arithm.Pair {
	return p.points[i]
}

// IsCycle is a predicate: is this path closed?
func (p *Path) IsCycle() bool {
	return p.cycle
}

// Points returns the path vertices in trace order. For closed paths the
// first knot is repeated at the end, so the result always describes the
// full sequence of segments to trace. The returned slice is a copy.
func (p *Path) Points() []arithm.Pair {
	pts := make([]arithm.Pair, 0, len(p.points)+1)
	pts = append(pts, p.points...)
	if p.cycle && len(p.points) > 0 {
		pts = append(pts, p.points[0])
	}
	return pts
}

// === Layers ================================================================

// Layer is a named group of paths sharing one resolved configuration.
// An optional configuration override is merged over the document
// defaults when the layer is rendered (see package config).
type Layer struct {
	name     string
	paths    []*Path
	override *config.Config
}

// NewLayer creates an empty layer. The override may be nil, in which
// case the layer inherits the document configuration unchanged.
func NewLayer(name string, override *config.Config) *Layer {
	return &Layer{name: name, override: override}
}

// Name returns the layer identifier.
func (l *Layer) Name() string {
	return l.name
}

// Override returns the layer's configuration override, or nil.
func (l *Layer) Override() *config.Config {
	return l.override
}

// AppendPath adds a sealed path to the layer.
func (l *Layer) AppendPath(p *Path) *Layer {
	if p == nil || p.N() == 0 {
		panic("gcode: nil or empty path appended to layer")
	}
	l.paths = append(l.paths, p)
	return l
}

// N returns the number of paths on the layer.
func (l *Layer) N() int {
	return len(l.paths)
}

// Path returns path number i of the layer.
func (l *Layer) Path(i int) *Path {
	return l.paths[i]
}

// === Documents =============================================================

// Document is an ordered sequence of layers. It is owned by the caller
// and read-only for rendering.
type Document struct {
	layers []*Layer
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// AppendLayer adds a layer to the document.
func (d *Document) AppendLayer(l *Layer) *Document {
	d.layers = append(d.layers, l)
	return d
}

// N returns the number of layers.
func (d *Document) N() int {
	return len(d.layers)
}

// Layer returns layer number i of the document.
func (d *Document) Layer(i int) *Layer {
	return d.layers[i]
}

// Check verifies that the document contains at least one layer, every
// layer at least one path, and every path at least one knot.
func (d *Document) Check() error {
	if len(d.layers) == 0 {
		return ErrEmptyDocument
	}
	for _, l := range d.layers {
		if len(l.paths) == 0 {
			return fmt.Errorf("layer %q: %w", l.name, ErrEmptyLayer)
		}
		for i, p := range l.paths {
			if p.N() == 0 {
				return fmt.Errorf("layer %q, path %d: %w", l.name, i, ErrEmptyPath)
			}
		}
	}
	return nil
}
