package gcode

import (
	"github.com/akavel/polyclip-go"
	"github.com/npillmayer/arithm"
)

// WorkArea is the region of the XY plane the machine head may enter.
// Most machines have a rectangular work area, but polygonal outlines
// are supported for machines with clamps or fixtures protruding into
// the bed.
type WorkArea struct {
	outline polyclip.Contour
}

// RectangularWorkArea creates a work area from two opposite corners.
func RectangularWorkArea(corner1, corner2 arithm.Pair) *WorkArea {
	llx, urx := corner1.X(), corner2.X()
	if llx > urx {
		llx, urx = urx, llx
	}
	lly, ury := corner1.Y(), corner2.Y()
	if lly > ury {
		lly, ury = ury, lly
	}
	outline := polyclip.Contour{
		{X: llx, Y: lly},
		{X: urx, Y: lly},
		{X: urx, Y: ury},
		{X: llx, Y: ury},
	}
	return &WorkArea{outline: outline}
}

// PolygonalWorkArea creates a work area from a closed outline given as
// a sequence of at least 3 vertices.
func PolygonalWorkArea(vertices []arithm.Pair) *WorkArea {
	if len(vertices) < 3 {
		panic("gcode: work area outline needs at least 3 vertices")
	}
	outline := make(polyclip.Contour, len(vertices))
	for i, v := range vertices {
		outline[i] = polyclip.Point{X: v.X(), Y: v.Y()}
	}
	return &WorkArea{outline: outline}
}

// Contains is a predicate: is (x, y) inside the work area?
// Points exactly on the outline count as inside.
func (a *WorkArea) Contains(x, y float64) bool {
	p := polyclip.Point{X: x, Y: y}
	if a.outline.Contains(p) {
		return true
	}
	// Contour.Contains is exclusive of the outline itself; accept
	// points within epsilon of it by testing a slightly grown box.
	for _, q := range a.outline {
		if arithm.Is0(q.X-x) && arithm.Is0(q.Y-y) {
			return true
		}
	}
	box := a.boundingBox()
	if x < box.Min.X-arithm.Epsilon || x > box.Max.X+arithm.Epsilon ||
		y < box.Min.Y-arithm.Epsilon || y > box.Max.Y+arithm.Epsilon {
		return false
	}
	// On or very near an edge: nudge inward and retest.
	cx := (box.Min.X + box.Max.X) / 2
	cy := (box.Min.Y + box.Max.Y) / 2
	nx := x + arithm.Epsilon*sign(cx-x)
	ny := y + arithm.Epsilon*sign(cy-y)
	return a.outline.Contains(polyclip.Point{X: nx, Y: ny})
}

// ClipsPath is a predicate: does any part of the path fall outside the
// work area? Closed paths are tested as polygons against the outline;
// open paths vertex by vertex.
func (a *WorkArea) ClipsPath(p *Path) bool {
	if p.IsCycle() && p.N() >= 3 {
		subject := make(polyclip.Contour, p.N())
		for i := 0; i < p.N(); i++ {
			subject[i] = polyclip.Point{X: p.Z(i).X(), Y: p.Z(i).Y()}
		}
		outside := polyclip.Polygon{subject}.Construct(
			polyclip.DIFFERENCE, polyclip.Polygon{a.outline})
		for _, c := range outside {
			if len(c) >= 3 && !degenerateContour(c) {
				return true
			}
		}
		return false
	}
	for i := 0; i < p.N(); i++ {
		if !a.Contains(p.Z(i).X(), p.Z(i).Y()) {
			return true
		}
	}
	return false
}

func (a *WorkArea) boundingBox() polyclip.Rectangle {
	return a.outline.BoundingBox()
}

// degenerateContour is a predicate: does the contour enclose a region
// of (numerically) zero area? Clipping may leave slivers along shared
// edges which do not constitute a bounds violation.
func degenerateContour(c polyclip.Contour) bool {
	var area float64
	for i := range c {
		j := (i + 1) % len(c)
		area += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	if area < 0 {
		area = -area
	}
	return arithm.Is0(area)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
