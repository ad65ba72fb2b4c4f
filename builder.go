package gcode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrOutOfBounds indicates a move outside the machine work area.
	ErrOutOfBounds = errors.New("move exceeds machine work area")
)

// Position is the absolute location of the machine head.
type Position struct {
	X, Y, Z float64
}

// Builder emits G-code statements and keeps track of the machine state
// needed to do so safely: current head position, last feed rate, and
// the machine work-area limits. All emission goes through this type;
// no other part of the package writes raw G-code.
//
// Write and bounds errors are sticky: the first error suppresses all
// further output and is reported by Err and Flush. A Builder is not
// safe for concurrent use.
type Builder struct {
	out      *bufio.Writer
	err      error
	pos      Position
	feed     float64
	hasFeed  bool
	area     *WorkArea
	programs int // statements written so far
}

// NewBuilder creates a Builder writing to w.
func NewBuilder(w io.Writer) *Builder {
	return &Builder{out: bufio.NewWriter(w)}
}

// SetWorkArea installs machine work-area limits. Subsequent moves with
// an XY target outside the area fail with ErrOutOfBounds. A nil area
// disables the check.
func (b *Builder) SetWorkArea(area *WorkArea) {
	b.area = area
}

// WorkArea returns the installed work-area limits, or nil.
func (b *Builder) WorkArea() *WorkArea {
	return b.area
}

// Err returns the first write or bounds error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Flush writes buffered output to the underlying writer and returns
// the first error encountered during emission.
func (b *Builder) Flush() error {
	if b.err != nil {
		return b.err
	}
	return b.out.Flush()
}

// Position returns the current head position as tracked by the builder.
func (b *Builder) Position() Position {
	return b.pos
}

// Statements returns the number of statements emitted so far.
func (b *Builder) Statements() int {
	return b.programs
}

// === Low level emission ====================================================

// Statement emits a raw G-code line. The caller is responsible for its
// syntactic validity; prefer the typed methods.
func (b *Builder) Statement(line string) {
	if b.err != nil {
		return
	}
	if _, err := b.out.WriteString(line + "\n"); err != nil {
		b.err = err
		tracer().Errorf("gcode output failed: %v", err)
		return
	}
	b.programs++
}

// Comment emits a comment line.
func (b *Builder) Comment(text string) {
	b.Statement("; " + text)
}

// checkBounds verifies an XY target against the work area. On failure
// it records a sticky ErrOutOfBounds.
func (b *Builder) checkBounds(x, y float64) bool {
	if b.err != nil {
		return false
	}
	if b.area != nil && !b.area.Contains(x, y) {
		b.err = fmt.Errorf("%w: (%s, %s)", ErrOutOfBounds, fnum(x), fnum(y))
		tracer().Errorf("%v", b.err)
		return false
	}
	return true
}

// emitMove writes a motion statement from pre-formatted words.
func (b *Builder) emitMove(code string, words []string, feed float64, withFeed bool) {
	if withFeed && (!b.hasFeed || feed != b.feed) {
		words = append(words, "F"+fnum(feed))
		b.feed = feed
		b.hasFeed = true
	}
	b.Statement(code + " " + strings.Join(words, " "))
}

// === Motion ================================================================

// MoveTo emits a linear move to (x, y) at the given feed rate.
func (b *Builder) MoveTo(x, y, feed float64) {
	if !b.checkBounds(x, y) {
		return
	}
	b.emitMove("G1", []string{"X" + fnum(x), "Y" + fnum(y)}, feed, true)
	b.pos.X, b.pos.Y = x, y
}

// MoveXYZ emits a linear move to (x, y, z) at the given feed rate.
func (b *Builder) MoveXYZ(x, y, z, feed float64) {
	if !b.checkBounds(x, y) {
		return
	}
	b.emitMove("G1", []string{"X" + fnum(x), "Y" + fnum(y), "Z" + fnum(z)}, feed, true)
	b.pos = Position{X: x, Y: y, Z: z}
}

// MoveZ emits a linear move of the Z axis only.
func (b *Builder) MoveZ(z, feed float64) {
	b.emitMove("G1", []string{"Z" + fnum(z)}, feed, true)
	b.pos.Z = z
}

// RapidTo emits a rapid (non-cutting) move to (x, y).
func (b *Builder) RapidTo(x, y float64) {
	if !b.checkBounds(x, y) {
		return
	}
	b.emitMove("G0", []string{"X" + fnum(x), "Y" + fnum(y)}, 0, false)
	b.pos.X, b.pos.Y = x, y
}

// RapidZ emits a rapid move of the Z axis only.
func (b *Builder) RapidZ(z float64) {
	b.emitMove("G0", []string{"Z" + fnum(z)}, 0, false)
	b.pos.Z = z
}

// RapidAbsolute emits a rapid move to (x, y) in absolute machine
// coordinates, bypassing any active offsets.
func (b *Builder) RapidAbsolute(x, y float64) {
	b.emitMove("G53 G0", []string{"X" + fnum(x), "Y" + fnum(y)}, 0, false)
	b.pos.X, b.pos.Y = x, y
}

// fnum formats a coordinate or feed value with up to four decimals,
// trailing zeros trimmed.
func fnum(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
