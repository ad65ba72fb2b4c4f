package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"

	"github.com/npillmayer/gcode"
	"github.com/npillmayer/gcode/config"
)

// renderToString renders doc and returns the generated program.
func renderToString(doc *gcode.Document, configs *config.Set) (string, error) {
	var out strings.Builder
	g := gcode.NewBuilder(&out)
	r := NewRenderer(g, configs)
	err := r.RenderDocument(doc)
	return out.String(), err
}

// statements strips comments and blank lines from a program.
func statements(program string) []string {
	var st []string
	for _, line := range strings.Split(program, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		st = append(st, line)
	}
	return st
}

// assertSubsequence checks that seq occurs in st in order, possibly
// with other statements in between.
func assertSubsequence(t *testing.T, st []string, seq ...string) {
	i := 0
	for _, s := range st {
		if i < len(seq) && s == seq[i] {
			i++
		}
	}
	if i != len(seq) {
		t.Errorf("Expected statement %q in sequence, not found:\n%s",
			seq[i], strings.Join(st, "\n"))
	}
}

func count(st []string, stmt string) int {
	n := 0
	for _, s := range st {
		if s == stmt {
			n++
		}
	}
	return n
}

func squareLayer(name string) *gcode.Layer {
	path := gcode.NullPath().Knot(arithm.P(0, 0)).Knot(arithm.P(10, 0)).
		Knot(arithm.P(10, 10)).Knot(arithm.P(0, 10)).Cycle()
	return gcode.NewLayer(name, nil).AppendPath(path)
}

func lineLayer(name string) *gcode.Layer {
	path := gcode.NullPath().Knot(arithm.P(0, 0)).Knot(arithm.P(5, 0)).End()
	return gcode.NewLayer(name, nil).AppendPath(path)
}

func TestRenderMarkerSquare(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	doc := gcode.NewDocument().AppendLayer(squareLayer("outline"))
	out, err := renderToString(doc, config.NewSet(config.Default()))
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"G90",
		"G94",
		"G21",
		"G17",
		"G0 Z10",         // clear the workpiece
		"G1 X0 Y0 F1000", // travel to the path start
		"G1 Z1",          // two-stage plunge
		"G1 Z0 F100",
		"G1 X10 Y0 F500", // trace the square
		"G1 X10 Y10",
		"G1 X0 Y10",
		"G1 X0 Y0",
		"G0 Z1",  // retract between paths
		"G0 Z10", // layer end
		"G0 Z10",
		"G0 Z50", // park
		"G53 G0 X0 Y0",
		"M2",
	}, statements(out))
}

func TestRenderHeaderComments(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	doc := gcode.NewDocument().AppendLayer(squareLayer("outline"))
	out, err := renderToString(doc, config.NewSet(config.Default()))
	assert.NoError(t, err)
	assert.Contains(t, out, "; Generated by: gcode v"+gcode.Version)
	assert.Contains(t, out, "; Number of layers: 1")
	assert.Contains(t, out, "; @set tool = marker")
	assert.Contains(t, out, "; Layer: outline")
}

func TestRenderAutomaticToolChange(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	docCfg := config.Default()
	docCfg.Tool = config.ToolSpindle
	docCfg.Rack = config.RackAutomatic
	configs := config.NewSet(docCfg)
	second := docCfg
	second.ToolNumber = 2
	configs.Put("second", second)

	doc := gcode.NewDocument().
		AppendLayer(lineLayer("first")).
		AppendLayer(lineLayer("second"))
	out, err := renderToString(doc, configs)
	assert.NoError(t, err)
	st := statements(out)
	assertSubsequence(t, st,
		"M3 S1000",      // spindle up for layer one
		"G1 X5 Y0 F500", // layer one trace
		"M5",            // spindle down before the change
		"G0 Z50",   // park
		"G53 G0 X0 Y0",
		"T2 M6", // automatic tool change
		"M3 S1000",
		"G4 P2",
		"M2",
	)
	assert.Equal(t, 1, count(st, "T2 M6"))
	assert.Equal(t, 2, count(st, "M5"), "each activated tool is shut down once")
}

func TestRenderManualToolChange(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	docCfg := config.Default()
	docCfg.Rack = config.RackManual
	configs := config.NewSet(docCfg)
	second := docCfg
	second.ToolNumber = 5
	configs.Put("second", second)

	doc := gcode.NewDocument().
		AppendLayer(lineLayer("first")).
		AppendLayer(lineLayer("second"))
	out, err := renderToString(doc, configs)
	assert.NoError(t, err)
	assertSubsequence(t, statements(out), "T5", "M0")
}

func TestRenderToolChangeWithoutRack(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	configs := config.NewSet(config.Default())
	second := config.Default()
	second.ToolNumber = 2
	configs.Put("second", second)

	doc := gcode.NewDocument().
		AppendLayer(lineLayer("first")).
		AppendLayer(lineLayer("second"))
	out, err := renderToString(doc, configs)
	if !errors.Is(err, ErrToolChangeWithoutRack) {
		t.Errorf("Expected ErrToolChangeWithoutRack, got %v", err)
	}
	assert.Empty(t, statements(out), "nothing is emitted for an infeasible document")
}

func TestRenderOutsideWorkArea(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var out strings.Builder
	g := gcode.NewBuilder(&out)
	g.SetWorkArea(gcode.RectangularWorkArea(arithm.P(0, 0), arithm.P(50, 50)))
	r := NewRenderer(g, config.NewSet(config.Default()))

	path := gcode.NullPath().Knot(arithm.P(0, 0)).Knot(arithm.P(100, 0)).End()
	doc := gcode.NewDocument().
		AppendLayer(gcode.NewLayer("wide", nil).AppendPath(path))
	err := r.RenderDocument(doc)
	if !errors.Is(err, ErrPathOutsideWorkArea) {
		t.Errorf("Expected ErrPathOutsideWorkArea, got %v", err)
	}
	assert.Empty(t, statements(out.String()))
}

func TestRenderEmptyDocument(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := renderToString(gcode.NewDocument(), config.NewSet(config.Default()))
	if !errors.Is(err, gcode.ErrEmptyDocument) {
		t.Errorf("Expected ErrEmptyDocument, got %v", err)
	}
}

// flatMapFile writes a constant-elevation 16-bit height map image and
// returns its path and the elevation it encodes.
func flatMapFile(t *testing.T, gray uint16) (string, float64) {
	t.Helper()
	img := image.NewGray16(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetGray16(x, y, color.Gray16{Y: gray})
		}
	}
	path := filepath.Join(t.TempDir(), "flat.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("cannot write height map: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("cannot encode height map: %v", err)
	}
	return path, float64(gray) / 65535.0
}

func TestRenderAutoLeveling(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path, _ := flatMapFile(t, 32768) // scaled elevation rounds to Z1 below
	docCfg := config.Default()
	docCfg.Head = config.HeadAutoLeveling
	docCfg.HeightMapPath = path
	docCfg.HeightMapScale = 2.0

	toolpath := gcode.NullPath().Knot(arithm.P(0, 0)).Knot(arithm.P(3, 0)).
		Knot(arithm.P(3, 3)).End()
	doc := gcode.NewDocument().
		AppendLayer(gcode.NewLayer("carve", nil).AppendPath(toolpath))
	out, err := renderToString(doc, config.NewSet(docCfg))
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"G90",
		"G94",
		"G21",
		"G17",
		"G0 Z10",
		"G1 X0 Y0 F1000",
		"G1 Z2", // plunge heights follow the surface
		"G1 Z1 F100",
		"G1 X3 Y0 Z1 F500", // traces carry the compensated Z
		"G1 X3 Y3 Z1",
		"G0 Z1",
		"G0 Z10",
		"G0 Z10",
		"G0 Z50",
		"G53 G0 X0 Y0",
		"M2",
	}, statements(out))
}

func TestRenderAdaptiveBeam(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path, elevation := flatMapFile(t, 32768)
	docCfg := config.Default()
	docCfg.Tool = config.ToolBeam
	docCfg.Power = config.PowerAdaptive
	docCfg.PowerLevel = 50
	docCfg.HeightMapPath = path
	docCfg.HeightMapScale = 1.0

	doc := gcode.NewDocument().
		AppendLayer(gcode.NewLayer("engrave", nil).AppendPath(
			gcode.NullPath().Knot(arithm.P(0, 0)).Knot(arithm.P(3, 0)).
				Knot(arithm.P(3, 3)).End()))
	out, err := renderToString(doc, config.NewSet(docCfg))
	assert.NoError(t, err)
	st := statements(out)
	assertSubsequence(t, st,
		"M3 S0",    // beam armed at zero power
		"S50",      // per-path power on
		"G4 P2",    // warmup
		"S0",       // power off after the path
		"M5",       // beam disarmed at document end
		"M2",
	)
	// Power is modulated before every traced move.
	want := 50 * (1 + elevation)
	adaptive := 0
	for _, s := range st {
		if strings.HasPrefix(s, "S75.") {
			adaptive++
		}
	}
	assert.Equal(t, 2, adaptive, "expected one S word per trace, power %.4f", want)
}

func TestRenderLayerOverride(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	override := config.Default()
	override.WorkSpeed = 250
	layer := gcode.NewLayer("slow", &override).AppendPath(
		gcode.NullPath().Knot(arithm.P(0, 0)).Knot(arithm.P(5, 0)).End())
	doc := gcode.NewDocument().AppendLayer(layer)
	out, err := renderToString(doc, config.NewSet(config.Default()))
	assert.NoError(t, err)
	assertSubsequence(t, statements(out), "G1 X5 Y0 F250")
}

func TestRenderCoolantAndFan(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	docCfg := config.Default()
	docCfg.Coolant = config.CoolantFlood
	docCfg.Fan = config.FanCooling
	docCfg.FanSpeed = 128
	doc := gcode.NewDocument().AppendLayer(lineLayer("cut"))
	out, err := renderToString(doc, config.NewSet(docCfg))
	assert.NoError(t, err)
	st := statements(out)
	assertSubsequence(t, st, "M8", "M106 S128", "G1 X5 Y0 F500", "M9", "M107", "M2")
}

func TestRenderHeatedBed(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	docCfg := config.Default()
	docCfg.Bed = config.BedHeated
	docCfg.BedTemperature = 60
	doc := gcode.NewDocument().AppendLayer(lineLayer("print"))
	out, err := renderToString(doc, config.NewSet(docCfg))
	assert.NoError(t, err)
	st := statements(out)
	assertSubsequence(t, st, "M190 S60", "G1 X5 Y0 F500", "M140 S0", "M2")
	assert.Equal(t, 1, count(st, "M190 S60"), "the bed heats once per document")
}

func TestComponentFactory(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cfg := config.Default()
	comps, err := newComponents(&cfg)
	assert.NoError(t, err)
	assert.IsType(t, markerTool{}, comps.tool)
	assert.IsType(t, standardHead{}, comps.head)
	assert.IsType(t, offRack{}, comps.rack)

	cfg.Tool = config.ToolBeam
	cfg.Power = config.PowerAdaptive
	cfg.Head = config.HeadAutoLeveling
	comps, err = newComponents(&cfg)
	assert.NoError(t, err)
	assert.IsType(t, adaptiveBeamTool{}, comps.tool)
	assert.IsType(t, levelingHead{}, comps.head)
}
