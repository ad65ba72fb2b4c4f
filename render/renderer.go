package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/gcode"
	"github.com/npillmayer/gcode/config"
	"github.com/npillmayer/gcode/heightmap"
)

// The renderer is a state machine:
//
//	Idle → DocumentStarted → (LayerStarted → (PathStarted →
//	PathEnded)* → LayerEnded)* → DocumentEnded
//
// Generation is a straight depth-first traversal: generation order is
// instruction order. Head operations are always invoked in the fixed
// order travel → plunge → trace* → retract; a violation of that order
// is a bug in the renderer itself and panics instead of emitting
// unsafe motion.
type rendererState int

const (
	stateIdle rendererState = iota
	stateDocument
	stateLayer
	statePath
)

const headerSeparator = "============================================================"
const sectionSeparator = "------------------------------------------------------------"

// Renderer converts a document into a G-code program, delegating the
// machine operations to per-layer component sets. A Renderer is not
// safe for concurrent use; RenderDocument must finish before the next
// call.
type Renderer struct {
	g       *gcode.Builder
	configs *config.Set
	maps    map[string]heightmap.Map // height maps cached by path

	state   rendererState
	plunged bool

	// Tool and rack state persists across layers to detect changes.
	activeToolNumber int // 0 while no tool was activated yet
	activeToolMode   config.ToolMode
	activeTool       Tool
	coolantOn        bool
	fanOn            bool
	bedOn            bool

	docCtx *Context
	ctx    *Context    // current layer context
	comps  *components // current layer component set
}

// NewRenderer creates a renderer emitting through g, resolving layer
// configurations from configs.
func NewRenderer(g *gcode.Builder, configs *config.Set) *Renderer {
	return &Renderer{
		g:       g,
		configs: configs,
		maps:    make(map[string]heightmap.Map),
	}
}

// RenderDocument generates the complete program for a document. It
// fails fast: configurations and height map files are checked before
// the first instruction is emitted, and a configuration error detected
// at a layer boundary aborts before any instruction of that layer.
// On mid-generation errors an emergency halt is appended so that a
// partially written program cannot run to completion silently.
func (r *Renderer) RenderDocument(doc *gcode.Document) error {
	if r.state != stateIdle {
		return ErrRendererBusy
	}
	if err := doc.Check(); err != nil {
		return err
	}
	if err := r.configs.Check(); err != nil {
		return err
	}
	if err := r.preflight(doc); err != nil {
		return err
	}

	r.beginDocument(doc)
	for i := 0; i < doc.N(); i++ {
		if err := r.renderLayer(doc.Layer(i)); err != nil {
			r.g.EmergencyHalt(err.Error())
			r.g.Flush()
			return err
		}
	}
	r.endDocument()
	r.state = stateIdle
	return r.g.Flush()
}

// preflight resolves every layer configuration, validates it, loads
// all referenced height maps and checks all paths against the machine
// work area, so that resource and configuration errors surface before
// any output is produced.
func (r *Renderer) preflight(doc *gcode.Document) error {
	toolNumber := 0
	for i := 0; i < doc.N(); i++ {
		layer := doc.Layer(i)
		cfg := r.resolveConfig(layer)
		if err := cfg.Check(); err != nil {
			return fmt.Errorf("layer %q: %w", layer.Name(), err)
		}
		if toolNumber != 0 && cfg.ToolNumber != toolNumber && cfg.Rack == config.RackOff {
			return fmt.Errorf("layer %q: %w", layer.Name(), ErrToolChangeWithoutRack)
		}
		toolNumber = cfg.ToolNumber
		if cfg.HeightMapPath != "" {
			if _, err := r.heightMap(cfg.HeightMapPath); err != nil {
				return fmt.Errorf("layer %q: %w", layer.Name(), err)
			}
		}
		if area := r.g.WorkArea(); area != nil {
			for j := 0; j < layer.N(); j++ {
				if area.ClipsPath(layer.Path(j)) {
					return fmt.Errorf("layer %q, path %d: %w",
						layer.Name(), j, ErrPathOutsideWorkArea)
				}
			}
		}
	}
	return nil
}

// heightMap loads a height map file once and caches it by path.
func (r *Renderer) heightMap(path string) (heightmap.Map, error) {
	if m, ok := r.maps[path]; ok {
		return m, nil
	}
	m, err := heightmap.Load(path)
	if err != nil {
		return nil, err
	}
	r.maps[path] = m
	return m, nil
}

// resolveConfig resolves the configuration for a layer: an in-code
// override on the layer itself wins over the configuration set, which
// falls back to the document default.
func (r *Renderer) resolveConfig(layer *gcode.Layer) config.Config {
	if layer.Override() != nil {
		return *layer.Override()
	}
	return r.configs.For(layer.Name())
}

// === Document ==============================================================

func (r *Renderer) beginDocument(doc *gcode.Document) {
	r.state = stateDocument
	docCfg := r.configs.Document()
	r.docCtx = NewContext(r.g, docCfg, nil)
	r.writeDocumentHeader(doc, &docCfg)

	g := r.g
	g.SetAbsoluteDistanceMode(true)
	g.SetFeedModePerMinute()
	g.SelectUnits(docCfg.LengthUnits)
	g.SelectPlaneXY()

	// The bed is document scoped: heat once before the first layer,
	// cool down at document end.
	if docCfg.Bed == config.BedHeated {
		bed, _ := newBed(docCfg.Bed)
		bed.Activate(r.docCtx)
		r.bedOn = true
	}
	tracer().Infof("document started, %d layers", doc.N())
}

func (r *Renderer) endDocument() {
	if r.comps == nil {
		// Degenerate document: nothing was rendered.
		r.g.EndProgram()
		return
	}
	ctx := r.ctx
	r.comps.head.SafeRetract(ctx)
	if r.activeTool != nil {
		r.activeTool.Deactivate(ctx)
	}
	r.comps.head.ParkForService(ctx)
	if r.bedOn {
		bed, _ := newBed(config.BedHeated)
		bed.Deactivate(r.docCtx)
		r.bedOn = false
	}
	r.g.EndProgram()
	r.state = stateIdle
	tracer().Infof("document ended after %d statements", r.g.Statements())
}

// === Layers ================================================================

func (r *Renderer) renderLayer(layer *gcode.Layer) error {
	cfg := r.resolveConfig(layer)
	if err := cfg.Check(); err != nil {
		return fmt.Errorf("layer %q: %w", layer.Name(), err)
	}
	comps, err := newComponents(&cfg)
	if err != nil {
		return fmt.Errorf("layer %q: %w", layer.Name(), err)
	}
	var m heightmap.Map
	if cfg.HeightMapPath != "" {
		if m, err = r.heightMap(cfg.HeightMapPath); err != nil {
			return fmt.Errorf("layer %q: %w", layer.Name(), err)
		}
	}
	ctx := NewContext(r.g, cfg, m)

	// Everything that can fail has been checked; from here on the
	// layer is emitted completely.
	r.state = stateLayer
	r.writeLayerHeader(layer, &cfg)
	r.ctx, r.comps = ctx, comps

	if err := r.switchTool(ctx, comps); err != nil {
		return fmt.Errorf("layer %q: %w", layer.Name(), err)
	}

	comps.head.SafeRetract(ctx)
	r.plunged = false
	if cfg.Coolant != config.CoolantOff {
		comps.coolant.TurnOn(ctx)
		r.coolantOn = true
	}
	if cfg.Fan != config.FanOff {
		comps.fan.TurnOn(ctx)
		r.fanOn = true
	}
	if cfg.Bed == config.BedHeated && !r.bedOn {
		comps.bed.Activate(ctx)
		r.bedOn = true
	}

	for i := 0; i < layer.N(); i++ {
		r.renderPath(ctx, comps, layer.Path(i))
	}

	// Layer teardown: coolant and fan are layer scoped.
	comps.head.SafeRetract(ctx)
	if r.coolantOn {
		comps.coolant.TurnOff(ctx)
		r.coolantOn = false
	}
	if r.fanOn {
		comps.fan.TurnOff(ctx)
		r.fanOn = false
	}
	r.state = stateDocument
	return nil
}

// switchTool performs the tool transition implied by the incoming
// layer configuration. A differing tool number triggers the full rack
// change sequence; a differing tool mode with the same number swaps
// the tool variant without rack involvement.
func (r *Renderer) switchTool(ctx *Context, comps *components) error {
	cfg := &ctx.Cfg
	switch {
	case r.activeToolNumber == 0:
		// First layer: no previous tool to put away.
		comps.tool.Activate(ctx)
	case cfg.ToolNumber != r.activeToolNumber:
		comps.head.SafeRetract(ctx)
		r.activeTool.Deactivate(ctx)
		comps.head.ParkForService(ctx)
		if err := comps.rack.ChangeTool(ctx, cfg.ToolNumber); err != nil {
			return err
		}
		comps.tool.Activate(ctx)
	case cfg.Tool != r.activeToolMode:
		r.activeTool.Deactivate(ctx)
		comps.tool.Activate(ctx)
	}
	r.activeToolNumber = cfg.ToolNumber
	r.activeToolMode = cfg.Tool
	r.activeTool = comps.tool
	return nil
}

// === Paths =================================================================

func (r *Renderer) renderPath(ctx *Context, comps *components, path *gcode.Path) {
	r.state = statePath
	pts := path.Points()

	r.travelTo(ctx, comps, pts[0])
	r.plunge(ctx, comps)
	comps.tool.PowerOn(ctx)

	if ctx.Leveling() {
		samples := heightmap.SamplePath(ctx.Map, pts, ctx.Cfg.HeightMapTolerance)
		for _, s := range samples[1:] {
			r.traceTo(ctx, comps, s.P)
		}
	} else {
		for _, p := range pts[1:] {
			r.traceTo(ctx, comps, p)
		}
	}

	comps.tool.PowerOff(ctx)
	comps.head.Retract(ctx)
	r.plunged = false
	r.state = stateLayer
}

// travelTo moves to a path start while retracted.
func (r *Renderer) travelTo(ctx *Context, comps *components, p arithm.Pair) {
	if r.plunged {
		panic("render: travel while plunged")
	}
	comps.head.TravelTo(ctx, p)
}

func (r *Renderer) plunge(ctx *Context, comps *components) {
	comps.head.Plunge(ctx)
	r.plunged = true
}

// traceTo emits one work move, setting the tool power first when the
// tool modulates power per point.
func (r *Renderer) traceTo(ctx *Context, comps *components, p arithm.Pair) {
	if !r.plunged {
		panic("render: trace without plunge")
	}
	if power, ok := comps.tool.TracePower(ctx, p); ok {
		ctx.G.SetToolPower(power)
	}
	comps.head.TraceTo(ctx, p)
}

// === Program headers =======================================================

func (r *Renderer) writeDocumentHeader(doc *gcode.Document, cfg *config.Config) {
	g := r.g
	g.Comment(headerSeparator)
	g.Comment("Date: " + time.Now().Format(time.RFC3339))
	g.Comment(fmt.Sprintf("Generated by: gcode v%s", gcode.Version))
	g.Comment("Program zero: bottom-left")
	g.Comment(fmt.Sprintf("Number of layers: %d", doc.N()))
	g.Comment(sectionSeparator)
	for _, s := range cfg.Settings() {
		g.Comment(fmt.Sprintf("@set %s = %s", s.Key, s.Value))
	}
	g.Comment(headerSeparator)
}

// writeLayerHeader echoes the layer name and the settings that differ
// from the document defaults.
func (r *Renderer) writeLayerHeader(layer *gcode.Layer, cfg *config.Config) {
	g := r.g
	g.Comment(sectionSeparator)
	name := layer.Name()
	if strings.TrimSpace(name) == "" {
		name = "(unnamed)"
	}
	g.Comment("Layer: " + name)
	docCfg := r.configs.Document()
	docSettings := make(map[string]string)
	for _, s := range docCfg.Settings() {
		docSettings[s.Key] = s.Value
	}
	changed := false
	for _, s := range cfg.Settings() {
		if docSettings[s.Key] != s.Value {
			if !changed {
				g.Comment(sectionSeparator)
				changed = true
			}
			g.Comment(fmt.Sprintf("@set %s = %s", s.Key, s.Value))
		}
	}
	g.Comment(sectionSeparator)
}
