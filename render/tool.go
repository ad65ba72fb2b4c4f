package render

import (
	"fmt"

	"github.com/npillmayer/arithm"
)

// Tool manages the active tool. Activate/Deactivate bracket a tool's
// use across layers; PowerOn/PowerOff bracket each traced path.
type Tool interface {
	Activate(ctx *Context)
	Deactivate(ctx *Context)
	PowerOn(ctx *Context)
	PowerOff(ctx *Context)
	// TracePower returns the power level to apply before tracing to p,
	// or ok=false when the tool does not modulate power per point.
	TracePower(ctx *Context, p arithm.Pair) (power float64, ok bool)
}

// noPower is embedded by tools with a fixed power level.
type noPower struct{}

func (noPower) TracePower(*Context, arithm.Pair) (float64, bool) {
	return 0, false
}

// markerTool is a passive tool (pen, drag stylus); every operation is
// a no-op.
type markerTool struct{ noPower }

func (markerTool) Activate(*Context)   {}
func (markerTool) Deactivate(*Context) {}
func (markerTool) PowerOn(*Context)    {}
func (markerTool) PowerOff(*Context)   {}

// bladeTool is a drag knife: no activation and no power control.
type bladeTool struct {
	markerTool
}

// beamTool is a laser or similar beam source. The beam is armed at
// zero power on activation and powered per path, with a warmup dwell
// after each power change.
type beamTool struct{ noPower }

func (beamTool) Activate(ctx *Context) {
	ctx.G.ToolOn(ctx.Cfg.Spin, 0)
}

func (beamTool) PowerOn(ctx *Context) {
	ctx.G.SetToolPower(ctx.Cfg.PowerLevel)
	ctx.G.Dwell(ctx.Cfg.TimeUnits, ctx.Cfg.WarmupDelay)
}

func (beamTool) PowerOff(ctx *Context) {
	ctx.G.SetToolPower(0)
	ctx.G.Dwell(ctx.Cfg.TimeUnits, ctx.Cfg.WarmupDelay)
}

func (beamTool) Deactivate(ctx *Context) {
	ctx.G.ToolOff()
}

// adaptiveBeamTool modulates beam power with the surface elevation:
// the configured power level is taken to apply at elevation 0 and
// grows linearly with the scaled elevation, clamped at zero. Power is
// set before the move that uses it.
type adaptiveBeamTool struct {
	beamTool
}

func (adaptiveBeamTool) TracePower(ctx *Context, p arithm.Pair) (float64, bool) {
	if ctx.Map == nil {
		return 0, false
	}
	depth := ctx.Map.DepthAt(p.X(), p.Y()) * ctx.Cfg.HeightMapScale
	power := ctx.Cfg.PowerLevel * (1 + depth)
	if power < 0 {
		power = 0
	}
	return power, true
}

// spindleTool is a rotating cutter. The spindle spins up on activation
// and keeps running until deactivation; per-path power control is not
// needed.
type spindleTool struct{ noPower }

func (spindleTool) Activate(ctx *Context) {
	ctx.G.ToolOn(ctx.Cfg.Spin, ctx.Cfg.SpindleRPM)
	ctx.G.Dwell(ctx.Cfg.TimeUnits, ctx.Cfg.WarmupDelay)
}

func (spindleTool) PowerOn(*Context)  {}
func (spindleTool) PowerOff(*Context) {}

func (spindleTool) Deactivate(ctx *Context) {
	ctx.G.ToolOff()
}

// extruderTool is a filament extruder. Filament is retracted between
// paths to avoid oozing and primed again before each path.
type extruderTool struct{ noPower }

func (extruderTool) Activate(*Context)   {}
func (extruderTool) Deactivate(*Context) {}

func (extruderTool) PowerOn(ctx *Context) {
	ctx.G.Statement(fmt.Sprintf("G1 E%g F%g",
		ctx.Cfg.RetractionDistance, ctx.Cfg.RetractionSpeed))
}

func (extruderTool) PowerOff(ctx *Context) {
	ctx.G.Statement(fmt.Sprintf("G1 E-%g F%g",
		ctx.Cfg.RetractionDistance, ctx.Cfg.RetractionSpeed))
}

// heatedExtruderTool additionally manages the hotend temperature:
// heat and wait on activation, cool down on deactivation.
type heatedExtruderTool struct {
	extruderTool
}

func (heatedExtruderTool) Activate(ctx *Context) {
	ctx.G.WaitHotendTemperature(ctx.Cfg.HotendTemperature)
}

func (heatedExtruderTool) Deactivate(ctx *Context) {
	ctx.G.SetHotendTemperature(0)
}
