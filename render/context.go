package render

import (
	"github.com/npillmayer/gcode"
	"github.com/npillmayer/gcode/config"
	"github.com/npillmayer/gcode/heightmap"
)

// Context is the rendering context passed into every component
// operation: the resolved configuration for the current layer plus the
// shared services (instruction builder, active height map). One
// context exists per document and one per layer; contexts are
// immutable once constructed. Components read the context and emit
// instructions through G; they never mutate shared state.
type Context struct {
	G   *gcode.Builder
	Cfg config.Config
	Map heightmap.Map // nil when no height map is configured
}

// NewContext creates a rendering context. The height map may be nil.
func NewContext(g *gcode.Builder, cfg config.Config, m heightmap.Map) *Context {
	return &Context{G: g, Cfg: cfg, Map: m}
}

// Leveling is a predicate: does this context require height-map
// compensated tracing?
func (ctx *Context) Leveling() bool {
	if ctx.Map == nil {
		return false
	}
	return ctx.Cfg.Head == config.HeadAutoLeveling || ctx.Cfg.Power == config.PowerAdaptive
}

// CompensatedZ returns the work Z height at (x, y), adjusted by the
// height map elevation scaled with the configured map scale. Without a
// height map it returns the configured work Z unchanged.
func (ctx *Context) CompensatedZ(x, y float64) float64 {
	if ctx.Map == nil {
		return ctx.Cfg.WorkZ
	}
	return ctx.Cfg.WorkZ + ctx.Map.DepthAt(x, y)*ctx.Cfg.HeightMapScale
}
