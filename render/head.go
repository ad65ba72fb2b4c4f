package render

import (
	"github.com/npillmayer/arithm"
)

// Head controls machine head movements. Sequencing is enforced by the
// renderer: TraceTo is only ever invoked after a Plunge, and TravelTo
// only while retracted.
type Head interface {
	// SafeRetract lifts the head to the safe clearance height.
	SafeRetract(ctx *Context)
	// Retract lifts the head clear of the workpiece, high enough to
	// move between paths, but below the safe clearance height.
	Retract(ctx *Context)
	// Plunge lowers the head to the work height in two stages: at
	// travel speed to the plunge height, then at plunge speed down to
	// the work height.
	Plunge(ctx *Context)
	// TravelTo moves to (x, y) without cutting.
	TravelTo(ctx *Context, p arithm.Pair)
	// TraceTo traces a work move to (x, y).
	TraceTo(ctx *Context, p arithm.Pair)
	// ParkForService raises the head to the park height and moves to
	// the machine origin, e.g. for tool changes.
	ParkForService(ctx *Context)
}

// standardHead moves at the configured Z heights.
type standardHead struct{}

func (standardHead) SafeRetract(ctx *Context) {
	ctx.G.RapidZ(ctx.Cfg.SafeZ)
}

func (standardHead) Retract(ctx *Context) {
	ctx.G.RapidZ(ctx.Cfg.PlungeZ)
}

func (standardHead) Plunge(ctx *Context) {
	ctx.G.MoveZ(ctx.Cfg.PlungeZ, ctx.Cfg.TravelSpeed)
	ctx.G.MoveZ(ctx.Cfg.WorkZ, ctx.Cfg.PlungeSpeed)
}

func (standardHead) TravelTo(ctx *Context, p arithm.Pair) {
	ctx.G.MoveTo(p.X(), p.Y(), ctx.Cfg.TravelSpeed)
}

func (standardHead) TraceTo(ctx *Context, p arithm.Pair) {
	ctx.G.MoveTo(p.X(), p.Y(), ctx.Cfg.WorkSpeed)
}

func (standardHead) ParkForService(ctx *Context) {
	ctx.G.RapidZ(ctx.Cfg.ParkZ)
	ctx.G.RapidAbsolute(0, 0)
}

// levelingHead adjusts all work heights by the height map elevation at
// the target position, keeping the tool engagement constant on uneven
// surfaces. Travel moves and retracts are unaffected; the plunge and
// every traced move are compensated.
type levelingHead struct {
	standardHead
}

func (h levelingHead) Plunge(ctx *Context) {
	if ctx.Map == nil {
		panic("render: auto-leveling head without height map")
	}
	pos := ctx.G.Position()
	workZ := ctx.CompensatedZ(pos.X, pos.Y)
	plungeZ := workZ + (ctx.Cfg.PlungeZ - ctx.Cfg.WorkZ)
	ctx.G.MoveZ(plungeZ, ctx.Cfg.TravelSpeed)
	ctx.G.MoveZ(workZ, ctx.Cfg.PlungeSpeed)
}

func (h levelingHead) TraceTo(ctx *Context, p arithm.Pair) {
	if ctx.Map == nil {
		panic("render: auto-leveling head without height map")
	}
	z := ctx.CompensatedZ(p.X(), p.Y())
	ctx.G.MoveXYZ(p.X(), p.Y(), z, ctx.Cfg.WorkSpeed)
}
