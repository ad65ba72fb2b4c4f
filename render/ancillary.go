package render

// Coolant controls the coolant system.
type Coolant interface {
	TurnOn(ctx *Context)
	TurnOff(ctx *Context)
}

type offCoolant struct{}

func (offCoolant) TurnOn(*Context)  {}
func (offCoolant) TurnOff(*Context) {}

type mistCoolant struct{}

func (mistCoolant) TurnOn(ctx *Context)  { ctx.G.CoolantMistOn() }
func (mistCoolant) TurnOff(ctx *Context) { ctx.G.CoolantOff() }

type floodCoolant struct{}

func (floodCoolant) TurnOn(ctx *Context)  { ctx.G.CoolantFloodOn() }
func (floodCoolant) TurnOff(ctx *Context) { ctx.G.CoolantOff() }

// Fan controls the part cooling fan.
type Fan interface {
	TurnOn(ctx *Context)
	TurnOff(ctx *Context)
}

type offFan struct{}

func (offFan) TurnOn(*Context)  {}
func (offFan) TurnOff(*Context) {}

type coolingFan struct{}

func (coolingFan) TurnOn(ctx *Context)  { ctx.G.FanOn(ctx.Cfg.FanSpeed) }
func (coolingFan) TurnOff(ctx *Context) { ctx.G.FanOff() }

// Bed controls the machine bed. Activation blocks until the bed
// reaches its target state.
type Bed interface {
	Activate(ctx *Context)
	Deactivate(ctx *Context)
}

type offBed struct{}

func (offBed) Activate(*Context)   {}
func (offBed) Deactivate(*Context) {}

type heatedBed struct{}

func (heatedBed) Activate(ctx *Context) {
	ctx.G.WaitBedTemperature(ctx.Cfg.BedTemperature)
}

func (heatedBed) Deactivate(ctx *Context) {
	ctx.G.SetBedTemperature(0)
}
