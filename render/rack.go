package render

// Rack manages tool changes. The renderer invokes ChangeTool only
// after retracting, deactivating the previous tool and parking the
// head; the rack just performs the swap itself.
type Rack interface {
	ChangeTool(ctx *Context, toolNumber int) error
}

// offRack assumes a single fixed tool; a requested change is a
// configuration error.
type offRack struct{}

func (offRack) ChangeTool(ctx *Context, toolNumber int) error {
	return ErrToolChangeWithoutRack
}

// manualRack selects the tool and pauses the program until the
// operator confirms the manual swap.
type manualRack struct{}

func (manualRack) ChangeTool(ctx *Context, toolNumber int) error {
	ctx.G.SelectTool(toolNumber)
	ctx.G.Comment("manual tool change, resume when ready")
	ctx.G.PauseProgram()
	return nil
}

// automaticRack performs a full automatic tool change (ATC).
type automaticRack struct{}

func (automaticRack) ChangeTool(ctx *Context, toolNumber int) error {
	ctx.G.ChangeTool(toolNumber)
	return nil
}
