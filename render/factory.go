package render

import (
	"fmt"

	"github.com/npillmayer/gcode/config"
)

// components is the full component set resolved for one layer. It is
// created once per layer and discarded with the layer context.
type components struct {
	head    Head
	tool    Tool
	rack    Rack
	coolant Coolant
	fan     Fan
	bed     Bed
}

// newComponents resolves the component variants for a configuration.
// The mode switches are exhaustive; an unknown mode value is a
// configuration error.
func newComponents(cfg *config.Config) (*components, error) {
	head, err := newHead(cfg.Head)
	if err != nil {
		return nil, err
	}
	tool, err := newTool(cfg.Tool, cfg.Power)
	if err != nil {
		return nil, err
	}
	rack, err := newRack(cfg.Rack)
	if err != nil {
		return nil, err
	}
	coolant, err := newCoolant(cfg.Coolant)
	if err != nil {
		return nil, err
	}
	fan, err := newFan(cfg.Fan)
	if err != nil {
		return nil, err
	}
	bed, err := newBed(cfg.Bed)
	if err != nil {
		return nil, err
	}
	return &components{
		head:    head,
		tool:    tool,
		rack:    rack,
		coolant: coolant,
		fan:     fan,
		bed:     bed,
	}, nil
}

func newHead(mode config.HeadMode) (Head, error) {
	switch mode {
	case config.HeadStandard:
		return standardHead{}, nil
	case config.HeadAutoLeveling:
		return levelingHead{}, nil
	}
	return nil, fmt.Errorf("no head variant for mode %v", mode)
}

func newTool(mode config.ToolMode, power config.PowerMode) (Tool, error) {
	switch mode {
	case config.ToolMarker:
		return markerTool{}, nil
	case config.ToolBlade:
		return bladeTool{}, nil
	case config.ToolBeam:
		if power == config.PowerAdaptive {
			return adaptiveBeamTool{}, nil
		}
		return beamTool{}, nil
	case config.ToolSpindle:
		return spindleTool{}, nil
	case config.ToolExtruder:
		return extruderTool{}, nil
	case config.ToolHeatedExtruder:
		return heatedExtruderTool{}, nil
	}
	return nil, fmt.Errorf("no tool variant for mode %v", mode)
}

func newRack(mode config.RackMode) (Rack, error) {
	switch mode {
	case config.RackOff:
		return offRack{}, nil
	case config.RackManual:
		return manualRack{}, nil
	case config.RackAutomatic:
		return automaticRack{}, nil
	}
	return nil, fmt.Errorf("no rack variant for mode %v", mode)
}

func newCoolant(mode config.CoolantMode) (Coolant, error) {
	switch mode {
	case config.CoolantOff:
		return offCoolant{}, nil
	case config.CoolantMist:
		return mistCoolant{}, nil
	case config.CoolantFlood:
		return floodCoolant{}, nil
	}
	return nil, fmt.Errorf("no coolant variant for mode %v", mode)
}

func newFan(mode config.FanMode) (Fan, error) {
	switch mode {
	case config.FanOff:
		return offFan{}, nil
	case config.FanCooling:
		return coolingFan{}, nil
	}
	return nil, fmt.Errorf("no fan variant for mode %v", mode)
}

func newBed(mode config.BedMode) (Bed, error) {
	switch mode {
	case config.BedOff:
		return offBed{}, nil
	case config.BedHeated:
		return heatedBed{}, nil
	}
	return nil, fmt.Errorf("no bed variant for mode %v", mode)
}
