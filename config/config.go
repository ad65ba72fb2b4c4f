/*
Package config holds the configuration surface for G-code generation:
component modes, motion and tool parameters, and height-map settings.

A document carries one default Config; layers may override individual
settings. Overrides are resolved layer > document, so an unspecified
layer option inherits the document value. Configurations load from
TOML files with one optional table per layer:

	tool = "spindle"
	work_speed = 500.0

	[layer.engrave]
	tool = "beam"
	power_level = 80.0

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package config

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'gcode.config'
func tracer() tracing.Trace {
	return tracing.Select("gcode.config")
}

var (
	// ErrInvalidConfig indicates inconsistent configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config collects every setting consumed during rendering. Zero values
// are not meaningful defaults; start from Default() and override.
//
// Speeds are in work units per minute, heights and lengths in work
// units, temperatures in degrees Celsius.
type Config struct {
	// Units
	LengthUnits LengthUnits `toml:"length_units"`
	TimeUnits   TimeUnits   `toml:"time_units"`

	// Component modes
	Head    HeadMode    `toml:"head"`
	Tool    ToolMode    `toml:"tool"`
	Power   PowerMode   `toml:"power_mode"`
	Rack    RackMode    `toml:"rack"`
	Coolant CoolantMode `toml:"coolant"`
	Fan     FanMode     `toml:"fan"`
	Bed     BedMode     `toml:"bed"`
	Spin    SpinMode    `toml:"spin_mode"`

	// Tool parameters
	ToolNumber  int     `toml:"tool_number"`
	SpindleRPM  float64 `toml:"spindle_rpm"`
	PowerLevel  float64 `toml:"power_level"`
	WarmupDelay float64 `toml:"warmup_delay"`

	// Motion parameters
	WorkSpeed   float64 `toml:"work_speed"`
	PlungeSpeed float64 `toml:"plunge_speed"`
	TravelSpeed float64 `toml:"travel_speed"`
	WorkZ       float64 `toml:"work_z"`
	PlungeZ     float64 `toml:"plunge_z"`
	SafeZ       float64 `toml:"safe_z"`
	ParkZ       float64 `toml:"park_z"`

	// Extrusion parameters
	NozzleDiameter     float64 `toml:"nozzle_diameter"`
	FilamentDiameter   float64 `toml:"filament_diameter"`
	LayerHeight        float64 `toml:"layer_height"`
	RetractionDistance float64 `toml:"retraction_distance"`
	RetractionSpeed    float64 `toml:"retraction_speed"`

	// Ancillary devices
	FanSpeed          int `toml:"fan_speed"`
	BedTemperature    int `toml:"bed_temperature"`
	HotendTemperature int `toml:"hotend_temperature"`

	// Height map
	HeightMapPath      string  `toml:"height_map_path"`
	HeightMapScale     float64 `toml:"height_map_scale"`
	HeightMapTolerance float64 `toml:"height_map_tolerance"`
}

// Default returns a configuration safe for a wide range of machines:
// a no-op marker tool, no rack, everything ancillary switched off.
func Default() Config {
	return Config{
		LengthUnits: Millimeters,
		TimeUnits:   Seconds,

		Head:    HeadStandard,
		Tool:    ToolMarker,
		Power:   PowerConstant,
		Rack:    RackOff,
		Coolant: CoolantOff,
		Fan:     FanOff,
		Bed:     BedOff,
		Spin:    SpinClockwise,

		ToolNumber:  1,
		SpindleRPM:  1000,
		PowerLevel:  50,
		WarmupDelay: 2.0,

		WorkSpeed:   500,
		PlungeSpeed: 100,
		TravelSpeed: 1000,
		WorkZ:       0,
		PlungeZ:     1,
		SafeZ:       10,
		ParkZ:       50,

		NozzleDiameter:     0.4,
		FilamentDiameter:   1.75,
		LayerHeight:        0.2,
		RetractionDistance: 1.5,
		RetractionSpeed:    2100,

		FanSpeed:          255,
		BedTemperature:    60,
		HotendTemperature: 200,

		HeightMapScale:     1.0,
		HeightMapTolerance: 0.01,
	}
}

// Check verifies that the configuration values are consistent. All
// violations are collected into a single error.
func (c *Config) Check() error {
	var complaints []string
	ge := func(field string, v float64, bound string, w float64) {
		if v < w {
			complaints = append(complaints,
				fmt.Sprintf("%s (%g) must be >= %s (%g)", field, v, bound, w))
		}
	}
	ge("plunge_z", c.PlungeZ, "work_z", c.WorkZ)
	ge("safe_z", c.SafeZ, "work_z", c.WorkZ)
	ge("park_z", c.ParkZ, "safe_z", c.SafeZ)
	ge("work_speed", c.WorkSpeed, "zero", 0)
	ge("plunge_speed", c.PlungeSpeed, "zero", 0)
	ge("travel_speed", c.TravelSpeed, "zero", 0)
	ge("power_level", c.PowerLevel, "zero", 0)
	ge("spindle_rpm", c.SpindleRPM, "zero", 0)
	ge("height_map_tolerance", c.HeightMapTolerance, "zero", 0)
	if c.ToolNumber < 1 {
		complaints = append(complaints,
			fmt.Sprintf("tool_number (%d) must be >= 1", c.ToolNumber))
	}
	if c.FanSpeed < 0 || c.FanSpeed > 255 {
		complaints = append(complaints,
			fmt.Sprintf("fan_speed (%d) must be in 0..255", c.FanSpeed))
	}
	if c.HeightMapScale <= 0 {
		complaints = append(complaints,
			fmt.Sprintf("height_map_scale (%g) must be > 0", c.HeightMapScale))
	}
	if c.Head == HeadAutoLeveling && c.HeightMapPath == "" {
		complaints = append(complaints,
			"head mode 'auto-leveling' requires height_map_path")
	}
	if c.Power == PowerAdaptive && c.HeightMapPath == "" {
		complaints = append(complaints,
			"power mode 'adaptive' requires height_map_path")
	}
	if len(complaints) == 0 {
		return nil
	}
	for _, msg := range complaints {
		tracer().Errorf("config: %s", msg)
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, complaints[0])
}

// Setting is one key/value pair of a configuration, formatted for
// echoing into program headers.
type Setting struct {
	Key   string
	Value string
}

// Settings returns the configuration as an ordered list of formatted
// key/value pairs. Extrusion and ancillary values are included only
// when a component that consumes them is active.
func (c *Config) Settings() []Setting {
	s := []Setting{
		{"length_units", c.LengthUnits.String()},
		{"time_units", c.TimeUnits.String()},
		{"head", c.Head.String()},
		{"tool", c.Tool.String()},
		{"power_mode", c.Power.String()},
		{"rack", c.Rack.String()},
		{"coolant", c.Coolant.String()},
		{"fan", c.Fan.String()},
		{"bed", c.Bed.String()},
		{"tool_number", fmt.Sprintf("%d", c.ToolNumber)},
		{"work_speed", fmt.Sprintf("%g", c.WorkSpeed)},
		{"plunge_speed", fmt.Sprintf("%g", c.PlungeSpeed)},
		{"travel_speed", fmt.Sprintf("%g", c.TravelSpeed)},
		{"work_z", fmt.Sprintf("%g", c.WorkZ)},
		{"plunge_z", fmt.Sprintf("%g", c.PlungeZ)},
		{"safe_z", fmt.Sprintf("%g", c.SafeZ)},
		{"park_z", fmt.Sprintf("%g", c.ParkZ)},
	}
	switch c.Tool {
	case ToolSpindle:
		s = append(s, Setting{"spindle_rpm", fmt.Sprintf("%g", c.SpindleRPM)})
	case ToolBeam:
		s = append(s, Setting{"power_level", fmt.Sprintf("%g", c.PowerLevel)})
	case ToolExtruder, ToolHeatedExtruder:
		s = append(s,
			Setting{"nozzle_diameter", fmt.Sprintf("%g", c.NozzleDiameter)},
			Setting{"filament_diameter", fmt.Sprintf("%g", c.FilamentDiameter)},
			Setting{"layer_height", fmt.Sprintf("%g", c.LayerHeight)},
			Setting{"hotend_temperature", fmt.Sprintf("%d", c.HotendTemperature)})
	}
	if c.Fan == FanCooling {
		s = append(s, Setting{"fan_speed", fmt.Sprintf("%d", c.FanSpeed)})
	}
	if c.Bed == BedHeated {
		s = append(s, Setting{"bed_temperature", fmt.Sprintf("%d", c.BedTemperature)})
	}
	if c.HeightMapPath != "" {
		s = append(s,
			Setting{"height_map_path", c.HeightMapPath},
			Setting{"height_map_scale", fmt.Sprintf("%g", c.HeightMapScale)},
			Setting{"height_map_tolerance", fmt.Sprintf("%g", c.HeightMapTolerance)})
	}
	return s
}
