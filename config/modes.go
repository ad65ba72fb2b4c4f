package config

import "fmt"

// Component modes. Each machine subsystem (head, tool, rack, coolant,
// fan, bed) is configured by one mode value which selects the concrete
// component variant at render time. Modes parse from and format to the
// lowercase names used in configuration files.

// === Length and time units =================================================

// LengthUnits selects the unit system of a program.
type LengthUnits int

const (
	Millimeters LengthUnits = iota
	Inches
)

// Scale returns the factor converting millimeters to this unit.
func (u LengthUnits) Scale() float64 {
	if u == Inches {
		return 1.0 / 25.4
	}
	return 1.0
}

func (u LengthUnits) String() string {
	if u == Inches {
		return "in"
	}
	return "mm"
}

// ParseLengthUnits parses "mm" or "in".
func ParseLengthUnits(s string) (LengthUnits, error) {
	switch s {
	case "mm", "millimeters":
		return Millimeters, nil
	case "in", "inches":
		return Inches, nil
	}
	return Millimeters, fmt.Errorf("unknown length units %q", s)
}

// TimeUnits selects the time base for delays.
type TimeUnits int

const (
	Seconds TimeUnits = iota
	Milliseconds
)

func (u TimeUnits) String() string {
	if u == Milliseconds {
		return "ms"
	}
	return "s"
}

// ParseTimeUnits parses "s" or "ms".
func ParseTimeUnits(s string) (TimeUnits, error) {
	switch s {
	case "s", "seconds":
		return Seconds, nil
	case "ms", "milliseconds":
		return Milliseconds, nil
	}
	return Seconds, fmt.Errorf("unknown time units %q", s)
}

// === Head ==================================================================

// HeadMode selects the head-movement strategy.
type HeadMode int

const (
	// HeadStandard moves at the configured Z heights.
	HeadStandard HeadMode = iota
	// HeadAutoLeveling adjusts Z on every traced move by consulting
	// the active height map.
	HeadAutoLeveling
)

func (m HeadMode) String() string {
	if m == HeadAutoLeveling {
		return "auto-leveling"
	}
	return "standard"
}

// ParseHeadMode parses "standard" or "auto-leveling".
func ParseHeadMode(s string) (HeadMode, error) {
	switch s {
	case "standard", "basic":
		return HeadStandard, nil
	case "auto-leveling", "mapped":
		return HeadAutoLeveling, nil
	}
	return HeadStandard, fmt.Errorf("unknown head mode %q", s)
}

// === Tool ==================================================================

// ToolMode selects the tool strategy.
type ToolMode int

const (
	ToolMarker ToolMode = iota
	ToolBeam
	ToolBlade
	ToolExtruder
	ToolHeatedExtruder
	ToolSpindle
)

var toolModeNames = map[ToolMode]string{
	ToolMarker:         "marker",
	ToolBeam:           "beam",
	ToolBlade:          "blade",
	ToolExtruder:       "extruder",
	ToolHeatedExtruder: "heated-extruder",
	ToolSpindle:        "spindle",
}

func (m ToolMode) String() string {
	return toolModeNames[m]
}

// ParseToolMode parses a tool mode name.
func ParseToolMode(s string) (ToolMode, error) {
	for m, name := range toolModeNames {
		if s == name {
			return m, nil
		}
	}
	return ToolMarker, fmt.Errorf("unknown tool mode %q", s)
}

// === Power =================================================================

// PowerMode selects how tool power is derived during tracing.
type PowerMode int

const (
	// PowerConstant uses the configured power level unchanged.
	PowerConstant PowerMode = iota
	// PowerAdaptive modulates power with the height map elevation
	// (adaptive beam), for tools that support it.
	PowerAdaptive
)

func (m PowerMode) String() string {
	if m == PowerAdaptive {
		return "adaptive"
	}
	return "constant"
}

// ParsePowerMode parses "constant" or "adaptive".
func ParsePowerMode(s string) (PowerMode, error) {
	switch s {
	case "constant":
		return PowerConstant, nil
	case "adaptive":
		return PowerAdaptive, nil
	}
	return PowerConstant, fmt.Errorf("unknown power mode %q", s)
}

// === Spin ==================================================================

// SpinMode selects the tool rotation direction.
type SpinMode int

const (
	SpinClockwise SpinMode = iota
	SpinCounterClockwise
)

func (m SpinMode) String() string {
	if m == SpinCounterClockwise {
		return "ccw"
	}
	return "cw"
}

// ParseSpinMode parses "cw" or "ccw".
func ParseSpinMode(s string) (SpinMode, error) {
	switch s {
	case "cw", "clockwise":
		return SpinClockwise, nil
	case "ccw", "counterclockwise":
		return SpinCounterClockwise, nil
	}
	return SpinClockwise, fmt.Errorf("unknown spin mode %q", s)
}

// === Rack ==================================================================

// RackMode selects the tool-change strategy.
type RackMode int

const (
	// RackOff assumes a single fixed tool; tool changes are impossible.
	RackOff RackMode = iota
	// RackManual pauses the program and waits for the operator.
	RackManual
	// RackAutomatic executes a full automatic tool change.
	RackAutomatic
)

var rackModeNames = map[RackMode]string{
	RackOff:       "off",
	RackManual:    "manual",
	RackAutomatic: "automatic",
}

func (m RackMode) String() string {
	return rackModeNames[m]
}

// ParseRackMode parses a rack mode name.
func ParseRackMode(s string) (RackMode, error) {
	for m, name := range rackModeNames {
		if s == name {
			return m, nil
		}
	}
	return RackOff, fmt.Errorf("unknown rack mode %q", s)
}

// === Coolant ===============================================================

// CoolantMode selects the coolant strategy.
type CoolantMode int

const (
	CoolantOff CoolantMode = iota
	CoolantMist
	CoolantFlood
)

var coolantModeNames = map[CoolantMode]string{
	CoolantOff:   "off",
	CoolantMist:  "mist",
	CoolantFlood: "flood",
}

func (m CoolantMode) String() string {
	return coolantModeNames[m]
}

// ParseCoolantMode parses a coolant mode name.
func ParseCoolantMode(s string) (CoolantMode, error) {
	for m, name := range coolantModeNames {
		if s == name {
			return m, nil
		}
	}
	return CoolantOff, fmt.Errorf("unknown coolant mode %q", s)
}

// === Fan ===================================================================

// FanMode selects the fan strategy.
type FanMode int

const (
	FanOff FanMode = iota
	FanCooling
)

func (m FanMode) String() string {
	if m == FanCooling {
		return "cooling"
	}
	return "off"
}

// ParseFanMode parses "off" or "cooling".
func ParseFanMode(s string) (FanMode, error) {
	switch s {
	case "off":
		return FanOff, nil
	case "cooling", "on":
		return FanCooling, nil
	}
	return FanOff, fmt.Errorf("unknown fan mode %q", s)
}

// === Bed ===================================================================

// BedMode selects the bed strategy.
type BedMode int

const (
	BedOff BedMode = iota
	BedHeated
)

func (m BedMode) String() string {
	if m == BedHeated {
		return "heated"
	}
	return "off"
}

// ParseBedMode parses "off" or "heated".
func ParseBedMode(s string) (BedMode, error) {
	switch s {
	case "off":
		return BedOff, nil
	case "heated":
		return BedHeated, nil
	}
	return BedOff, fmt.Errorf("unknown bed mode %q", s)
}

// === Text marshaling =======================================================

// The modes implement encoding.TextMarshaler and TextUnmarshaler so
// they can be used directly in TOML configuration files.

func (u LengthUnits) MarshalText() ([]byte, error) { return []byte(u.String()), nil }
func (u *LengthUnits) UnmarshalText(b []byte) (err error) {
	*u, err = ParseLengthUnits(string(b))
	return
}

func (u TimeUnits) MarshalText() ([]byte, error) { return []byte(u.String()), nil }
func (u *TimeUnits) UnmarshalText(b []byte) (err error) {
	*u, err = ParseTimeUnits(string(b))
	return
}

func (m HeadMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m *HeadMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseHeadMode(string(b))
	return
}

func (m ToolMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m *ToolMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseToolMode(string(b))
	return
}

func (m PowerMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m *PowerMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParsePowerMode(string(b))
	return
}

func (m SpinMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m *SpinMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseSpinMode(string(b))
	return
}

func (m RackMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m *RackMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseRackMode(string(b))
	return
}

func (m CoolantMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m *CoolantMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseCoolantMode(string(b))
	return
}

func (m FanMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m *FanMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseFanMode(string(b))
	return
}

func (m BedMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m *BedMode) UnmarshalText(b []byte) (err error) {
	*m, err = ParseBedMode(string(b))
	return
}
