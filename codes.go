package gcode

import (
	"fmt"

	"github.com/npillmayer/gcode/config"
)

// High-level G-code and M-code emission. The mapping from machine
// operations to code words follows the LinuxCNC dialect, which the
// target controllers (GRBL, Marlin, Smoothieware) understand for the
// subset used here.

// SelectUnits emits the unit-system selection code (G20 or G21).
func (b *Builder) SelectUnits(u config.LengthUnits) {
	if u == config.Inches {
		b.Statement("G20")
	} else {
		b.Statement("G21")
	}
}

// SelectPlaneXY emits the XY working-plane selection code (G17).
func (b *Builder) SelectPlaneXY() {
	b.Statement("G17")
}

// SetAbsoluteDistanceMode selects absolute (G90) or relative (G91)
// positioning for subsequent moves.
func (b *Builder) SetAbsoluteDistanceMode(absolute bool) {
	if absolute {
		b.Statement("G90")
	} else {
		b.Statement("G91")
	}
}

// SetFeedModePerMinute emits the units-per-minute feed mode code (G94).
func (b *Builder) SetFeedModePerMinute() {
	b.Statement("G94")
}

// Dwell pauses program execution for the given duration.
func (b *Builder) Dwell(units config.TimeUnits, amount float64) {
	if amount <= 0 {
		return
	}
	if units == config.Milliseconds {
		b.Statement("G4 P" + fnum(amount/1000.0))
		return
	}
	b.Statement("G4 P" + fnum(amount))
}

// === Tool codes ============================================================

// ToolOn starts the tool spinning in the given direction at the given
// speed (M3/M4 with an S word).
func (b *Builder) ToolOn(spin config.SpinMode, speed float64) {
	code := "M3"
	if spin == config.SpinCounterClockwise {
		code = "M4"
	}
	b.Statement(code + " S" + fnum(speed))
}

// ToolOff stops the tool (M5).
func (b *Builder) ToolOff() {
	b.Statement("M5")
}

// SetToolPower sets the power level of the active tool (S word). Power
// is tool specific: spindle RPM, laser output, and the like.
func (b *Builder) SetToolPower(power float64) {
	if power < 0 {
		b.err = fmt.Errorf("invalid tool power %s", fnum(power))
		return
	}
	b.Statement("S" + fnum(power))
}

// SelectTool selects tool number n (T word).
func (b *Builder) SelectTool(n int) {
	b.Statement(fmt.Sprintf("T%d", n))
}

// ChangeTool executes an automatic tool change to tool number n (M6).
func (b *Builder) ChangeTool(n int) {
	b.Statement(fmt.Sprintf("T%d M6", n))
}

// === Program control =======================================================

// PauseProgram halts the program until operator confirmation (M0).
func (b *Builder) PauseProgram() {
	b.Statement("M0")
}

// EndProgram terminates the program (M2).
func (b *Builder) EndProgram() {
	b.Statement("M2")
}

// EmergencyHalt writes the halt reason as a comment and stops the
// machine unconditionally (M112).
func (b *Builder) EmergencyHalt(reason string) {
	b.Comment("EMERGENCY HALT: " + reason)
	b.Statement("M112")
}

// === Coolant, fan, bed and hotend ==========================================

// CoolantMistOn turns mist coolant on (M7).
func (b *Builder) CoolantMistOn() {
	b.Statement("M7")
}

// CoolantFloodOn turns flood coolant on (M8).
func (b *Builder) CoolantFloodOn() {
	b.Statement("M8")
}

// CoolantOff turns all coolant off (M9).
func (b *Builder) CoolantOff() {
	b.Statement("M9")
}

// FanOn sets the speed of the main fan, 0 to 255 (M106).
func (b *Builder) FanOn(speed int) {
	if speed < 0 || speed > 255 {
		b.err = fmt.Errorf("invalid fan speed %d", speed)
		return
	}
	b.Statement(fmt.Sprintf("M106 S%d", speed))
}

// FanOff turns the main fan off (M107).
func (b *Builder) FanOff() {
	b.Statement("M107")
}

// SetBedTemperature sets the bed target temperature and returns
// immediately (M140).
func (b *Builder) SetBedTemperature(celsius int) {
	b.Statement(fmt.Sprintf("M140 S%d", celsius))
}

// WaitBedTemperature sets the bed target temperature and waits until
// it is reached (M190).
func (b *Builder) WaitBedTemperature(celsius int) {
	b.Statement(fmt.Sprintf("M190 S%d", celsius))
}

// SetHotendTemperature sets the hotend target temperature and returns
// immediately (M104).
func (b *Builder) SetHotendTemperature(celsius int) {
	b.Statement(fmt.Sprintf("M104 S%d", celsius))
}

// WaitHotendTemperature sets the hotend target temperature and waits
// until it is reached (M109).
func (b *Builder) WaitHotendTemperature(celsius int) {
	b.Statement(fmt.Sprintf("M109 S%d", celsius))
}
