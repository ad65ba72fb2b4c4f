package config

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := Default()
	assert.NoError(t, c.Check())
}

func TestCheckHeights(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := Default()
	c.PlungeZ = -1 // below work_z
	if !errors.Is(c.Check(), ErrInvalidConfig) {
		t.Errorf("Expected plunge_z below work_z to fail the check")
	}
	c = Default()
	c.ParkZ = c.SafeZ - 1
	assert.Error(t, c.Check())
}

func TestCheckToolAndFan(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := Default()
	c.ToolNumber = 0
	assert.Error(t, c.Check())
	c = Default()
	c.FanSpeed = 300
	assert.Error(t, c.Check())
}

func TestCheckHeightMapDependencies(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := Default()
	c.Head = HeadAutoLeveling
	assert.Error(t, c.Check(), "auto-leveling without a height map")
	c.HeightMapPath = "surface.png"
	assert.NoError(t, c.Check())
	c.Power = PowerAdaptive
	assert.NoError(t, c.Check())
}

func TestParseModes(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, err := ParseToolMode("beam")
	assert.NoError(t, err)
	assert.Equal(t, ToolBeam, m)
	assert.Equal(t, "beam", m.String())
	_, err = ParseToolMode("chainsaw")
	assert.Error(t, err)

	h, err := ParseHeadMode("auto-leveling")
	assert.NoError(t, err)
	assert.Equal(t, HeadAutoLeveling, h)

	r, err := ParseRackMode("automatic")
	assert.NoError(t, err)
	assert.Equal(t, RackAutomatic, r)

	u, err := ParseLengthUnits("in")
	assert.NoError(t, err)
	assert.Equal(t, Inches, u)
	assert.InDelta(t, 1.0/25.4, u.Scale(), 1e-12)
}

func TestSettingsEcho(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := Default()
	c.Tool = ToolBeam
	c.PowerLevel = 80
	keys := make(map[string]string)
	for _, s := range c.Settings() {
		keys[s.Key] = s.Value
	}
	assert.Equal(t, "beam", keys["tool"])
	assert.Equal(t, "80", keys["power_level"])
	_, hasRPM := keys["spindle_rpm"]
	assert.False(t, hasRPM, "spindle settings are not echoed for a beam tool")
}
