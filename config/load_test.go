package config

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestLoadDocument(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	set, err := Load([]byte(`
tool = "spindle"
work_speed = 800.0
spindle_rpm = 12000.0
`))
	assert.NoError(t, err)
	doc := set.Document()
	assert.Equal(t, ToolSpindle, doc.Tool)
	assert.Equal(t, 800.0, doc.WorkSpeed)
	assert.Equal(t, 12000.0, doc.SpindleRPM)
	// Unspecified options keep their defaults.
	assert.Equal(t, Millimeters, doc.LengthUnits)
	assert.Equal(t, RackOff, doc.Rack)
}

func TestLoadLayerInheritance(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	set, err := Load([]byte(`
work_speed = 800.0
travel_speed = 2000.0

[layer.engrave]
tool = "beam"
power_level = 80.0

[layer.cut]
work_speed = 150.0
`))
	assert.NoError(t, err)
	engrave := set.For("engrave")
	assert.Equal(t, ToolBeam, engrave.Tool)
	assert.Equal(t, 80.0, engrave.PowerLevel)
	assert.Equal(t, 800.0, engrave.WorkSpeed, "unset layer option inherits document value")
	cut := set.For("cut")
	assert.Equal(t, 150.0, cut.WorkSpeed)
	assert.Equal(t, ToolMarker, cut.Tool)
	// A layer without a table resolves to the document configuration.
	assert.Equal(t, set.Document(), set.For("unknown"))
	assert.True(t, set.HasLayer("engrave"))
	assert.False(t, set.HasLayer("unknown"))
	assert.Equal(t, []string{"cut", "engrave"}, set.Layers())
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Load([]byte(`tool = "chainsaw"`))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected unknown tool mode to fail loading, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Load([]byte(`work_speed = -100.0`))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected negative work speed to fail loading, got %v", err)
	}
}
