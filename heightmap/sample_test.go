package heightmap

import (
	"math"
	"testing"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

// vMap is a valley along x = 5, sharp enough to force subdivision.
type vMap struct{}

func (vMap) DepthAt(x, _ float64) float64 { return math.Abs(x - 5) }

// rampMap is linear in x; linear interpolation reproduces it exactly.
type rampMap struct{}

func (rampMap) DepthAt(x, _ float64) float64 { return x / 10 }

func TestSamplePathNoSubdivisionNeeded(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []arithm.Pair{arithm.P(0, 0), arithm.P(10, 0), arithm.P(10, 10)}
	samples := SamplePath(rampMap{}, pts, 0.01)
	assert.Equal(t, len(pts), len(samples), "a linear surface needs no extra vertices")
	for i, s := range samples {
		if !s.P.Equal(pts[i]) {
			t.Errorf("Expected vertex %d to be %v, is %v", i, pts[i], s.P)
		}
	}
	assert.Equal(t, 1.0, samples[1].Depth)
}

func TestSamplePathDropsZeroLengthSegments(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []arithm.Pair{arithm.P(0, 0), arithm.P(0, 0), arithm.P(10, 0)}
	samples := SamplePath(rampMap{}, pts, 0.01)
	assert.Equal(t, 2, len(samples))
}

func TestSamplePathSubdivides(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	const tolerance = 0.1
	pts := []arithm.Pair{arithm.P(0, 0), arithm.P(10, 0)}
	samples := SamplePath(vMap{}, pts, tolerance)
	assert.Greater(t, len(samples), 2, "the valley forces subdivision")
	if !samples[0].P.Equal(pts[0]) || !samples[len(samples)-1].P.Equal(pts[1]) {
		t.Errorf("Expected input vertices to be preserved")
	}
	// Every remaining segment either meets the tolerance at its
	// midpoint or is too short to split further.
	m := vMap{}
	for i := 1; i < len(samples); i++ {
		a, b := samples[i-1], samples[i]
		mid := (a.P + b.P) / 2
		deviation := math.Abs(m.DepthAt(mid.X(), mid.Y()) - (a.Depth+b.Depth)/2)
		length := math.Abs(b.P.X() - a.P.X())
		if deviation > tolerance && length > 2*MinSegmentLength {
			t.Errorf("Segment %d deviates %.4f at its midpoint, tolerance is %.4f",
				i, deviation, tolerance)
		}
	}
}

func TestSamplePathDepths(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	samples := SamplePath(vMap{}, []arithm.Pair{arithm.P(0, 0), arithm.P(10, 0)}, 0.1)
	for _, s := range samples {
		assert.Equal(t, math.Abs(s.P.X()-5), s.Depth,
			"every sample carries the map elevation at its position")
	}
}

func TestSamplePathEmpty(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Nil(t, SamplePath(rampMap{}, nil, 0.1))
}
