package heightmap

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestRasterExactAtSamples(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, err := NewRaster([]float64{0, 0.25, 0.5, 1.0}, 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, m.DepthAt(0, 0))
	assert.Equal(t, 0.25, m.DepthAt(1, 0))
	assert.Equal(t, 0.5, m.DepthAt(0, 1))
	assert.Equal(t, 1.0, m.DepthAt(1, 1))
}

func TestRasterBilinear(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _ := NewRaster([]float64{0, 0.25, 0.5, 1.0}, 2, 2)
	assert.InDelta(t, 0.4375, m.DepthAt(0.5, 0.5), 1e-12,
		"cell center is the average of the four corners")
	assert.InDelta(t, 0.125, m.DepthAt(0.5, 0), 1e-12)
}

func TestRasterOrientation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// 3 columns, 2 rows; x runs along columns, y along rows.
	m, err := NewRaster([]float64{
		0, 1, 2,
		3, 4, 5,
	}, 3, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, m.At(2, 0))
	assert.Equal(t, 2.0, m.DepthAt(2, 0))
	assert.Equal(t, 3.0, m.DepthAt(0, 1))
	w, h := m.Bounds()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
}

func TestRasterClampsOutside(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _ := NewRaster([]float64{0, 0.25, 0.5, 1.0}, 2, 2)
	assert.Equal(t, 0.0, m.DepthAt(-5, -5), "queries clamp to the nearest edge sample")
	assert.Equal(t, 1.0, m.DepthAt(7, 7))
	assert.Equal(t, m.DepthAt(0.5, 0), m.DepthAt(0.5, -3))
}

func TestRasterContinuity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _ := NewRaster([]float64{
		0, 1, 0,
		1, 0, 1,
		0, 1, 0,
	}, 3, 3)
	const eps = 1e-9
	left := m.DepthAt(1-eps, 0.5)
	right := m.DepthAt(1+eps, 0.5)
	assert.InDelta(t, left, right, 1e-6, "interpolation is continuous across cell boundaries")
}

func TestRasterRejectsBadInput(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := NewRaster([]float64{0, 1}, 2, 2)
	assert.Error(t, err, "sample count must match the grid dimensions")
	_, err = NewRaster(nil, 0, 0)
	assert.Error(t, err)
}
