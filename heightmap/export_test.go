package heightmap

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestRasterizeRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// Sample values on the 16-bit grid survive rasterizing exactly.
	q := func(k int) float64 { return float64(k) / math.MaxUint16 }
	m, err := NewRaster([]float64{
		q(0), q(10000), q(20000),
		q(30000), q(40000), q(65535),
	}, 3, 2)
	assert.NoError(t, err)
	img := Rasterize(m, 3, 2, 2, 1, 0, 1)
	back := RasterFromImage(img)
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			assert.InDelta(t, m.At(col, row), back.At(col, row), 1e-12)
		}
	}
}

func TestRasterizeClamps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _ := NewRaster([]float64{-2, 0, 1, 3}, 2, 2)
	img := Rasterize(m, 2, 2, 1, 1, 0, 1)
	back := RasterFromImage(img)
	assert.Equal(t, 0.0, back.At(0, 0), "elevations below the range map to black")
	assert.Equal(t, 1.0, back.At(1, 1), "elevations above the range map to white")
}

func TestExportAndLoad(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	q := func(k int) float64 { return float64(k) / math.MaxUint16 }
	m, _ := NewRaster([]float64{
		q(0), q(16384),
		q(32768), q(65535),
	}, 2, 2)
	path := filepath.Join(t.TempDir(), "surface.png")
	assert.NoError(t, ExportFile(path, m, 2, 2, 1, 1, 0, 1))

	loaded, err := Load(path)
	assert.NoError(t, err)
	raster, ok := loaded.(*Raster)
	if !ok {
		t.Fatalf("Expected a raster map from a PNG file")
	}
	w, h := raster.Bounds()
	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
	assert.InDelta(t, m.DepthAt(1, 1), raster.DepthAt(1, 1), 1e-12)
}

func TestLoadDispatch(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := Load("surface.docx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	m, _ := NewRaster([]float64{0, 1, 0, 1}, 2, 2)
	err := ExportFile(filepath.Join(t.TempDir(), "surface.bmp"), m, 2, 2, 1, 1, 0, 1)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
