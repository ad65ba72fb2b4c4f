package heightmap

import (
	"fmt"
	"image"
	"image/color"
	"math"

	// Raster maps decode from PNG and TIFF grayscale images.
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// Raster is a dense grid of elevation samples. Sample (col, row) holds
// the elevation at point (x=col, y=row); elevations are normalized to
// [0, 1] when the grid is built from an image, with pixel brightness
// mapping linearly to elevation.
type Raster struct {
	values []float64 // row-major, len = width*height
	width  int
	height int
}

// NewRaster builds a raster map from row-major sample values.
func NewRaster(values []float64, width, height int) (*Raster, error) {
	if width < 1 || height < 1 || len(values) != width*height {
		return nil, fmt.Errorf("raster dimensions %d×%d do not match %d samples",
			width, height, len(values))
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("raster sample is not a finite number")
		}
	}
	return &Raster{values: values, width: width, height: height}, nil
}

// RasterFromImage builds a raster map from a grayscale image. Pixel
// brightness maps linearly to elevation on [0, 1]; color images are
// converted to grayscale first.
func RasterFromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	values := make([]float64, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			g := color.Gray16Model.Convert(img.At(bounds.Min.X+col, bounds.Min.Y+row))
			values[row*w+col] = float64(g.(color.Gray16).Y) / math.MaxUint16
		}
	}
	m := &Raster{values: values, width: w, height: h}
	tracer().Debugf("raster map %d×%d loaded from image", w, h)
	return m
}

// LoadRaster reads a raster map from a grayscale image file.
func LoadRaster(path string) (*Raster, error) {
	f, err := openMapFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableMap, err)
	}
	return RasterFromImage(img), nil
}

// Bounds returns the grid dimensions.
func (m *Raster) Bounds() (width, height int) {
	return m.width, m.height
}

// At returns the stored sample at grid position (col, row).
func (m *Raster) At(col, row int) float64 {
	return m.values[row*m.width+col]
}

// DepthAt returns the elevation at (x, y), interpolating bilinearly
// among the four enclosing grid samples. Coordinates outside the grid
// clamp to the nearest edge sample; no extrapolation.
func (m *Raster) DepthAt(x, y float64) float64 {
	x = clamp(x, 0, float64(m.width-1))
	y = clamp(y, 0, float64(m.height-1))

	col0 := int(math.Floor(x))
	row0 := int(math.Floor(y))
	if col0 > m.width-2 {
		col0 = m.width - 2
	}
	if row0 > m.height-2 {
		row0 = m.height - 2
	}
	if m.width == 1 {
		col0 = 0
	}
	if m.height == 1 {
		row0 = 0
	}
	col1 := min(col0+1, m.width-1)
	row1 := min(row0+1, m.height-1)

	fx := x - float64(col0)
	fy := y - float64(row0)

	v00 := m.At(col0, row0)
	v10 := m.At(col1, row0)
	v01 := m.At(col0, row1)
	v11 := m.At(col1, row1)

	return (1-fx)*(1-fy)*v00 + fx*(1-fy)*v10 + (1-fx)*fy*v01 + fx*fy*v11
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
