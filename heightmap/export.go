package heightmap

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Rasterize projects map m onto a width×height grayscale grid image
// for visual inspection. Pixel (col, row) samples the map at
//
//	x = col * maxX/(width-1),  y = row * maxY/(height-1)
//
// and elevations map linearly from [minDepth, maxDepth] to black..white,
// clamped. Rasterizing is a read-only projection of the map.
//
// For a raster map of bounds (w, h), Rasterize(m, w, h, w-1, h-1, 0, 1)
// reproduces the stored samples exactly.
func Rasterize(m Map, width, height int, maxX, maxY, minDepth, maxDepth float64) *image.Gray16 {
	if width < 1 || height < 1 {
		panic("heightmap: rasterize grid dimensions must be positive")
	}
	span := maxDepth - minDepth
	if span <= 0 {
		span = 1
	}
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for row := 0; row < height; row++ {
		y := gridCoord(row, height, maxY)
		for col := 0; col < width; col++ {
			x := gridCoord(col, width, maxX)
			v := (m.DepthAt(x, y) - minDepth) / span
			v = clamp(v, 0, 1)
			img.SetGray16(col, row, color.Gray16{Y: uint16(math.Round(v * math.MaxUint16))})
		}
	}
	return img
}

func gridCoord(i, n int, extent float64) float64 {
	if n == 1 {
		return 0
	}
	return float64(i) * extent / float64(n-1)
}

// ExportFile rasterizes map m and writes the grid image to path,
// encoding as PNG or TIFF depending on the file extension.
func ExportFile(path string, m Map, width, height int, maxX, maxY, minDepth, maxDepth float64) error {
	img := Rasterize(m, width, height, maxX, maxY, minDepth, maxDepth)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot write height map image: %w", err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("cannot encode height map image: %w", err)
	}
	tracer().Infof("height map exported to %q (%d×%d)", path, width, height)
	return nil
}
