package frontend

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var (
	iconOnce sync.Once
	iconPNG  []byte
	iconErr  error
)

// rasterizedIcon renders the embedded SVG icon to a square PNG. The result is
// computed once; every favicon request serves the same bytes.
func rasterizedIcon(size int) ([]byte, error) {
	iconOnce.Do(func() {
		iconPNG, iconErr = rasterizeSVG(size)
	})
	return iconPNG, iconErr
}

func rasterizeSVG(size int) ([]byte, error) {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		return nil, fmt.Errorf("failed to read icon.svg: %w", err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse icon.svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("failed to encode favicon: %w", err)
	}
	return buf.Bytes(), nil
}
