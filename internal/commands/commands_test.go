package commands

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// testImagePNG builds a small two-tone PNG for filter tests.
func testImagePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.RGBA{R: 220, G: 60, B: 40, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 30, G: 90, B: 200, A: 255})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func decodeResult(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("result is not a decodable PNG: %v", err)
	}
	return img
}
