package commands

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/bithidat-dotcom/Quats-banana/internal/pipeline"
)

// SepiaParams represents typed parameters for the sepia filter
type SepiaParams struct {
	Amount float64 // 0 (unchanged) to 100 (full sepia tone)
}

// NewSepiaParamsFromMap creates SepiaParams from a generic map
func NewSepiaParamsFromMap(params map[string]any) (*SepiaParams, error) {
	amount := pipeline.GetFloatParam(params, "amount", 100)
	if amount < 0 || amount > 100 {
		return nil, fmt.Errorf("amount must be between 0 and 100, got %v", amount)
	}
	return &SepiaParams{Amount: amount}, nil
}

// SepiaCommand applies a sepia tone
type SepiaCommand struct {
	name   string
	params *SepiaParams
}

// NewSepiaCommand creates a new sepia command from configuration parameters
func NewSepiaCommand(params map[string]any) (pipeline.Command, error) {
	typedParams, err := NewSepiaParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &SepiaCommand{
		name:   "SepiaCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *SepiaCommand) Name() string {
	return c.name
}

// Execute applies the sepia tone to the image
func (c *SepiaCommand) Execute(imageData []byte) ([]byte, error) {
	img, format, err := decodeImage(imageData)
	if err != nil {
		slog.Error("SepiaCommand: failed to decode image", "error", err)
		return nil, err
	}

	slog.Debug("SepiaCommand: applying sepia tone",
		"amount", c.params.Amount, "source_format", format)

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)

	// Blend factor scaled to integer per-mille to keep the hot loop integer-only
	blend := int(c.params.Amount * 10) // 0..1000

	clamp8 := func(v int) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}

	parallelFor(bounds.Dy(), func(y int) {
		yy := bounds.Min.Y + y
		for xx := bounds.Min.X; xx < bounds.Max.X; xx++ {
			r16, g16, b16, a16 := img.At(xx, yy).RGBA()
			r := int(r16 >> 8)
			g := int(g16 >> 8)
			b := int(b16 >> 8)

			// Classic sepia weights, in integer thousandths
			tr := (r*393 + g*769 + b*189) / 1000
			tg := (r*349 + g*686 + b*168) / 1000
			tb := (r*272 + g*534 + b*131) / 1000

			out.Set(xx, yy, color.RGBA{
				R: clamp8((r*(1000-blend) + tr*blend) / 1000),
				G: clamp8((g*(1000-blend) + tg*blend) / 1000),
				B: clamp8((b*(1000-blend) + tb*blend) / 1000),
				A: uint8(a16 >> 8),
			})
		}
	})

	return encodePNG(out)
}

// GetParams returns the typed parameters
func (c *SepiaCommand) GetParams() *SepiaParams {
	return c.params
}

func init() {
	if err := pipeline.DefaultRegistry.Register("SepiaCommand", NewSepiaCommand); err != nil {
		panic(fmt.Sprintf("failed to register SepiaCommand: %v", err))
	}
}
