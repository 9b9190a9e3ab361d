package commands

import (
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/bithidat-dotcom/Quats-banana/internal/pipeline"
)

// BrightnessParams represents typed parameters for the brightness filter
type BrightnessParams struct {
	Percentage float64 // -100 (all black) to 100 (all white)
}

// NewBrightnessParamsFromMap creates BrightnessParams from a generic map
func NewBrightnessParamsFromMap(params map[string]any) (*BrightnessParams, error) {
	if err := pipeline.ValidateRequiredParams(params, []string{"percentage"}); err != nil {
		return nil, err
	}

	percentage := pipeline.GetFloatParam(params, "percentage", 0)
	if percentage < -100 || percentage > 100 {
		return nil, fmt.Errorf("percentage must be between -100 and 100, got %v", percentage)
	}

	return &BrightnessParams{Percentage: percentage}, nil
}

// BrightnessCommand adjusts image brightness
type BrightnessCommand struct {
	name   string
	params *BrightnessParams
}

// NewBrightnessCommand creates a new brightness command from configuration parameters
func NewBrightnessCommand(params map[string]any) (pipeline.Command, error) {
	typedParams, err := NewBrightnessParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &BrightnessCommand{
		name:   "BrightnessCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *BrightnessCommand) Name() string {
	return c.name
}

// Execute adjusts the brightness of the image
func (c *BrightnessCommand) Execute(imageData []byte) ([]byte, error) {
	img, format, err := decodeImage(imageData)
	if err != nil {
		slog.Error("BrightnessCommand: failed to decode image", "error", err)
		return nil, err
	}

	slog.Debug("BrightnessCommand: adjusting brightness",
		"percentage", c.params.Percentage, "source_format", format)

	return encodePNG(imaging.AdjustBrightness(img, c.params.Percentage))
}

// GetParams returns the typed parameters
func (c *BrightnessCommand) GetParams() *BrightnessParams {
	return c.params
}

func init() {
	// Register the command in the default registry
	if err := pipeline.DefaultRegistry.Register("BrightnessCommand", NewBrightnessCommand); err != nil {
		panic(fmt.Sprintf("failed to register BrightnessCommand: %v", err))
	}
}
