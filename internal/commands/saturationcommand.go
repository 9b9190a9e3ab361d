package commands

import (
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/bithidat-dotcom/Quats-banana/internal/pipeline"
)

// SaturationParams represents typed parameters for the saturation filter
type SaturationParams struct {
	Percentage float64 // -100 (grayscale) to 100 (fully saturated)
}

// NewSaturationParamsFromMap creates SaturationParams from a generic map
func NewSaturationParamsFromMap(params map[string]any) (*SaturationParams, error) {
	if err := pipeline.ValidateRequiredParams(params, []string{"percentage"}); err != nil {
		return nil, err
	}

	percentage := pipeline.GetFloatParam(params, "percentage", 0)
	if percentage < -100 || percentage > 100 {
		return nil, fmt.Errorf("percentage must be between -100 and 100, got %v", percentage)
	}

	return &SaturationParams{Percentage: percentage}, nil
}

// SaturationCommand adjusts color saturation
type SaturationCommand struct {
	name   string
	params *SaturationParams
}

// NewSaturationCommand creates a new saturation command from configuration parameters
func NewSaturationCommand(params map[string]any) (pipeline.Command, error) {
	typedParams, err := NewSaturationParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &SaturationCommand{
		name:   "SaturationCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *SaturationCommand) Name() string {
	return c.name
}

// Execute adjusts the saturation of the image
func (c *SaturationCommand) Execute(imageData []byte) ([]byte, error) {
	img, format, err := decodeImage(imageData)
	if err != nil {
		slog.Error("SaturationCommand: failed to decode image", "error", err)
		return nil, err
	}

	slog.Debug("SaturationCommand: adjusting saturation",
		"percentage", c.params.Percentage, "source_format", format)

	return encodePNG(imaging.AdjustSaturation(img, c.params.Percentage))
}

// GetParams returns the typed parameters
func (c *SaturationCommand) GetParams() *SaturationParams {
	return c.params
}

func init() {
	if err := pipeline.DefaultRegistry.Register("SaturationCommand", NewSaturationCommand); err != nil {
		panic(fmt.Sprintf("failed to register SaturationCommand: %v", err))
	}
}
