package commands

import (
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/bithidat-dotcom/Quats-banana/internal/pipeline"
)

// ContrastParams represents typed parameters for the contrast filter
type ContrastParams struct {
	Percentage float64 // -100 (solid grey) to 100 (maximum contrast)
}

// NewContrastParamsFromMap creates ContrastParams from a generic map
func NewContrastParamsFromMap(params map[string]any) (*ContrastParams, error) {
	if err := pipeline.ValidateRequiredParams(params, []string{"percentage"}); err != nil {
		return nil, err
	}

	percentage := pipeline.GetFloatParam(params, "percentage", 0)
	if percentage < -100 || percentage > 100 {
		return nil, fmt.Errorf("percentage must be between -100 and 100, got %v", percentage)
	}

	return &ContrastParams{Percentage: percentage}, nil
}

// ContrastCommand adjusts image contrast
type ContrastCommand struct {
	name   string
	params *ContrastParams
}

// NewContrastCommand creates a new contrast command from configuration parameters
func NewContrastCommand(params map[string]any) (pipeline.Command, error) {
	typedParams, err := NewContrastParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &ContrastCommand{
		name:   "ContrastCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *ContrastCommand) Name() string {
	return c.name
}

// Execute adjusts the contrast of the image
func (c *ContrastCommand) Execute(imageData []byte) ([]byte, error) {
	img, format, err := decodeImage(imageData)
	if err != nil {
		slog.Error("ContrastCommand: failed to decode image", "error", err)
		return nil, err
	}

	slog.Debug("ContrastCommand: adjusting contrast",
		"percentage", c.params.Percentage, "source_format", format)

	return encodePNG(imaging.AdjustContrast(img, c.params.Percentage))
}

// GetParams returns the typed parameters
func (c *ContrastCommand) GetParams() *ContrastParams {
	return c.params
}

func init() {
	if err := pipeline.DefaultRegistry.Register("ContrastCommand", NewContrastCommand); err != nil {
		panic(fmt.Sprintf("failed to register ContrastCommand: %v", err))
	}
}
