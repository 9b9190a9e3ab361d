package commands

import (
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/bithidat-dotcom/Quats-banana/internal/pipeline"
)

// GrayscaleCommand converts an image to grayscale. It takes no parameters.
type GrayscaleCommand struct {
	name string
}

// NewGrayscaleCommand creates a new grayscale command
func NewGrayscaleCommand(params map[string]any) (pipeline.Command, error) {
	return &GrayscaleCommand{
		name: "GrayscaleCommand",
	}, nil
}

// Name returns the command name
func (c *GrayscaleCommand) Name() string {
	return c.name
}

// Execute converts the image to grayscale
func (c *GrayscaleCommand) Execute(imageData []byte) ([]byte, error) {
	img, format, err := decodeImage(imageData)
	if err != nil {
		slog.Error("GrayscaleCommand: failed to decode image", "error", err)
		return nil, err
	}

	slog.Debug("GrayscaleCommand: converting to grayscale", "source_format", format)

	return encodePNG(imaging.Grayscale(img))
}

func init() {
	if err := pipeline.DefaultRegistry.Register("GrayscaleCommand", NewGrayscaleCommand); err != nil {
		panic(fmt.Sprintf("failed to register GrayscaleCommand: %v", err))
	}
}
