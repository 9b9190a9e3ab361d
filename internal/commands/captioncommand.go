package commands

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/bithidat-dotcom/Quats-banana/internal/pipeline"
)

// CaptionParams represents typed parameters for the caption overlay
type CaptionParams struct {
	Text     string
	Position string // "top" or "bottom"
}

// NewCaptionParamsFromMap creates CaptionParams from a generic map
func NewCaptionParamsFromMap(params map[string]any) (*CaptionParams, error) {
	if err := pipeline.ValidateRequiredParams(params, []string{"text"}); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(pipeline.GetStringParam(params, "text", ""))
	if text == "" {
		return nil, fmt.Errorf("caption text cannot be empty")
	}

	position := strings.ToLower(pipeline.GetStringParam(params, "position", "bottom"))
	if position != "top" && position != "bottom" {
		return nil, fmt.Errorf("position must be 'top' or 'bottom', got %q", position)
	}

	return &CaptionParams{Text: text, Position: position}, nil
}

// CaptionCommand draws a text caption over the image
type CaptionCommand struct {
	name   string
	params *CaptionParams
}

// NewCaptionCommand creates a new caption command from configuration parameters
func NewCaptionCommand(params map[string]any) (pipeline.Command, error) {
	typedParams, err := NewCaptionParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &CaptionCommand{
		name:   "CaptionCommand",
		params: typedParams,
	}, nil
}

// Name returns the command name
func (c *CaptionCommand) Name() string {
	return c.name
}

// Execute draws the caption centered near the top or bottom edge
func (c *CaptionCommand) Execute(imageData []byte) ([]byte, error) {
	img, format, err := decodeImage(imageData)
	if err != nil {
		slog.Error("CaptionCommand: failed to decode image", "error", err)
		return nil, err
	}

	slog.Debug("CaptionCommand: drawing caption",
		"text_length", len(c.params.Text), "position", c.params.Position, "source_format", format)

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, c.params.Text).Ceil()
	margin := face.Height * 2

	x := bounds.Min.X + (bounds.Dx()-textWidth)/2
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	y := bounds.Max.Y - margin
	if c.params.Position == "top" {
		y = bounds.Min.Y + margin + face.Ascent
	}

	// Black offset pass behind the white text keeps it legible on any image
	drawString(out, face, c.params.Text, x+1, y+1, color.Black)
	drawString(out, face, c.params.Text, x, y, color.White)

	return encodePNG(out)
}

func drawString(dst draw.Image, face font.Face, text string, x, y int, col color.Color) {
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

// GetParams returns the typed parameters
func (c *CaptionCommand) GetParams() *CaptionParams {
	return c.params
}

func init() {
	if err := pipeline.DefaultRegistry.Register("CaptionCommand", NewCaptionCommand); err != nil {
		panic(fmt.Sprintf("failed to register CaptionCommand: %v", err))
	}
}
