package gateway

import (
	"context"
	"errors"

	"github.com/bithidat-dotcom/Quats-banana/internal/studio"
)

// ErrGeneration marks failures of the remote capability: unreachable,
// unauthorized, or an empty result. Check with errors.Is.
var ErrGeneration = errors.New("image generation failed")

// ErrInvalidInput marks an edit request whose source is not a decodable
// image payload.
var ErrInvalidInput = errors.New("source is not a decodable image")

// Image is a synthesized image as returned by the remote model.
type Image struct {
	Data     []byte
	MimeType string
}

// Gateway is the remote capability that turns a prompt, or an image plus an
// instruction, into a new image. Failures never leave partial state behind;
// callers only append a record on success.
type Gateway interface {
	Generate(ctx context.Context, prompt string, ratio studio.AspectRatio) (*Image, error)
	Edit(ctx context.Context, source []byte, instruction string) (*Image, error)
	// ModelTag identifies the generation capability, recorded on each
	// produced record for informational purposes.
	ModelTag() string
}
