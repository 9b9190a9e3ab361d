package studio

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AspectRatio is one of the output shapes the generation model supports.
type AspectRatio string

const (
	AspectSquare         AspectRatio = "1:1"
	AspectPortrait       AspectRatio = "3:4"
	AspectLandscape      AspectRatio = "4:3"
	AspectPortraitWide   AspectRatio = "9:16"
	AspectLandscapeWide  AspectRatio = "16:9"
	DefaultAspectRatio               = AspectSquare
)

// SupportedAspectRatios lists every ratio accepted by the prompt form.
var SupportedAspectRatios = []AspectRatio{
	AspectSquare,
	AspectPortrait,
	AspectLandscape,
	AspectPortraitWide,
	AspectLandscapeWide,
}

// ParseAspectRatio validates a user-supplied ratio string. An empty string
// falls back to the default square ratio.
func ParseAspectRatio(value string) (AspectRatio, error) {
	if value == "" {
		return DefaultAspectRatio, nil
	}
	for _, ratio := range SupportedAspectRatios {
		if AspectRatio(value) == ratio {
			return ratio, nil
		}
	}
	return "", fmt.Errorf("unsupported aspect ratio: %s", value)
}

// ImageRecord is a single generated or edited image plus its metadata.
//
// ParentID is a non-owning back-reference to the record this one was derived
// from. The parent may be deleted later; a dangling id is treated as "no
// parent" wherever it is resolved, never as an error.
type ImageRecord struct {
	ID          string      `json:"id"`
	ImageData   string      `json:"imageData"` // base64-encoded payload, self-contained
	MimeType    string      `json:"mimeType"`
	Prompt      string      `json:"prompt"`
	AspectRatio AspectRatio `json:"aspectRatio"`
	CreatedAt   time.Time   `json:"createdAt"`
	ModelTag    string      `json:"modelTag"`
	ParentID    string      `json:"parentId,omitempty"`
}

// NewRecord creates a record for a freshly generated or edited image.
// parentID is empty for original generations.
func NewRecord(data []byte, mimeType, prompt string, ratio AspectRatio, modelTag, parentID string) *ImageRecord {
	return &ImageRecord{
		ID:          uuid.NewString(),
		ImageData:   base64.StdEncoding.EncodeToString(data),
		MimeType:    mimeType,
		Prompt:      prompt,
		AspectRatio: ratio,
		CreatedAt:   time.Now().UTC(),
		ModelTag:    modelTag,
		ParentID:    parentID,
	}
}

// Bytes decodes the embedded image payload.
func (r *ImageRecord) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(r.ImageData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload of record %s: %w", r.ID, err)
	}
	return data, nil
}
