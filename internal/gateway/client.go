package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"

	"github.com/bithidat-dotcom/Quats-banana/internal/studio"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Client calls a hosted image model over HTTP JSON. It carries no timeout of
// its own; pass a plain context and let the remote side bound the request.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

func (c *Client) ModelTag() string {
	return c.model
}

type generateRequest struct {
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspectRatio"`
}

type editRequest struct {
	Model       string `json:"model"`
	Instruction string `json:"instruction"`
	ImageData   string `json:"imageData"` // base64-encoded source payload
	MimeType    string `json:"mimeType"`
}

type imageResponse struct {
	ImageData string `json:"imageData"`
	MimeType  string `json:"mimeType"`
	Error     string `json:"error,omitempty"`
}

// Generate synthesizes a new image from a text prompt.
func (c *Client) Generate(ctx context.Context, prompt string, ratio studio.AspectRatio) (*Image, error) {
	slog.Info("gateway: generating image", "model", c.model, "aspect_ratio", ratio, "prompt_length", len(prompt))

	return c.post(ctx, "/v1/images/generate", generateRequest{
		Model:       c.model,
		Prompt:      prompt,
		AspectRatio: string(ratio),
	})
}

// Edit synthesizes a new image by applying a natural-language instruction to
// an existing one. The source must be a decodable image payload.
func (c *Client) Edit(ctx context.Context, source []byte, instruction string) (*Image, error) {
	_, format, err := image.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slog.Info("gateway: editing image",
		"model", c.model, "source_format", format,
		"source_size_bytes", len(source), "instruction_length", len(instruction))

	return c.post(ctx, "/v1/images/edit", editRequest{
		Model:       c.model,
		Instruction: instruction,
		ImageData:   base64.StdEncoding.EncodeToString(source),
		MimeType:    "image/" + format,
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) (*Image, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: remote capability unreachable: %v", ErrGeneration, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrGeneration, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: unauthorized (status %d)", ErrGeneration, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: remote returned status %d: %s", ErrGeneration, resp.StatusCode, summarize(responseBody))
	}

	var parsed imageResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrGeneration, err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrGeneration, parsed.Error)
	}
	if parsed.ImageData == "" {
		return nil, fmt.Errorf("%w: remote returned no image payload", ErrGeneration)
	}

	data, err := base64.StdEncoding.DecodeString(parsed.ImageData)
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable image payload: %v", ErrGeneration, err)
	}

	mimeType := parsed.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}

	slog.Info("gateway: received image", "mime_type", mimeType, "size_bytes", len(data))
	return &Image{Data: data, MimeType: mimeType}, nil
}

// summarize truncates an error body for logging and error messages.
func summarize(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
