// Package generate talks to an external text-to-image service.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"garment-texture-studio/internal/logging"
	"garment-texture-studio/internal/texture"
)

// PromptSuffix steers the model towards flat, unlit textures.
const PromptSuffix = ", flat texture, top down view, no perspective"

// ErrEmptyPrompt is returned for a blank design description.
var ErrEmptyPrompt = errors.New("generate: empty prompt")

// ErrMissingKey is returned when no API key is configured.
var ErrMissingKey = errors.New("generate: API key not set")

// DecoratePrompt trims p and appends PromptSuffix.
func DecoratePrompt(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", ErrEmptyPrompt
	}
	return p + PromptSuffix, nil
}

// Generator turns a prompt into an image.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*image.NRGBA, error)
}

// Client is a Generator for OpenAI-style image endpoints: it posts the
// prompt, reads back an image URL and downloads it.
type Client struct {
	Endpoint string
	APIKey   string
	Model    string
	Size     string
	Quality  string
	HTTP     *http.Client
}

// Defaults for Client.
const (
	DefaultEndpoint = "https://api.openai.com/v1/images/generations"
	DefaultModel    = "dall-e-3"
	DefaultSize     = "1024x1024"
	DefaultQuality  = "standard"
)

// NewClient returns a client with default model settings.
func NewClient(apiKey string) *Client {
	return &Client{
		Endpoint: DefaultEndpoint,
		APIKey:   apiKey,
		Model:    DefaultModel,
		Size:     DefaultSize,
		Quality:  DefaultQuality,
		HTTP:     &http.Client{Timeout: 2 * time.Minute},
	}
}

type request struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type response struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate decorates prompt, requests one image and returns it decoded.
func (c *Client) Generate(ctx context.Context, prompt string) (*image.NRGBA, error) {
	if c.APIKey == "" {
		return nil, ErrMissingKey
	}
	full, err := DecoratePrompt(prompt)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(request{Model: c.Model, Prompt: full, Size: c.Size, Quality: c.Quality, N: 1})
	if err != nil {
		return nil, fmt.Errorf("generate: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("generate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	start := time.Now()
	resp, err := c.http().Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate: request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("generate: read response: %w", err)
	}
	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("generate: parse response (status %s): %w", resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("generate: service error: %s", msg)
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return nil, fmt.Errorf("generate: response has no image")
	}
	logging.Logger().Debug("image generated", "elapsed", time.Since(start))

	data, err := texture.Download(ctx, c.http(), out.Data[0].URL)
	if err != nil {
		return nil, err
	}
	img, _, err := texture.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return img, nil
}

func (c *Client) http() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// File is a Generator that ignores the prompt and decodes a local image.
type File struct {
	Path string
}

// Generate loads f.Path.
func (f File) Generate(_ context.Context, _ string) (*image.NRGBA, error) {
	img, err := texture.LoadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return img, nil
}
