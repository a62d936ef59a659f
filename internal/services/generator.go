package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/markyai/studio-backend/internal/config"
)

// MaxImageBytes is the largest decoded image payload the relay will return.
const MaxImageBytes = 5 << 20 // 5 MB

var (
	// ErrMissingAPIKey means the generation provider is not configured.
	ErrMissingAPIKey = errors.New("image generation service is not configured")
	// ErrNoImage means the provider responded 2xx but no image could be extracted.
	ErrNoImage = errors.New("could not extract image from response")
	// ErrImageTooLarge means the decoded payload exceeds MaxImageBytes.
	ErrImageTooLarge = errors.New("generated image exceeds the 5 MB limit")
)

// UpstreamError carries a non-2xx provider response through to the handler,
// which passes the status on to the client.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// ImageResult is the normalized relay output: a data URI or asset URL,
// plus any text the model returned alongside the image.
type ImageResult struct {
	ImageURL    string
	TextContent string
}

// ImageGenerator forwards a composed prompt to one external generative
// endpoint and awaits a single synchronous response. No retry, no backoff.
type ImageGenerator interface {
	Generate(ctx context.Context, p *ComposedPrompt) (*ImageResult, error)
}

// NewImageGenerator selects the provider adapter from configuration.
func NewImageGenerator(cfg *config.Config) (ImageGenerator, error) {
	switch cfg.ImageProvider {
	case "", "gemini":
		return NewGeminiClient(cfg.GeminiAPIKey), nil
	case "imagen":
		return NewImagenClient(cfg.GeminiAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown image provider: %s", cfg.ImageProvider)
	}
}

// normalizeImage turns an extracted payload into a base64 data URI.
// The payload is either inline base64 or a remote URL; remote URLs are
// fetched and re-encoded. Payloads over MaxImageBytes are rejected.
func normalizeImage(ctx context.Context, hc *http.Client, payload, mimeType string) (string, error) {
	if strings.HasPrefix(payload, "http://") || strings.HasPrefix(payload, "https://") {
		return fetchAsDataURI(ctx, hc, payload)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return "", ErrImageTooLarge
	}
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, payload), nil
}

// fetchAsDataURI downloads a remote image and re-encodes it to a data URI.
func fetchAsDataURI(ctx context.Context, hc *http.Client, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: "image fetch failed"}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(body) > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/png"
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(body)), nil
}
