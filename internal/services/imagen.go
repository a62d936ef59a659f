package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultImagenModel = "imagen-3.0-generate-001"

// ImagenClient generates images through the Imagen predict endpoint.
// Reference photos are not supported by this shape and are ignored.
type ImagenClient struct {
	apiKey  string
	model   string
	baseURL string
	hc      *http.Client
}

func NewImagenClient(apiKey string) *ImagenClient {
	return &ImagenClient{
		apiKey:  apiKey,
		model:   defaultImagenModel,
		baseURL: defaultGeminiBaseURL,
		hc:      &http.Client{},
	}
}

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

func (c *ImagenClient) Generate(ctx context.Context, p *ComposedPrompt) (*ImageResult, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := imagenParameters{SampleCount: 1}
	if p.AspectRatio != "" && p.AspectRatio != "Auto" {
		params.AspectRatio = p.AspectRatio
	}

	reqBody, err := json.Marshal(imagenRequest{
		Instances:  []imagenInstance{{Prompt: p.Text}},
		Parameters: params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:predict?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed imagenResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, ErrNoImage
	}
	if len(parsed.Predictions) == 0 || parsed.Predictions[0].BytesBase64Encoded == "" {
		return nil, ErrNoImage
	}

	prediction := parsed.Predictions[0]
	imageURL, err := normalizeImage(ctx, c.hc, prediction.BytesBase64Encoded, prediction.MimeType)
	if err != nil {
		return nil, err
	}

	return &ImageResult{ImageURL: imageURL}, nil
}
