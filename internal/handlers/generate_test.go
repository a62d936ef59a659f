package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markyai/studio-backend/internal/config"
	"github.com/markyai/studio-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	result   *services.ImageResult
	err      error
	called   bool
	lastSeen *services.ComposedPrompt
}

func (s *stubGenerator) Generate(ctx context.Context, p *services.ComposedPrompt) (*services.ImageResult, error) {
	s.called = true
	s.lastSeen = p
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func postGenerate(t *testing.T, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-image", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	GenerateImage(rec, req)
	return rec
}

func TestGenerateImageEmptyPrompt(t *testing.T) {
	stub := &stubGenerator{}
	InitImageGenerator(stub)
	InitConfig(config.Load())

	rec := postGenerate(t, GenerateImageRequest{Prompt: "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, stub.called, "relay must not be called for empty prompts")
}

func TestGenerateImageSuccess(t *testing.T) {
	stub := &stubGenerator{result: &services.ImageResult{
		ImageURL:    "data:image/png;base64,aGk=",
		TextContent: "a sunny banner",
	}}
	InitImageGenerator(stub)
	InitConfig(config.Load())

	rec := postGenerate(t, GenerateImageRequest{Prompt: "coffee shop banner"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp GenerateImageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "data:image/png;base64,aGk=", resp.ImageURL)
	assert.Equal(t, "a sunny banner", resp.TextContent)
	assert.Equal(t, "coffee shop banner", resp.Prompt)
}

func TestGenerateImageDefaultsSettings(t *testing.T) {
	stub := &stubGenerator{result: &services.ImageResult{ImageURL: "data:image/png;base64,aGk="}}
	InitImageGenerator(stub)
	InitConfig(config.Load())

	rec := postGenerate(t, GenerateImageRequest{Prompt: "a poster"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastSeen)
	assert.Equal(t, float64(1), stub.lastSeen.Temperature)
	assert.Equal(t, "Auto", stub.lastSeen.AspectRatio)
}

func TestGenerateImageInvalidReferenceEncoding(t *testing.T) {
	stub := &stubGenerator{}
	InitImageGenerator(stub)
	InitConfig(config.Load())

	rec := postGenerate(t, GenerateImageRequest{Prompt: "x", ReferenceImage: "not-base64!!"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, stub.called)
}

func TestGenerateImageErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing api key", services.ErrMissingAPIKey, http.StatusInternalServerError},
		{"image too large", services.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
		{"no image extracted", services.ErrNoImage, http.StatusInternalServerError},
		{"upstream rate limited", &services.UpstreamError{StatusCode: 429, Body: "quota"}, http.StatusTooManyRequests},
		{"upstream bad request", &services.UpstreamError{StatusCode: 400, Body: "blocked"}, http.StatusBadRequest},
		{"upstream weird status", &services.UpstreamError{StatusCode: 302, Body: "redirect"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitImageGenerator(&stubGenerator{err: tt.err})
			InitConfig(config.Load())

			rec := postGenerate(t, GenerateImageRequest{Prompt: "x"})
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
