package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/markyai/studio-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeminiClient(serverURL string) *GeminiClient {
	c := NewGeminiClient("test-key")
	c.baseURL = serverURL
	return c
}

func testImagenClient(serverURL string) *ImagenClient {
	c := NewImagenClient("test-key")
	c.baseURL = serverURL
	return c
}

func geminiInlineResponse(data, mimeType, text string) geminiResponse {
	parts := []geminiPart{{InlineData: &geminiInlineData{MimeType: mimeType, Data: data}}}
	if text != "" {
		parts = append(parts, geminiPart{Text: text})
	}
	var resp geminiResponse
	resp.Candidates = []struct {
		Content geminiContent `json:"content"`
	}{{Content: geminiContent{Parts: parts}}}
	return resp
}

func TestNewImageGeneratorSelectsProvider(t *testing.T) {
	gen, err := NewImageGenerator(&config.Config{ImageProvider: "gemini"})
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, gen)

	gen, err = NewImageGenerator(&config.Config{ImageProvider: "imagen"})
	require.NoError(t, err)
	assert.IsType(t, &ImagenClient{}, gen)

	gen, err = NewImageGenerator(&config.Config{})
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, gen)

	_, err = NewImageGenerator(&config.Config{ImageProvider: "dalle"})
	assert.Error(t, err)
}

func TestGeminiGenerateMissingAPIKey(t *testing.T) {
	c := NewGeminiClient("")
	_, err := c.Generate(context.Background(), &ComposedPrompt{Text: "x"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGeminiGenerateInlineImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "make a banner", req.Contents[0].Parts[0].Text)
		assert.Equal(t, []string{"TEXT", "IMAGE"}, req.GenerationConfig.ResponseModalities)

		json.NewEncoder(w).Encode(geminiInlineResponse(payload, "image/png", "here you go"))
	}))
	defer server.Close()

	c := testGeminiClient(server.URL)
	result, err := c.Generate(context.Background(), &ComposedPrompt{Text: "make a banner", Temperature: 1})
	require.NoError(t, err)

	assert.Equal(t, "data:image/png;base64,"+payload, result.ImageURL)
	assert.Equal(t, "here you go", result.TextContent)
}

func TestGeminiGenerateSendsReferencePhoto(t *testing.T) {
	reference := []byte{0x01, 0x02, 0x03}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents[0].Parts, 2)
		require.NotNil(t, req.Contents[0].Parts[1].InlineData)
		assert.Equal(t, base64.StdEncoding.EncodeToString(reference), req.Contents[0].Parts[1].InlineData.Data)

		json.NewEncoder(w).Encode(geminiInlineResponse("aGk=", "image/png", ""))
	}))
	defer server.Close()

	c := testGeminiClient(server.URL)
	_, err := c.Generate(context.Background(), &ComposedPrompt{Text: "with my product", Reference: reference})
	require.NoError(t, err)
}

func TestGeminiGenerateRefetchesRemoteURL(t *testing.T) {
	imageBytes := []byte("remote-image-bytes")
	var assets *httptest.Server
	assets = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(imageBytes)
	}))
	defer assets.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiInlineResponse(assets.URL+"/image.jpg", "", ""))
	}))
	defer server.Close()

	c := testGeminiClient(server.URL)
	result, err := c.Generate(context.Background(), &ComposedPrompt{Text: "x"})
	require.NoError(t, err)

	expected := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageBytes)
	assert.Equal(t, expected, result.ImageURL)
}

func TestGeminiGenerateRejectsOversizedImage(t *testing.T) {
	oversized := strings.Repeat("A", MaxImageBytes*2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiInlineResponse(oversized, "image/png", ""))
	}))
	defer server.Close()

	c := testGeminiClient(server.URL)
	_, err := c.Generate(context.Background(), &ComposedPrompt{Text: "x"})
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestGeminiGeneratePassesThroughUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := testGeminiClient(server.URL)
	_, err := c.Generate(context.Background(), &ComposedPrompt{Text: "x"})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "quota exceeded")
}

func TestGeminiGenerateNoImageInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"no image today"}]}}]}`))
	}))
	defer server.Close()

	c := testGeminiClient(server.URL)
	_, err := c.Generate(context.Background(), &ComposedPrompt{Text: "x"})
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestImagenGenerate(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("imagen-bytes"))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":predict")

		var req imagenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Instances, 1)
		assert.Equal(t, "a poster", req.Instances[0].Prompt)
		assert.Equal(t, 1, req.Parameters.SampleCount)
		assert.Equal(t, "16:9", req.Parameters.AspectRatio)

		w.Write([]byte(`{"predictions":[{"bytesBase64Encoded":"` + payload + `","mimeType":"image/png"}]}`))
	}))
	defer server.Close()

	c := testImagenClient(server.URL)
	result, err := c.Generate(context.Background(), &ComposedPrompt{Text: "a poster", AspectRatio: "16:9"})
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+payload, result.ImageURL)
}

func TestImagenGenerateOmitsAutoAspectRatio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req imagenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, req.Parameters.AspectRatio)

		w.Write([]byte(`{"predictions":[{"bytesBase64Encoded":"aGk=","mimeType":"image/png"}]}`))
	}))
	defer server.Close()

	c := testImagenClient(server.URL)
	_, err := c.Generate(context.Background(), &ComposedPrompt{Text: "x", AspectRatio: "Auto"})
	require.NoError(t, err)
}

func TestImagenGenerateEmptyPredictions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"predictions":[]}`))
	}))
	defer server.Close()

	c := testImagenClient(server.URL)
	_, err := c.Generate(context.Background(), &ComposedPrompt{Text: "x"})
	assert.ErrorIs(t, err, ErrNoImage)
}
