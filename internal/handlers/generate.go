package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/markyai/studio-backend/internal/models"
	"github.com/markyai/studio-backend/internal/services"
)

// GenerateImageRequest is the relay input. Settings and the reference
// photo are optional; the reference is base64-encoded by the client.
type GenerateImageRequest struct {
	Prompt         string                `json:"prompt"`
	SessionID      string                `json:"sessionId,omitempty"`
	Settings       *models.ImageSettings `json:"settings,omitempty"`
	ReferenceImage string                `json:"referenceImage,omitempty"`
}

// GenerateImageResponse echoes the prompt alongside the normalized image.
type GenerateImageResponse struct {
	ImageURL    string `json:"imageUrl"`
	TextContent string `json:"textContent,omitempty"`
	Prompt      string `json:"prompt"`
}

// GenerateImage forwards the composed prompt to the configured generative
// provider and returns the normalized image payload. Stateless: persisting
// the result is the caller's job (POST /api/images).
func GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req GenerateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	settings := models.ImageSettings{Temperature: 1, OutputType: "General", AspectRatio: "Auto"}
	if req.Settings != nil {
		settings = *req.Settings
	}

	var reference []byte
	if req.ReferenceImage != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ReferenceImage)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid reference image encoding")
			return
		}
		reference = decoded
	}

	composed, err := services.ComposePrompt(req.Prompt, settings, reference)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	result, err := imageGenerator.Generate(r.Context(), composed)
	if err != nil {
		writeGenerateError(w, err)
		return
	}

	imageURL := result.ImageURL
	if cloudinarySvc != nil && strings.HasPrefix(imageURL, "data:") {
		hosted, err := cloudinarySvc.UploadDataURI(r.Context(), imageURL, appConfig.CloudinaryFolder)
		if err != nil {
			// The data URI still renders; keep it and log the upload failure.
			log.Printf("Cloudinary upload failed, returning data URI: %v", err)
		} else {
			imageURL = hosted
		}
	}

	writeJSON(w, http.StatusOK, GenerateImageResponse{
		ImageURL:    imageURL,
		TextContent: result.TextContent,
		Prompt:      composed.UserPrompt,
	})
}

// writeGenerateError maps relay errors onto the response taxonomy:
// misconfiguration and unparseable payloads are 500, oversized images 413,
// upstream statuses pass through with 429 preferred for rate limiting.
func writeGenerateError(w http.ResponseWriter, err error) {
	var upstream *services.UpstreamError
	switch {
	case errors.Is(err, services.ErrMissingAPIKey):
		writeError(w, http.StatusInternalServerError, "Image generation service is not configured")
	case errors.Is(err, services.ErrImageTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Generated image exceeds the 5 MB limit")
	case errors.Is(err, services.ErrNoImage):
		writeError(w, http.StatusInternalServerError, "Could not extract image from response")
	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, ErrorResponse{Error: "Image generation failed", Details: upstream.Body})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Server error occurred while generating image", Details: err.Error()})
	}
}
