package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/markyai/studio-backend/internal/models"
)

// SaveImageRequest mirrors a relay result into the owner's gallery.
type SaveImageRequest struct {
	SessionID   string               `json:"sessionId,omitempty"`
	Prompt      string               `json:"prompt"`
	ImageURL    string               `json:"imageUrl"`
	TextContent string               `json:"textContent,omitempty"`
	Settings    models.ImageSettings `json:"settings"`
}

type SaveImageResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type ListImagesResponse struct {
	Success bool                    `json:"success"`
	Images  []models.GeneratedImage `json:"images"`
	Total   int                     `json:"total"`
}

type DeleteImageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SaveImage records a generated image for the authenticated user.
func SaveImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req SaveImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Prompt == "" || req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "Prompt and imageUrl are required")
		return
	}

	image := &models.GeneratedImage{
		ID:          uuid.New().String(),
		SessionID:   req.SessionID,
		Prompt:      req.Prompt,
		ImageURL:    req.ImageURL,
		TextContent: req.TextContent,
		Timestamp:   time.Now().UTC(),
		Settings:    req.Settings,
	}

	if err := gallery.Add(r.Context(), userID, image); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	writeJSON(w, http.StatusCreated, SaveImageResponse{Success: true, ID: image.ID})
}

// ListImages returns the user's gallery, newest first.
func ListImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	images, err := gallery.Images(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch images")
		return
	}

	writeJSON(w, http.StatusOK, ListImagesResponse{Success: true, Images: images, Total: len(images)})
}

// DeleteImage removes an image from the gallery. The local removal is
// immediate; a failed remote delete triggers a list reload instead of an
// error to the caller.
func DeleteImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	imageID := r.URL.Query().Get("id")
	if imageID == "" {
		writeError(w, http.StatusBadRequest, "Image ID is required")
		return
	}

	if err := gallery.Remove(r.Context(), userID, imageID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete image")
		return
	}

	writeJSON(w, http.StatusOK, DeleteImageResponse{Success: true, Message: "Image deleted"})
}
