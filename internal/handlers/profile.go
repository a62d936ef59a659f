package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/markyai/studio-backend/internal/models"
)

type ProfileResponse struct {
	Success bool                `json:"success"`
	Profile *models.UserProfile `json:"profile"`
}

// GetProfile returns the user's onboarding profile, or null if none exists.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	profile, err := profileStore.Get(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Success: true, Profile: profile})
}

// SaveProfile upserts the user's onboarding profile.
func SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := profileStore.Save(r.Context(), userID, &profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Success: true, Profile: &profile})
}
