package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/markyai/studio-backend/internal/config"
	"github.com/markyai/studio-backend/internal/services"
	"github.com/markyai/studio-backend/internal/wizard"
)

// Package-level services, initialized from main.
var (
	appConfig      *config.Config
	imageGenerator services.ImageGenerator
	gallery        *services.Gallery
	mailer         services.Mailer
	cloudinarySvc  *services.CloudinaryService
	profileStore   *services.ProfileStore
	wizardSessions = wizard.NewManager()
)

func InitConfig(cfg *config.Config) {
	appConfig = cfg
}

func InitImageGenerator(gen services.ImageGenerator) {
	imageGenerator = gen
}

func InitGallery(g *services.Gallery) {
	gallery = g
}

func InitMailer(m services.Mailer) {
	mailer = m
}

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinarySvc = service
	return nil
}

func InitProfileStore(s *services.ProfileStore) {
	profileStore = s
}

// ErrorResponse is the JSON error body shared by all handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// requireAuth resolves the Bearer session token to a user id, writing a
// 401 when the request carries no valid session.
func requireAuth(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return "", false
	}
	userID, ok := services.ValidateSession(token)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return "", false
	}
	return userID, true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}
