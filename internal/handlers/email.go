package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/markyai/studio-backend/internal/services"
)

// SendEmailRequest is the glue-layer payload: either subject+html/text or
// a provider template id with dynamic data.
type SendEmailRequest struct {
	To                  string                 `json:"to"`
	Subject             string                 `json:"subject,omitempty"`
	HTML                string                 `json:"html,omitempty"`
	Text                string                 `json:"text,omitempty"`
	TemplateID          string                 `json:"templateId,omitempty"`
	DynamicTemplateData map[string]interface{} `json:"dynamicTemplateData,omitempty"`
}

type SendEmailResponse struct {
	Success bool `json:"success"`
}

// SendEmail relays one transactional email through the mail provider.
// Registered at both /api/send-email and /send-email.
func SendEmail(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.To == "" {
		writeError(w, http.StatusBadRequest, "Recipient is required")
		return
	}
	if req.TemplateID == "" && req.HTML == "" && req.Text == "" {
		writeError(w, http.StatusBadRequest, "Email content is required")
		return
	}
	if mailer == nil {
		writeError(w, http.StatusInternalServerError, "Email service is not configured")
		return
	}

	msg := &services.EmailMessage{
		To:                  req.To,
		Subject:             req.Subject,
		HTML:                req.HTML,
		Text:                req.Text,
		TemplateID:          req.TemplateID,
		DynamicTemplateData: req.DynamicTemplateData,
	}
	if err := mailer.Send(r.Context(), msg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SendEmailResponse{Success: true})
}
