package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/markyai/studio-backend/internal/models"
	"github.com/markyai/studio-backend/internal/wizard"
)

type StartOnboardingRequest struct {
	Edit bool `json:"edit"`
}

type OnboardingStepRequest struct {
	Profile models.UserProfile `json:"profile"`
}

type OnboardingJumpRequest struct {
	Profile models.UserProfile `json:"profile"`
	Step    int                `json:"step"`
}

type OnboardingResponse struct {
	Success bool               `json:"success"`
	Step    int                `json:"step"`
	Name    string             `json:"stepName"`
	Done    bool               `json:"done,omitempty"`
	Profile models.UserProfile `json:"profile"`
}

// StartOnboarding opens a wizard session. Edit mode enters at the summary
// step with the stored profile loaded.
func StartOnboarding(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req StartOnboardingRequest
	json.NewDecoder(r.Body).Decode(&req)

	var session *wizard.Session
	if req.Edit {
		profile := models.UserProfile{}
		if stored, err := profileStore.Get(r.Context(), userID); err == nil && stored != nil {
			profile = *stored
		}
		session = wizard.NewEditSession(profile)
	} else {
		session = wizard.NewSession()
	}
	wizardSessions.Set(userID, session)

	writeWizardState(w, session)
}

// OnboardingNext applies the submitted form state and advances one step.
func OnboardingNext(w http.ResponseWriter, r *http.Request) {
	_, session, ok := wizardSession(w, r)
	if !ok {
		return
	}

	var req OnboardingStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	session.SetProfile(req.Profile)

	if err := session.Next(); err != nil {
		switch {
		case errors.Is(err, wizard.ErrStepIncomplete):
			writeError(w, http.StatusBadRequest, "Complete the current step before continuing")
		case errors.Is(err, wizard.ErrLastStep):
			writeError(w, http.StatusBadRequest, "Already at the summary step")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeWizardState(w, session)
}

// OnboardingBack moves one step back.
func OnboardingBack(w http.ResponseWriter, r *http.Request) {
	_, session, ok := wizardSession(w, r)
	if !ok {
		return
	}
	session.Back()
	writeWizardState(w, session)
}

// OnboardingJump moves to an arbitrary step (edit mode only).
func OnboardingJump(w http.ResponseWriter, r *http.Request) {
	_, session, ok := wizardSession(w, r)
	if !ok {
		return
	}

	var req OnboardingJumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	session.SetProfile(req.Profile)

	if err := session.Jump(wizard.Step(req.Step)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeWizardState(w, session)
}

// OnboardingSkip bypasses all remaining steps; completion still runs with
// the skipped flag set.
func OnboardingSkip(w http.ResponseWriter, r *http.Request) {
	userID, session, ok := wizardSession(w, r)
	if !ok {
		return
	}

	profile := session.Skip()
	if err := profileStore.Save(r.Context(), userID, &profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}
	wizardSessions.Clear(userID)

	writeJSON(w, http.StatusOK, OnboardingResponse{Success: true, Done: true, Profile: profile})
}

// OnboardingComplete persists the collected profile and closes the session.
func OnboardingComplete(w http.ResponseWriter, r *http.Request) {
	userID, session, ok := wizardSession(w, r)
	if !ok {
		return
	}

	var req OnboardingStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		session.SetProfile(req.Profile)
	}

	profile, err := session.Complete()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Finish the remaining steps before completing")
		return
	}
	if err := profileStore.Save(r.Context(), userID, &profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}
	wizardSessions.Clear(userID)

	writeJSON(w, http.StatusOK, OnboardingResponse{Success: true, Done: true, Profile: profile})
}

func wizardSession(w http.ResponseWriter, r *http.Request) (string, *wizard.Session, bool) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return "", nil, false
	}
	session, ok := wizardSessions.Get(userID)
	if !ok {
		writeError(w, http.StatusBadRequest, "No onboarding session in progress")
		return "", nil, false
	}
	return userID, session, true
}

func writeWizardState(w http.ResponseWriter, session *wizard.Session) {
	writeJSON(w, http.StatusOK, OnboardingResponse{
		Success: true,
		Step:    int(session.Step()),
		Name:    session.Step().String(),
		Profile: session.Profile(),
	})
}
