package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/markyai/studio-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedJSON(t *testing.T, handler http.HandlerFunc, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestOnboardingCompleteBeforeSummary(t *testing.T) {
	setupRedis(t)
	token, err := services.CreateSession("user-1")
	require.NoError(t, err)

	rec := authedJSON(t, StartOnboarding, http.MethodPost, "/api/onboarding/start", `{"edit":false}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	// Completing from the welcome step must not persist an empty profile.
	rec = authedJSON(t, OnboardingComplete, http.MethodPost, "/api/onboarding/complete", `{}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOnboardingNextGatesIncompleteStep(t *testing.T) {
	setupRedis(t)
	token, err := services.CreateSession("user-2")
	require.NoError(t, err)

	rec := authedJSON(t, StartOnboarding, http.MethodPost, "/api/onboarding/start", `{"edit":false}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	// welcome -> role always advances
	rec = authedJSON(t, OnboardingNext, http.MethodPost, "/api/onboarding/next", `{"profile":{}}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	// role step refuses to advance without a selection
	rec = authedJSON(t, OnboardingNext, http.MethodPost, "/api/onboarding/next", `{"profile":{}}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = authedJSON(t, OnboardingNext, http.MethodPost, "/api/onboarding/next", `{"profile":{"role":"Founder"}}`, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}
