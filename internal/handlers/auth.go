package handlers

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/markyai/studio-backend/internal/database"
	"github.com/markyai/studio-backend/internal/services"
	"github.com/markyai/studio-backend/pkg/clientip"
	"github.com/markyai/studio-backend/pkg/utils"
)

const resetTokenDuration = 1 * time.Hour

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// AuthResponse carries the session token plus the public user fields.
type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

// Signup handles user registration and sends the welcome email.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	var existingEmail string
	err := database.PostgresDB.QueryRow("SELECT email FROM users WHERE email = $1", req.Email).Scan(&existingEmail)
	if err == nil {
		writeError(w, http.StatusConflict, "User with this email already exists")
		return
	} else if err != sql.ErrNoRows {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	userID := uuid.New().String()
	now := time.Now()
	_, err = database.PostgresDB.Exec(`
		INSERT INTO users (id, created_at, updated_at, name, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, now, now, req.Name, req.Email, hashedPassword)
	if err != nil {
		// A concurrent signup can win the race between the existence
		// check and this insert; the unique index reports it.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			writeError(w, http.StatusConflict, "User with this email already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	sendAsync(services.WelcomeEmail(req.Email, req.Name))

	token, err := services.CreateSession(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		User:    map[string]interface{}{"id": userID, "name": req.Name, "email": req.Email},
		Token:   token,
	})
}

// Signin verifies credentials, creates a session and sends a login alert.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var userID, name, passwordHash string
	err := database.PostgresDB.QueryRow(`
		SELECT id, name, password_hash FROM users WHERE email = $1 AND is_active = TRUE
	`, req.Email).Scan(&userID, &name, &passwordHash)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := services.CreateSession(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	sendAsync(services.LoginAlertEmail(req.Email, name, clientip.RealClientIP(r)))

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Signed in successfully",
		User:    map[string]interface{}{"id": userID, "name": name, "email": req.Email},
		Token:   token,
	})
}

// GetMe returns the authenticated user.
func GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var name, email string
	var createdAt time.Time
	err := database.PostgresDB.QueryRow(`
		SELECT name, email, created_at FROM users WHERE id = $1
	`, userID).Scan(&name, &email, &createdAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		User:    map[string]interface{}{"id": userID, "name": name, "email": email, "created_at": createdAt},
	})
}

// Signout invalidates the current session.
func Signout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		services.InvalidateSession(token)
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Signed out"})
}

// ForgotPassword issues a reset token and sends the reset + security-alert
// emails. Always responds with the same generic message.
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	genericResponse := AuthResponse{
		Success: true,
		Message: "If an account exists with this email, you will receive a password reset link.",
	}

	var userID string
	err := database.PostgresDB.QueryRow("SELECT id FROM users WHERE email = $1 AND is_active = TRUE", req.Email).Scan(&userID)
	if err != nil {
		writeJSON(w, http.StatusOK, genericResponse)
		return
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate reset token")
		return
	}
	resetToken := hex.EncodeToString(tokenBytes)

	_, err = database.PostgresDB.Exec(`
		INSERT INTO password_reset_tokens (id, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), userID, resetToken, time.Now().Add(resetTokenDuration))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create reset token")
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", appConfig.FrontendURL, resetToken)
	sendAsync(services.PasswordResetEmail(req.Email, resetURL, "1 hour"))
	sendAsync(services.ResetRequestAlertEmail(req.Email, appConfig.SupportEmail))

	writeJSON(w, http.StatusOK, genericResponse)
}

// ResetPassword consumes a valid reset token and updates the password.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Token == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Token and password are required")
		return
	}

	var tokenID, userID string
	err := database.PostgresDB.QueryRow(`
		SELECT id, user_id FROM password_reset_tokens
		WHERE token = $1 AND used = FALSE AND expires_at > NOW()
	`, req.Token).Scan(&tokenID, &userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	_, err = database.PostgresDB.Exec(`
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, hashedPassword, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	if _, err := database.PostgresDB.Exec("UPDATE password_reset_tokens SET used = TRUE WHERE id = $1", tokenID); err != nil {
		// The token stays reusable until it expires; make that visible.
		log.Printf("failed to mark reset token %s as used: %v", tokenID, err)
	}
	services.InvalidateUserSessions(userID)

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Password updated successfully"})
}

// sendAsync relays an email fire-and-forget; failures are only logged.
func sendAsync(msg *services.EmailMessage) {
	if mailer == nil {
		return
	}
	go func() {
		if err := mailer.Send(context.Background(), msg); err != nil {
			log.Printf("failed to send email to %s: %v", msg.To, err)
		}
	}()
}
