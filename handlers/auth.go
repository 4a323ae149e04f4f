// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/caarya/caarya-live/auth"
	"github.com/caarya/caarya-live/cliparse"
	"github.com/caarya/caarya-live/middleware"
	"github.com/caarya/caarya-live/models"
)

// sessionTTL bounds how long a bearer token stays valid.
const sessionTTL = 30 * 24 * time.Hour

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// RequestOTP handles POST /auth/request-otp
// Only phones on the allowlist may receive a code at all.
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req models.RequestOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Phone == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "phoneNumber is required")
		return
	}

	var userID string
	err := h.db.QueryRow(`SELECT id FROM allowed_user WHERE phone = $1`, req.Phone).Scan(&userID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusForbidden, "Phone number is not registered with Caarya")
		return
	}
	if err != nil {
		slog.Error("failed to check allowlist", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		slog.Error("failed to generate OTP", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate OTP")
		return
	}

	expiresAt := time.Now().Add(h.cfg.OTPTTL)
	codeHash := auth.HashOTP(req.Phone, code, h.cfg.OTPSalt)

	// One live code per phone; a new request replaces the old code.
	if _, err := h.db.Exec(`DELETE FROM otp_code WHERE phone = $1`, req.Phone); err != nil {
		slog.Error("failed to clear previous OTP", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	_, err = h.db.Exec(`
		INSERT INTO otp_code (phone, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, req.Phone, codeHash, expiresAt, time.Now())
	if err != nil {
		slog.Error("failed to store OTP", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// SMS delivery is a gateway concern; the code never appears in a
	// response body.
	slog.Info("OTP issued", "phone", req.Phone, "expires_at", expiresAt)

	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"expiresAt": expiresAt,
	})
}

// VerifyOTP handles POST /auth/verify-otp
// A correct, unexpired, unconsumed code yields a session token.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Phone == "" || req.Code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "phoneNumber and code are required")
		return
	}

	var codeHash string
	var expiresAt time.Time
	var consumed bool
	err := h.db.QueryRow(`
		SELECT code_hash, expires_at, consumed FROM otp_code WHERE phone = $1
	`, req.Phone).Scan(&codeHash, &expiresAt, &consumed)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired OTP")
		return
	}
	if err != nil {
		slog.Error("failed to query OTP", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if consumed || time.Now().After(expiresAt) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired OTP")
		return
	}
	if err := auth.VerifyOTP(req.Phone, req.Code, h.cfg.OTPSalt, codeHash); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired OTP")
		return
	}

	if _, err := h.db.Exec(`UPDATE otp_code SET consumed = TRUE WHERE phone = $1`, req.Phone); err != nil {
		slog.Error("failed to consume OTP", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var user models.User
	err = h.db.QueryRow(`
		SELECT id, phone, name, email, role, is_lead, pod_id, created_at
		FROM allowed_user WHERE phone = $1
	`, req.Phone).Scan(
		&user.ID, &user.Phone, &user.Name, &user.Email, &user.Role,
		&user.IsLead, &user.PodID, &user.CreatedAt,
	)
	if err != nil {
		slog.Error("failed to load user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	// The raw token goes to the client; only its HMAC is stored.
	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO session (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, auth.HashToken(token, h.cfg.SessionTokenSalt), user.ID, now.Add(sessionTTL), now)
	if err != nil {
		slog.Error("failed to store session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	_, err = h.db.Exec(`UPDATE allowed_user SET last_active_at = $1 WHERE id = $2`, now, user.ID)
	if err != nil {
		slog.Error("failed to update last_active_at", "error", err)
	}

	slog.Info("user logged in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.VerifyOTPResponse{
		Token: token,
		User:  user,
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]any{"user": user})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := auth.ParseBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing or malformed bearer token")
		return
	}

	if _, err := h.db.Exec(`DELETE FROM session WHERE token_hash = $1`,
		auth.HashToken(token, h.cfg.SessionTokenSalt)); err != nil {
		slog.Error("failed to delete session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]any{"loggedOut": true})
}
