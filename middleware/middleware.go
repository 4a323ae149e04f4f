// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/caarya/caarya-live/auth"
	"github.com/caarya/caarya-live/models"
)

type contextKey string

const userContextKey contextKey = "user"

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Log request
		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", GetClientIP(r),
		)

		// Call the next handler
		next(w, r)

		// Log completion
		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// JSONResponse writes data wrapped in the { success, data } envelope
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(models.Envelope{Success: true, Data: data})
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a { success: false, message } envelope
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(models.Envelope{Success: false, Message: message})
	if err != nil {
		slog.Error("failed to encode JSON error response", "error", err)
	}
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// RequireAuth resolves the bearer token to a session and injects the
// user into the request context. Sessions are stored as salted HMACs,
// so the presented token is hashed before lookup. Unauthenticated
// requests get a 401 envelope; the dashboard redirects to login on
// that status.
func RequireAuth(db *sql.DB, tokenSalt string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ParseBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Missing or malformed bearer token")
			return
		}

		var user models.User
		var expiresAt time.Time
		err = db.QueryRow(`
			SELECT u.id, u.phone, u.name, u.email, u.role, u.is_lead, u.pod_id, u.created_at, s.expires_at
			FROM session s
			JOIN allowed_user u ON u.id = s.user_id
			WHERE s.token_hash = $1
		`, auth.HashToken(token, tokenSalt)).Scan(
			&user.ID, &user.Phone, &user.Name, &user.Email, &user.Role,
			&user.IsLead, &user.PodID, &user.CreatedAt, &expiresAt,
		)
		if err == sql.ErrNoRows {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid session")
			return
		}
		if err != nil {
			slog.Error("failed to resolve session", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		if time.Now().After(expiresAt) {
			// Expired sessions are treated exactly like missing ones
			ErrorResponse(w, http.StatusUnauthorized, "Session expired")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// CurrentUser returns the authenticated user placed in the context by
// RequireAuth. The zero User and false mean the request never passed
// through the auth middleware.
func CurrentUser(r *http.Request) (models.User, bool) {
	user, ok := r.Context().Value(userContextKey).(models.User)
	return user, ok
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClientIP extracts the client IP address
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr
func GetClientIP(r *http.Request) string {
	// Check X-Forwarded-For (load balancers)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in chain
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' || xff[i] == ' ' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP (nginx)
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	// Strip port if present
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
