// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/caarya/caarya-live/cliparse"
	"github.com/caarya/caarya-live/middleware"
	"github.com/caarya/caarya-live/models"
)

type ChallengeHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewChallengeHandler(db *sql.DB, cfg cliparse.Config) *ChallengeHandler {
	return &ChallengeHandler{db: db, cfg: cfg}
}

// Any enumerated state may be selected directly from the dropdown; the
// linear sequence is advisory UI ordering, not a transition table.
func validChallengeStatus(s string) bool {
	switch s {
	case models.ChallengeIdentified, models.ChallengeRCAInProgress,
		models.ChallengeRCACompleted, models.ChallengeSolutionInProgress,
		models.ChallengeResolved, models.ChallengeArchived:
		return true
	}
	return false
}

const challengeColumns = `id, pod_id, title, description, category, priority, status,
	core_problem_id, created_by, created_at, updated_at`

func scanChallenge(row interface{ Scan(...any) error }) (models.Challenge, error) {
	var c models.Challenge
	err := row.Scan(
		&c.ID, &c.PodID, &c.Title, &c.Description, &c.Category, &c.Priority,
		&c.Status, &c.CoreProblemID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// ListChallenges handles GET /pods/{id}/challenges
func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	podID := r.PathValue("id")
	if podID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pod id is required")
		return
	}

	rows, err := h.db.Query(`
		SELECT `+challengeColumns+` FROM challenge WHERE pod_id = $1 ORDER BY created_at DESC
	`, podID)
	if err != nil {
		slog.Error("failed to query challenges", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	challenges := []models.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			slog.Error("failed to scan challenge", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate challenges", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, challenges)
}

// CreateChallenge handles POST /pods/{id}/challenges
func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	podID := r.PathValue("id")
	if podID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pod id is required")
		return
	}

	user, _ := middleware.CurrentUser(r)

	var req models.CreateChallengeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" || req.Description == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title and description are required")
		return
	}
	if req.Category == "" {
		req.Category = models.TabBMPs
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}

	var exists bool
	if err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM pod WHERE id = $1)`, podID).Scan(&exists); err != nil {
		slog.Error("failed to check pod", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Pod not found")
		return
	}

	challengeID := uuid.NewString()
	now := time.Now()
	_, err := h.db.Exec(`
		INSERT INTO challenge (id, pod_id, title, description, category, priority, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`, challengeID, podID, req.Title, req.Description, req.Category, req.Priority,
		models.ChallengeIdentified, user.ID, now)
	if err != nil {
		slog.Error("failed to insert challenge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create challenge")
		return
	}

	slog.Info("challenge created", "challenge_id", challengeID, "pod_id", podID)
	h.respondChallenge(w, http.StatusCreated, challengeID)
}

// UpdateChallenge handles PATCH /challenges/{id}
func (h *ChallengeHandler) UpdateChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID := r.PathValue("id")
	if challengeID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "challenge id is required")
		return
	}

	var req models.UpdateChallengeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := scanChallenge(h.db.QueryRow(`SELECT `+challengeColumns+` FROM challenge WHERE id = $1`, challengeID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Challenge not found")
		return
	}
	if err != nil {
		slog.Error("failed to query challenge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Category != nil {
		c.Category = *req.Category
	}
	if req.Priority != nil {
		c.Priority = *req.Priority
	}
	if req.Status != nil {
		if !validChallengeStatus(*req.Status) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "unknown status")
			return
		}
		c.Status = *req.Status
	}

	_, err = h.db.Exec(`
		UPDATE challenge SET title = $1, description = $2, category = $3, priority = $4, status = $5, updated_at = $6
		WHERE id = $7
	`, c.Title, c.Description, c.Category, c.Priority, c.Status, time.Now(), challengeID)
	if err != nil {
		slog.Error("failed to update challenge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update challenge")
		return
	}

	h.respondChallenge(w, http.StatusOK, challengeID)
}

// LinkChallenge handles POST /challenges/{id}/link
// A challenge links to at most one core problem.
func (h *ChallengeHandler) LinkChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID := r.PathValue("id")
	if challengeID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "challenge id is required")
		return
	}

	var req models.LinkChallengeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CoreProblemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "coreProblemId is required")
		return
	}

	var exists bool
	if err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM core_problem WHERE id = $1)`, req.CoreProblemID).Scan(&exists); err != nil {
		slog.Error("failed to check core problem", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Core problem not found")
		return
	}

	res, err := h.db.Exec(`
		UPDATE challenge SET core_problem_id = $1, updated_at = $2 WHERE id = $3
	`, req.CoreProblemID, time.Now(), challengeID)
	if err != nil {
		slog.Error("failed to link challenge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to link challenge")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Challenge not found")
		return
	}

	slog.Info("challenge linked", "challenge_id", challengeID, "core_problem_id", req.CoreProblemID)
	h.respondChallenge(w, http.StatusOK, challengeID)
}

// DeleteChallenge handles DELETE /challenges/{id}
func (h *ChallengeHandler) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID := r.PathValue("id")
	if challengeID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "challenge id is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM challenge WHERE id = $1`, challengeID)
	if err != nil {
		slog.Error("failed to delete challenge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete challenge")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Challenge not found")
		return
	}

	slog.Info("challenge deleted", "challenge_id", challengeID)
	middleware.JSONResponse(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *ChallengeHandler) respondChallenge(w http.ResponseWriter, statusCode int, challengeID string) {
	c, err := scanChallenge(h.db.QueryRow(`SELECT `+challengeColumns+` FROM challenge WHERE id = $1`, challengeID))
	if err != nil {
		slog.Error("failed to reload challenge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, statusCode, c)
}
