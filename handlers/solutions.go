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

type SolutionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSolutionHandler(db *sql.DB, cfg cliparse.Config) *SolutionHandler {
	return &SolutionHandler{db: db, cfg: cfg}
}

const solutionColumns = `id, core_problem_id, title, description, submitted_by, status,
	is_selected, review_notes, created_at, updated_at`

func scanSolution(row interface{ Scan(...any) error }) (models.Solution, error) {
	var s models.Solution
	err := row.Scan(
		&s.ID, &s.CoreProblemID, &s.Title, &s.Description, &s.SubmittedBy, &s.Status,
		&s.IsSelected, &s.ReviewNotes, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// ListSolutions handles GET /core-problems/{id}/solutions
func (h *SolutionHandler) ListSolutions(w http.ResponseWriter, r *http.Request) {
	problemID := r.PathValue("id")
	if problemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "core problem id is required")
		return
	}

	rows, err := h.db.Query(`
		SELECT `+solutionColumns+` FROM solution WHERE core_problem_id = $1 ORDER BY created_at
	`, problemID)
	if err != nil {
		slog.Error("failed to query solutions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	solutions := []models.Solution{}
	for rows.Next() {
		s, err := scanSolution(rows)
		if err != nil {
			slog.Error("failed to scan solution", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		solutions = append(solutions, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate solutions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, solutions)
}

// CreateSolution handles POST /core-problems/{id}/solutions
func (h *SolutionHandler) CreateSolution(w http.ResponseWriter, r *http.Request) {
	problemID := r.PathValue("id")
	if problemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "core problem id is required")
		return
	}

	user, _ := middleware.CurrentUser(r)

	var req models.CreateSolutionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	var exists bool
	if err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM core_problem WHERE id = $1)`, problemID).Scan(&exists); err != nil {
		slog.Error("failed to check core problem", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Core problem not found")
		return
	}

	solutionID := uuid.NewString()
	now := time.Now()
	_, err := h.db.Exec(`
		INSERT INTO solution (id, core_problem_id, title, description, submitted_by, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`, solutionID, problemID, req.Title, req.Description, user.ID, models.SolutionSubmitted, now)
	if err != nil {
		slog.Error("failed to insert solution", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create solution")
		return
	}

	slog.Info("solution submitted", "solution_id", solutionID, "core_problem_id", problemID)
	h.respondSolution(w, http.StatusCreated, solutionID)
}

// ReviewSolution handles POST /solutions/{id}/review
// Review verdicts only apply while a solution is submitted or under review.
func (h *SolutionHandler) ReviewSolution(w http.ResponseWriter, r *http.Request) {
	solutionID := r.PathValue("id")
	if solutionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "solution id is required")
		return
	}

	var req models.ReviewSolutionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	switch req.Status {
	case models.SolutionUnderReview, models.SolutionAccepted, models.SolutionDiscarded:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be under-review, accepted, or discarded")
		return
	}

	var current string
	err := h.db.QueryRow(`SELECT status FROM solution WHERE id = $1`, solutionID).Scan(&current)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Solution not found")
		return
	}
	if err != nil {
		slog.Error("failed to query solution", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if current != models.SolutionSubmitted && current != models.SolutionUnderReview {
		middleware.ErrorResponse(w, http.StatusConflict, "Solution has already been reviewed")
		return
	}

	_, err = h.db.Exec(`
		UPDATE solution SET status = $1, review_notes = $2, updated_at = $3 WHERE id = $4
	`, req.Status, req.Notes, time.Now(), solutionID)
	if err != nil {
		slog.Error("failed to review solution", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to review solution")
		return
	}

	slog.Info("solution reviewed", "solution_id", solutionID, "verdict", req.Status)
	h.respondSolution(w, http.StatusOK, solutionID)
}

// SelectSolution handles POST /solutions/{id}/select
// At most one solution per core problem carries the selected flag.
// Selection does not change the solution's status.
func (h *SolutionHandler) SelectSolution(w http.ResponseWriter, r *http.Request) {
	solutionID := r.PathValue("id")
	if solutionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "solution id is required")
		return
	}

	s, err := scanSolution(h.db.QueryRow(`SELECT `+solutionColumns+` FROM solution WHERE id = $1`, solutionID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Solution not found")
		return
	}
	if err != nil {
		slog.Error("failed to query solution", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if s.Status != models.SolutionAccepted {
		middleware.ErrorResponse(w, http.StatusConflict, "Only accepted solutions can be selected")
		return
	}

	var siblingSelected bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM solution WHERE core_problem_id = $1 AND is_selected = TRUE AND id != $2)
	`, s.CoreProblemID, solutionID).Scan(&siblingSelected)
	if err != nil {
		slog.Error("failed to check sibling solutions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if siblingSelected {
		middleware.ErrorResponse(w, http.StatusConflict, "Another solution is already selected for this core problem")
		return
	}

	_, err = h.db.Exec(`
		UPDATE solution SET is_selected = TRUE, updated_at = $1 WHERE id = $2
	`, time.Now(), solutionID)
	if err != nil {
		slog.Error("failed to select solution", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to select solution")
		return
	}

	slog.Info("solution selected", "solution_id", solutionID, "core_problem_id", s.CoreProblemID)
	h.respondSolution(w, http.StatusOK, solutionID)
}

func (h *SolutionHandler) respondSolution(w http.ResponseWriter, statusCode int, solutionID string) {
	s, err := scanSolution(h.db.QueryRow(`SELECT `+solutionColumns+` FROM solution WHERE id = $1`, solutionID))
	if err != nil {
		slog.Error("failed to reload solution", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, statusCode, s)
}
