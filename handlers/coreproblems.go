// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/caarya/caarya-live/cliparse"
	"github.com/caarya/caarya-live/middleware"
	"github.com/caarya/caarya-live/models"
)

type CoreProblemHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCoreProblemHandler(db *sql.DB, cfg cliparse.Config) *CoreProblemHandler {
	return &CoreProblemHandler{db: db, cfg: cfg}
}

const coreProblemColumns = `id, pod_id, title, description, status, is_public, is_solved,
	escalated_to, escalation_notes, win_reflection, resolved_solution_id, outcome_notes,
	created_at, updated_at`

func scanCoreProblem(row interface{ Scan(...any) error }) (models.CoreProblem, error) {
	var cp models.CoreProblem
	err := row.Scan(
		&cp.ID, &cp.PodID, &cp.Title, &cp.Description, &cp.Status, &cp.IsPublic, &cp.IsSolved,
		&cp.EscalatedTo, &cp.EscalationNotes, &cp.WinReflection, &cp.ResolvedSolutionID,
		&cp.OutcomeNotes, &cp.CreatedAt, &cp.UpdatedAt,
	)
	return cp, err
}

// ListCoreProblems handles GET /pods/{id}/core-problems
func (h *CoreProblemHandler) ListCoreProblems(w http.ResponseWriter, r *http.Request) {
	podID := r.PathValue("id")
	if podID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pod id is required")
		return
	}

	rows, err := h.db.Query(`
		SELECT `+coreProblemColumns+` FROM core_problem WHERE pod_id = $1 ORDER BY created_at DESC
	`, podID)
	if err != nil {
		slog.Error("failed to query core problems", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	problems := []models.CoreProblem{}
	for rows.Next() {
		cp, err := scanCoreProblem(rows)
		if err != nil {
			slog.Error("failed to scan core problem", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		problems = append(problems, cp)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate core problems", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for i := range problems {
		steps, err := h.loadRCASteps(problems[i].ID)
		if err != nil {
			slog.Error("failed to load rca steps", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		problems[i].RootCauseAnalysis = steps
	}

	middleware.JSONResponse(w, http.StatusOK, problems)
}

// CreateCoreProblem handles POST /pods/{id}/core-problems
func (h *CoreProblemHandler) CreateCoreProblem(w http.ResponseWriter, r *http.Request) {
	podID := r.PathValue("id")
	if podID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pod id is required")
		return
	}

	var req models.CreateCoreProblemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" || req.Description == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title and description are required")
		return
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

	problemID := uuid.NewString()
	now := time.Now()
	_, err := h.db.Exec(`
		INSERT INTO core_problem (id, pod_id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, problemID, podID, req.Title, req.Description, models.CoreProblemIdentified, now)
	if err != nil {
		slog.Error("failed to insert core problem", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create core problem")
		return
	}

	slog.Info("core problem created", "core_problem_id", problemID, "pod_id", podID)
	h.respondCoreProblem(w, http.StatusCreated, problemID)
}

// GetCoreProblem handles GET /core-problems/{id}
func (h *CoreProblemHandler) GetCoreProblem(w http.ResponseWriter, r *http.Request) {
	problemID := r.PathValue("id")
	if problemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "core problem id is required")
		return
	}
	h.respondCoreProblem(w, http.StatusOK, problemID)
}

// UpdateRCA handles PUT /core-problems/{id}/rca
// The submitted list replaces any previous analysis wholesale.
func (h *CoreProblemHandler) UpdateRCA(w http.ResponseWriter, r *http.Request) {
	problemID := r.PathValue("id")
	if problemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "core problem id is required")
		return
	}

	var req models.UpdateRCARequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Steps) > models.MaxRCALevels {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("root cause analysis is limited to %d levels", models.MaxRCALevels))
		return
	}
	for i, step := range req.Steps {
		if step.Level != i+1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "levels must be sequential starting at 1")
			return
		}
		if step.Answer == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "every level needs an answer")
			return
		}
	}

	if ok := h.coreProblemExists(w, problemID); !ok {
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM rca_step WHERE core_problem_id = $1`, problemID); err != nil {
		slog.Error("failed to clear rca steps", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update analysis")
		return
	}
	for _, step := range req.Steps {
		if _, err := tx.Exec(`
			INSERT INTO rca_step (core_problem_id, level, answer) VALUES ($1, $2, $3)
		`, problemID, step.Level, step.Answer); err != nil {
			slog.Error("failed to insert rca step", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update analysis")
			return
		}
	}
	if _, err := tx.Exec(`UPDATE core_problem SET updated_at = $1 WHERE id = $2`, time.Now(), problemID); err != nil {
		slog.Error("failed to touch core problem", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update analysis")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit rca update", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update analysis")
		return
	}

	h.respondCoreProblem(w, http.StatusOK, problemID)
}

// OpenForSolutions handles POST /core-problems/{id}/open
// Publishing makes the problem visible to other pods for solution submissions.
func (h *CoreProblemHandler) OpenForSolutions(w http.ResponseWriter, r *http.Request) {
	problemID := r.PathValue("id")
	if problemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "core problem id is required")
		return
	}

	res, err := h.db.Exec(`
		UPDATE core_problem SET status = $1, is_public = TRUE, updated_at = $2 WHERE id = $3
	`, models.CoreProblemOpen, time.Now(), problemID)
	if err != nil {
		slog.Error("failed to open core problem", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to open core problem")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Core problem not found")
		return
	}

	slog.Info("core problem opened for solutions", "core_problem_id", problemID)
	h.respondCoreProblem(w, http.StatusOK, problemID)
}

// Escalate handles POST /core-problems/{id}/escalate
// Escalation is reachable from any state.
func (h *CoreProblemHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	problemID := r.PathValue("id")
	if problemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "core problem id is required")
		return
	}

	var req models.EscalateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.UserID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId is required")
		return
	}

	res, err := h.db.Exec(`
		UPDATE core_problem SET status = $1, escalated_to = $2, escalation_notes = $3, updated_at = $4
		WHERE id = $5
	`, models.CoreProblemEscalated, req.UserID, req.Notes, time.Now(), problemID)
	if err != nil {
		slog.Error("failed to escalate core problem", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to escalate core problem")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Core problem not found")
		return
	}

	slog.Info("core problem escalated", "core_problem_id", problemID, "escalated_to", req.UserID)
	h.respondCoreProblem(w, http.StatusOK, problemID)
}

// Resolve handles POST /core-problems/{id}/resolve
// The resolving solution must belong to this problem, be accepted, and
// be the one flagged selected.
func (h *CoreProblemHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	problemID := r.PathValue("id")
	if problemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "core problem id is required")
		return
	}

	var req models.ResolveCoreProblemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SolutionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "solutionId is required")
		return
	}

	if ok := h.coreProblemExists(w, problemID); !ok {
		return
	}

	var status string
	var selected bool
	err := h.db.QueryRow(`
		SELECT status, is_selected FROM solution WHERE id = $1 AND core_problem_id = $2
	`, req.SolutionID, problemID).Scan(&status, &selected)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Solution not found for this core problem")
		return
	}
	if err != nil {
		slog.Error("failed to query solution", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if status != models.SolutionAccepted || !selected {
		middleware.ErrorResponse(w, http.StatusConflict, "Resolution requires an accepted, selected solution")
		return
	}

	_, err = h.db.Exec(`
		UPDATE core_problem SET status = $1, resolved_solution_id = $2, win_reflection = $3, updated_at = $4
		WHERE id = $5
	`, models.CoreProblemResolved, req.SolutionID, req.WinReflection, time.Now(), problemID)
	if err != nil {
		slog.Error("failed to resolve core problem", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to resolve core problem")
		return
	}

	slog.Info("core problem resolved", "core_problem_id", problemID, "solution_id", req.SolutionID)
	h.respondCoreProblem(w, http.StatusOK, problemID)
}

// RecordOutcome handles POST /core-problems/{id}/outcome
func (h *CoreProblemHandler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	problemID := r.PathValue("id")
	if problemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "core problem id is required")
		return
	}

	var req models.RecordOutcomeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.db.Exec(`
		UPDATE core_problem SET is_solved = $1, outcome_notes = $2, updated_at = $3 WHERE id = $4
	`, req.IsSolved, req.Notes, time.Now(), problemID)
	if err != nil {
		slog.Error("failed to record outcome", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record outcome")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Core problem not found")
		return
	}

	h.respondCoreProblem(w, http.StatusOK, problemID)
}

func (h *CoreProblemHandler) loadRCASteps(problemID string) ([]models.RCAStep, error) {
	rows, err := h.db.Query(`
		SELECT level, answer FROM rca_step WHERE core_problem_id = $1 ORDER BY level
	`, problemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []models.RCAStep{}
	for rows.Next() {
		var s models.RCAStep
		if err := rows.Scan(&s.Level, &s.Answer); err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

// coreProblemExists writes a 404/500 response on failure and reports
// whether the caller should continue.
func (h *CoreProblemHandler) coreProblemExists(w http.ResponseWriter, problemID string) bool {
	var exists bool
	if err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM core_problem WHERE id = $1)`, problemID).Scan(&exists); err != nil {
		slog.Error("failed to check core problem", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Core problem not found")
		return false
	}
	return true
}

func (h *CoreProblemHandler) respondCoreProblem(w http.ResponseWriter, statusCode int, problemID string) {
	cp, err := scanCoreProblem(h.db.QueryRow(`SELECT `+coreProblemColumns+` FROM core_problem WHERE id = $1`, problemID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Core problem not found")
		return
	}
	if err != nil {
		slog.Error("failed to reload core problem", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	steps, err := h.loadRCASteps(problemID)
	if err != nil {
		slog.Error("failed to load rca steps", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	cp.RootCauseAnalysis = steps
	middleware.JSONResponse(w, statusCode, cp)
}
