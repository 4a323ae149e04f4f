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

type POCHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPOCHandler(db *sql.DB, cfg cliparse.Config) *POCHandler {
	return &POCHandler{db: db, cfg: cfg}
}

const pocColumns = `id, lead_id, name, role, email, phone, linkedin, notes, created_at, updated_at`

func scanPOC(row interface{ Scan(...any) error }) (models.POC, error) {
	var poc models.POC
	err := row.Scan(
		&poc.ID, &poc.LeadID, &poc.Name, &poc.Role, &poc.Email,
		&poc.Phone, &poc.LinkedIn, &poc.Notes, &poc.CreatedAt, &poc.UpdatedAt,
	)
	return poc, err
}

// CreatePOC handles POST /spa/pocs
func (h *POCHandler) CreatePOC(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePOCRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.LeadID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "leadId is required")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM lead WHERE id = $1)`, req.LeadID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check lead", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Lead not found")
		return
	}

	pocID := uuid.NewString()
	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO poc (id, lead_id, name, role, email, phone, linkedin, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`, pocID, req.LeadID, req.Name, req.Role, req.Email, req.Phone, req.LinkedIn, req.Notes, now)
	if err != nil {
		slog.Error("failed to insert POC", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create POC")
		return
	}

	slog.Info("POC created", "poc_id", pocID, "lead_id", req.LeadID)
	h.respondPOC(w, http.StatusCreated, pocID)
}

// ListPOCsByLead handles GET /spa/leads/{id}/pocs
func (h *POCHandler) ListPOCsByLead(w http.ResponseWriter, r *http.Request) {
	leadID := r.PathValue("id")
	if leadID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "lead id is required")
		return
	}

	rows, err := h.db.Query(`SELECT `+pocColumns+` FROM poc WHERE lead_id = $1 ORDER BY created_at`, leadID)
	if err != nil {
		slog.Error("failed to query POCs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	pocs := []models.POC{}
	for rows.Next() {
		poc, err := scanPOC(rows)
		if err != nil {
			slog.Error("failed to scan POC", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		pocs = append(pocs, poc)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate POCs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, pocs)
}

// GetPOC handles GET /spa/pocs/{id}
func (h *POCHandler) GetPOC(w http.ResponseWriter, r *http.Request) {
	pocID := r.PathValue("id")
	if pocID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poc id is required")
		return
	}
	h.respondPOC(w, http.StatusOK, pocID)
}

// UpdatePOC handles PATCH /spa/pocs/{id}
func (h *POCHandler) UpdatePOC(w http.ResponseWriter, r *http.Request) {
	pocID := r.PathValue("id")
	if pocID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poc id is required")
		return
	}

	var req models.UpdatePOCRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poc, err := scanPOC(h.db.QueryRow(`SELECT `+pocColumns+` FROM poc WHERE id = $1`, pocID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "POC not found")
		return
	}
	if err != nil {
		slog.Error("failed to query POC", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if req.Name != nil {
		poc.Name = *req.Name
	}
	if req.Role != nil {
		poc.Role = *req.Role
	}
	if req.Email != nil {
		poc.Email = *req.Email
	}
	if req.Phone != nil {
		poc.Phone = *req.Phone
	}
	if req.LinkedIn != nil {
		poc.LinkedIn = *req.LinkedIn
	}
	if req.Notes != nil {
		poc.Notes = *req.Notes
	}

	_, err = h.db.Exec(`
		UPDATE poc SET name = $1, role = $2, email = $3, phone = $4, linkedin = $5, notes = $6, updated_at = $7
		WHERE id = $8
	`, poc.Name, poc.Role, poc.Email, poc.Phone, poc.LinkedIn, poc.Notes, time.Now(), pocID)
	if err != nil {
		slog.Error("failed to update POC", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update POC")
		return
	}

	h.respondPOC(w, http.StatusOK, pocID)
}

// DeletePOC handles DELETE /spa/pocs/{id}
func (h *POCHandler) DeletePOC(w http.ResponseWriter, r *http.Request) {
	pocID := r.PathValue("id")
	if pocID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poc id is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM poc WHERE id = $1`, pocID)
	if err != nil {
		slog.Error("failed to delete POC", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete POC")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "POC not found")
		return
	}

	slog.Info("POC deleted", "poc_id", pocID)
	middleware.JSONResponse(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *POCHandler) respondPOC(w http.ResponseWriter, statusCode int, pocID string) {
	poc, err := scanPOC(h.db.QueryRow(`SELECT `+pocColumns+` FROM poc WHERE id = $1`, pocID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "POC not found")
		return
	}
	if err != nil {
		slog.Error("failed to query POC", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, statusCode, poc)
}
