// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/caarya/caarya-live/cliparse"
	"github.com/caarya/caarya-live/middleware"
	"github.com/caarya/caarya-live/models"
)

type PodHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPodHandler(db *sql.DB, cfg cliparse.Config) *PodHandler {
	return &PodHandler{db: db, cfg: cfg}
}

const podColumns = `id, name, crew, category, stage, members, goals, is_active, image_url, created_at`

func scanPod(row interface{ Scan(...any) error }) (models.Pod, error) {
	var pod models.Pod
	err := row.Scan(
		&pod.ID, &pod.Name, &pod.Crew, &pod.Category, &pod.Stage,
		&pod.Members, &pod.Goals, &pod.IsActive, &pod.ImageURL, &pod.CreatedAt,
	)
	return pod, err
}

// ListPods handles GET /pods
// An optional ?crew= filter narrows the listing to one crew.
func (h *PodHandler) ListPods(w http.ResponseWriter, r *http.Request) {
	query := `SELECT ` + podColumns + ` FROM pod`
	args := []any{}

	if crew := r.URL.Query().Get("crew"); crew != "" {
		query += ` WHERE crew = $1`
		args = append(args, crew)
	}
	query += ` ORDER BY crew, name`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query pods", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	pods := []models.Pod{}
	for rows.Next() {
		pod, err := scanPod(rows)
		if err != nil {
			slog.Error("failed to scan pod", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		pods = append(pods, pod)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate pods", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, pods)
}

// GetPod handles GET /pods/{id}
func (h *PodHandler) GetPod(w http.ResponseWriter, r *http.Request) {
	podID := r.PathValue("id")
	if podID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pod id is required")
		return
	}

	pod, err := scanPod(h.db.QueryRow(`SELECT `+podColumns+` FROM pod WHERE id = $1`, podID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Pod not found")
		return
	}
	if err != nil {
		slog.Error("failed to query pod", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, pod)
}
