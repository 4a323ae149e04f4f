// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/caarya/caarya-live/catalog"
	"github.com/caarya/caarya-live/cliparse"
	"github.com/caarya/caarya-live/middleware"
	"github.com/caarya/caarya-live/models"
)

type UnlockHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	catalog *catalog.Cache
}

func NewUnlockHandler(db *sql.DB, cfg cliparse.Config, cache *catalog.Cache) *UnlockHandler {
	return &UnlockHandler{db: db, cfg: cfg, catalog: cache}
}

func validTab(tab string) bool {
	switch tab {
	case models.TabBMPs, models.TabCulture, models.TabMarketing,
		models.TabStrategicPartners, models.TabPartnerRelations, models.TabServices:
		return true
	}
	return false
}

// GetCatalog handles GET /unlocks
// Returns catalog entries for one tab, or all tabs when none is given.
func (h *UnlockHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if tab == "" {
		all, err := h.catalog.AllTabs()
		if err != nil {
			slog.Error("failed to load unlock catalog", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load catalog")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, all)
		return
	}

	if !validTab(tab) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown tab")
		return
	}

	items, err := h.catalog.ItemsByTab(tab)
	if err != nil {
		slog.Error("failed to load unlock catalog", "error", err, "tab", tab)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load catalog")
		return
	}
	if items == nil {
		items = []models.UnlockItem{}
	}

	middleware.JSONResponse(w, http.StatusOK, items)
}

// GetBoard handles GET /pods/{id}/board
// Joins the unlock catalog for a tab with the pod's activation records
// and returns titled sections of status-annotated cards. Catalog and
// progress are fetched concurrently; a progress failure degrades to an
// all-locked board instead of failing the request.
func (h *UnlockHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	podID := r.PathValue("id")
	if podID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pod id is required")
		return
	}

	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = models.TabBMPs
	}
	if !validTab(tab) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown tab")
		return
	}

	var items []models.UnlockItem
	var activations []models.Activation
	var progErr error

	var g errgroup.Group
	g.Go(func() error {
		var err error
		items, err = h.catalog.ItemsByTab(tab)
		return err
	})
	g.Go(func() error {
		// Progress is a secondary source; its failure is recorded,
		// not propagated.
		activations, progErr = h.loadActivations(podID)
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("failed to load unlock catalog", "error", err, "tab", tab)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load catalog")
		return
	}

	board := models.Board{PodID: podID, Tab: tab}
	if progErr != nil {
		slog.Warn("falling back to locked board, progress unavailable",
			"error", progErr, "pod_id", podID)
		board.Sections = catalog.LockedSections(items)
		board.Degraded = true
	} else {
		board.Sections = catalog.MergeSections(items, activations)
	}

	middleware.JSONResponse(w, http.StatusOK, board)
}

// GetProgress handles GET /pods/{id}/progress
func (h *UnlockHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	podID := r.PathValue("id")
	if podID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pod id is required")
		return
	}

	activations, err := h.loadActivations(podID)
	if err != nil {
		slog.Error("failed to load activations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	assets, err := h.loadAssetStatuses(podID)
	if err != nil {
		slog.Error("failed to load asset statuses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProgressResponse{
		Activations:   activations,
		AssetStatuses: assets,
	})
}

// StartActivation handles POST /pods/{id}/activations/{unlockId}/start
// Creates or restarts the activation record as in-progress.
func (h *UnlockHandler) StartActivation(w http.ResponseWriter, r *http.Request) {
	podID := r.PathValue("id")
	unlockID := r.PathValue("unlockId")
	if podID == "" || unlockID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pod id and unlock id are required")
		return
	}

	if !h.podExists(w, podID) {
		return
	}

	now := time.Now()
	res, err := h.db.Exec(`
		UPDATE activation
		SET status = $1, started_at = $2, completed_at = NULL, updated_at = $2
		WHERE pod_id = $3 AND unlock_id = $4
	`, models.ActivationInProgress, now, podID, unlockID)
	if err != nil {
		slog.Error("failed to update activation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		_, err = h.db.Exec(`
			INSERT INTO activation (pod_id, unlock_id, status, started_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
		`, podID, unlockID, models.ActivationInProgress, now, now)
		if err != nil {
			slog.Error("failed to insert activation", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	slog.Info("activation started", "pod_id", podID, "unlock_id", unlockID)
	h.respondActivation(w, podID, unlockID)
}

// UpdateActivation handles PATCH /pods/{id}/activations/{unlockId}
// Sets the tri-state activation status directly.
func (h *UnlockHandler) UpdateActivation(w http.ResponseWriter, r *http.Request) {
	podID := r.PathValue("id")
	unlockID := r.PathValue("unlockId")
	if podID == "" || unlockID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pod id and unlock id are required")
		return
	}

	var req models.UpdateActivationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.Status {
	case models.ActivationPending, models.ActivationInProgress, models.ActivationCompleted:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be one of: pending, in-progress, completed")
		return
	}

	if !h.podExists(w, podID) {
		return
	}

	now := time.Now()
	var completedAt any
	if req.Status == models.ActivationCompleted {
		completedAt = now
	}

	res, err := h.db.Exec(`
		UPDATE activation
		SET status = $1, completed_at = $2, updated_at = $3
		WHERE pod_id = $4 AND unlock_id = $5
	`, req.Status, completedAt, now, podID, unlockID)
	if err != nil {
		slog.Error("failed to update activation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		_, err = h.db.Exec(`
			INSERT INTO activation (pod_id, unlock_id, status, completed_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
		`, podID, unlockID, req.Status, completedAt, now)
		if err != nil {
			slog.Error("failed to insert activation", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	slog.Info("activation updated", "pod_id", podID, "unlock_id", unlockID, "status", req.Status)
	h.respondActivation(w, podID, unlockID)
}

// ToggleAsset handles POST /pods/{id}/assets/{assetId}/toggle
func (h *UnlockHandler) ToggleAsset(w http.ResponseWriter, r *http.Request) {
	podID := r.PathValue("id")
	assetID := r.PathValue("assetId")
	if podID == "" || assetID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pod id and asset id are required")
		return
	}

	if !h.podExists(w, podID) {
		return
	}

	now := time.Now()
	var completed bool
	err := h.db.QueryRow(`
		SELECT completed FROM asset_status WHERE pod_id = $1 AND asset_id = $2
	`, podID, assetID).Scan(&completed)

	if err == sql.ErrNoRows {
		_, err = h.db.Exec(`
			INSERT INTO asset_status (pod_id, asset_id, completed, completed_at, created_at, updated_at)
			VALUES ($1, $2, TRUE, $3, $3, $3)
		`, podID, assetID, now)
		if err != nil {
			slog.Error("failed to insert asset status", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		h.respondAsset(w, podID, assetID)
		return
	}
	if err != nil {
		slog.Error("failed to query asset status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var completedAt any
	if !completed {
		completedAt = now
	}
	_, err = h.db.Exec(`
		UPDATE asset_status
		SET completed = $1, completed_at = $2, updated_at = $3
		WHERE pod_id = $4 AND asset_id = $5
	`, !completed, completedAt, now, podID, assetID)
	if err != nil {
		slog.Error("failed to toggle asset status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("asset toggled", "pod_id", podID, "asset_id", assetID, "completed", !completed)
	h.respondAsset(w, podID, assetID)
}

// CommentAsset handles PATCH /pods/{id}/assets/{assetId}/comment
func (h *UnlockHandler) CommentAsset(w http.ResponseWriter, r *http.Request) {
	podID := r.PathValue("id")
	assetID := r.PathValue("assetId")
	if podID == "" || assetID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pod id and asset id are required")
		return
	}

	var req models.AssetCommentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !h.podExists(w, podID) {
		return
	}

	now := time.Now()
	res, err := h.db.Exec(`
		UPDATE asset_status SET comment = $1, updated_at = $2
		WHERE pod_id = $3 AND asset_id = $4
	`, req.Comment, now, podID, assetID)
	if err != nil {
		slog.Error("failed to update asset comment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		_, err = h.db.Exec(`
			INSERT INTO asset_status (pod_id, asset_id, comment, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
		`, podID, assetID, req.Comment, now)
		if err != nil {
			slog.Error("failed to insert asset status", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	h.respondAsset(w, podID, assetID)
}

func (h *UnlockHandler) loadActivations(podID string) ([]models.Activation, error) {
	rows, err := h.db.Query(`
		SELECT pod_id, unlock_id, status, started_at, completed_at, created_at, updated_at
		FROM activation WHERE pod_id = $1
	`, podID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activations := []models.Activation{}
	for rows.Next() {
		var a models.Activation
		if err := rows.Scan(&a.PodID, &a.UnlockID, &a.Status, &a.StartedAt,
			&a.CompletedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		activations = append(activations, a)
	}
	return activations, rows.Err()
}

func (h *UnlockHandler) loadAssetStatuses(podID string) ([]models.AssetStatus, error) {
	rows, err := h.db.Query(`
		SELECT pod_id, asset_id, title, completed, completed_at, comment, created_at, updated_at
		FROM asset_status WHERE pod_id = $1
	`, podID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.AssetStatus{}
	for rows.Next() {
		var a models.AssetStatus
		if err := rows.Scan(&a.PodID, &a.AssetID, &a.Title, &a.Completed,
			&a.CompletedAt, &a.Comment, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// podExists writes a 404 and returns false when the pod is unknown.
func (h *UnlockHandler) podExists(w http.ResponseWriter, podID string) bool {
	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM pod WHERE id = $1)`, podID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check pod", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Pod not found")
		return false
	}
	return true
}

func (h *UnlockHandler) respondActivation(w http.ResponseWriter, podID, unlockID string) {
	var a models.Activation
	err := h.db.QueryRow(`
		SELECT pod_id, unlock_id, status, started_at, completed_at, created_at, updated_at
		FROM activation WHERE pod_id = $1 AND unlock_id = $2
	`, podID, unlockID).Scan(&a.PodID, &a.UnlockID, &a.Status, &a.StartedAt,
		&a.CompletedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		slog.Error("failed to reload activation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, a)
}

func (h *UnlockHandler) respondAsset(w http.ResponseWriter, podID, assetID string) {
	var a models.AssetStatus
	err := h.db.QueryRow(`
		SELECT pod_id, asset_id, title, completed, completed_at, comment, created_at, updated_at
		FROM asset_status WHERE pod_id = $1 AND asset_id = $2
	`, podID, assetID).Scan(&a.PodID, &a.AssetID, &a.Title, &a.Completed,
		&a.CompletedAt, &a.Comment, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		slog.Error("failed to reload asset status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, a)
}
