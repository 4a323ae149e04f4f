// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/caarya/caarya-live/cliparse"
	"github.com/caarya/caarya-live/middleware"
	"github.com/caarya/caarya-live/models"
)

type LeadHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewLeadHandler(db *sql.DB, cfg cliparse.Config) *LeadHandler {
	return &LeadHandler{db: db, cfg: cfg}
}

func validLeadStatus(s string) bool {
	switch s {
	case models.LeadResearchPending, models.LeadVerified,
		models.LeadQualified, models.LeadReadyForOutreach:
		return true
	}
	return false
}

const leadColumns = `id, startup_name, description, institution, domain, startup_stage,
	website_link, source, activity_level, service_fit, lead_score, current_status,
	spa_owner, prl_assigned, proof_links, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (models.StartupLead, error) {
	var lead models.StartupLead
	var serviceFit, proofLinks string
	err := row.Scan(
		&lead.ID, &lead.StartupName, &lead.Description, &lead.Institution,
		&lead.Domain, &lead.StartupStage, &lead.WebsiteLink, &lead.Source,
		&lead.ActivityLevel, &serviceFit, &lead.LeadScore, &lead.CurrentStatus,
		&lead.SPAOwner, &lead.PRLAssigned, &proofLinks, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return lead, err
	}
	if err := json.Unmarshal([]byte(serviceFit), &lead.ServiceFit); err != nil {
		return lead, fmt.Errorf("bad service_fit for lead %s: %w", lead.ID, err)
	}
	if err := json.Unmarshal([]byte(proofLinks), &lead.ProofLinks); err != nil {
		return lead, fmt.Errorf("bad proof_links for lead %s: %w", lead.ID, err)
	}
	return lead, nil
}

func marshalStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return string(b)
}

// CreateLead handles POST /spa/leads
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	var req models.CreateLeadRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.StartupName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "startupName is required")
		return
	}
	if req.Institution == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "institution is required")
		return
	}
	if _, ok := models.StageScores[req.StartupStage]; !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown startupStage")
		return
	}
	if _, ok := models.ActivityScores[req.ActivityLevel]; !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown activityLevel")
		return
	}

	leadID := uuid.NewString()
	now := time.Now()

	_, err := h.db.Exec(`
		INSERT INTO lead (id, startup_name, description, institution, domain, startup_stage,
			website_link, source, activity_level, service_fit, current_status, spa_owner,
			proof_links, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
	`, leadID, req.StartupName, req.Description, req.Institution, req.Domain,
		req.StartupStage, req.WebsiteLink, req.Source, req.ActivityLevel,
		marshalStrings(req.ServiceFit), models.LeadResearchPending, user.ID,
		marshalStrings(req.ProofLinks), now)
	if err != nil {
		slog.Error("failed to insert lead", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	slog.Info("lead created", "lead_id", leadID, "owner", user.ID)
	h.respondLead(w, http.StatusCreated, leadID)
}

// ListLeads handles GET /spa/leads
// Leads are scoped to the authenticated owner unless all=true is given.
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)
	q := r.URL.Query()

	query := `SELECT ` + leadColumns + ` FROM lead`
	where := []string{}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.Get("all") != "true" {
		where = append(where, "spa_owner = "+arg(user.ID))
	}
	if s := q.Get("currentStatus"); s != "" {
		where = append(where, "current_status = "+arg(s))
	}
	if d := q.Get("domain"); d != "" {
		where = append(where, "domain = "+arg(d))
	}
	if inst := q.Get("institution"); inst != "" {
		where = append(where, "institution = "+arg(inst))
	}
	if min := q.Get("minScore"); min != "" {
		minScore, err := strconv.ParseFloat(min, 64)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "minScore must be a number")
			return
		}
		where = append(where, "lead_score >= "+arg(minScore))
	}

	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	sortCol := "created_at"
	switch q.Get("sortBy") {
	case "", "createdAt":
	case "leadScore":
		sortCol = "lead_score"
	case "startupName":
		sortCol = "startup_name"
	case "updatedAt":
		sortCol = "updated_at"
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown sortBy field")
		return
	}
	order := "DESC"
	if q.Get("sortOrder") == "asc" {
		order = "ASC"
	}
	query += " ORDER BY " + sortCol + " " + order

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query leads", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	leads := []models.StartupLead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			slog.Error("failed to scan lead", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate leads", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, leads)
}

// GetLead handles GET /spa/leads/{id}
func (h *LeadHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	leadID := r.PathValue("id")
	if leadID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "lead id is required")
		return
	}
	h.respondLead(w, http.StatusOK, leadID)
}

// UpdateLead handles PATCH /spa/leads/{id}
func (h *LeadHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	leadID := r.PathValue("id")
	if leadID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "lead id is required")
		return
	}

	var req models.UpdateLeadRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, ok := h.loadLead(w, leadID)
	if !ok {
		return
	}

	if req.StartupName != nil {
		lead.StartupName = *req.StartupName
	}
	if req.Description != nil {
		lead.Description = *req.Description
	}
	if req.Institution != nil {
		lead.Institution = *req.Institution
	}
	if req.Domain != nil {
		lead.Domain = *req.Domain
	}
	if req.StartupStage != nil {
		if _, ok := models.StageScores[*req.StartupStage]; !ok {
			middleware.ErrorResponse(w, http.StatusBadRequest, "unknown startupStage")
			return
		}
		lead.StartupStage = *req.StartupStage
	}
	if req.WebsiteLink != nil {
		lead.WebsiteLink = *req.WebsiteLink
	}
	if req.Source != nil {
		lead.Source = *req.Source
	}
	if req.ActivityLevel != nil {
		if _, ok := models.ActivityScores[*req.ActivityLevel]; !ok {
			middleware.ErrorResponse(w, http.StatusBadRequest, "unknown activityLevel")
			return
		}
		lead.ActivityLevel = *req.ActivityLevel
	}
	if req.ServiceFit != nil {
		lead.ServiceFit = *req.ServiceFit
	}
	if req.ProofLinks != nil {
		lead.ProofLinks = *req.ProofLinks
	}

	_, err := h.db.Exec(`
		UPDATE lead SET startup_name = $1, description = $2, institution = $3, domain = $4,
			startup_stage = $5, website_link = $6, source = $7, activity_level = $8,
			service_fit = $9, proof_links = $10, updated_at = $11
		WHERE id = $12
	`, lead.StartupName, lead.Description, lead.Institution, lead.Domain,
		lead.StartupStage, lead.WebsiteLink, lead.Source, lead.ActivityLevel,
		marshalStrings(lead.ServiceFit), marshalStrings(lead.ProofLinks),
		time.Now(), leadID)
	if err != nil {
		slog.Error("failed to update lead", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	h.respondLead(w, http.StatusOK, leadID)
}

// DeleteLead handles DELETE /spa/leads/{id}
func (h *LeadHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	leadID := r.PathValue("id")
	if leadID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "lead id is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM lead WHERE id = $1`, leadID)
	if err != nil {
		slog.Error("failed to delete lead", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete lead")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Lead not found")
		return
	}

	slog.Info("lead deleted", "lead_id", leadID)
	middleware.JSONResponse(w, http.StatusOK, map[string]any{"deleted": true})
}

// UpdateLeadStatus handles PATCH /spa/leads/{id}/status
// The kanban board may drop a lead into any column, so any valid status
// value is accepted here; only scoring and handover apply gates.
func (h *LeadHandler) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	leadID := r.PathValue("id")
	if leadID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "lead id is required")
		return
	}

	var req models.UpdateLeadStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !validLeadStatus(req.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown status")
		return
	}

	res, err := h.db.Exec(`
		UPDATE lead SET current_status = $1, updated_at = $2 WHERE id = $3
	`, req.Status, time.Now(), leadID)
	if err != nil {
		slog.Error("failed to update lead status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Lead not found")
		return
	}

	slog.Info("lead status updated", "lead_id", leadID, "status", req.Status)
	h.respondLead(w, http.StatusOK, leadID)
}

// ScoreLead handles POST /spa/leads/{id}/score
// Stores a scoring matrix, writes the weighted total onto the lead, and
// moves a ResearchPending lead to Verified. The numeric outcome only
// affects the advisory qualified flag, never the transition.
func (h *LeadHandler) ScoreLead(w http.ResponseWriter, r *http.Request) {
	leadID := r.PathValue("id")
	if leadID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "lead id is required")
		return
	}

	var req models.ScoreLeadRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !ValidManualScore(req.DomainScore) || !ValidManualScore(req.EngagementScore) || !ValidManualScore(req.StoryScore) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "manual scores must be 25, 50 or 100")
		return
	}

	lead, ok := h.loadLead(w, leadID)
	if !ok {
		return
	}

	stageScore := models.StageScores[lead.StartupStage]
	activityScore := models.ActivityScores[lead.ActivityLevel]
	total := ComputeWeightedTotal(stageScore, activityScore, req.DomainScore, req.EngagementScore, req.StoryScore)

	matrix := models.ScoringMatrix{
		ID:              uuid.NewString(),
		LeadID:          leadID,
		StageScore:      stageScore,
		ActivityScore:   activityScore,
		DomainScore:     req.DomainScore,
		EngagementScore: req.EngagementScore,
		StoryScore:      req.StoryScore,
		WeightedTotal:   total,
		Qualified:       IsQualified(total),
		CreatedAt:       time.Now(),
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO scoring_matrix (id, lead_id, stage_score, activity_score, domain_score,
			engagement_score, story_score, weighted_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, matrix.ID, matrix.LeadID, matrix.StageScore, matrix.ActivityScore,
		matrix.DomainScore, matrix.EngagementScore, matrix.StoryScore,
		matrix.WeightedTotal, matrix.CreatedAt)
	if err != nil {
		slog.Error("failed to insert scoring matrix", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save score")
		return
	}

	newStatus := lead.CurrentStatus
	if newStatus == models.LeadResearchPending {
		newStatus = models.LeadVerified
	}
	_, err = tx.Exec(`
		UPDATE lead SET lead_score = $1, current_status = $2, updated_at = $3 WHERE id = $4
	`, total, newStatus, matrix.CreatedAt, leadID)
	if err != nil {
		slog.Error("failed to write lead score", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save score")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit scoring transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save score")
		return
	}

	slog.Info("lead scored", "lead_id", leadID, "total", total, "qualified", matrix.Qualified)
	middleware.JSONResponse(w, http.StatusCreated, matrix)
}

// HandoverEligibility handles GET /spa/leads/{id}/handover
func (h *LeadHandler) HandoverEligibility(w http.ResponseWriter, r *http.Request) {
	leadID := r.PathValue("id")
	if leadID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "lead id is required")
		return
	}

	lead, ok := h.loadLead(w, leadID)
	if !ok {
		return
	}
	pocCount, err := h.countPOCs(leadID)
	if err != nil {
		slog.Error("failed to count POCs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, CheckHandoverEligibility(lead, pocCount))
}

// Handover handles POST /spa/leads/{id}/handover
// The gate is checked here, server-side; an ineligible lead is a 409.
func (h *LeadHandler) Handover(w http.ResponseWriter, r *http.Request) {
	leadID := r.PathValue("id")
	if leadID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "lead id is required")
		return
	}

	var req models.HandoverRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PRLReceiverID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "prlReceiverId is required")
		return
	}

	lead, ok := h.loadLead(w, leadID)
	if !ok {
		return
	}
	pocCount, err := h.countPOCs(leadID)
	if err != nil {
		slog.Error("failed to count POCs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	eligibility := CheckHandoverEligibility(lead, pocCount)
	if !eligibility.Eligible {
		middleware.ErrorResponse(w, http.StatusConflict, "Lead is not eligible for handover")
		return
	}

	now := time.Now()
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO handover (id, lead_id, prl_receiver_id, notes, attachments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), leadID, req.PRLReceiverID, req.Notes,
		marshalStrings(req.Attachments), now)
	if err != nil {
		slog.Error("failed to insert handover", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record handover")
		return
	}

	_, err = tx.Exec(`
		UPDATE lead SET current_status = $1, prl_assigned = $2, updated_at = $3 WHERE id = $4
	`, models.LeadReadyForOutreach, req.PRLReceiverID, now, leadID)
	if err != nil {
		slog.Error("failed to update lead for handover", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record handover")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit handover", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record handover")
		return
	}

	slog.Info("lead handed over", "lead_id", leadID, "prl", req.PRLReceiverID)
	h.respondLead(w, http.StatusOK, leadID)
}

// Dashboard handles GET /spa/dashboard
func (h *LeadHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r)

	rows, err := h.db.Query(`
		SELECT current_status, COUNT(*), AVG(lead_score)
		FROM lead WHERE spa_owner = $1
		GROUP BY current_status
	`, user.ID)
	if err != nil {
		slog.Error("failed to query dashboard stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	var stats models.DashboardStats
	var weightedSum float64
	for rows.Next() {
		var status string
		var count int
		var avg sql.NullFloat64
		if err := rows.Scan(&status, &count, &avg); err != nil {
			slog.Error("failed to scan dashboard stats", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		switch status {
		case models.LeadResearchPending:
			stats.ResearchPending = count
		case models.LeadVerified:
			stats.Verified = count
		case models.LeadQualified:
			stats.Qualified = count
		case models.LeadReadyForOutreach:
			stats.ReadyForOutreach = count
		}
		stats.TotalLeads += count
		weightedSum += avg.Float64 * float64(count)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate dashboard stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if stats.TotalLeads > 0 {
		stats.AverageScore = weightedSum / float64(stats.TotalLeads)
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// loadLead fetches a lead with its POC count, writing a 404 on absence.
func (h *LeadHandler) loadLead(w http.ResponseWriter, leadID string) (models.StartupLead, bool) {
	lead, err := scanLead(h.db.QueryRow(`SELECT `+leadColumns+` FROM lead WHERE id = $1`, leadID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Lead not found")
		return lead, false
	}
	if err != nil {
		slog.Error("failed to query lead", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return lead, false
	}

	lead.POCCount, err = h.countPOCs(leadID)
	if err != nil {
		slog.Error("failed to count POCs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return lead, false
	}
	return lead, true
}

func (h *LeadHandler) countPOCs(leadID string) (int, error) {
	var count int
	err := h.db.QueryRow(`SELECT COUNT(*) FROM poc WHERE lead_id = $1`, leadID).Scan(&count)
	return count, err
}

func (h *LeadHandler) respondLead(w http.ResponseWriter, statusCode int, leadID string) {
	lead, ok := h.loadLead(w, leadID)
	if !ok {
		return
	}
	middleware.JSONResponse(w, statusCode, lead)
}
