// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/caarya/caarya-live/catalog"
	"github.com/caarya/caarya-live/cliparse"
	"github.com/caarya/caarya-live/handlers"
	"github.com/caarya/caarya-live/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, cache *catalog.Cache) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	podHandler := handlers.NewPodHandler(db, cfg)
	unlockHandler := handlers.NewUnlockHandler(db, cfg, cache)
	leadHandler := handlers.NewLeadHandler(db, cfg)
	pocHandler := handlers.NewPOCHandler(db, cfg)
	challengeHandler := handlers.NewChallengeHandler(db, cfg)
	coreProblemHandler := handlers.NewCoreProblemHandler(db, cfg)
	solutionHandler := handlers.NewSolutionHandler(db, cfg)
	workReportHandler := handlers.NewWorkReportHandler(db, cfg)

	// Shorthand for routes behind the session check
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(db, cfg.SessionTokenSalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication (OTP flow is public, the rest requires a session)
	mux.HandleFunc("POST /auth/request-otp", middleware.WithLogging(authHandler.RequestOTP))
	mux.HandleFunc("POST /auth/verify-otp", middleware.WithLogging(authHandler.VerifyOTP))
	mux.HandleFunc("GET /auth/me", protected(authHandler.Me))
	mux.HandleFunc("POST /auth/logout", protected(authHandler.Logout))

	// Pods
	mux.HandleFunc("GET /pods", protected(podHandler.ListPods))
	mux.HandleFunc("GET /pods/{id}", protected(podHandler.GetPod))

	// Unlock catalog and per-pod boards
	mux.HandleFunc("GET /unlocks", protected(unlockHandler.GetCatalog))
	mux.HandleFunc("GET /pods/{id}/board", protected(unlockHandler.GetBoard))
	mux.HandleFunc("GET /pods/{id}/progress", protected(unlockHandler.GetProgress))
	mux.HandleFunc("POST /pods/{id}/activations/{unlockId}/start", protected(unlockHandler.StartActivation))
	mux.HandleFunc("PATCH /pods/{id}/activations/{unlockId}", protected(unlockHandler.UpdateActivation))
	mux.HandleFunc("POST /pods/{id}/assets/{assetId}/toggle", protected(unlockHandler.ToggleAsset))
	mux.HandleFunc("PATCH /pods/{id}/assets/{assetId}/comment", protected(unlockHandler.CommentAsset))

	// SPA lead pipeline
	mux.HandleFunc("POST /spa/leads", protected(leadHandler.CreateLead))
	mux.HandleFunc("GET /spa/leads", protected(leadHandler.ListLeads))
	mux.HandleFunc("GET /spa/leads/{id}", protected(leadHandler.GetLead))
	mux.HandleFunc("PATCH /spa/leads/{id}", protected(leadHandler.UpdateLead))
	mux.HandleFunc("DELETE /spa/leads/{id}", protected(leadHandler.DeleteLead))
	mux.HandleFunc("PATCH /spa/leads/{id}/status", protected(leadHandler.UpdateLeadStatus))
	mux.HandleFunc("POST /spa/leads/{id}/score", protected(leadHandler.ScoreLead))
	mux.HandleFunc("GET /spa/leads/{id}/handover", protected(leadHandler.HandoverEligibility))
	mux.HandleFunc("POST /spa/leads/{id}/handover", protected(leadHandler.Handover))
	mux.HandleFunc("GET /spa/dashboard", protected(leadHandler.Dashboard))

	// Points of contact
	mux.HandleFunc("POST /spa/pocs", protected(pocHandler.CreatePOC))
	mux.HandleFunc("GET /spa/leads/{id}/pocs", protected(pocHandler.ListPOCsByLead))
	mux.HandleFunc("GET /spa/pocs/{id}", protected(pocHandler.GetPOC))
	mux.HandleFunc("PATCH /spa/pocs/{id}", protected(pocHandler.UpdatePOC))
	mux.HandleFunc("DELETE /spa/pocs/{id}", protected(pocHandler.DeletePOC))

	// Challenge vault
	mux.HandleFunc("GET /pods/{id}/challenges", protected(challengeHandler.ListChallenges))
	mux.HandleFunc("POST /pods/{id}/challenges", protected(challengeHandler.CreateChallenge))
	mux.HandleFunc("PATCH /challenges/{id}", protected(challengeHandler.UpdateChallenge))
	mux.HandleFunc("POST /challenges/{id}/link", protected(challengeHandler.LinkChallenge))
	mux.HandleFunc("DELETE /challenges/{id}", protected(challengeHandler.DeleteChallenge))

	mux.HandleFunc("GET /pods/{id}/core-problems", protected(coreProblemHandler.ListCoreProblems))
	mux.HandleFunc("POST /pods/{id}/core-problems", protected(coreProblemHandler.CreateCoreProblem))
	mux.HandleFunc("GET /core-problems/{id}", protected(coreProblemHandler.GetCoreProblem))
	mux.HandleFunc("PUT /core-problems/{id}/rca", protected(coreProblemHandler.UpdateRCA))
	mux.HandleFunc("POST /core-problems/{id}/open", protected(coreProblemHandler.OpenForSolutions))
	mux.HandleFunc("POST /core-problems/{id}/escalate", protected(coreProblemHandler.Escalate))
	mux.HandleFunc("POST /core-problems/{id}/resolve", protected(coreProblemHandler.Resolve))
	mux.HandleFunc("POST /core-problems/{id}/outcome", protected(coreProblemHandler.RecordOutcome))

	mux.HandleFunc("GET /core-problems/{id}/solutions", protected(solutionHandler.ListSolutions))
	mux.HandleFunc("POST /core-problems/{id}/solutions", protected(solutionHandler.CreateSolution))
	mux.HandleFunc("POST /solutions/{id}/review", protected(solutionHandler.ReviewSolution))
	mux.HandleFunc("POST /solutions/{id}/select", protected(solutionHandler.SelectSolution))

	// Work reports and availability
	mux.HandleFunc("GET /work-reports/summary", protected(workReportHandler.Summary))
	mux.HandleFunc("GET /work-reports/weekly", protected(workReportHandler.Weekly))
	mux.HandleFunc("GET /work-reports/users/{id}/dsr", protected(workReportHandler.GetDSR))
	mux.HandleFunc("GET /members/availability", protected(workReportHandler.Availability))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("caarya-live API v1"))
	})

	return mux
}
