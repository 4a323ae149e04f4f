// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Caarya Live API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, cache)

# Endpoints

Health:

	GET /health

Authentication (OTP flow is public):

	POST /auth/request-otp - Request an OTP for an allowlisted phone
	POST /auth/verify-otp  - Exchange OTP for a session token
	GET  /auth/me          - Current user
	POST /auth/logout      - Delete the session

Pods and unlock boards:

	GET   /pods                                  - List pods (?crew= filter)
	GET   /pods/{id}                             - Pod details
	GET   /unlocks                               - Unlock catalog (?tab= filter)
	GET   /pods/{id}/board                       - Merged board for a tab
	GET   /pods/{id}/progress                    - Raw activation rows
	POST  /pods/{id}/activations/{unlockId}/start - Begin an activation
	PATCH /pods/{id}/activations/{unlockId}      - Set activation status
	POST  /pods/{id}/assets/{assetId}/toggle     - Flip asset completion
	PATCH /pods/{id}/assets/{assetId}/comment    - Upsert asset comment

SPA lead pipeline:

	POST   /spa/leads               - Create lead
	GET    /spa/leads               - List leads (owner-scoped by default)
	GET    /spa/leads/{id}          - Lead details
	PATCH  /spa/leads/{id}          - Update lead
	DELETE /spa/leads/{id}          - Delete lead
	PATCH  /spa/leads/{id}/status   - Kanban status move
	POST   /spa/leads/{id}/score    - Submit a scoring matrix
	GET    /spa/leads/{id}/handover - Handover eligibility
	POST   /spa/leads/{id}/handover - Hand the lead to a PRL
	GET    /spa/dashboard           - Pipeline stats

Points of contact:

	POST   /spa/pocs           - Create POC
	GET    /spa/leads/{id}/pocs - List a lead's POCs
	GET    /spa/pocs/{id}      - POC details
	PATCH  /spa/pocs/{id}      - Update POC
	DELETE /spa/pocs/{id}      - Delete POC

Challenge vault:

	GET    /pods/{id}/challenges        - List challenges
	POST   /pods/{id}/challenges        - Create challenge
	PATCH  /challenges/{id}             - Update challenge
	POST   /challenges/{id}/link        - Link to a core problem
	DELETE /challenges/{id}             - Delete challenge
	GET    /pods/{id}/core-problems     - List core problems
	POST   /pods/{id}/core-problems     - Create core problem
	GET    /core-problems/{id}          - Core problem details
	PUT    /core-problems/{id}/rca      - Replace the 5-whys analysis
	POST   /core-problems/{id}/open     - Open for solutions
	POST   /core-problems/{id}/escalate - Escalate (any state)
	POST   /core-problems/{id}/resolve  - Resolve with a selected solution
	POST   /core-problems/{id}/outcome  - Record the outcome
	GET    /core-problems/{id}/solutions - List solutions
	POST   /core-problems/{id}/solutions - Submit solution
	POST   /solutions/{id}/review       - Review verdict
	POST   /solutions/{id}/select       - Select an accepted solution

Work reports:

	GET /work-reports/summary        - Daily summary (?date=)
	GET /work-reports/weekly         - Weekly rollup (?date=)
	GET /work-reports/users/{id}/dsr - DSR details (?date=)
	GET /members/availability        - Member availability

All routes except /health, the root banner, and the two OTP endpoints
sit behind middleware.RequireAuth.
*/
package router
