// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Caarya Live API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: OTP request/verify, session info, logout
  - PodHandler: Pod listing and lookup
  - UnlockHandler: Unlock catalog, per-pod boards, activations, assets
  - LeadHandler: SPA lead pipeline (CRUD, scoring, handover, dashboard)
  - POCHandler: Points of contact per lead
  - ChallengeHandler, CoreProblemHandler, SolutionHandler: Challenge vault
  - WorkReportHandler: Daily/weekly work reports and availability

Handlers are created via constructor functions that accept *sql.DB and Config:

	leadHandler := handlers.NewLeadHandler(db, cfg)

UnlockHandler additionally takes the catalog cache.

# Board Merging

GET /pods/{id}/board fetches the catalog and the pod's activation rows
concurrently and merges them into sections via the catalog package. If
the progress query fails the board degrades to all-locked rather than
erroring; the kickoff entry stays active either way.

# Lead Scoring

Scoring lives in scoring.go:

	total := ComputeWeightedTotal(stage, activity, domain, engagement, story)

Weights are 30/20/20/20/10 and a lead qualifies at a total of 50 or
more. Handover additionally requires at least one point of contact, at
least one proof link, and Qualified status; eligibility is inspectable
via GET /spa/leads/{id}/handover.

# Challenge Vault

Challenges track pod-local friction and may link to a core problem.
Core problems carry a 5-whys analysis (at most five levels), can be
opened for cross-pod solutions, escalated from any state, and resolved
only once exactly one accepted solution has been selected.

# Work Reports

Summaries are date-keyed (YYYY-MM-DD). The DSR detail payload is stored
as opaque JSON and decoded on the way out; relative times use humanize.
*/
package handlers
