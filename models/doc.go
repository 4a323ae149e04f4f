// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

Internal data structures:

  - User, Pod: Members and pods
  - UnlockItem, Activation, AssetStatus: Catalog and per-pod progress
  - Board, BoardSection, BoardItem: Merged board output
  - StartupLead, ScoringMatrix, POC, HandoverEligibility: SPA pipeline
  - Challenge, CoreProblem, RCAStep, Solution: Challenge vault
  - WorkReportSummary, DSRDetails, WeeklyWorkReport, MemberAvailability

# Envelope

Every response is wrapped:

	{ "success": true, "data": ... }
	{ "success": false, "message": "..." }

# Constants

Activation statuses:

	ActivationPending    = "pending"
	ActivationInProgress = "in-progress"
	ActivationCompleted  = "completed"

Board card states:

	CardLocked = "locked"
	CardReady  = "ready"
	CardActive = "active"

Lead statuses:

	LeadResearchPending  = "ResearchPending"
	LeadVerified         = "Verified"
	LeadQualified        = "Qualified"
	LeadReadyForOutreach = "ReadyForOutreach"

Score lookup tables live in StageScores and ActivityScores; manual
score fields accept the values in ManualScoreOptions (25, 50, 100).

Tabs:

	TabBMPs             = "bmps"
	TabCulture          = "culture"
	TabMarketing        = "marketing"
	TabStrategicPartners = "strategicPartners"
	TabPartnerRelations = "partnerRelations"
	TabServices         = "services"

The kickoff entry (KickoffItemID) is always active on every board.
*/
package models
