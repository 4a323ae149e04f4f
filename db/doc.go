// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The DDL sticks to the dialect both SQLite and PostgreSQL
accept: TEXT keys, TIMESTAMP columns, BOOLEAN flags, JSON stored as
TEXT.

# Tables

The schema includes:

  - allowed_user: Phone allowlist and member profiles
  - otp_code: Single-use OTP hashes
  - session: Bearer-token sessions
  - pod: Pods and their crew
  - unlock_item: Unlock catalog (milestones, culture entries, assets)
  - activation: Per-pod activation progress
  - asset_status: Per-pod asset completion flags and comments
  - lead: SPA startup leads
  - scoring_matrix: One row per scoring submission
  - poc: Points of contact
  - handover: Handover records
  - challenge, core_problem, rca_step, solution: Challenge vault
  - work_plan, dsr: Daily work plans and status reports
  - member_availability: One row per available day

# Relationships

	allowed_user 1──* session
	pod 1──* activation
	pod 1──* asset_status
	lead 1──* scoring_matrix
	lead 1──* poc
	lead 1──* handover
	pod 1──* challenge
	pod 1──* core_problem
	core_problem 1──* rca_step (at most five)
	core_problem 1──* solution
	allowed_user 1──* work_plan
	allowed_user 1──* dsr

All foreign keys use ON DELETE CASCADE.
*/
package db
