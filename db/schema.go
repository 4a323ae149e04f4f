// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is restricted to the dialect both SQLite and PostgreSQL
// accept: TEXT keys, TIMESTAMP columns, CURRENT_TIMESTAMP defaults,
// JSON stored as TEXT.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users allowed to log in (phone allowlist)
CREATE TABLE IF NOT EXISTS allowed_user (
    id TEXT PRIMARY KEY,
    phone TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT 'member',
    is_lead BOOLEAN NOT NULL DEFAULT FALSE,
    pod_id TEXT,
    last_active_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_allowed_user_phone ON allowed_user(phone);

-- One-time passwords (stored as HMAC, single use)
CREATE TABLE IF NOT EXISTS otp_code (
    phone TEXT PRIMARY KEY,
    code_hash TEXT NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    consumed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Bearer-token sessions
CREATE TABLE IF NOT EXISTS session (
    token_hash TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES allowed_user(id) ON DELETE CASCADE,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_session_user_id ON session(user_id);

-- Pods
CREATE TABLE IF NOT EXISTS pod (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    crew TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    stage TEXT NOT NULL DEFAULT 'Stage 1',
    members INTEGER NOT NULL DEFAULT 0,
    goals INTEGER NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    image_url TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pod_crew ON pod(crew);

-- Unlock catalog (process milestones, culture entries, assets).
-- item_id is the legacy human-assigned slug; it is NOT unique.
CREATE TABLE IF NOT EXISTS unlock_item (
    id TEXT PRIMARY KEY,
    item_id TEXT NOT NULL,
    tab TEXT NOT NULL,
    name TEXT NOT NULL,
    subtitle TEXT NOT NULL DEFAULT '',
    descr TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL,
    department_id TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_unlock_item_tab ON unlock_item(tab, position);

-- Per-pod activation progress for unlock items
CREATE TABLE IF NOT EXISTS activation (
    pod_id TEXT NOT NULL REFERENCES pod(id) ON DELETE CASCADE,
    unlock_id TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'in-progress', 'completed')),
    started_at TIMESTAMP,
    completed_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (pod_id, unlock_id)
);

-- Per-pod asset completion flags
CREATE TABLE IF NOT EXISTS asset_status (
    pod_id TEXT NOT NULL REFERENCES pod(id) ON DELETE CASCADE,
    asset_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    completed_at TIMESTAMP,
    comment TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (pod_id, asset_id)
);

-- Startup leads (SPA pipeline)
CREATE TABLE IF NOT EXISTS lead (
    id TEXT PRIMARY KEY,
    startup_name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    institution TEXT NOT NULL,
    domain TEXT NOT NULL,
    startup_stage TEXT NOT NULL,
    website_link TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT 'Other',
    activity_level TEXT NOT NULL,
    service_fit TEXT NOT NULL DEFAULT '[]',
    lead_score REAL NOT NULL DEFAULT 0,
    current_status TEXT NOT NULL DEFAULT 'ResearchPending'
        CHECK (current_status IN ('ResearchPending', 'Verified', 'Qualified', 'ReadyForOutreach')),
    spa_owner TEXT NOT NULL,
    prl_assigned TEXT,
    proof_links TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_lead_owner ON lead(spa_owner);
CREATE INDEX IF NOT EXISTS idx_lead_status ON lead(current_status);

-- Scoring matrices (one row per scoring submission)
CREATE TABLE IF NOT EXISTS scoring_matrix (
    id TEXT PRIMARY KEY,
    lead_id TEXT NOT NULL REFERENCES lead(id) ON DELETE CASCADE,
    stage_score REAL NOT NULL,
    activity_score REAL NOT NULL,
    domain_score REAL NOT NULL,
    engagement_score REAL NOT NULL,
    story_score REAL NOT NULL,
    weighted_total REAL NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scoring_matrix_lead ON scoring_matrix(lead_id);

-- Points of contact (each belongs to exactly one lead)
CREATE TABLE IF NOT EXISTS poc (
    id TEXT PRIMARY KEY,
    lead_id TEXT NOT NULL REFERENCES lead(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'Other',
    email TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    linkedin TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_poc_lead ON poc(lead_id);

-- Handover records
CREATE TABLE IF NOT EXISTS handover (
    id TEXT PRIMARY KEY,
    lead_id TEXT NOT NULL REFERENCES lead(id) ON DELETE CASCADE,
    prl_receiver_id TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    attachments TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Challenge Vault
CREATE TABLE IF NOT EXISTS challenge (
    id TEXT PRIMARY KEY,
    pod_id TEXT NOT NULL REFERENCES pod(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT 'bmps',
    priority TEXT NOT NULL DEFAULT 'medium',
    status TEXT NOT NULL DEFAULT 'identified'
        CHECK (status IN ('identified', 'rca-in-progress', 'rca-completed', 'solution-in-progress', 'resolved', 'archived')),
    core_problem_id TEXT,
    created_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_challenge_pod ON challenge(pod_id);

CREATE TABLE IF NOT EXISTS core_problem (
    id TEXT PRIMARY KEY,
    pod_id TEXT NOT NULL REFERENCES pod(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'identified'
        CHECK (status IN ('identified', 'open-for-solutions', 'solution-implementing', 'resolved', 'escalated')),
    is_public BOOLEAN NOT NULL DEFAULT FALSE,
    is_solved BOOLEAN NOT NULL DEFAULT FALSE,
    escalated_to TEXT,
    escalation_notes TEXT NOT NULL DEFAULT '',
    win_reflection TEXT NOT NULL DEFAULT '',
    resolved_solution_id TEXT,
    outcome_notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_core_problem_pod ON core_problem(pod_id);

-- 5-whys steps, at most five per core problem
CREATE TABLE IF NOT EXISTS rca_step (
    core_problem_id TEXT NOT NULL REFERENCES core_problem(id) ON DELETE CASCADE,
    level INTEGER NOT NULL CHECK (level >= 1 AND level <= 5),
    answer TEXT NOT NULL,
    PRIMARY KEY (core_problem_id, level)
);

CREATE TABLE IF NOT EXISTS solution (
    id TEXT PRIMARY KEY,
    core_problem_id TEXT NOT NULL REFERENCES core_problem(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    submitted_by TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'submitted'
        CHECK (status IN ('submitted', 'under-review', 'accepted', 'discarded')),
    is_selected BOOLEAN NOT NULL DEFAULT FALSE,
    review_notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_solution_core_problem ON solution(core_problem_id);

-- Work plans and daily status reports
CREATE TABLE IF NOT EXISTS work_plan (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES allowed_user(id) ON DELETE CASCADE,
    plan_date TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'submitted' CHECK (status IN ('submitted', 'on-leave')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, plan_date)
);

CREATE TABLE IF NOT EXISTS dsr (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES allowed_user(id) ON DELETE CASCADE,
    report_date TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'flagged')),
    total_time TEXT NOT NULL DEFAULT '0h',
    payload TEXT NOT NULL DEFAULT '{}',
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, report_date)
);

CREATE INDEX IF NOT EXISTS idx_dsr_date ON dsr(report_date);

-- Member availability (one row per available day)
CREATE TABLE IF NOT EXISTS member_availability (
    user_id TEXT NOT NULL REFERENCES allowed_user(id) ON DELETE CASCADE,
    day TEXT NOT NULL,
    PRIMARY KEY (user_id, day)
);
`
