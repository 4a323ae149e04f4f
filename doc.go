// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Caarya Live API server.

Caarya Live is the backend for the pod management dashboard: phone-OTP
login, per-pod unlock boards and activation tracking, the SPA startup
lead pipeline with weighted scoring and handover, the challenge vault
(challenges, core problems, 5-whys analysis, solutions), and daily work
reports.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=caarya.db SESSION_TOKEN_SALT=... OTP_SALT=... go run main.go

Or with flags:

	go run main.go -p 3318 -d caarya.db -t sqlite -session-salt ... -otp-salt ...

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - SESSION_TOKEN_SALT (-session-salt): Secret for session tokens
  - OTP_SALT (-otp-salt): Secret for OTP code HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - CATALOG_SEED_FILE (-seed): YAML file with legacy catalog content
  - OTP_TTL_SECONDS (-otp-ttl): OTP validity (default: 300)
  - CATALOG_TTL_SECONDS (-catalog-ttl): Unlock catalog cache TTL (default: 300)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, pods, unlocks, leads, vault, reports)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Auth, CORS, logging, JSON helpers
  - catalog: Cached unlock catalog and status-merge pipeline
  - models: Request/response types
  - auth: OTP and session token primitives
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
