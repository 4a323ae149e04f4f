// Copyright (c) 2025 Caarya.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - SessionTokenSalt: Secret for session tokens (required)
  - OTPSalt: Secret for OTP HMAC (required)
  - OTPTTL: OTP validity window (default: 5 minutes)
  - CatalogTTL: Unlock catalog cache TTL (default: 5 minutes)
  - CatalogSeedFile: Optional YAML file for first-boot catalog seeding

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-seed         Catalog seed file
	-otp-ttl      OTP validity in seconds
	-catalog-ttl  Catalog cache TTL in seconds
	-session-salt Session token salt
	-otp-salt     OTP salt

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	DATABASE_URL        → -d
	DATABASE_TYPE       → -t
	CATALOG_SEED_FILE   → -seed
	OTP_TTL_SECONDS     → -otp-ttl
	CATALOG_TTL_SECONDS → -catalog-ttl
	SESSION_TOKEN_SALT  → -session-salt
	OTP_SALT            → -otp-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - SESSION_TOKEN_SALT must be provided
  - OTP_SALT must be provided
*/
package cliparse
