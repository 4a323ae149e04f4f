package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             int
	DatabaseURL      string
	DatabaseType     string
	SessionTokenSalt string
	OTPSalt          string
	OTPTTL           time.Duration
	CatalogTTL       time.Duration
	CatalogSeedFile  string
}

// ParseFlags validates flags and fills in defaults from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var otpTTLSecs, catalogTTLSecs int

	fs := flag.NewFlagSet("caarya-live", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.CatalogSeedFile, "seed", "", "YAML file with legacy catalog content")
	fs.IntVar(&otpTTLSecs, "otp-ttl", 0, "OTP validity in seconds")
	fs.IntVar(&catalogTTLSecs, "catalog-ttl", 0, "Unlock catalog cache TTL in seconds")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionTokenSalt, "session-salt", "", "Session token salt (prefer env)")
	fs.StringVar(&cfg.OTPSalt, "otp-salt", "", "OTP code salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.CatalogSeedFile == "" {
		cfg.CatalogSeedFile = os.Getenv("CATALOG_SEED_FILE")
	}

	if otpTTLSecs == 0 {
		if s := os.Getenv("OTP_TTL_SECONDS"); s != "" {
			secs, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid OTP_TTL_SECONDS env variable")
			}
			otpTTLSecs = secs
		} else {
			otpTTLSecs = 300 // default: 5 minutes
		}
	}
	cfg.OTPTTL = time.Duration(otpTTLSecs) * time.Second

	if catalogTTLSecs == 0 {
		if s := os.Getenv("CATALOG_TTL_SECONDS"); s != "" {
			secs, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid CATALOG_TTL_SECONDS env variable")
			}
			catalogTTLSecs = secs
		} else {
			catalogTTLSecs = 300 // default: 5 minutes
		}
	}
	cfg.CatalogTTL = time.Duration(catalogTTLSecs) * time.Second

	// Secrets - MUST be provided
	if cfg.SessionTokenSalt == "" {
		cfg.SessionTokenSalt = os.Getenv("SESSION_TOKEN_SALT")
	}
	if cfg.SessionTokenSalt == "" {
		return Config{}, errors.New("SESSION_TOKEN_SALT required")
	}

	if cfg.OTPSalt == "" {
		cfg.OTPSalt = os.Getenv("OTP_SALT")
	}
	if cfg.OTPSalt == "" {
		return Config{}, errors.New("OTP_SALT required")
	}

	return cfg, nil
}
