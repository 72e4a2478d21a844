// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - SweepInterval: theme-expiry sweep period (default: 1m)
  - AllowedOrigin: origin allowed for CORS and WebSocket upgrades

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	SWEEP_INTERVAL → -sweep
	ALLOWED_ORIGIN → -origin

CLI flags take precedence over environment variables. main loads a .env
file (via godotenv) before calling ParseFlags, so a local .env works too.
*/
package cliparse
