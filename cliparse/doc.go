// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: HTTP listen port for the sink callback API (default: 8713)
  - DatabaseURL: sqlite path or postgres connection string
  - DatabaseType: "sqlite" (default) or "postgres"
  - WikiURL: base wiki URL, e.g. https://wiki.example.org (required)
  - WikiUsername / WikiPassword: bot-password credentials (required)
  - Category: review category to watch (default: "Drafts awaiting review")
  - PollInterval: category poll interval (default: 60s)
  - SinkURL: chat-workspace webhook endpoint (optional; logs only if unset)
  - SinkKeySalt: secret for the sink callback HMAC key (required)

# Environment Variables

Flags fall back to environment variables:

	PORT                  → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	WIKI_URL              → -wiki
	WIKI_BOT_USERNAME     → -wiki-user
	WIKI_BOT_PASSWORD     → -wiki-pass
	REVIEW_CATEGORY       → -category
	POLL_INTERVAL_SECONDS → -interval
	SINK_WEBHOOK_URL      → -sink
	SINK_KEY_SALT         → -sink-salt

CLI flags take precedence over environment variables. main loads a .env
file first (via godotenv), so local development only needs a .env.

# Validation

ParseFlags returns an error if WIKI_URL, WIKI_BOT_USERNAME,
WIKI_BOT_PASSWORD, or SINK_KEY_SALT is missing, or if DATABASE_TYPE is
postgres without a DATABASE_URL.
*/
package cliparse
