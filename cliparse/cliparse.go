package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	WikiURL      string
	WikiUsername string
	WikiPassword string
	Category     string
	PollInterval time.Duration
	SinkURL      string
	SinkKeySalt  string
}

// ParseFlags validates flags and fills in defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var intervalSecs int

	fs := flag.NewFlagSet("draft-warden", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or sqlite path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Wiki settings
	fs.StringVar(&cfg.WikiURL, "wiki", "", "Base wiki URL (prefer env)")
	fs.StringVar(&cfg.Category, "category", "", "Review category to watch")
	fs.IntVar(&intervalSecs, "interval", 0, "Poll interval in seconds")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.WikiUsername, "wiki-user", "", "Wiki bot username (prefer env)")
	fs.StringVar(&cfg.WikiPassword, "wiki-pass", "", "Wiki bot password (prefer env)")
	fs.StringVar(&cfg.SinkURL, "sink", "", "Chat workspace webhook URL")
	fs.StringVar(&cfg.SinkKeySalt, "sink-salt", "", "Sink callback key salt (prefer env)")

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
			cfg.Port = 8713 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "drafts.db"
	}

	if cfg.WikiURL == "" {
		cfg.WikiURL = os.Getenv("WIKI_URL")
	}
	if cfg.WikiURL == "" {
		return Config{}, errors.New("wiki URL required (use -wiki or WIKI_URL env)")
	}

	if cfg.Category == "" {
		cfg.Category = os.Getenv("REVIEW_CATEGORY")
		if cfg.Category == "" {
			cfg.Category = "Drafts awaiting review"
		}
	}

	if intervalSecs == 0 {
		if s := os.Getenv("POLL_INTERVAL_SECONDS"); s != "" {
			secs, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid POLL_INTERVAL_SECONDS env variable")
			}
			intervalSecs = secs
		} else {
			intervalSecs = 60
		}
	}
	cfg.PollInterval = time.Duration(intervalSecs) * time.Second

	// Secrets - MUST be provided
	if cfg.WikiUsername == "" {
		cfg.WikiUsername = os.Getenv("WIKI_BOT_USERNAME")
	}
	if cfg.WikiUsername == "" {
		return Config{}, errors.New("WIKI_BOT_USERNAME required")
	}

	if cfg.WikiPassword == "" {
		cfg.WikiPassword = os.Getenv("WIKI_BOT_PASSWORD")
	}
	if cfg.WikiPassword == "" {
		return Config{}, errors.New("WIKI_BOT_PASSWORD required")
	}

	if cfg.SinkURL == "" {
		cfg.SinkURL = os.Getenv("SINK_WEBHOOK_URL")
	}

	if cfg.SinkKeySalt == "" {
		cfg.SinkKeySalt = os.Getenv("SINK_KEY_SALT")
	}
	if cfg.SinkKeySalt == "" {
		return Config{}, errors.New("SINK_KEY_SALT required")
	}

	return cfg, nil
}
