package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/draft-warden/cliparse"
	"github.com/danielhkuo/draft-warden/db"
	"github.com/danielhkuo/draft-warden/decision"
	"github.com/danielhkuo/draft-warden/notify"
	"github.com/danielhkuo/draft-warden/poller"
	"github.com/danielhkuo/draft-warden/router"
	"github.com/danielhkuo/draft-warden/store"
	"github.com/danielhkuo/draft-warden/vote"
	"github.com/danielhkuo/draft-warden/wiki"
)

func main() {
	// Local dev convenience; a missing .env is fine
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env file")
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	driver := "sqlite"
	dsn := cfg.DatabaseURL
	if cfg.DatabaseType == "postgres" {
		driver = "postgres"
	} else {
		dsn = "file:" + cfg.DatabaseURL + "?_pragma=busy_timeout(5000)"
	}

	dbConn, err := sql.Open(driver, dsn)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	// Wire up the moderation pipeline
	drafts := store.New(dbConn)
	wikiClient := wiki.NewClient(cfg.WikiURL, cfg.WikiUsername, cfg.WikiPassword)
	sink := notify.NewWebhookSink(cfg.SinkURL)
	executor := decision.New(wikiClient, drafts, sink)
	engine := vote.NewEngine(drafts, executor)
	repairer := poller.NewWikiRepairer(wikiClient)

	// Background draft discovery
	pollCtx, stopPolling := context.WithCancel(context.Background())
	watcher := poller.New(drafts, wikiClient, sink, repairer, cfg.Category, cfg.PollInterval)
	go watcher.Run(pollCtx)

	// Create router
	mux := router.NewRouter(drafts, engine, executor, cfg)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		stopPolling()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "category", cfg.Category)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
