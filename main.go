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

	"github.com/danielhkuo/pollwire/broadcast"
	"github.com/danielhkuo/pollwire/cliparse"
	"github.com/danielhkuo/pollwire/db"
	"github.com/danielhkuo/pollwire/ledger"
	"github.com/danielhkuo/pollwire/middleware"
	"github.com/danielhkuo/pollwire/recorder"
	"github.com/danielhkuo/pollwire/router"
	"github.com/danielhkuo/pollwire/tally"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the vote ledger database
	dbConn, err := sql.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()
	if cfg.DatabaseType == "sqlite" {
		// A single connection serializes sqlite writes and keeps an
		// in-memory database alive for the process lifetime.
		dbConn.SetMaxOpenConns(1)
	}

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

	ctx := context.Background()

	// Pick the live tally backend
	var store tally.Store
	if cfg.RedisURL != "" {
		redisStore, err := tally.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		store = redisStore
		slog.Info("Tally store ready", "backend", "redis")
	} else {
		store = tally.NewMemStore()
		slog.Info("Tally store ready", "backend", "memory")
	}

	// Rebuild live counters from the ledger so counts survive restarts
	votes := ledger.NewSQLLedger(dbConn)
	counts, err := votes.CountAll(ctx)
	if err != nil {
		slog.Error("tally rebuild query failed", "error", err)
		os.Exit(1)
	}
	for pollID, pollCounts := range counts {
		if err := store.Rebuild(ctx, pollID, pollCounts); err != nil {
			slog.Error("tally rebuild failed", "error", err, "poll_id", pollID)
			os.Exit(1)
		}
	}
	slog.Info("Tally counters rebuilt", "polls", len(counts))

	// Wire the vote path
	bcast := broadcast.New()
	rec := recorder.New(votes, store, bcast)

	// Create router
	mux := router.NewRouter(dbConn, cfg, rec, store, bcast)

	// Create server; the browser frontend calls with credentials so the
	// session cookie travels, hence CORS on the outermost handler.
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
