package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/tallybook/tallybook/internal/cascade"
	"github.com/tallybook/tallybook/internal/config"
	"github.com/tallybook/tallybook/internal/database"
	tallyHttp "github.com/tallybook/tallybook/internal/http"
	accountHandler "github.com/tallybook/tallybook/internal/http/account"
	matchingHandler "github.com/tallybook/tallybook/internal/http/matching"
	txHandler "github.com/tallybook/tallybook/internal/http/transaction"
	"github.com/tallybook/tallybook/internal/ledger"
	ledgerStore "github.com/tallybook/tallybook/internal/ledger/store"
	"github.com/tallybook/tallybook/internal/lifecycle"
	"github.com/tallybook/tallybook/internal/matching"
	"github.com/tallybook/tallybook/internal/reconcile"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store := ledgerStore.New(db)
	warnings := ledger.NewLogSink(slog.Default())

	var (
		reconcileService = reconcile.NewService(store, warnings)
		cascadeService   = cascade.NewService(store, reconcileService, slog.Default())
		lifecycleService = lifecycle.NewService(store, cascadeService)
		matchingService  = matching.NewService(store)
	)

	var (
		transactionH = txHandler.NewHandler(lifecycleService, reconcileService)
		matchingH    = matchingHandler.NewHandler(matchingService)
		accountH     = accountHandler.NewHandler(store)
	)

	router := tallyHttp.New(transactionH, matchingH, accountH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
