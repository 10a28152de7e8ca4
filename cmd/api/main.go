package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mvillard/immogest/internal/categorize"
	categorizeStore "github.com/mvillard/immogest/internal/categorize/store"
	"github.com/mvillard/immogest/internal/config"
	"github.com/mvillard/immogest/internal/database"
	directoryStore "github.com/mvillard/immogest/internal/directory/store"
	immogestHttp "github.com/mvillard/immogest/internal/http"
	categoryHandler "github.com/mvillard/immogest/internal/http/categorize"
	importHandler "github.com/mvillard/immogest/internal/http/importcsv"
	ledgerHandler "github.com/mvillard/immogest/internal/http/ledger"
	txHandler "github.com/mvillard/immogest/internal/http/transaction"
	"github.com/mvillard/immogest/internal/importer"
	"github.com/mvillard/immogest/internal/ledger"
	ledgerStore "github.com/mvillard/immogest/internal/ledger/store"
	"github.com/mvillard/immogest/internal/transaction"
	txStore "github.com/mvillard/immogest/internal/transaction/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns, cfg.DB.MaxIdleConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		dirStore           = directoryStore.New(db)
		transactionService = transaction.NewService(txStore.New(db), dirStore)
		ledgerService      = ledger.NewService(ledgerStore.New(db))
		categorizeService  = categorize.NewService(categorizeStore.New(db))
		importService      = importer.NewService()
	)

	var (
		transactionH = txHandler.NewHandler(transactionService, dirStore)
		ledgerH      = ledgerHandler.NewHandler(ledgerService, dirStore)
		importH      = importHandler.NewHandler(importService, ledgerService, categorizeService)
		categoryH    = categoryHandler.NewHandler(categorizeService)
	)

	router := immogestHttp.New(cfg.Auth.Secret, transactionH, ledgerH, importH, categoryH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
