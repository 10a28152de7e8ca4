package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/mvillard/immogest/cmd/tui/internal/view"
	"github.com/mvillard/immogest/internal/config"
	"github.com/mvillard/immogest/internal/database"
	directoryStore "github.com/mvillard/immogest/internal/directory/store"
	"github.com/mvillard/immogest/internal/ledger"
	ledgerStore "github.com/mvillard/immogest/internal/ledger/store"
	"github.com/mvillard/immogest/internal/transaction"
	txStore "github.com/mvillard/immogest/internal/transaction/store"
)

type model struct {
	txService     *transaction.Service
	ledgerService *ledger.Service

	currentView View

	transactionsView view.TransactionsModel
	entriesView      view.EntriesModel
	recordView       view.RecordModel
}

type View int

const (
	ViewMenu         View = 0
	ViewTransactions View = 1
	ViewEntries      View = 2
	ViewRecord       View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The TUI is single user, a couple of connections is plenty.
	db, err := database.New(cfg.ConnectionString(), 2, 1)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	txSvc := transaction.NewService(txStore.New(db), directoryStore.New(db))
	ledgerSvc := ledger.NewService(ledgerStore.New(db))

	return model{
		txService:        txSvc,
		ledgerService:    ledgerSvc,
		currentView:      ViewMenu,
		transactionsView: view.NewTransactionsModel(txSvc),
		entriesView:      view.NewEntriesModel(ledgerSvc),
		recordView:       view.NewRecordModel(ledgerSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.txService)

				return m, m.transactionsView.Init()
			case "2":
				m.currentView = ViewEntries
				m.entriesView = view.NewEntriesModel(m.ledgerService)

				return m, m.entriesView.Init()
			case "3":
				m.currentView = ViewRecord
				m.recordView = view.NewRecordModel(m.ledgerService)

				return m, m.recordView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewEntries:
		var newModel tea.Model
		newModel, cmd = m.entriesView.Update(msg)
		m.entriesView = newModel.(view.EntriesModel)
	case ViewRecord:
		var newModel tea.Model
		newModel, cmd = m.recordView.Update(msg)
		m.recordView = newModel.(view.RecordModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Immogest TUI\n\n" +
				"1. Browse Transactions\n" +
				"2. Browse Financial Ledger\n" +
				"3. Record Ledger Entry\n\n" +
				"q. Quit",
		)
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewEntries:
		return m.entriesView.View()
	case ViewRecord:
		return m.recordView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
