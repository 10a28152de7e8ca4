package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/mvillard/immogest/internal/ledger"
)

type recordState int

const (
	recordStateForm recordState = iota
	recordStateSaved
)

type RecordModel struct {
	CommonModel
	ledgerService *ledger.Service

	state recordState
	form  *huh.Form
	saved *ledger.Entry
	err   error

	// Form bindings
	formType     string
	formCategory string
	formAmount   string
	formDate     string
	formMethod   string
	formDesc     string
}

func NewRecordModel(ledgerSvc *ledger.Service) RecordModel {
	m := RecordModel{
		ledgerService: ledgerSvc,
		formType:      string(ledger.TypeIncome),
		formDate:      FormatDate(time.Now()),
	}
	m.form = m.newForm()

	return m
}

func (m RecordModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Entry Type").
				Options(huh.NewOptions(
					string(ledger.TypeIncome),
					string(ledger.TypeExpense),
					string(ledger.TypeDeposit),
					string(ledger.TypeWithdrawal),
				)...).
				Value(&m.formType),

			huh.NewInput().
				Key("category").
				Title("Category").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("category cannot be empty")
					}
					return nil
				}).
				Value(&m.formCategory),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("1250.00").
				Validate(func(s string) error {
					d, err := decimal.NewFromString(s)
					if err != nil {
						return fmt.Errorf("amount must be a number")
					}
					if d.Sign() <= 0 {
						return fmt.Errorf("amount must be positive")
					}
					return nil
				}).
				Value(&m.formAmount),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("2026-01-31").
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					return nil
				}).
				Value(&m.formDate),

			huh.NewInput().
				Key("payment_method").
				Title("Payment Method").
				Placeholder("bank_transfer").
				Value(&m.formMethod),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m RecordModel) Title() string { return "Record Ledger Entry" }
func (m RecordModel) ShortHelp() string {
	if m.state == recordStateSaved {
		return "n: new entry | Esc: back"
	}
	return "Navigate form | Esc: back"
}

func (m RecordModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m RecordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.saved = msg.entry
		m.state = recordStateSaved
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == recordStateSaved && msg.String() == "n" {
			next := NewRecordModel(m.ledgerService)
			return next, next.Init()
		}
	}

	if m.state != recordStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m RecordModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == recordStateSaved && m.saved != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
			"Entry #%d recorded\n\nType: %s\nCategory: %s\nAmount: %s\nReference: %s",
			m.saved.ID, m.saved.Type, m.saved.Category, m.saved.FormattedAmount(), m.saved.ReferenceNumber,
		))
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(54).
		Render("Record Ledger Entry\n\n" + m.form.View())

	return lipgloss.NewStyle().Padding(1).Render(panel)
}

// Messages

type recordSavedMsg struct {
	entry *ledger.Entry
	err   error
}

func (m RecordModel) saveCmd() tea.Cmd {
	entryType := ledger.EntryType(m.form.GetString("type"))
	category := m.form.GetString("category")
	method := m.form.GetString("payment_method")
	desc := m.form.GetString("description")

	amount, err := decimal.NewFromString(m.form.GetString("amount"))
	if err != nil {
		return func() tea.Msg { return recordSavedMsg{err: err} }
	}

	date, err := time.Parse(time.DateOnly, m.form.GetString("date"))
	if err != nil {
		return func() tea.Msg { return recordSavedMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entry, err := m.ledgerService.Record(ctx, ledger.RecordParams{
			Type:          entryType,
			Category:      category,
			Amount:        amount,
			Date:          date,
			PaymentMethod: method,
			Description:   desc,
		})

		return recordSavedMsg{entry: entry, err: err}
	}
}
