package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvillard/immogest/internal/transaction"
)

type TransactionsModel struct {
	CommonModel
	txService *transaction.Service

	table table.Model
	txs   []*transaction.Transaction

	// Filter cycling
	statusFilterIdx int
	typeFilterIdx   int

	filter     transaction.ListFilter
	showDetail bool
	loading    bool
	err        error
}

func NewTransactionsModel(txSvc *transaction.Service) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Status", Width: 11},
		{Title: "Amount", Width: 14},
		{Title: "Commission", Width: 22},
		{Title: "Property", Width: 10},
		{Title: "Client", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return TransactionsModel{
		txService: txSvc,
		table:     t,
		filter:    transaction.ListFilter{PerPage: 100},
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }
func (m TransactionsModel) ShortHelp() string {
	return "Esc: back | enter: details | s: status filter | t: type filter | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.txs = msg.txs
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.showDetail {
				m.showDetail = false
				return m, nil
			}
			return m, Back
		case "enter":
			m.showDetail = !m.showDetail
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % 4
			m.applyFilter()
			return m, m.loadTxsCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabels := []string{"All", "Pending", "Completed", "Cancelled"}
	typeLabels := []string{"All", "Sale", "Rental"}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [t] Type: %s",
		activeStyle(statusLabels[m.statusFilterIdx]),
		activeStyle(typeLabels[m.typeFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		HelpFooter("s: status | t: type | enter: detail"),
	)

	if m.showDetail {
		if detail := m.detailPanel(); detail != "" {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, detail)
		}
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m TransactionsModel) detailPanel() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return ""
	}

	tx := m.txs[idx]
	body := fmt.Sprintf(
		"Transaction #%d\n\nDate: %s\nAmount: %s\nCommission: %s\nStatus: %s",
		tx.ID, FormatDate(tx.Date), tx.FormattedAmount(), tx.CommissionSummary(), tx.Status,
	)

	if tx.PaymentMethod != "" {
		body += "\nPayment: " + tx.PaymentMethod
	}

	if tx.Agreement != nil {
		ra := tx.Agreement
		renewable := "no"
		if ra.IsRenewable {
			renewable = "yes"
		}

		body += fmt.Sprintf(
			"\n\nRental Agreement\n%s to %s (%d months)\nRent: %s\nDeposit: %s €\nPayment day: %d\nRenewable: %s",
			FormatDate(ra.StartDate), FormatDate(ra.EndDate), ra.DurationMonths(),
			ra.FormattedRent(), ra.DepositAmount.StringFixed(2), ra.PaymentDay, renewable,
		)
	}

	if tx.Notes != "" {
		body += "\n\nNotes:\n" + tx.Notes
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(body)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *TransactionsModel) applyFilter() {
	switch m.statusFilterIdx {
	case 1:
		m.filter.Status = new(transaction.StatusPending)
	case 2:
		m.filter.Status = new(transaction.StatusCompleted)
	case 3:
		m.filter.Status = new(transaction.StatusCancelled)
	default:
		m.filter.Status = nil
	}

	switch m.typeFilterIdx {
	case 1:
		m.filter.Type = new(transaction.TypeSale)
	case 2:
		m.filter.Type = new(transaction.TypeRental)
	default:
		m.filter.Type = nil
	}
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			string(tx.Status),
			tx.FormattedAmount(),
			tx.CommissionSummary(),
			fmt.Sprintf("#%d", tx.PropertyID),
			fmt.Sprintf("#%d", tx.ClientID),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadTxsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		page, err := m.txService.List(ctx, m.filter)
		if err != nil {
			return loadTxsMsg{err: err}
		}

		return loadTxsMsg{txs: page.Transactions}
	}
}
