package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvillard/immogest/internal/ledger"
)

type EntriesModel struct {
	CommonModel
	ledgerService *ledger.Service

	table   table.Model
	entries []*ledger.Entry

	directionFilterIdx int

	filter  ledger.ListFilter
	loading bool
	err     error
}

func NewEntriesModel(ledgerSvc *ledger.Service) EntriesModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 11},
		{Title: "Category", Width: 18},
		{Title: "Amount", Width: 14},
		{Title: "Reference", Width: 24},
		{Title: "Description", Width: 36},
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

	return EntriesModel{
		ledgerService: ledgerSvc,
		table:         t,
		filter:        ledger.ListFilter{PerPage: 100},
	}
}

func (m EntriesModel) Title() string { return "Financial Ledger" }
func (m EntriesModel) ShortHelp() string {
	return "Esc: back | d: direction filter | r: refresh"
}

func (m EntriesModel) Init() tea.Cmd {
	return m.loadEntriesCmd()
}

func (m EntriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadEntriesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = msg.entries
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadEntriesCmd()
		case "d":
			m.directionFilterIdx = (m.directionFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadEntriesCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m EntriesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading entries...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	directionLabels := []string{"All", "Income", "Expense"}

	header := fmt.Sprintf(
		"Filter: [d] Direction: %s",
		activeStyle(directionLabels[m.directionFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		HelpFooter("d: direction"),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *EntriesModel) applyFilter() {
	switch m.directionFilterIdx {
	case 1:
		m.filter.Direction = new(ledger.DirectionIncome)
	case 2:
		m.filter.Direction = new(ledger.DirectionExpense)
	default:
		m.filter.Direction = nil
	}
}

func (m *EntriesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.entries))
	for _, e := range m.entries {
		rows = append(rows, table.Row{
			FormatDate(e.Date),
			string(e.Type),
			e.Category,
			e.FormattedAmount(),
			e.ReferenceNumber,
			e.Description,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadEntriesMsg struct {
	entries []*ledger.Entry
	err     error
}

func (m EntriesModel) loadEntriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		page, err := m.ledgerService.List(ctx, m.filter)
		if err != nil {
			return loadEntriesMsg{err: err}
		}

		return loadEntriesMsg{entries: page.Entries}
	}
}
