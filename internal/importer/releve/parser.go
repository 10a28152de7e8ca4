package releve

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/mvillard/immogest/internal/encoding"
	"github.com/mvillard/immogest/internal/ledger"
	"github.com/mvillard/immogest/internal/money"
)

// Parser reads French bank statement CSV exports and produces ledger entry
// params. It auto-detects which layout is being used by matching column
// headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]ledger.RecordParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching statement format found")
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts entry params from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]ledger.RecordParams, error) {
	dateIdx := cols[p.DateCol]
	labelIdx := cols[p.LabelCol]

	var entries []ledger.RecordParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(row, dateIdx)
		if !ok {
			continue
		}

		label := cellValue(row, labelIdx)
		if label == "" {
			return nil, fmt.Errorf("row %d: missing label", rowNum)
		}

		amount, entryType, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		entries = append(entries, ledger.RecordParams{
			Type:          entryType,
			Amount:        amount,
			Currency:      "EUR",
			Date:          date,
			PaymentMethod: "bank_transfer",
			Description:   label,
		})
	}

	return entries, nil
}

// parseDate tries to parse a date from the given cell index.
// Returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseAmount extracts the amount and entry type from a row based on the
// profile's amount mode.
func parseAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, ledger.EntryType, bool) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(row, cols[p.AmountCol])
	case amountSplit:
		return parseSplitAmount(row, cols[p.DebitCol], cols[p.CreditCol])
	}

	return decimal.Zero, "", false
}

// parseSingleAmount handles a single signed amount column.
func parseSingleAmount(row []string, idx int) (decimal.Decimal, ledger.EntryType, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, "", false
	}

	amount, err := money.ParseEuropean(s)
	if err != nil || amount.IsZero() {
		return decimal.Zero, "", false
	}

	if amount.Sign() < 0 {
		return amount.Neg(), ledger.TypeExpense, true
	}

	return amount, ledger.TypeIncome, true
}

// parseSplitAmount handles separate debit/credit columns.
func parseSplitAmount(row []string, debitIdx, creditIdx int) (decimal.Decimal, ledger.EntryType, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		if amount, err := money.ParseEuropean(s); err == nil && !amount.IsZero() {
			return amount.Abs(), ledger.TypeExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		if amount, err := money.ParseEuropean(s); err == nil && !amount.IsZero() {
			return amount.Abs(), ledger.TypeIncome, true
		}
	}

	return decimal.Zero, "", false
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
