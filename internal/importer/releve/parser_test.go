package releve_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/mvillard/immogest/internal/importer/releve"
	"github.com/mvillard/immogest/internal/ledger"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParser_SingleAmountColumn(t *testing.T) {
	csv := `Date;Libellé;Montant
05/05/2026;VIR LOYER DUPONT;650,00
12/05/2026;PRLV EDF;-84,30
`

	p := releve.NewParser()
	entries, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, date(2026, 5, 5), entries[0].Date)
	assert.Equal(t, "VIR LOYER DUPONT", entries[0].Description)
	assert.True(t, entries[0].Amount.Equal(dec("650")))
	assert.Equal(t, ledger.TypeIncome, entries[0].Type)
	assert.Equal(t, "EUR", entries[0].Currency)
	assert.Equal(t, "bank_transfer", entries[0].PaymentMethod)

	assert.Equal(t, date(2026, 5, 12), entries[1].Date)
	assert.True(t, entries[1].Amount.Equal(dec("84.30")))
	assert.Equal(t, ledger.TypeExpense, entries[1].Type)
}

func TestParser_SplitDebitCredit(t *testing.T) {
	csv := `Date;Libellé;Débit euros;Crédit euros
05/05/2026;VIR LOYER DUPONT;;650,00
12/05/2026;PRLV SYNDIC;120,00;
`

	p := releve.NewParser()
	entries, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, ledger.TypeIncome, entries[0].Type)
	assert.True(t, entries[0].Amount.Equal(dec("650")))

	assert.Equal(t, ledger.TypeExpense, entries[1].Type)
	assert.True(t, entries[1].Amount.Equal(dec("120")))
}

func TestParser_BanquePostaleColumn(t *testing.T) {
	csv := `Date;Libellé;Montant(EUROS)
03/04/2026;CHEQUE 0000123;-1.250,00
`

	p := releve.NewParser()
	entries, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.True(t, entries[0].Amount.Equal(dec("1250")))
	assert.Equal(t, ledger.TypeExpense, entries[0].Type)
}

func TestParser_SkipsPreambleRows(t *testing.T) {
	csv := `Relevé de compte;Mai 2026
Titulaire;AGENCE IMMOGEST

Date;Libellé;Montant
05/05/2026;VIR LOYER;650,00
`

	p := releve.NewParser()
	entries, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "VIR LOYER", entries[0].Description)
}

func TestParser_SkipsFooterRows(t *testing.T) {
	csv := `Date;Libellé;Montant
05/05/2026;VIR LOYER;650,00
Total;;650,00
`

	p := releve.NewParser()
	entries, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestParser_MissingLabel(t *testing.T) {
	csv := `Date;Libellé;Montant
05/05/2026;;650,00
`

	p := releve.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing label")
}

func TestParser_NoMatchingFormat(t *testing.T) {
	csv := `Datum;Beschreibung;Betrag
05.05.2026;MIETE;650,00
`

	p := releve.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no matching statement format")
}

func TestParser_EmptyFile(t *testing.T) {
	p := releve.NewParser()
	_, err := p.Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParser_HeaderOnly(t *testing.T) {
	csv := `Date;Libellé;Montant`

	p := releve.NewParser()
	entries, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParser_Windows1252Encoding(t *testing.T) {
	utf8CSV := "Date;Libellé;Montant\n05/05/2026;VIREMENT REÇU;650,00\n"

	encoder := charmap.Windows1252.NewEncoder()
	encodedBytes, err := encoder.Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := releve.NewParser()
	entries, err := p.Parse(bytes.NewReader(encodedBytes))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "VIREMENT REÇU", entries[0].Description)
}

func TestParser_LargeAmounts(t *testing.T) {
	csv := `Date;Libellé;Montant
05/05/2026;VENTE APPARTEMENT;1.234.567,89
`

	p := releve.NewParser()
	entries, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.True(t, entries[0].Amount.Equal(dec("1234567.89")))
	assert.Equal(t, ledger.TypeIncome, entries[0].Type)
}
