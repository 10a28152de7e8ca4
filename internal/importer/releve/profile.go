package releve

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Montant" with value "-650,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of a bank statement CSV export.
// Adding a new bank format is just adding a new Profile to the profiles slice.
type Profile struct {
	Name       string
	DateCol    string
	LabelCol   string
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSingle
	DebitCol   string // used when AmountMode == amountSplit
	CreditCol  string // used when AmountMode == amountSplit
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.LabelCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is the ordered list of statement formats to try during
// auto-detection. More specific profiles come first to avoid false matches.
var profiles = []Profile{
	{
		Name:       "crédit agricole",
		DateCol:    "Date",
		LabelCol:   "Libellé",
		AmountMode: amountSplit,
		DebitCol:   "Débit euros",
		CreditCol:  "Crédit euros",
	},
	{
		Name:       "banque postale",
		DateCol:    "Date",
		LabelCol:   "Libellé",
		AmountMode: amountSingle,
		AmountCol:  "Montant(EUROS)",
	},
	{
		Name:       "générique",
		DateCol:    "Date",
		LabelCol:   "Libellé",
		AmountMode: amountSingle,
		AmountCol:  "Montant",
	},
}
