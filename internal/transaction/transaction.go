package transaction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvillard/immogest/internal/money"
)

// Type represents the kind of deal recorded by a transaction.
type Type string

const (
	TypeSale   Type = "sale"
	TypeRental Type = "rental"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == TypeSale || t == TypeRental
}

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known transaction status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCancelled
}

// RentFrequency is how often rent is due under a rental agreement.
type RentFrequency string

const (
	FrequencyMonthly   RentFrequency = "monthly"
	FrequencyQuarterly RentFrequency = "quarterly"
	FrequencyYearly    RentFrequency = "yearly"
)

// Valid reports whether f is a known rent frequency.
func (f RentFrequency) Valid() bool {
	return f == FrequencyMonthly || f == FrequencyQuarterly || f == FrequencyYearly
}

// Transaction represents a sale or rental deal between a client and a property.
type Transaction struct {
	ID                   int64
	Type                 Type
	PropertyID           int64
	ClientID             int64
	Date                 time.Time
	Amount               decimal.Decimal
	CommissionAmount     *decimal.Decimal
	CommissionPercentage *decimal.Decimal
	Status               Status
	PaymentMethod        string
	Notes                string
	HandledBy            int64
	Agreement            *RentalAgreement // Loaded via JOIN, rental transactions only
	CreatedAt            time.Time
	UpdatedAt            *time.Time
}

// FormattedAmount renders the transaction amount with the currency suffix.
func (t *Transaction) FormattedAmount() string {
	return money.Format(t.Amount) + " €"
}

// CommissionSummary renders whichever commission terms are present.
func (t *Transaction) CommissionSummary() string {
	switch {
	case t.CommissionAmount != nil && t.CommissionPercentage != nil:
		return fmt.Sprintf("%s € (%s%%)", money.Format(*t.CommissionAmount), t.CommissionPercentage.StringFixed(2))
	case t.CommissionAmount != nil:
		return money.Format(*t.CommissionAmount) + " €"
	case t.CommissionPercentage != nil:
		return t.CommissionPercentage.StringFixed(2) + "%"
	}

	return "Aucune commission"
}

// RentalAgreement holds the lease terms bound one-to-one to a rental transaction.
type RentalAgreement struct {
	ID                int64
	TransactionID     int64
	StartDate         time.Time
	EndDate           time.Time
	IsRenewable       bool
	RentAmount        decimal.Decimal
	RentFrequency     RentFrequency
	DepositAmount     decimal.Decimal
	PaymentDay        int
	SpecialConditions string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// DurationMonths returns the number of whole calendar months between the
// start and end dates. A 15 Jan to 10 Apr agreement is 2 months, not 3:
// the final month only counts once its day of month has been reached.
func (ra *RentalAgreement) DurationMonths() int {
	months := (ra.EndDate.Year()-ra.StartDate.Year())*12 +
		int(ra.EndDate.Month()) - int(ra.StartDate.Month())

	if ra.EndDate.Day() < ra.StartDate.Day() {
		months--
	}

	return months
}

var frequencyLabels = map[RentFrequency]string{
	FrequencyMonthly:   "par mois",
	FrequencyQuarterly: "par trimestre",
	FrequencyYearly:    "par an",
}

// FormattedRent renders the rent amount with its frequency label.
func (ra *RentalAgreement) FormattedRent() string {
	label, ok := frequencyLabels[ra.RentFrequency]
	if !ok {
		label = string(ra.RentFrequency)
	}

	return fmt.Sprintf("%s € %s", money.Format(ra.RentAmount), label)
}
