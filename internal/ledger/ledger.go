// Package ledger records discrete money movements as an append-only journal.
// Entries may reference a property, a transaction, an owner or a client, but
// live independently of them: deleting a transaction never touches its
// ledger entries.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvillard/immogest/internal/money"
)

// EntryType categorizes a money movement. The direction of an entry is
// derived from its type, never from a signed amount: amounts are always
// stored as positive magnitudes so income/expense aggregation stays
// unambiguous.
type EntryType string

const (
	TypeIncome     EntryType = "income"
	TypeExpense    EntryType = "expense"
	TypeDeposit    EntryType = "deposit"
	TypeWithdrawal EntryType = "withdrawal"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeDeposit, TypeWithdrawal:
		return true
	}

	return false
}

// Direction is the income/expense axis used for filtering and aggregation.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// RecurringFrequency is how often a recurring entry repeats.
type RecurringFrequency string

const (
	RecurringMonthly   RecurringFrequency = "monthly"
	RecurringQuarterly RecurringFrequency = "quarterly"
	RecurringYearly    RecurringFrequency = "yearly"
)

// Valid reports whether f is a known recurring frequency.
func (f RecurringFrequency) Valid() bool {
	return f == RecurringMonthly || f == RecurringQuarterly || f == RecurringYearly
}

// Entry is a single journal line.
type Entry struct {
	ID                 int64
	PropertyID         *int64
	TransactionID      *int64
	OwnerID            *int64
	ClientID           *int64
	Type               EntryType
	Category           string
	Amount             decimal.Decimal // always a positive magnitude
	Currency           string
	Date               time.Time
	PaymentMethod      string
	ReferenceNumber    string
	Description        string
	IsRecurring        bool
	RecurringFrequency RecurringFrequency
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

// IsIncome reports whether the entry represents money coming in.
func (e *Entry) IsIncome() bool {
	return e.Type == TypeIncome || e.Type == TypeDeposit
}

// IsExpense reports whether the entry represents money going out.
func (e *Entry) IsExpense() bool {
	return e.Type == TypeExpense || e.Type == TypeWithdrawal
}

// FormattedAmount renders the magnitude with a symbol or suffix depending on
// the currency code.
func (e *Entry) FormattedAmount() string {
	switch e.Currency {
	case "EUR":
		return money.Format(e.Amount) + " €"
	case "USD":
		return "$" + money.Format(e.Amount)
	}

	return money.Format(e.Amount) + " " + e.Currency
}
