package transaction_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mvillard/immogest/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestTransaction_FormattedAmount(t *testing.T) {
	tx := &transaction.Transaction{Amount: dec("250000")}
	assert.Equal(t, "250,000.00 €", tx.FormattedAmount())

	tx = &transaction.Transaction{Amount: dec("980.5")}
	assert.Equal(t, "980.50 €", tx.FormattedAmount())
}

func TestTransaction_CommissionSummary(t *testing.T) {
	tests := []struct {
		name       string
		amount     *decimal.Decimal
		percentage *decimal.Decimal
		want       string
	}{
		{
			name:       "AmountAndPercentage",
			amount:     decPtr("500"),
			percentage: decPtr("5"),
			want:       "500.00 € (5.00%)",
		},
		{
			name:   "AmountOnly",
			amount: decPtr("1250.5"),
			want:   "1,250.50 €",
		},
		{
			name:       "PercentageOnly",
			percentage: decPtr("3.5"),
			want:       "3.50%",
		},
		{
			name: "NoCommission",
			want: "Aucune commission",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &transaction.Transaction{
				CommissionAmount:     tt.amount,
				CommissionPercentage: tt.percentage,
			}
			assert.Equal(t, tt.want, tx.CommissionSummary())
		})
	}
}

func TestRentalAgreement_DurationMonths(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "FullYear",
			start: date(2024, 1, 1),
			end:   date(2025, 1, 1),
			want:  12,
		},
		{
			name:  "EndDayBeforeStartDay",
			start: date(2024, 1, 15),
			end:   date(2024, 4, 10),
			want:  2,
		},
		{
			name:  "EndDayAfterStartDay",
			start: date(2024, 1, 15),
			end:   date(2024, 4, 20),
			want:  3,
		},
		{
			name:  "SameDayOfMonth",
			start: date(2024, 1, 15),
			end:   date(2024, 4, 15),
			want:  3,
		},
		{
			name:  "SameDate",
			start: date(2024, 6, 1),
			end:   date(2024, 6, 1),
			want:  0,
		},
		{
			name:  "UnderOneMonth",
			start: date(2024, 1, 20),
			end:   date(2024, 2, 10),
			want:  0,
		},
		{
			name:  "AcrossYears",
			start: date(2023, 11, 1),
			end:   date(2025, 2, 1),
			want:  15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra := &transaction.RentalAgreement{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.want, ra.DurationMonths())
		})
	}
}

func TestRentalAgreement_FormattedRent(t *testing.T) {
	tests := []struct {
		name      string
		rent      string
		frequency transaction.RentFrequency
		want      string
	}{
		{name: "Monthly", rent: "650", frequency: transaction.FrequencyMonthly, want: "650.00 € par mois"},
		{name: "Quarterly", rent: "1950", frequency: transaction.FrequencyQuarterly, want: "1,950.00 € par trimestre"},
		{name: "Yearly", rent: "7800", frequency: transaction.FrequencyYearly, want: "7,800.00 € par an"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra := &transaction.RentalAgreement{
				RentAmount:    dec(tt.rent),
				RentFrequency: tt.frequency,
			}
			assert.Equal(t, tt.want, ra.FormattedRent())
		})
	}
}
