package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mvillard/immogest/internal/transaction"
)

func TestFilterClause(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		where, args := filterClause(transaction.ListFilter{})

		assert.Equal(t, " WHERE 1=1", where)
		assert.Empty(t, args)
	})

	t.Run("StatusAndMinAmount", func(t *testing.T) {
		min := decimal.RequireFromString("1000")

		where, args := filterClause(transaction.ListFilter{
			Status:    new(transaction.StatusPending),
			MinAmount: &min,
		})

		assert.Equal(t, " WHERE 1=1 AND t.status = $1 AND t.amount >= $2", where)
		assert.Equal(t, []any{transaction.StatusPending, min}, args)
	})

	t.Run("PlaceholdersStayOrdered", func(t *testing.T) {
		min := decimal.RequireFromString("500")
		max := decimal.RequireFromString("2000")
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		where, args := filterClause(transaction.ListFilter{
			Type:       new(transaction.TypeRental),
			PropertyID: new(int64(7)),
			MinAmount:  &min,
			MaxAmount:  &max,
			StartDate:  &start,
		})

		assert.Equal(t,
			" WHERE 1=1 AND t.transaction_type = $1 AND t.property_id = $2"+
				" AND t.amount >= $3 AND t.amount <= $4 AND t.transaction_date >= $5",
			where)
		assert.Equal(t, []any{transaction.TypeRental, int64(7), min, max, start}, args)
	})
}
