package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvillard/immogest/internal/ledger"
)

// An entry whose linked transaction was deleted keeps a NULL link. The
// response must simply omit the reference instead of failing.
func TestToResponse_OrphanedLinks(t *testing.T) {
	e := &ledger.Entry{
		ID:              5,
		Type:            ledger.TypeIncome,
		Category:        "Loyer",
		Amount:          decimal.RequireFromString("650"),
		Currency:        "EUR",
		Date:            time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: "a1b2",
	}

	raw, err := json.Marshal(toResponse(e))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.NotContains(t, got, "transaction_id")
	assert.NotContains(t, got, "property_id")
	assert.Equal(t, "income", got["transaction_type"])
	assert.Equal(t, "2024-03-05", got["transaction_date"])
}
