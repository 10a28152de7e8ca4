package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvillard/immogest/internal/ledger"
)

type entryResponse struct {
	ID                 int64                     `json:"id"`
	PropertyID         *int64                    `json:"property_id,omitempty"`
	PropertyTitle      string                    `json:"property_title,omitempty"`
	TransactionID      *int64                    `json:"transaction_id,omitempty"`
	OwnerID            *int64                    `json:"owner_id,omitempty"`
	OwnerName          string                    `json:"owner_name,omitempty"`
	ClientID           *int64                    `json:"client_id,omitempty"`
	ClientName         string                    `json:"client_name,omitempty"`
	Type               ledger.EntryType          `json:"transaction_type"`
	Direction          ledger.Direction          `json:"direction"`
	Category           string                    `json:"category"`
	Amount             decimal.Decimal           `json:"amount"`
	FormattedAmount    string                    `json:"formatted_amount"`
	Currency           string                    `json:"currency"`
	Date               string                    `json:"transaction_date"`
	PaymentMethod      string                    `json:"payment_method,omitempty"`
	ReferenceNumber    string                    `json:"reference_number"`
	Description        string                    `json:"description,omitempty"`
	IsRecurring        bool                      `json:"is_recurring"`
	RecurringFrequency ledger.RecurringFrequency `json:"recurring_frequency,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          *time.Time                `json:"updated_at,omitempty"`
}

type paginationResponse struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

type pageResponse struct {
	Entries    []entryResponse    `json:"transactions"`
	Pagination paginationResponse `json:"pagination"`
}

func toResponse(e *ledger.Entry) entryResponse {
	direction := ledger.DirectionExpense
	if e.IsIncome() {
		direction = ledger.DirectionIncome
	}

	return entryResponse{
		ID:                 e.ID,
		PropertyID:         e.PropertyID,
		TransactionID:      e.TransactionID,
		OwnerID:            e.OwnerID,
		ClientID:           e.ClientID,
		Type:               e.Type,
		Direction:          direction,
		Category:           e.Category,
		Amount:             e.Amount,
		FormattedAmount:    e.FormattedAmount(),
		Currency:           e.Currency,
		Date:               e.Date.Format(time.DateOnly),
		PaymentMethod:      e.PaymentMethod,
		ReferenceNumber:    e.ReferenceNumber,
		Description:        e.Description,
		IsRecurring:        e.IsRecurring,
		RecurringFrequency: e.RecurringFrequency,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func toPageResponse(page *ledger.Page) pageResponse {
	resp := pageResponse{
		Entries: make([]entryResponse, len(page.Entries)),
		Pagination: paginationResponse{
			Page:       page.Page,
			PerPage:    page.PerPage,
			TotalPages: page.TotalPages,
			TotalItems: page.TotalItems,
		},
	}

	for i, e := range page.Entries {
		resp.Entries[i] = toResponse(e)
	}

	return resp
}
