package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvillard/immogest/internal/transaction"
)

type transactionResponse struct {
	ID                 int64               `json:"id"`
	Type               transaction.Type    `json:"transaction_type"`
	PropertyID         int64               `json:"property_id"`
	PropertyTitle      string              `json:"property_title,omitempty"`
	ClientID           int64               `json:"client_id"`
	ClientName         string              `json:"client_name,omitempty"`
	Date               string              `json:"transaction_date"`
	Amount             decimal.Decimal     `json:"amount"`
	FormattedAmount    string              `json:"formatted_amount"`
	Commission         commissionResponse  `json:"commission"`
	Status             transaction.Status  `json:"status"`
	PaymentMethod      string              `json:"payment_method,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	HandledBy          int64               `json:"handled_by"`
	HasRentalAgreement bool                `json:"has_rental_agreement"`
	RentalAgreement    *agreementResponse  `json:"rental_agreement,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          *time.Time          `json:"updated_at,omitempty"`
}

type commissionResponse struct {
	Amount     *decimal.Decimal `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage"`
	Formatted  string           `json:"formatted"`
}

type agreementResponse struct {
	ID                int64                     `json:"id"`
	TransactionID     int64                     `json:"transaction_id"`
	StartDate         string                    `json:"start_date"`
	EndDate           string                    `json:"end_date"`
	IsRenewable       bool                      `json:"is_renewable"`
	RentAmount        decimal.Decimal           `json:"rent_amount"`
	RentFrequency     transaction.RentFrequency `json:"rent_frequency"`
	DepositAmount     decimal.Decimal           `json:"deposit_amount"`
	PaymentDay        int                       `json:"payment_day"`
	SpecialConditions string                    `json:"special_conditions,omitempty"`
	DurationMonths    int                       `json:"duration_months"`
	FormattedRent     string                    `json:"formatted_rent"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         *time.Time                `json:"updated_at,omitempty"`
}

type paginationResponse struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

type pageResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Pagination   paginationResponse    `json:"pagination"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:              tx.ID,
		Type:            tx.Type,
		PropertyID:      tx.PropertyID,
		ClientID:        tx.ClientID,
		Date:            tx.Date.Format(time.DateOnly),
		Amount:          tx.Amount,
		FormattedAmount: tx.FormattedAmount(),
		Commission: commissionResponse{
			Amount:     tx.CommissionAmount,
			Percentage: tx.CommissionPercentage,
			Formatted:  tx.CommissionSummary(),
		},
		Status:             tx.Status,
		PaymentMethod:      tx.PaymentMethod,
		Notes:              tx.Notes,
		HandledBy:          tx.HandledBy,
		HasRentalAgreement: tx.Agreement != nil,
		CreatedAt:          tx.CreatedAt,
		UpdatedAt:          tx.UpdatedAt,
	}

	if tx.Agreement != nil {
		agreement := toAgreementResponse(tx.Agreement)
		resp.RentalAgreement = &agreement
	}

	return resp
}

func toAgreementResponse(ra *transaction.RentalAgreement) agreementResponse {
	return agreementResponse{
		ID:                ra.ID,
		TransactionID:     ra.TransactionID,
		StartDate:         ra.StartDate.Format(time.DateOnly),
		EndDate:           ra.EndDate.Format(time.DateOnly),
		IsRenewable:       ra.IsRenewable,
		RentAmount:        ra.RentAmount,
		RentFrequency:     ra.RentFrequency,
		DepositAmount:     ra.DepositAmount,
		PaymentDay:        ra.PaymentDay,
		SpecialConditions: ra.SpecialConditions,
		DurationMonths:    ra.DurationMonths(),
		FormattedRent:     ra.FormattedRent(),
		CreatedAt:         ra.CreatedAt,
		UpdatedAt:         ra.UpdatedAt,
	}
}

func toPageResponse(page *transaction.Page) pageResponse {
	resp := pageResponse{
		Transactions: make([]transactionResponse, len(page.Transactions)),
		Pagination: paginationResponse{
			Page:       page.Page,
			PerPage:    page.PerPage,
			TotalPages: page.TotalPages,
			TotalItems: page.TotalItems,
		},
	}

	for i, tx := range page.Transactions {
		resp.Transactions[i] = toResponse(tx)
	}

	return resp
}
