package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	CreateEntry(ctx context.Context, e *Entry) error
	GetEntry(ctx context.Context, id int64) (*Entry, error)
	UpdateEntry(ctx context.Context, e *Entry) error
	DeleteEntry(ctx context.Context, id int64) error
	ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

const defaultCurrency = "EUR"

type RecordParams struct {
	PropertyID         *int64
	TransactionID      *int64
	OwnerID            *int64
	ClientID           *int64
	Type               EntryType
	Category           string
	Amount             decimal.Decimal
	Currency           string
	Date               time.Time
	PaymentMethod      string
	ReferenceNumber    string
	Description        string
	IsRecurring        bool
	RecurringFrequency RecurringFrequency
}

// Record appends a new journal entry. The currency defaults to EUR and a
// reference number is generated when none is supplied.
func (s *Service) Record(ctx context.Context, params RecordParams) (*Entry, error) {
	if !params.Type.Valid() {
		return nil, validationErrorf("entry type must be 'income', 'expense', 'deposit' or 'withdrawal'")
	}

	if params.Amount.Sign() <= 0 {
		return nil, validationErrorf("amount must be positive")
	}

	if params.IsRecurring && !params.RecurringFrequency.Valid() {
		return nil, validationErrorf("recurring frequency must be 'monthly', 'quarterly' or 'yearly'")
	}

	currency := strings.ToUpper(params.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	reference := params.ReferenceNumber
	if reference == "" {
		reference = uuid.NewString()
	}

	e := &Entry{
		PropertyID:      params.PropertyID,
		TransactionID:   params.TransactionID,
		OwnerID:         params.OwnerID,
		ClientID:        params.ClientID,
		Type:            params.Type,
		Category:        params.Category,
		Amount:          params.Amount,
		Currency:        currency,
		Date:            params.Date,
		PaymentMethod:   params.PaymentMethod,
		ReferenceNumber: reference,
		Description:     params.Description,
		IsRecurring:     params.IsRecurring,
	}

	if params.IsRecurring {
		e.RecurringFrequency = params.RecurringFrequency
	}

	if err := s.repo.CreateEntry(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

// UpdateParams carries clerical corrections to an existing entry. The journal
// is append-only by convention; updates exist to fix data-entry mistakes.
type UpdateParams struct {
	Type               *EntryType
	Category           *string
	Amount             *decimal.Decimal
	Currency           *string
	Date               *time.Time
	PaymentMethod      *string
	ReferenceNumber    *string
	Description        *string
	IsRecurring        *bool
	RecurringFrequency *RecurringFrequency
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Entry, error) {
	e, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil {
		if !params.Type.Valid() {
			return nil, validationErrorf("entry type must be 'income', 'expense', 'deposit' or 'withdrawal'")
		}

		e.Type = *params.Type
	}

	if params.Amount != nil {
		if params.Amount.Sign() <= 0 {
			return nil, validationErrorf("amount must be positive")
		}

		e.Amount = *params.Amount
	}

	if params.Category != nil {
		e.Category = *params.Category
	}

	if params.Currency != nil {
		e.Currency = strings.ToUpper(*params.Currency)
	}

	if params.Date != nil {
		e.Date = *params.Date
	}

	if params.PaymentMethod != nil {
		e.PaymentMethod = *params.PaymentMethod
	}

	if params.ReferenceNumber != nil {
		e.ReferenceNumber = *params.ReferenceNumber
	}

	if params.Description != nil {
		e.Description = *params.Description
	}

	if params.IsRecurring != nil {
		e.IsRecurring = *params.IsRecurring
	}

	if params.RecurringFrequency != nil {
		e.RecurringFrequency = *params.RecurringFrequency
	}

	if e.IsRecurring && !e.RecurringFrequency.Valid() {
		return nil, validationErrorf("recurring frequency must be 'monthly', 'quarterly' or 'yearly'")
	}

	if err := s.repo.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteEntry(ctx, id)
}

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type ListFilter struct {
	PropertyID    *int64
	TransactionID *int64
	OwnerID       *int64
	ClientID      *int64
	Type          *EntryType
	Category      *string
	Direction     *Direction
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PerPage       int
}

// Page is one page of entries plus pagination metadata.
type Page struct {
	Entries    []*Entry
	Page       int
	PerPage    int
	TotalPages int
	TotalItems int
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*Page, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}

	if filter.PerPage < 1 {
		filter.PerPage = defaultPerPage
	}

	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}

	entries, total, err := s.repo.ListEntries(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &Page{
		Entries:    entries,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: (total + filter.PerPage - 1) / filter.PerPage,
		TotalItems: total,
	}, nil
}

// RecordBatch appends several entries in one call, e.g. after a statement
// import has been confirmed. Entries are validated individually; the batch
// stops at the first failure.
func (s *Service) RecordBatch(ctx context.Context, params []RecordParams) ([]*Entry, error) {
	entries := make([]*Entry, 0, len(params))

	for _, p := range params {
		e, err := s.Record(ctx, p)
		if err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, nil
}
