package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mvillard/immogest/internal/directory"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// CreateTransaction persists the transaction, and its agreement when one
	// is attached, inside a single unit of work.
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	// UpdateTransaction persists field changes and upserts the attached
	// agreement, if any, inside a single unit of work.
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	UpdateStatus(ctx context.Context, id int64, status Status, notes string) error
	// DeleteTransaction removes the transaction and cascades to its agreement.
	DeleteTransaction(ctx context.Context, id int64) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, int, error)

	GetAgreement(ctx context.Context, transactionID int64) (*RentalAgreement, error)
	CreateAgreement(ctx context.Context, ra *RentalAgreement) error
	UpdateAgreement(ctx context.Context, ra *RentalAgreement) error
}

// Directory resolves the entities a transaction references. Lookups are used
// for existence validation only.
type Directory interface {
	GetProperty(ctx context.Context, id int64) (*directory.Property, error)
	GetClient(ctx context.Context, id int64) (*directory.Client, error)
	GetUser(ctx context.Context, id int64) (*directory.User, error)
}

type Service struct {
	repo Repository
	dir  Directory
}

func NewService(repo Repository, dir Directory) *Service {
	return &Service{repo: repo, dir: dir}
}

type CreateParams struct {
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
	Agreement            *AgreementParams
}

type AgreementParams struct {
	StartDate         time.Time
	EndDate           time.Time
	IsRenewable       *bool // defaults to true
	RentAmount        decimal.Decimal
	RentFrequency     RentFrequency
	DepositAmount     decimal.Decimal
	PaymentDay        int
	SpecialConditions string
}

// agreement materializes the params into a RentalAgreement, applying
// defaults and validating the lease terms.
func (p AgreementParams) agreement() (*RentalAgreement, error) {
	renewable := true
	if p.IsRenewable != nil {
		renewable = *p.IsRenewable
	}

	ra := &RentalAgreement{
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		IsRenewable:       renewable,
		RentAmount:        p.RentAmount,
		RentFrequency:     p.RentFrequency,
		DepositAmount:     p.DepositAmount,
		PaymentDay:        p.PaymentDay,
		SpecialConditions: p.SpecialConditions,
	}

	if err := validateAgreement(ra); err != nil {
		return nil, err
	}

	return ra, nil
}

func validateAgreement(ra *RentalAgreement) error {
	if !ra.RentFrequency.Valid() {
		return validationErrorf("rent frequency must be 'monthly', 'quarterly' or 'yearly'")
	}

	if ra.EndDate.Before(ra.StartDate) {
		return validationErrorf("end date must be on or after start date")
	}

	if ra.RentAmount.Sign() <= 0 {
		return validationErrorf("rent amount must be positive")
	}

	if ra.DepositAmount.Sign() < 0 {
		return validationErrorf("deposit amount cannot be negative")
	}

	if ra.PaymentDay < 1 || ra.PaymentDay > 31 {
		return validationErrorf("payment day must be between 1 and 31")
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if !params.Type.Valid() {
		return nil, validationErrorf("transaction type must be 'sale' or 'rental'")
	}

	if !params.Status.Valid() {
		return nil, validationErrorf("status must be 'pending', 'completed' or 'cancelled'")
	}

	if params.Agreement != nil && params.Type != TypeRental {
		return nil, validationErrorf("a rental agreement can only be attached to a rental transaction")
	}

	if err := s.resolveReferences(ctx, params.PropertyID, params.ClientID, params.HandledBy); err != nil {
		return nil, err
	}

	tx := &Transaction{
		Type:                 params.Type,
		PropertyID:           params.PropertyID,
		ClientID:             params.ClientID,
		Date:                 params.Date,
		Amount:               params.Amount,
		CommissionAmount:     params.CommissionAmount,
		CommissionPercentage: params.CommissionPercentage,
		Status:               params.Status,
		PaymentMethod:        params.PaymentMethod,
		Notes:                params.Notes,
		HandledBy:            params.HandledBy,
	}

	if params.Agreement != nil {
		ra, err := params.Agreement.agreement()
		if err != nil {
			return nil, err
		}

		tx.Agreement = ra
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

type UpdateParams struct {
	Type                 *Type
	PropertyID           *int64
	ClientID             *int64
	Date                 *time.Time
	Amount               *decimal.Decimal
	CommissionAmount     *decimal.Decimal
	CommissionPercentage *decimal.Decimal
	Status               *Status
	PaymentMethod        *string
	Notes                *string
	Agreement            *AgreementUpdateParams
}

type AgreementUpdateParams struct {
	StartDate         *time.Time
	EndDate           *time.Time
	IsRenewable       *bool
	RentAmount        *decimal.Decimal
	RentFrequency     *RentFrequency
	DepositAmount     *decimal.Decimal
	PaymentDay        *int
	SpecialConditions *string
}

// apply merges the supplied fields into ra and revalidates the lease terms.
func (p AgreementUpdateParams) apply(ra *RentalAgreement) error {
	if p.StartDate != nil {
		ra.StartDate = *p.StartDate
	}

	if p.EndDate != nil {
		ra.EndDate = *p.EndDate
	}

	if p.IsRenewable != nil {
		ra.IsRenewable = *p.IsRenewable
	}

	if p.RentAmount != nil {
		ra.RentAmount = *p.RentAmount
	}

	if p.RentFrequency != nil {
		ra.RentFrequency = *p.RentFrequency
	}

	if p.DepositAmount != nil {
		ra.DepositAmount = *p.DepositAmount
	}

	if p.PaymentDay != nil {
		ra.PaymentDay = *p.PaymentDay
	}

	if p.SpecialConditions != nil {
		ra.SpecialConditions = *p.SpecialConditions
	}

	return validateAgreement(ra)
}

// full converts the partial params into creation params. All lease terms
// except renewability and special conditions must be present.
func (p AgreementUpdateParams) full() (*AgreementParams, error) {
	if p.StartDate == nil || p.EndDate == nil || p.RentAmount == nil ||
		p.RentFrequency == nil || p.DepositAmount == nil || p.PaymentDay == nil {
		return nil, validationErrorf("creating a rental agreement requires start_date, end_date, rent_amount, rent_frequency, deposit_amount and payment_day")
	}

	full := &AgreementParams{
		StartDate:     *p.StartDate,
		EndDate:       *p.EndDate,
		IsRenewable:   p.IsRenewable,
		RentAmount:    *p.RentAmount,
		RentFrequency: *p.RentFrequency,
		DepositAmount: *p.DepositAmount,
		PaymentDay:    *p.PaymentDay,
	}

	if p.SpecialConditions != nil {
		full.SpecialConditions = *p.SpecialConditions
	}

	return full, nil
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil {
		if !params.Type.Valid() {
			return nil, validationErrorf("transaction type must be 'sale' or 'rental'")
		}

		if *params.Type != TypeRental && tx.Agreement != nil {
			return nil, validationErrorf("transaction %d still has a rental agreement and cannot become a sale", id)
		}

		tx.Type = *params.Type
	}

	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, validationErrorf("status must be 'pending', 'completed' or 'cancelled'")
		}

		tx.Status = *params.Status
	}

	if params.PropertyID != nil {
		if _, err := s.dir.GetProperty(ctx, *params.PropertyID); err != nil {
			return nil, referenceErr(err, ErrPropertyNotFound)
		}

		tx.PropertyID = *params.PropertyID
	}

	if params.ClientID != nil {
		if _, err := s.dir.GetClient(ctx, *params.ClientID); err != nil {
			return nil, referenceErr(err, ErrClientNotFound)
		}

		tx.ClientID = *params.ClientID
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if params.CommissionAmount != nil {
		tx.CommissionAmount = params.CommissionAmount
	}

	if params.CommissionPercentage != nil {
		tx.CommissionPercentage = params.CommissionPercentage
	}

	if params.PaymentMethod != nil {
		tx.PaymentMethod = *params.PaymentMethod
	}

	if params.Notes != nil {
		tx.Notes = *params.Notes
	}

	if params.Agreement != nil {
		if tx.Type != TypeRental {
			return nil, validationErrorf("a rental agreement can only be attached to a rental transaction")
		}

		if tx.Agreement != nil {
			if err := params.Agreement.apply(tx.Agreement); err != nil {
				return nil, err
			}
		} else {
			full, err := params.Agreement.full()
			if err != nil {
				return nil, err
			}

			ra, err := full.agreement()
			if err != nil {
				return nil, err
			}

			ra.TransactionID = tx.ID
			tx.Agreement = ra
		}
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if tx.Status == StatusCompleted {
		return ErrTransactionCompleted
	}

	return s.repo.DeleteTransaction(ctx, id)
}

// ChangeStatus moves the transaction to newStatus. When a note is supplied
// an audit line is appended to the notes field, never overwriting it.
func (s *Service) ChangeStatus(ctx context.Context, id int64, newStatus Status, note string) (*Transaction, error) {
	if !newStatus.Valid() {
		return nil, validationErrorf("status must be 'pending', 'completed' or 'cancelled'")
	}

	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	notes := tx.Notes

	if note != "" {
		line := fmt.Sprintf("[%s] Status changed to '%s': %s",
			time.Now().UTC().Format("2006-01-02 15:04"), newStatus, note)

		if notes == "" {
			notes = line
		} else {
			notes += "\n\n" + line
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus, notes); err != nil {
		return nil, err
	}

	tx.Status = newStatus
	tx.Notes = notes

	return tx, nil
}

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type ListFilter struct {
	Type       *Type
	Status     *Status
	PropertyID *int64
	ClientID   *int64
	HandledBy  *int64
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PerPage    int
}

// Page is one page of transactions plus pagination metadata.
type Page struct {
	Transactions []*Transaction
	Page         int
	PerPage      int
	TotalPages   int
	TotalItems   int
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

	txs, total, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &Page{
		Transactions: txs,
		Page:         filter.Page,
		PerPage:      filter.PerPage,
		TotalPages:   (total + filter.PerPage - 1) / filter.PerPage,
		TotalItems:   total,
	}, nil
}

// GetAgreement returns the agreement bound to the transaction, or nil when
// the rental exists but has none.
func (s *Service) GetAgreement(ctx context.Context, transactionID int64) (*RentalAgreement, error) {
	tx, err := s.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if tx.Type != TypeRental {
		return nil, validationErrorf("transaction %d is not a rental", transactionID)
	}

	return tx.Agreement, nil
}

func (s *Service) CreateAgreement(ctx context.Context, transactionID int64, params AgreementParams) (*RentalAgreement, error) {
	tx, err := s.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if tx.Type != TypeRental {
		return nil, validationErrorf("a rental agreement can only be attached to a rental transaction")
	}

	if tx.Agreement != nil {
		return nil, validationErrorf("transaction %d already has a rental agreement", transactionID)
	}

	ra, err := params.agreement()
	if err != nil {
		return nil, err
	}

	ra.TransactionID = transactionID

	if err := s.repo.CreateAgreement(ctx, ra); err != nil {
		return nil, err
	}

	return ra, nil
}

func (s *Service) UpdateAgreement(ctx context.Context, transactionID int64, params AgreementUpdateParams) (*RentalAgreement, error) {
	ra, err := s.repo.GetAgreement(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := params.apply(ra); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAgreement(ctx, ra); err != nil {
		return nil, err
	}

	return ra, nil
}

func (s *Service) resolveReferences(ctx context.Context, propertyID, clientID, handledBy int64) error {
	if _, err := s.dir.GetProperty(ctx, propertyID); err != nil {
		return referenceErr(err, ErrPropertyNotFound)
	}

	if _, err := s.dir.GetClient(ctx, clientID); err != nil {
		return referenceErr(err, ErrClientNotFound)
	}

	if _, err := s.dir.GetUser(ctx, handledBy); err != nil {
		return referenceErr(err, ErrUserNotFound)
	}

	return nil
}

// referenceErr maps a directory miss to the matching domain sentinel,
// passing infrastructure errors through untouched.
func referenceErr(err, notFound error) error {
	if errors.Is(err, directory.ErrNotFound) {
		return notFound
	}

	return err
}
