package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mvillard/immogest/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// executor is satisfied by both *sql.DB and *sql.Tx, so single-statement and
// transactional paths can share the insert/update helpers.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectTransactionColumns = `
	t.id, t.transaction_type, t.property_id, t.client_id, t.transaction_date, t.amount,
	t.commission_amount, t.commission_percentage, t.status, t.payment_method, t.notes,
	t.handled_by, t.created_at, t.updated_at,
	ra.id, ra.start_date, ra.end_date, ra.is_renewable, ra.rent_amount, ra.rent_frequency,
	ra.deposit_amount, ra.payment_day, ra.special_conditions, ra.created_at, ra.updated_at
`

// scanTransaction reads a transaction row, including the LEFT JOINed rental
// agreement columns, and returns a populated Transaction.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var (
		typeStr, statusStr           string
		commissionAmt, commissionPct decimal.NullDecimal
		paymentMethod, notes         sql.NullString

		raID                    sql.NullInt64
		raStart, raEnd          sql.NullTime
		raRenewable             sql.NullBool
		raRent, raDeposit       decimal.NullDecimal
		raFrequency             sql.NullString
		raPaymentDay            sql.NullInt64
		raConditions            sql.NullString
		raCreatedAt, raUpdatedAt sql.NullTime
	)

	if err := s.Scan(
		&tx.ID, &typeStr, &tx.PropertyID, &tx.ClientID, &tx.Date, &tx.Amount,
		&commissionAmt, &commissionPct, &statusStr, &paymentMethod, &notes,
		&tx.HandledBy, &tx.CreatedAt, &tx.UpdatedAt,
		&raID, &raStart, &raEnd, &raRenewable, &raRent, &raFrequency,
		&raDeposit, &raPaymentDay, &raConditions, &raCreatedAt, &raUpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Status = transaction.Status(statusStr)
	tx.PaymentMethod = paymentMethod.String
	tx.Notes = notes.String

	if commissionAmt.Valid {
		tx.CommissionAmount = &commissionAmt.Decimal
	}

	if commissionPct.Valid {
		tx.CommissionPercentage = &commissionPct.Decimal
	}

	if raID.Valid {
		ra := &transaction.RentalAgreement{
			ID:                raID.Int64,
			TransactionID:     tx.ID,
			StartDate:         raStart.Time,
			EndDate:           raEnd.Time,
			IsRenewable:       raRenewable.Bool,
			RentAmount:        raRent.Decimal,
			RentFrequency:     transaction.RentFrequency(raFrequency.String),
			DepositAmount:     raDeposit.Decimal,
			PaymentDay:        int(raPaymentDay.Int64),
			SpecialConditions: raConditions.String,
			CreatedAt:         raCreatedAt.Time,
		}

		if raUpdatedAt.Valid {
			t := raUpdatedAt.Time
			ra.UpdatedAt = &t
		}

		tx.Agreement = ra
	}

	return &tx, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if tx.Agreement == nil {
		return insertTransaction(ctx, s.db, tx)
	}

	// The transaction and its agreement must exist together or not at all.
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insertTransaction(ctx, dbTx, tx); err != nil {
		return err
	}

	tx.Agreement.TransactionID = tx.ID

	if err := insertAgreement(ctx, dbTx, tx.Agreement); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func insertTransaction(ctx context.Context, e executor, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_type, property_id, client_id, transaction_date,
			amount, commission_amount, commission_percentage, status, payment_method, notes,
			handled_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := e.QueryRowContext(ctx, query,
		tx.Type,
		tx.PropertyID,
		tx.ClientID,
		tx.Date,
		tx.Amount,
		nullDecimal(tx.CommissionAmount),
		nullDecimal(tx.CommissionPercentage),
		tx.Status,
		tx.PaymentMethod,
		tx.Notes,
		tx.HandledBy,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func insertAgreement(ctx context.Context, e executor, ra *transaction.RentalAgreement) error {
	query := `
		INSERT INTO rental_agreements (transaction_id, start_date, end_date, is_renewable,
			rent_amount, rent_frequency, deposit_amount, payment_day, special_conditions,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := e.QueryRowContext(ctx, query,
		ra.TransactionID,
		ra.StartDate,
		ra.EndDate,
		ra.IsRenewable,
		ra.RentAmount,
		ra.RentFrequency,
		ra.DepositAmount,
		ra.PaymentDay,
		ra.SpecialConditions,
	).Scan(&ra.ID, &ra.CreatedAt, &ra.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating rental agreement: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		LEFT JOIN rental_agreements ra ON ra.transaction_id = t.id
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

// filterClause builds the WHERE clause shared by the count and page queries.
func filterClause(filter transaction.ListFilter) (string, []any) {
	where := " WHERE 1=1"

	var args []any

	argIdx := 1

	add := func(cond string, value any) {
		where += fmt.Sprintf(" AND "+cond, argIdx)
		args = append(args, value)
		argIdx++
	}

	if filter.Type != nil {
		add("t.transaction_type = $%d", *filter.Type)
	}

	if filter.Status != nil {
		add("t.status = $%d", *filter.Status)
	}

	if filter.PropertyID != nil {
		add("t.property_id = $%d", *filter.PropertyID)
	}

	if filter.ClientID != nil {
		add("t.client_id = $%d", *filter.ClientID)
	}

	if filter.HandledBy != nil {
		add("t.handled_by = $%d", *filter.HandledBy)
	}

	if filter.MinAmount != nil {
		add("t.amount >= $%d", *filter.MinAmount)
	}

	if filter.MaxAmount != nil {
		add("t.amount <= $%d", *filter.MaxAmount)
	}

	if filter.StartDate != nil {
		add("t.transaction_date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("t.transaction_date <= $%d", *filter.EndDate)
	}

	return where, args
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, int, error) {
	where, args := filterClause(filter)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions t"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting transactions: %w", err)
	}

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		LEFT JOIN rental_agreements ra ON ra.transaction_id = t.id` + where +
		fmt.Sprintf(" ORDER BY t.transaction_date DESC, t.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, total, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if tx.Agreement == nil {
		return updateTransaction(ctx, s.db, tx)
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := updateTransaction(ctx, dbTx, tx); err != nil {
		return err
	}

	if tx.Agreement.ID == 0 {
		tx.Agreement.TransactionID = tx.ID

		if err := insertAgreement(ctx, dbTx, tx.Agreement); err != nil {
			return err
		}
	} else if err := updateAgreement(ctx, dbTx, tx.Agreement); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func updateTransaction(ctx context.Context, e executor, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET transaction_type = $1, property_id = $2, client_id = $3, transaction_date = $4,
			amount = $5, commission_amount = $6, commission_percentage = $7, status = $8,
			payment_method = $9, notes = $10, updated_at = NOW()
		WHERE id = $11
	`

	res, err := e.ExecContext(ctx, query,
		tx.Type,
		tx.PropertyID,
		tx.ClientID,
		tx.Date,
		tx.Amount,
		nullDecimal(tx.CommissionAmount),
		nullDecimal(tx.CommissionPercentage),
		tx.Status,
		tx.PaymentMethod,
		tx.Notes,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status transaction.Status, notes string) error {
	query := `
		UPDATE transactions
		SET status = $1, notes = $2, updated_at = NOW()
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, status, notes, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// DeleteTransaction removes the transaction and its rental agreement, if any,
// in a single database transaction so no orphaned agreement is ever observed.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "DELETE FROM rental_agreements WHERE transaction_id = $1", id); err != nil {
		return fmt.Errorf("deleting rental agreement: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

const selectAgreementColumns = `
	id, transaction_id, start_date, end_date, is_renewable, rent_amount, rent_frequency,
	deposit_amount, payment_day, special_conditions, created_at, updated_at
`

func (s *Store) GetAgreement(ctx context.Context, transactionID int64) (*transaction.RentalAgreement, error) {
	query := `SELECT ` + selectAgreementColumns + ` FROM rental_agreements WHERE transaction_id = $1`

	var ra transaction.RentalAgreement

	var (
		frequency  string
		conditions sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, transactionID).Scan(
		&ra.ID, &ra.TransactionID, &ra.StartDate, &ra.EndDate, &ra.IsRenewable,
		&ra.RentAmount, &frequency, &ra.DepositAmount, &ra.PaymentDay,
		&conditions, &ra.CreatedAt, &ra.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrAgreementNotFound
		}

		return nil, fmt.Errorf("getting rental agreement: %w", err)
	}

	ra.RentFrequency = transaction.RentFrequency(frequency)
	ra.SpecialConditions = conditions.String

	return &ra, nil
}

func (s *Store) CreateAgreement(ctx context.Context, ra *transaction.RentalAgreement) error {
	return insertAgreement(ctx, s.db, ra)
}

func (s *Store) UpdateAgreement(ctx context.Context, ra *transaction.RentalAgreement) error {
	return updateAgreement(ctx, s.db, ra)
}

func updateAgreement(ctx context.Context, e executor, ra *transaction.RentalAgreement) error {
	query := `
		UPDATE rental_agreements
		SET start_date = $1, end_date = $2, is_renewable = $3, rent_amount = $4,
			rent_frequency = $5, deposit_amount = $6, payment_day = $7,
			special_conditions = $8, updated_at = NOW()
		WHERE id = $9
	`

	res, err := e.ExecContext(ctx, query,
		ra.StartDate,
		ra.EndDate,
		ra.IsRenewable,
		ra.RentAmount,
		ra.RentFrequency,
		ra.DepositAmount,
		ra.PaymentDay,
		ra.SpecialConditions,
		ra.ID,
	)
	if err != nil {
		return fmt.Errorf("updating rental agreement: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrAgreementNotFound
	}

	return nil
}
