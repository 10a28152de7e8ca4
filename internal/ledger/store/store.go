package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mvillard/immogest/internal/ledger"
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

const selectEntryColumns = `
	id, property_id, transaction_id, owner_id, client_id, entry_type, category, amount,
	currency, entry_date, payment_method, reference_number, description, is_recurring,
	recurring_frequency, created_at, updated_at
`

func scanEntry(s scanner) (*ledger.Entry, error) {
	var e ledger.Entry

	var (
		typeStr                               string
		category, paymentMethod               sql.NullString
		reference, description, recurringFreq sql.NullString
	)

	if err := s.Scan(
		&e.ID, &e.PropertyID, &e.TransactionID, &e.OwnerID, &e.ClientID,
		&typeStr, &category, &e.Amount, &e.Currency, &e.Date,
		&paymentMethod, &reference, &description, &e.IsRecurring,
		&recurringFreq, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Type = ledger.EntryType(typeStr)
	e.Category = category.String
	e.PaymentMethod = paymentMethod.String
	e.ReferenceNumber = reference.String
	e.Description = description.String
	e.RecurringFrequency = ledger.RecurringFrequency(recurringFreq.String)

	return &e, nil
}

func (s *Store) CreateEntry(ctx context.Context, e *ledger.Entry) error {
	query := `
		INSERT INTO financial_transactions (property_id, transaction_id, owner_id, client_id,
			entry_type, category, amount, currency, entry_date, payment_method,
			reference_number, description, is_recurring, recurring_frequency,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.PropertyID,
		e.TransactionID,
		e.OwnerID,
		e.ClientID,
		e.Type,
		e.Category,
		e.Amount,
		e.Currency,
		e.Date,
		e.PaymentMethod,
		e.ReferenceNumber,
		e.Description,
		e.IsRecurring,
		nullString(string(e.RecurringFrequency)),
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating ledger entry: %w", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) GetEntry(ctx context.Context, id int64) (*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM financial_transactions WHERE id = $1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting ledger entry: %w", err)
	}

	return e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, e *ledger.Entry) error {
	query := `
		UPDATE financial_transactions
		SET entry_type = $1, category = $2, amount = $3, currency = $4, entry_date = $5,
			payment_method = $6, reference_number = $7, description = $8,
			is_recurring = $9, recurring_frequency = $10, updated_at = NOW()
		WHERE id = $11
	`

	res, err := s.db.ExecContext(ctx, query,
		e.Type,
		e.Category,
		e.Amount,
		e.Currency,
		e.Date,
		e.PaymentMethod,
		e.ReferenceNumber,
		e.Description,
		e.IsRecurring,
		nullString(string(e.RecurringFrequency)),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating ledger entry: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM financial_transactions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting ledger entry: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

func (s *Store) ListEntries(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Entry, int, error) {
	where := " WHERE 1=1"

	var args []any

	argIdx := 1

	add := func(cond string, value any) {
		where += fmt.Sprintf(" AND "+cond, argIdx)
		args = append(args, value)
		argIdx++
	}

	if filter.PropertyID != nil {
		add("property_id = $%d", *filter.PropertyID)
	}

	if filter.TransactionID != nil {
		add("transaction_id = $%d", *filter.TransactionID)
	}

	if filter.OwnerID != nil {
		add("owner_id = $%d", *filter.OwnerID)
	}

	if filter.ClientID != nil {
		add("client_id = $%d", *filter.ClientID)
	}

	if filter.Type != nil {
		add("entry_type = $%d", *filter.Type)
	}

	if filter.Category != nil {
		add("category = $%d", *filter.Category)
	}

	if filter.Direction != nil {
		switch *filter.Direction {
		case ledger.DirectionIncome:
			where += " AND entry_type IN ('income', 'deposit')"
		case ledger.DirectionExpense:
			where += " AND entry_type IN ('expense', 'withdrawal')"
		}
	}

	if filter.StartDate != nil {
		add("entry_date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("entry_date <= $%d", *filter.EndDate)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM financial_transactions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting ledger entries: %w", err)
	}

	query := `SELECT ` + selectEntryColumns + ` FROM financial_transactions` + where +
		fmt.Sprintf(" ORDER BY entry_date DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning ledger entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating ledger rows: %w", err)
	}

	return entries, total, nil
}
