package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mvillard/immogest/internal/directory"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetProperty(ctx context.Context, id int64) (*directory.Property, error) {
	query := `SELECT id, reference, title, city, owner_id FROM properties WHERE id = $1`

	var p directory.Property

	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Reference, &p.Title, &p.City, &p.OwnerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, directory.ErrNotFound
		}

		return nil, fmt.Errorf("getting property: %w", err)
	}

	return &p, nil
}

func (s *Store) GetOwner(ctx context.Context, id int64) (*directory.Owner, error) {
	query := `SELECT id, first_name, last_name, email FROM owners WHERE id = $1`

	var o directory.Owner

	err := s.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.FirstName, &o.LastName, &o.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, directory.ErrNotFound
		}

		return nil, fmt.Errorf("getting owner: %w", err)
	}

	return &o, nil
}

func (s *Store) GetClient(ctx context.Context, id int64) (*directory.Client, error) {
	query := `SELECT id, first_name, last_name, email FROM clients WHERE id = $1`

	var c directory.Client

	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, directory.ErrNotFound
		}

		return nil, fmt.Errorf("getting client: %w", err)
	}

	return &c, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*directory.User, error) {
	query := `SELECT id, username, email FROM users WHERE id = $1`

	var u directory.User

	err := s.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, directory.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return &u, nil
}
