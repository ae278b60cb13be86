package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/invoicedash/internal/customer"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var out []*customer.Customer

	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}

		out = append(out, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer rows: %w", err)
	}

	return out, nil
}
