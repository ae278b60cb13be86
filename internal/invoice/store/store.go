package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicedash/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		inv.CustomerID,
		inv.Amount,
		inv.Status,
		inv.Date,
	).Scan(&inv.ID)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id = $1, amount = $2, status = $3
		WHERE id = $4
	`

	_, err := s.db.ExecContext(ctx, query,
		inv.CustomerID,
		inv.Amount,
		inv.Status,
		inv.ID,
	)
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `
		SELECT id, customer_id, amount, status, date
		FROM invoices
		WHERE id = $1
	`

	var (
		inv    invoice.Invoice
		status string
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID, &inv.CustomerID, &inv.Amount, &status, &inv.Date,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	inv.Status = invoice.Status(status)

	return &inv, nil
}

// searchClause matches $1 against the customer and the printable invoice columns.
const searchClause = `
	c.name ILIKE $1 OR
	c.email ILIKE $1 OR
	i.amount::text ILIKE $1 OR
	i.date::text ILIKE $1 OR
	i.status ILIKE $1
`

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Row, error) {
	query := `
		SELECT i.id, i.customer_id, i.amount, i.status, i.date, c.name, c.email, c.image_url
		FROM invoices i
		JOIN customers c ON i.customer_id = c.id
		WHERE ` + searchClause + `
		ORDER BY i.date DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, pattern(filter.Query), filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var out []*invoice.Row

	for rows.Next() {
		var (
			row    invoice.Row
			status string
		)

		if err := rows.Scan(
			&row.ID, &row.CustomerID, &row.Amount, &status, &row.Date,
			&row.CustomerName, &row.CustomerEmail, &row.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		row.Status = invoice.Status(status)
		out = append(out, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return out, nil
}

func (s *Store) CountInvoices(ctx context.Context, q string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM invoices i
		JOIN customers c ON i.customer_id = c.id
		WHERE ` + searchClause

	var count int
	if err := s.db.QueryRowContext(ctx, query, pattern(q)).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting invoices: %w", err)
	}

	return count, nil
}

func pattern(q string) string {
	return "%" + q + "%"
}
