package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ItemsPerPage is the listing page size.
const ItemsPerPage = 6

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error

	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Row, error)
	CountInvoices(ctx context.Context, query string) (int, error)
}

// ViewCache holds rendered pages keyed by route.
type ViewCache interface {
	Invalidate(ctx context.Context, route string) error
}

// Navigator sends the client to another route.
type Navigator interface {
	Redirect(route string)
}

type ListFilter struct {
	Query  string
	Limit  int
	Offset int
}

// Outcome classifies the result of a mutation.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeInvalid
	OutcomeFailed
)

// State is what a mutation reports back to the form that submitted it.
type State struct {
	Outcome Outcome     `json:"-"`
	Errors  FieldErrors `json:"errors,omitempty"`
	Message string      `json:"message,omitempty"`
}

type Service struct {
	repo   Repository
	views  ViewCache
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, views ViewCache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		views:  views,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the clock used to date new invoices.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates the form, inserts a pending or paid invoice dated today,
// then invalidates the listing and redirects to it.
func (s *Service) Create(ctx context.Context, nav Navigator, form Form) State {
	fields, errs := Validate(form)
	if len(errs) > 0 {
		return invalid(errs, "Create")
	}

	inv := &Invoice{
		CustomerID: fields.CustomerID,
		Amount:     fields.Amount,
		Status:     fields.Status,
		Date:       today(s.now()),
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return s.failed(ctx, err, "Create")
	}

	s.invalidate(ctx)
	nav.Redirect(ListRoute)

	return State{}
}

// Update validates the form and rewrites customer, amount and status of the
// invoice with the given id. An unknown id is not an error.
func (s *Service) Update(ctx context.Context, nav Navigator, id uuid.UUID, form Form) State {
	fields, errs := Validate(form)
	if len(errs) > 0 {
		return invalid(errs, "Update")
	}

	inv := &Invoice{
		ID:         id,
		CustomerID: fields.CustomerID,
		Amount:     fields.Amount,
		Status:     fields.Status,
	}
	if err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return s.failed(ctx, err, "Update")
	}

	s.invalidate(ctx)
	nav.Redirect(ListRoute)

	return State{}
}

// Delete removes the invoice with the given id. Deleting an unknown id
// reports success too.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) State {
	if err := s.repo.DeleteInvoice(ctx, id); err != nil {
		return s.failed(ctx, err, "Delete")
	}

	s.invalidate(ctx)

	return State{Message: "Deleted Invoice."}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

// Page is one page of the filtered invoice listing.
type Page struct {
	Invoices   []*Row
	Page       int
	TotalPages int
}

// List returns the 1-based page of invoices matching query.
func (s *Service) List(ctx context.Context, query string, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	rows, err := s.repo.ListInvoices(ctx, ListFilter{
		Query:  query,
		Limit:  ItemsPerPage,
		Offset: (page - 1) * ItemsPerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	count, err := s.repo.CountInvoices(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}

	return &Page{
		Invoices:   rows,
		Page:       page,
		TotalPages: (count + ItemsPerPage - 1) / ItemsPerPage,
	}, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.views.Invalidate(ctx, ListRoute); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate view", "route", ListRoute, "error", err)
	}
}

func (s *Service) failed(ctx context.Context, err error, op string) State {
	s.logger.ErrorContext(ctx, "invoice mutation failed", "op", op, "error", err)

	return State{
		Outcome: OutcomeFailed,
		Message: fmt.Sprintf("Database Error: Failed to %s Invoice.", op),
	}
}

func invalid(errs FieldErrors, op string) State {
	return State{
		Outcome: OutcomeInvalid,
		Errors:  errs,
		Message: fmt.Sprintf("Missing Fields. Failed to %s Invoice.", op),
	}
}

func today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
