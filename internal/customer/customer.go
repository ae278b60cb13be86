package customer

import (
	"context"

	"github.com/google/uuid"
)

// Customer is a billable party an invoice can reference.
type Customer struct {
	ID   uuid.UUID
	Name string
}

type Repository interface {
	ListCustomers(ctx context.Context) ([]*Customer, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Options returns every customer ordered by name, for the invoice form select.
func (s *Service) Options(ctx context.Context) ([]*Customer, error) {
	return s.repo.ListCustomers(ctx)
}
