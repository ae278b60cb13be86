package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ListRoute is the dashboard listing every mutation invalidates and returns to.
const ListRoute = "/dashboard/invoices"

var ErrNotFound = errors.New("invoice not found")

// Status represents the payment state of an invoice.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Invoice represents a bill issued to a customer.
type Invoice struct {
	ID         uuid.UUID
	CustomerID string
	Amount     int64 // Amount in cents
	Status     Status
	Date       time.Time
}

// Row is an invoice joined with its customer, as shown in the listing.
type Row struct {
	Invoice

	CustomerName  string
	CustomerEmail string
	ImageURL      string
}
