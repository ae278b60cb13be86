package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/invoicedash/internal/invoice"
)

type rowResponse struct {
	ID         uuid.UUID      `json:"id"`
	CustomerID string         `json:"customer_id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	ImageURL   string         `json:"image_url"`
	Amount     int64          `json:"amount"`
	Display    string         `json:"amount_display"`
	Status     invoice.Status `json:"status"`
	Date       string         `json:"date"`
}

type pageResponse struct {
	Invoices   []rowResponse `json:"invoices"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// formResponse pre-fills the edit form, so amount is in whole units.
type formResponse struct {
	ID         uuid.UUID      `json:"id"`
	CustomerID string         `json:"customer_id"`
	Amount     string         `json:"amount"`
	Status     invoice.Status `json:"status"`
}

func toPageResponse(p *invoice.Page) pageResponse {
	rows := make([]rowResponse, 0, len(p.Invoices))
	for _, inv := range p.Invoices {
		rows = append(rows, rowResponse{
			ID:         inv.ID,
			CustomerID: inv.CustomerID,
			Name:       inv.CustomerName,
			Email:      inv.CustomerEmail,
			ImageURL:   inv.ImageURL,
			Amount:     inv.Amount,
			Display:    "$" + units(inv.Amount),
			Status:     inv.Status,
			Date:       inv.Date.Format(time.DateOnly),
		})
	}

	return pageResponse{
		Invoices:   rows,
		Page:       p.Page,
		TotalPages: p.TotalPages,
	}
}

func toFormResponse(inv *invoice.Invoice) formResponse {
	return formResponse{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Amount:     units(inv.Amount),
		Status:     inv.Status,
	}
}

// units renders cents as a whole-unit amount with two decimals.
func units(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
