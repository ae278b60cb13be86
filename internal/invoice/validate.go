package invoice

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Form holds the raw values of a submitted invoice form.
type Form struct {
	CustomerID string
	Amount     string
	Status     string
}

// Fields is a validated and normalized invoice form.
type Fields struct {
	CustomerID string `form:"customerId" validate:"required"`
	Amount     int64  `form:"amount" validate:"gt=0"`
	Status     Status `form:"status" validate:"oneof=pending paid"`
}

// MaxAmount is the largest amount in cents the invoices.amount column holds.
const MaxAmount = math.MaxInt32

var maxCents = decimal.NewFromInt(MaxAmount)

// FieldErrors maps a form field name to its messages.
type FieldErrors map[string][]string

var fieldMessages = map[string]string{
	"customerId": "Please select a customer.",
	"amount":     "Please enter an amount greater than $0.",
	"status":     "Please select an invoice status.",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})

	return v
}

// Validate coerces the form and checks it. It returns the normalized
// fields, or a non-empty FieldErrors when any rule fails.
func Validate(f Form) (Fields, FieldErrors) {
	fields := Fields{
		CustomerID: strings.TrimSpace(f.CustomerID),
		Amount:     toCents(f.Amount),
		Status:     Status(f.Status),
	}

	err := validate.Struct(fields)
	if err == nil {
		return fields, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable with a malformed struct definition.
		panic(err)
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], fieldMessages[fe.Field()])
	}

	return Fields{}, out
}

// toCents parses a whole-unit decimal amount into cents. Unparseable or
// out of range input yields zero so the amount rule rejects it.
func toCents(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0)
	if !cents.IsPositive() || cents.GreaterThan(maxCents) {
		return 0
	}

	return cents.IntPart()
}
