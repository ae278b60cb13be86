package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// Kind classifies an authentication failure.
type Kind string

const (
	KindCredentialsSignin Kind = "CredentialsSignin"
	KindCallbackRoute     Kind = "CallbackRouteError"
	KindAccessDenied      Kind = "AccessDenied"
)

// Error is a classified authentication failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}

	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

type Credentials struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"min=6"`
}

type User struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Password string // bcrypt hash
}

// Session is the outcome of a completed sign-in.
type Session struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=auth
type Provider interface {
	SignIn(ctx context.Context, creds Credentials) (*Session, error)
}

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type TokenIssuer interface {
	Issue(userID uuid.UUID, email string) (string, time.Time, error)
}
