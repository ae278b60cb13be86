package auth

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})

	return v
}

// CredentialsProvider signs users in with an email and password stored in
// the users table.
type CredentialsProvider struct {
	users  UserRepository
	tokens TokenIssuer
}

func NewCredentialsProvider(users UserRepository, tokens TokenIssuer) *CredentialsProvider {
	return &CredentialsProvider{users: users, tokens: tokens}
}

func (p *CredentialsProvider) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)

	if err := validate.Struct(creds); err != nil {
		return nil, &Error{Kind: KindCredentialsSignin, Err: err}
	}

	user, err := p.users.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, &Error{Kind: KindCredentialsSignin, Err: err}
		}

		return nil, &Error{Kind: KindCallbackRoute, Err: fmt.Errorf("fetching user: %w", err)}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return nil, &Error{Kind: KindCredentialsSignin, Err: err}
	}

	token, expiresAt, err := p.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issuing session: %w", err)
	}

	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
