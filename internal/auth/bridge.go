package auth

import (
	"context"
	"errors"
)

const (
	msgInvalidCredentials = "Invalid credentials."
	msgSomethingWrong     = "Something went wrong."
)

// Bridge turns classified sign-in failures into messages for the login form.
type Bridge struct {
	provider Provider
}

func NewBridge(provider Provider) *Bridge {
	return &Bridge{provider: provider}
}

// Authenticate signs the client in. On success it returns the session and an
// empty message. A classified *Error becomes a user-facing message; any other
// error is returned unchanged.
func (b *Bridge) Authenticate(ctx context.Context, creds Credentials) (*Session, string, error) {
	sess, err := b.provider.SignIn(ctx, creds)
	if err == nil {
		return sess, "", nil
	}

	var authErr *Error
	if !errors.As(err, &authErr) {
		return nil, "", err
	}

	switch authErr.Kind {
	case KindCredentialsSignin:
		return nil, msgInvalidCredentials, nil
	default:
		return nil, msgSomethingWrong, nil
	}
}
