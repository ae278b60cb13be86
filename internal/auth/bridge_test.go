package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicedash/internal/auth"
)

func TestBridge_Authenticate(t *testing.T) {
	creds := auth.Credentials{Email: "user@nextmail.com", Password: "123456"}
	errDown := errors.New("context canceled")

	type testCase struct {
		name        string
		signIn      func() (*auth.Session, error)
		wantSession bool
		wantMsg     string
		wantErr     error
	}

	tests := []testCase{
		{
			name: "Success",
			signIn: func() (*auth.Session, error) {
				return &auth.Session{Token: "t", ExpiresAt: time.Now().Add(time.Hour)}, nil
			},
			wantSession: true,
		},
		{
			name: "InvalidCredentials",
			signIn: func() (*auth.Session, error) {
				return nil, &auth.Error{Kind: auth.KindCredentialsSignin}
			},
			wantMsg: "Invalid credentials.",
		},
		{
			name: "WrappedInvalidCredentials",
			signIn: func() (*auth.Session, error) {
				return nil, errors.Join(errors.New("outer"), &auth.Error{Kind: auth.KindCredentialsSignin})
			},
			wantMsg: "Invalid credentials.",
		},
		{
			name: "OtherAuthKind",
			signIn: func() (*auth.Session, error) {
				return nil, &auth.Error{Kind: auth.KindCallbackRoute, Err: errors.New("db down")}
			},
			wantMsg: "Something went wrong.",
		},
		{
			name: "UnknownAuthKind",
			signIn: func() (*auth.Session, error) {
				return nil, &auth.Error{Kind: "Verification"}
			},
			wantMsg: "Something went wrong.",
		},
		{
			name: "NonAuthErrorPropagates",
			signIn: func() (*auth.Session, error) {
				return nil, errDown
			},
			wantErr: errDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			provider := auth.NewMockProvider(ctrl)
			provider.EXPECT().SignIn(gomock.Any(), creds).Return(tt.signIn())

			sess, msg, err := auth.NewBridge(provider).Authenticate(context.Background(), creds)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, sess)
				assert.Empty(t, msg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, msg)
			assert.Equal(t, tt.wantSession, sess != nil)
		})
	}
}
