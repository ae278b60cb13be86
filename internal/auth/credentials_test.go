package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/invoicedash/internal/auth"
)

func TestCredentialsProvider_SignIn(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &auth.User{
		ID:       uuid.New(),
		Name:     "User",
		Email:    "user@nextmail.com",
		Password: string(hash),
	}
	expiresAt := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		creds     auth.Credentials
		setupMock func(users *auth.MockUserRepository, tokens *auth.MockTokenIssuer)
		wantKind  auth.Kind
		wantErr   bool
	}

	tests := []testCase{
		{
			name:  "Success",
			creds: auth.Credentials{Email: " user@nextmail.com ", Password: "123456"},
			setupMock: func(users *auth.MockUserRepository, tokens *auth.MockTokenIssuer) {
				users.EXPECT().GetUserByEmail(gomock.Any(), "user@nextmail.com").Return(user, nil)
				tokens.EXPECT().Issue(user.ID, user.Email).Return("signed", expiresAt, nil)
			},
		},
		{
			name:     "MalformedEmail",
			creds:    auth.Credentials{Email: "not-an-email", Password: "123456"},
			wantKind: auth.KindCredentialsSignin,
		},
		{
			name:     "ShortPassword",
			creds:    auth.Credentials{Email: "user@nextmail.com", Password: "123"},
			wantKind: auth.KindCredentialsSignin,
		},
		{
			name:  "UnknownUser",
			creds: auth.Credentials{Email: "ghost@nextmail.com", Password: "123456"},
			setupMock: func(users *auth.MockUserRepository, _ *auth.MockTokenIssuer) {
				users.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, auth.ErrUserNotFound)
			},
			wantKind: auth.KindCredentialsSignin,
		},
		{
			name:  "WrongPassword",
			creds: auth.Credentials{Email: "user@nextmail.com", Password: "654321"},
			setupMock: func(users *auth.MockUserRepository, _ *auth.MockTokenIssuer) {
				users.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantKind: auth.KindCredentialsSignin,
		},
		{
			name:  "UserLookupFails",
			creds: auth.Credentials{Email: "user@nextmail.com", Password: "123456"},
			setupMock: func(users *auth.MockUserRepository, _ *auth.MockTokenIssuer) {
				users.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantKind: auth.KindCallbackRoute,
		},
		{
			name:  "TokenFailureIsNotAuthError",
			creds: auth.Credentials{Email: "user@nextmail.com", Password: "123456"},
			setupMock: func(users *auth.MockUserRepository, tokens *auth.MockTokenIssuer) {
				users.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
				tokens.EXPECT().Issue(gomock.Any(), gomock.Any()).Return("", time.Time{}, errors.New("no secret"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			users := auth.NewMockUserRepository(ctrl)
			tokens := auth.NewMockTokenIssuer(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(users, tokens)
			}

			sess, err := auth.NewCredentialsProvider(users, tokens).SignIn(context.Background(), tt.creds)

			if tt.wantKind != "" {
				var authErr *auth.Error
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, tt.wantKind, authErr.Kind)
				assert.Nil(t, sess)

				return
			}

			if tt.wantErr {
				require.Error(t, err)

				var authErr *auth.Error
				assert.False(t, errors.As(err, &authErr))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, user, sess.User)
			assert.Equal(t, "signed", sess.Token)
			assert.Equal(t, expiresAt, sess.ExpiresAt)
		})
	}
}
