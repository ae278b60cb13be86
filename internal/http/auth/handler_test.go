package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicedash/internal/auth"
	"github.com/MrJamesThe3rd/invoicedash/internal/auth/session"
	authHandler "github.com/MrJamesThe3rd/invoicedash/internal/http/auth"
)

type fixture struct {
	provider *auth.MockProvider
	tokens   *session.Issuer
	router   http.Handler
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	provider := auth.NewMockProvider(ctrl)
	tokens := session.NewIssuer("test-secret", time.Hour)
	h := authHandler.NewHandler(auth.NewBridge(provider), tokens, session.NewCookies(false))

	r := chi.NewRouter()
	h.Routes(r)
	r.With(h.RequireSession).Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authHandler.ClaimsFrom(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(claims.Email))
	})

	return fixture{provider: provider, tokens: tokens, router: r}
}

func (f fixture) sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()

	token, _, err := f.tokens.Issue(uuid.New(), "user@nextmail.com")
	require.NoError(t, err)

	return &http.Cookie{Name: session.DefaultCookieName, Value: token}
}

func loginRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req
}

func TestHandler_Login(t *testing.T) {
	creds := auth.Credentials{Email: "user@nextmail.com", Password: "123456"}

	type testCase struct {
		name         string
		redirectTo   string
		signIn       func() (*auth.Session, error)
		wantCode     int
		wantLocation string
		wantBody     string
		wantCookie   bool
	}

	tests := []testCase{
		{
			name: "Success",
			signIn: func() (*auth.Session, error) {
				return &auth.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
			},
			wantCode:     http.StatusSeeOther,
			wantLocation: "/dashboard",
			wantCookie:   true,
		},
		{
			name:       "SuccessWithRedirect",
			redirectTo: "/dashboard/invoices",
			signIn: func() (*auth.Session, error) {
				return &auth.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
			},
			wantCode:     http.StatusSeeOther,
			wantLocation: "/dashboard/invoices",
			wantCookie:   true,
		},
		{
			name:       "IgnoresOffsiteRedirect",
			redirectTo: "//evil.example",
			signIn: func() (*auth.Session, error) {
				return &auth.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
			},
			wantCode:     http.StatusSeeOther,
			wantLocation: "/dashboard",
			wantCookie:   true,
		},
		{
			name: "InvalidCredentials",
			signIn: func() (*auth.Session, error) {
				return nil, &auth.Error{Kind: auth.KindCredentialsSignin}
			},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"message":"Invalid credentials."}`,
		},
		{
			name: "OtherAuthError",
			signIn: func() (*auth.Session, error) {
				return nil, &auth.Error{Kind: auth.KindCallbackRoute}
			},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"message":"Something went wrong."}`,
		},
		{
			name: "UnexpectedError",
			signIn: func() (*auth.Session, error) {
				return nil, errors.New("signing key missing")
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.provider.EXPECT().SignIn(gomock.Any(), creds).Return(tt.signIn())

			form := url.Values{"email": {creds.Email}, "password": {creds.Password}}
			if tt.redirectTo != "" {
				form.Set("redirectTo", tt.redirectTo)
			}

			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, loginRequest(form))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}

			cookies := rec.Result().Cookies()
			if !tt.wantCookie {
				assert.Empty(t, cookies)
				return
			}

			require.Len(t, cookies, 1)
			assert.Equal(t, session.DefaultCookieName, cookies[0].Name)
			assert.Equal(t, "tok", cookies[0].Value)
			assert.True(t, cookies[0].HttpOnly)
		})
	}
}

func TestHandler_Logout(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestHandler_RequireSession(t *testing.T) {
	t.Run("NoCookie", func(t *testing.T) {
		f := newFixture(t)

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("ForgedCookie", func(t *testing.T) {
		f := newFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "forged"})

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("ValidSession", func(t *testing.T) {
		f := newFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(f.sessionCookie(t))

		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user@nextmail.com", rec.Body.String())
	})
}

func TestHandler_LoginFormRedirectsSignedIn(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(f.sessionCookie(t))

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
