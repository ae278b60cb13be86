package auth

import (
	"context"
	"net/http"

	"github.com/MrJamesThe3rd/invoicedash/internal/auth/session"
)

type claimsKey struct{}

// ClaimsFrom returns the session claims RequireSession stored on the request.
func ClaimsFrom(ctx context.Context) (*session.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*session.Claims)
	return c, ok
}

func (h *Handler) claims(r *http.Request) (*session.Claims, bool) {
	token, ok := h.cookies.Read(r)
	if !ok {
		return nil, false
	}

	c, err := h.tokens.Parse(token)
	if err != nil {
		return nil, false
	}

	return c, true
}

// RequireSession sends clients without a valid session to the login page.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := h.claims(r)
		if !ok {
			http.Redirect(w, r, loginRoute, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, c)))
	})
}

// RedirectIfSignedIn sends signed-in clients straight to the dashboard.
func (h *Handler) RedirectIfSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.claims(r); ok {
			http.Redirect(w, r, dashboardRoute, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
