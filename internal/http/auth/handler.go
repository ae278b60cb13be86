package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/invoicedash/internal/auth"
	"github.com/MrJamesThe3rd/invoicedash/internal/auth/session"
)

const (
	loginRoute     = "/login"
	dashboardRoute = "/dashboard"
)

type Handler struct {
	bridge  *auth.Bridge
	tokens  *session.Issuer
	cookies *session.Cookies
}

func NewHandler(bridge *auth.Bridge, tokens *session.Issuer, cookies *session.Cookies) *Handler {
	return &Handler{bridge: bridge, tokens: tokens, cookies: cookies}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(h.RedirectIfSignedIn).Get(loginRoute, h.loginForm)
	r.Post(loginRoute, h.login)
	r.Post("/logout", h.logout)
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) loginForm(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess, msg, err := h.bridge.Authenticate(r.Context(), auth.Credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		slog.Error("sign-in failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if msg != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)

		if err := json.NewEncoder(w).Encode(messageResponse{Message: msg}); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	h.cookies.Set(w, sess.Token, sess.ExpiresAt)
	http.Redirect(w, r, safeRedirect(r.PostFormValue("redirectTo")), http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	http.Redirect(w, r, loginRoute, http.StatusSeeOther)
}

// safeRedirect only follows local absolute paths.
func safeRedirect(to string) string {
	if !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") || strings.HasPrefix(to, "/\\") {
		return dashboardRoute
	}

	return to
}
