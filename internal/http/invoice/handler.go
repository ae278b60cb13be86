package invoice

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicedash/internal/cache"
	"github.com/MrJamesThe3rd/invoicedash/internal/invoice"
)

type Handler struct {
	svc   *invoice.Service
	views cache.Views
}

func NewHandler(svc *invoice.Service, views cache.Views) *Handler {
	return &Handler{svc: svc, views: views}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/edit", h.update)
	r.Post("/{id}/delete", h.delete)
}

// redirector sends the browser on with 303 so the form POST becomes a GET.
type redirector struct {
	w http.ResponseWriter
	r *http.Request
}

func (n redirector) Redirect(route string) {
	http.Redirect(n.w, n.r, route, http.StatusSeeOther)
}

func formFrom(r *http.Request) invoice.Form {
	return invoice.Form{
		CustomerID: r.PostFormValue("customerId"),
		Amount:     r.PostFormValue("amount"),
		Status:     r.PostFormValue("status"),
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	state := h.svc.Create(r.Context(), redirector{w, r}, formFrom(r))
	if state.Outcome != invoice.OutcomeOK {
		writeState(w, state)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	state := h.svc.Update(r.Context(), redirector{w, r}, id, formFrom(r))
	if state.Outcome != invoice.OutcomeOK {
		writeState(w, state)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	writeState(w, h.svc.Delete(r.Context(), id))
}

func writeState(w http.ResponseWriter, state invoice.State) {
	status := http.StatusOK

	switch state.Outcome {
	case invoice.OutcomeInvalid:
		status = http.StatusUnprocessableEntity
	case invoice.OutcomeFailed:
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(state); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))

	page := 1
	if s := r.URL.Query().Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			page = n
		}
	}

	key := url.Values{"query": {query}, "page": {strconv.Itoa(page)}}.Encode()

	body, ok := h.views.Get(r.Context(), invoice.ListRoute, key)
	if !ok {
		// Taken before the read so a mutation landing mid-render discards this page.
		gen, genErr := h.views.Generation(r.Context(), invoice.ListRoute)
		if genErr != nil {
			slog.Warn("failed to read view generation", "error", genErr)
		}

		p, err := h.svc.List(r.Context(), query, page)
		if err != nil {
			slog.Error("failed to list invoices", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		body, err = json.Marshal(toPageResponse(p))
		if err != nil {
			slog.Error("failed to encode response", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		if genErr == nil {
			h.views.Set(r.Context(), invoice.ListRoute, key, gen, body)
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toFormResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
