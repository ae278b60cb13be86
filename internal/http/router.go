package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/invoicedash/internal/http/auth"
	"github.com/MrJamesThe3rd/invoicedash/internal/http/customer"
	"github.com/MrJamesThe3rd/invoicedash/internal/http/invoice"
)

var formContentTypes = []string{"application/x-www-form-urlencoded", "multipart/form-data"}

func New(
	allowedOrigins []string,
	authH *auth.Handler,
	invoicesV1 *invoice.Handler,
	customersV1 *customer.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Group(func(r chi.Router) {
		r.Use(middleware.AllowContentType(formContentTypes...))
		authH.Routes(r)
	})

	router.Route("/dashboard", func(r chi.Router) {
		r.Use(authH.RequireSession)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard/invoices", http.StatusSeeOther)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType(formContentTypes...))
			invoicesV1.Routes(r)
		})

		r.Route("/customers", customersV1.Routes)
	})

	return router
}
