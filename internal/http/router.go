package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mvillard/immogest/internal/http/auth"
	"github.com/mvillard/immogest/internal/http/categorize"
	"github.com/mvillard/immogest/internal/http/importcsv"
	"github.com/mvillard/immogest/internal/http/ledger"
	"github.com/mvillard/immogest/internal/http/transaction"
)

func New(
	jwtSecret string,
	transactionsV1 *transaction.Handler,
	financialsV1 *ledger.Handler,
	importV1 *importcsv.Handler,
	categoriesV1 *categorize.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	authed := auth.Middleware(jwtSecret)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r, authed)
		})

		r.Route("/financials", func(r chi.Router) {
			r.Route("/import", func(r chi.Router) {
				r.Use(authed)
				importV1.Routes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				financialsV1.Routes(r, authed)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categoriesV1.Routes(r)
		})
	})

	return router
}
