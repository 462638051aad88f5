package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tallybook/tallybook/internal/http/account"
	"github.com/tallybook/tallybook/internal/http/matching"
	"github.com/tallybook/tallybook/internal/http/transaction"
)

func New(
	transactionsV1 *transaction.Handler,
	matchingV1 *matching.Handler,
	accountsV1 *account.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/bank-transactions", func(r chi.Router) {
			matchingV1.Routes(r)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			accountsV1.Routes(r)
		})

		r.Route("/ledger-entries", func(r chi.Router) {
			accountsV1.LedgerRoutes(r)
		})
	})

	return router
}
