package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marentsov/financial-bot/internal/domain"
)

func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.listExpenses)
			r.Post("/approve", s.bulkStatus(s.expenses, "expense", domain.StatusApproved))
			r.Post("/reject", s.bulkStatus(s.expenses, "expense", domain.StatusRejected))
			r.Post("/paid", s.bulkStatus(s.expenses, "expense", domain.StatusPaid))
			r.Get("/{id}", s.getExpense)
			r.Patch("/{id}", s.setComment(s.expenses, "expense request"))
			r.Get("/{id}/receipt", s.getReceipt)
		})

		r.Route("/money", func(r chi.Router) {
			r.Get("/", s.listMoney)
			r.Post("/approve", s.bulkStatus(s.money, "money", domain.StatusApproved))
			r.Post("/reject", s.bulkStatus(s.money, "money", domain.StatusRejected))
			r.Post("/paid", s.bulkStatus(s.money, "money", domain.StatusPaid))
			r.Get("/{id}", s.getMoney)
			r.Patch("/{id}", s.setComment(s.money, "money request"))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.Patch("/{id}", s.updateUser)
		})
	})

	return r
}
