package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRouter configures the HTTP routes and middleware for the auction API.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(h.logger))

	r.Route("/api/auctions/{auctionID}", func(r chi.Router) {
		r.Get("/", h.GetAuction)
		r.Post("/bids", h.PlaceBid)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuth(h.adminToken))

			r.Post("/withdraw-bids", h.WithdrawBids)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
