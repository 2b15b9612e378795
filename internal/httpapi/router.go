package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"restaurant-pos/internal/auth"
)

// Router wires every terminal-facing endpoint. All data routes sit behind the
// credential check; only login is open.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Post("/auth/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(h.JWT, writeError))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.ListItems)
			r.Post("/", h.CreateItem)
			r.Get("/{id}", h.GetItem)
			r.Put("/{id}", h.UpdateItem)
			r.Delete("/{id}", h.DeleteItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.CreateOrder)
			r.Get("/", h.ListOrders)
			r.Get("/{id}", h.GetOrder)
			r.Put("/{id}", h.UpdateOrderStatus)
			r.Delete("/{id}", h.DeleteOrder)
			r.Get("/{id}/items", h.ListOrderItems)
		})
		r.Put("/order-items/{id}/status", h.UpdateOrderItemStatus)

		r.Route("/tables", func(r chi.Router) {
			r.Get("/", h.ListTables)
			r.Put("/{id}/status", h.UpdateTableStatus)
			r.Put("/{id}/reservation", h.AddReservation)
		})
		r.Get("/bill-requests", h.BillRequests)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Delete("/{id}", h.DeleteUser)
		})

		r.Get("/dashboard/cashier", h.CashierDashboard)
		r.Get("/sales/daily", h.DailySales)
		r.Get("/sales/{timeRange}", h.SalesRange)

		r.Post("/sync", h.Sync)
		r.Post("/print-receipt", h.PrintReceipt)

		r.Get("/ws", h.WebSocket)
	})

	return r
}
