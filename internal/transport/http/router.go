package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", handler.CreateOrder)
			r.Get("/", handler.ListOrders)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handler.GetOrder)

				r.Post("/confirm", handler.ConfirmOrder)
				r.Post("/ready", handler.MarkOrderReady)
				r.Post("/complete", handler.CompleteOrder)
				r.Post("/cancel", handler.CancelOrder)

				r.Post("/payments", handler.AppendPayment)

				r.Post("/items", handler.AddLineItem)
				r.Patch("/items/{itemID}", handler.UpdateLineItemQuantity)
				r.Post("/items/{itemID}/recalculate", handler.RecalculateLineItem)
				r.Delete("/items/{itemID}", handler.RemoveLineItem)
				r.Put("/items/{itemID}/materials/{materialID}", handler.SetActualMaterialUsage)

				r.Post("/costs", handler.AddCost)
				r.Delete("/costs/{costID}", handler.RemoveCost)
			})
		})

		r.Route("/materials", func(r chi.Router) {
			r.Post("/", handler.CreateMaterial)
			r.Get("/", handler.ListMaterials)
			r.Get("/{id}", handler.GetMaterial)
			r.Patch("/{id}", handler.UpdateMaterial)
			r.Delete("/{id}", handler.DeleteMaterial)
			r.Post("/{id}/stock", handler.AdjustStock)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", handler.CreateProduct)
			r.Get("/", handler.ListProducts)
			r.Get("/{id}", handler.GetProduct)
			r.Patch("/{id}", handler.UpdateProduct)
			r.Delete("/{id}", handler.DeleteProduct)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Post("/", handler.CreateExpense)
			r.Get("/", handler.ListExpenses)
			r.Get("/{id}", handler.GetExpense)
			r.Patch("/{id}", handler.UpdateExpense)
			r.Delete("/{id}", handler.DeleteExpense)
		})

		r.Get("/statistics/month", handler.MonthStatistics)
	})

	return r
}
