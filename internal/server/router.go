package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	alertsctrl "github.com/omkar-009/stockflow-inventory/internal/alerts/controller"
	fulfillmentctrl "github.com/omkar-009/stockflow-inventory/internal/fulfillment/controller"
	ledgerctrl "github.com/omkar-009/stockflow-inventory/internal/ledger/controller"
)

func NewRouter(
	fulfillmentCtrl *fulfillmentctrl.FulfillmentController,
	stockCtrl *ledgerctrl.StockController,
	alertsCtrl *alertsctrl.AlertsController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/orders/fulfillment", fulfillmentCtrl.Fulfill)

		r.Route("/stock", func(r chi.Router) {
			r.Post("/add", stockCtrl.AddStock)
			r.Post("/remove", stockCtrl.RemoveStock)
			r.Post("/reserve", stockCtrl.Reserve)
			r.Post("/release", stockCtrl.Release)
			r.Post("/commit", stockCtrl.Commit)
		})

		r.Get("/products/{productID}/inventory", stockCtrl.ProductInventory)

		r.Route("/companies/{companyID}", func(r chi.Router) {
			r.Get("/low-stock-alerts", alertsCtrl.LowStockAlerts)
			r.Get("/expiring-inventory", alertsCtrl.ExpiringInventory)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
