package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"edushare/internal/infrastructure/metrics"
	"edushare/internal/order/controller"
	"edushare/internal/product"
)

// Deps are the collaborators both service routers share.
type Deps struct {
	Auth     func(http.Handler) http.Handler
	Metrics  *metrics.ServerMetrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
	Service  string
}

func newBaseRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(d.Logger))
	r.Use(d.Metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": d.Service})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	return r
}

func NewOrderRouter(orders *controller.OrderController, d Deps) http.Handler {
	r := newBaseRouter(d)

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(d.Auth)
		r.Post("/", orders.CreateOrder)
		r.Get("/my-orders", orders.ListMyOrders)
		r.Get("/{id}", orders.GetOrder)
		r.Patch("/{id}/status", orders.UpdateStatus)
	})

	return r
}

func NewCatalogRouter(products *product.Controller, d Deps) http.Handler {
	r := newBaseRouter(d)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", products.HandleListProducts)
		r.Get("/{id}", products.HandleGetProduct)
		r.Post("/search", products.HandleSearchProducts)

		r.Group(func(r chi.Router) {
			r.Use(d.Auth)
			r.Post("/", products.HandleCreateProduct)
			r.Put("/{id}", products.HandleUpdateProduct)
			r.Delete("/{id}", products.HandleDeleteProduct)
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
				zap.String("requestId", middleware.GetReqID(r.Context())),
			)
		})
	}
}
