package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Handlers struct {
	Charge   *ChargeHandler
	Checkout *CheckoutHandler
	Markets  *MarketHandler
	Products *ProductHandler
	Orders   *OrderHandler
	Users    *UserHandler
}

func NewRouter(h Handlers, users UserStore, registry *prometheus.Registry, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(CORSMiddleware)
	r.Use(AuthMiddleware(users))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// charge relay keeps its original top-level path
	r.Post("/charge", h.Charge.CreateCharge)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/checkout", h.Checkout.Checkout)

		r.Route("/markets", func(r chi.Router) {
			r.Get("/", h.Markets.SearchMarkets)
			r.Post("/", h.Markets.CreateMarket)
			r.Get("/{marketID}", h.Markets.GetMarket)
			r.Get("/{marketID}/feed", h.Products.GetFeed)
			r.Post("/{marketID}/products", h.Products.CreateProduct)
		})

		r.Route("/products", func(r chi.Router) {
			r.Put("/{productID}", h.Products.UpdateProduct)
			r.Delete("/{productID}", h.Products.DeleteProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.ListOrders)
			r.Get("/{orderID}", h.Orders.GetOrder)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.Users.RegisterUser)
			r.Get("/{userID}", h.Users.GetUser)
			r.Post("/verify-email", h.Users.VerifyEmail)
		})
	})

	return otelhttp.NewHandler(r, "marketplace-api")
}
