package router

import (
	"log"
	"net/http"

	"github.com/forkful/api/internal/config"
	"github.com/forkful/api/internal/database"
	"github.com/forkful/api/internal/handler"
	mw "github.com/forkful/api/internal/middleware"
	"github.com/forkful/api/internal/payment"
	"github.com/forkful/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.Metrics)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Categories
		categoryHandler := handler.NewCategoryHandler(queries)
		r.Route("/categories", categoryHandler.RegisterRoutes)

		// Menu
		menuHandler := handler.NewMenuHandler(queries)
		r.Route("/menu", menuHandler.RegisterRoutes)

		// Cart
		cartService := service.NewCartService(queries)
		cartHandler := handler.NewCartHandler(cartService)
		r.Route("/cart", cartHandler.RegisterRoutes)

		// Orders
		deliveryFee, err := decimal.NewFromString(cfg.DeliveryFee)
		if err != nil {
			log.Fatalf("invalid DELIVERY_FEE %q: %v", cfg.DeliveryFee, err)
		}
		newOrderStore := func(db database.DBTX) service.OrderStore {
			return database.New(db)
		}
		orderService := service.NewOrderService(pool, newOrderStore, deliveryFee, cfg.CORSOrigin)
		orderHandler := handler.NewOrderHandler(orderService, queries)
		r.Route("/orders", orderHandler.RegisterRoutes)

		// Payments
		newPaymentStore := func(db database.DBTX) service.PaymentStore {
			return database.New(db)
		}
		paymentService := service.NewPaymentService(pool, newPaymentStore)
		paymentHandler := handler.NewPaymentHandler(
			paymentService,
			payment.NewSimulationSource(),
			payment.NewWebhookSource(cfg.PaymentChecksumKey),
		)
		r.Route("/payment", paymentHandler.RegisterRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r
}
