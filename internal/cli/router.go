package cli

import (
	"net/http"
	"time"

	"github.com/arigopay/backend/internal/handlers"
	mW "github.com/arigopay/backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type routes struct {
	webhook   *handlers.WebhookHandler
	account   *handlers.AccountHandler
	health    *handlers.HealthHandler
	limiter   *mW.RateLimiter
	jwtSecret string
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mW.RequestLogging)
	r.Use(middleware.Recoverer)
	r.Use(mW.Metrics)
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{handlers.DeliveryIDHeader},
		AllowCredentials: false,
		MaxAge:           86400,
	}))

	r.Get("/health", rt.health.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Provider callback; authenticated by signature, not by JWT.
	r.Post("/webhook", rt.webhook.Handle)

	r.Route("/api/v1", func(r chi.Router) {
		if rt.limiter != nil {
			r.Use(rt.limiter.Handler)
		}
		r.Use(mW.AuthMiddleware(rt.jwtSecret))

		r.Get("/account", rt.account.GetAccount)
		r.Get("/transactions/{reference}", rt.account.GetTransaction)
	})

	return r
}
