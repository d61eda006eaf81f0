package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"calculator-widget/internal/calculator"
	"calculator-widget/internal/handlers"
	"calculator-widget/internal/observability"
	"calculator-widget/internal/tone"
)

// NewRouter wires the HTTP shell: calculator sessions, tone assets, health
// and metrics.
func NewRouter(store *calculator.Store, tones tone.Table) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r, calculator.NewHandler(store, tones))
	tone.RegisterRoutes(r, tone.NewHandler(tones))

	return r
}
