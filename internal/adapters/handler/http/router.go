package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	Prefix         string
	AllowedOrigins []string
	Logger         *slog.Logger
	Observer       RequestObserver
	// Health is probed by GET /health; nil reports healthy.
	Health  func(ctx context.Context) error
	Metrics http.Handler
}

func NewHandler(voteHandler *VoteHandler, countryHandler *CountryHandler, opts RouterOptions) http.Handler {
	if opts.Prefix == "" {
		opts.Prefix = "/api"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger, opts.Observer))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(opts.AllowedOrigins))

	r.Get("/health", healthHandler(opts.Health, opts.Logger))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route(opts.Prefix, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/votes", func(r chi.Router) {
			r.Post("/", voteHandler.SubmitVote)
			r.Get("/top", voteHandler.TopCountries)
			r.Get("/search", voteHandler.SearchCountries)
		})

		r.Get("/countries", countryHandler.ListCountries)
	})

	return r
}

func healthHandler(check func(ctx context.Context) error, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.Warn("health check failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("OK"))
	}
}
