package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vncsmyrnk/countryvotes/internal/adapters/handler/http"
	"github.com/vncsmyrnk/countryvotes/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/countryvotes/internal/adapters/restcountries"
	"github.com/vncsmyrnk/countryvotes/internal/config"
	"github.com/vncsmyrnk/countryvotes/internal/core/services"
	"github.com/vncsmyrnk/countryvotes/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	reference := restcountries.NewClient(cfg.CountriesAPIURL,
		restcountries.WithHTTPClient(&stdhttp.Client{Timeout: cfg.CountriesAPITimeout}),
		restcountries.WithLogger(logger),
		restcountries.WithObserver(m),
	)

	userRepo := postgres.NewUserRepository(db)
	countryRepo := postgres.NewCountryRepository(db)
	store := postgres.NewStore(db)

	voteService := services.NewVoteService(userRepo, countryRepo, reference, m, logger)
	countryService := services.NewCountryService(reference)

	handler := http.NewHandler(
		http.NewVoteHandler(voteService, logger),
		http.NewCountryHandler(countryService, logger),
		http.RouterOptions{
			Prefix:         cfg.APIPrefix,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Logger:         logger,
			Observer:       m,
			Health:         store.Ping,
			Metrics:        m.Handler(),
		},
	)
	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "prefix", cfg.APIPrefix)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
