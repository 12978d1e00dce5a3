package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricetracker/internal/config"
	"pricetracker/internal/extractor"
	addProduct "pricetracker/internal/http-server/handlers/products/add"
	deleteProduct "pricetracker/internal/http-server/handlers/products/delete"
	getProducts "pricetracker/internal/http-server/handlers/products/get"
	parseProduct "pricetracker/internal/http-server/handlers/products/parse"
	updateProduct "pricetracker/internal/http-server/handlers/products/update"
	sl "pricetracker/internal/lib/logger"
	corsMiddleware "pricetracker/internal/middleware/cors"
	"pricetracker/internal/storage/postgres"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting pricetracker", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// * Миграции схемы
	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Error("failed to run migrations", sl.Err(err))
		os.Exit(1)
	}

	// * Инициализация PostgreSQL
	postgresClient, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect postgreSQL", sl.Err(err))
		os.Exit(1)
	}
	defer postgresClient.Close()

	productExtractor := extractor.New(log)

	requestValidator := validator.New()

	router := setupRouter(log, requestValidator, productExtractor, postgresClient)

	srv := &http.Server{
		Addr:        cfg.Address,
		Handler:     router,
		ReadTimeout: cfg.Timeout,
		// * запас на синхронную загрузку страницы маркетплейса
		WriteTimeout: cfg.Timeout + 20*time.Second,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", sl.Err(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", sl.Err(err))
	}

	log.Info("graceful shutdown complete")
}

func setupRouter(
	log *slog.Logger,
	validate *validator.Validate,
	productExtractor *extractor.Extractor,
	postgresClient *postgres.PostgresRepo,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware.New())

	r.Post("/parse-product", parseProduct.New(log, productExtractor, validate))
	r.Get("/products", getProducts.New(log, postgresClient))
	r.Post("/products", addProduct.New(log, postgresClient, validate))
	r.Put("/products", updateProduct.New(log, postgresClient, validate))
	r.Delete("/products", deleteProduct.New(log, postgresClient))

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case envLocal:
		fallthrough
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
