package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"resto-pos/internal/cache"
	"resto-pos/internal/config"
	"resto-pos/internal/database"
	"resto-pos/internal/httpx"
	"resto-pos/internal/logger"
	"resto-pos/internal/messaging"
	"resto-pos/internal/services/clients"
	"resto-pos/internal/services/menu"
	"resto-pos/internal/services/orders"
	"resto-pos/internal/services/tables"
	"resto-pos/internal/services/users"
)

const serviceName = "pos-service"

func main() {
	var (
		port           = flag.Int("port", 0, "HTTP port (overrides POS_PORT)")
		migrationsPath = flag.String("migrations", "migrations", "Path to SQL migration files")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.New(serviceName)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", requestID, "Starting POS backend",
		map[string]interface{}{"port": cfg.Server.Port})

	if err := run(cfg, log, *migrationsPath, requestID); err != nil {
		log.Error("service_failed", requestID, "POS backend failed", err, nil)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger, migrationsPath, requestID string) error {
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(context.Background(), migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	rabbit, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("rabbitmq: %w", err)
	}
	defer rabbit.Close()
	publisher := messaging.NewPublisher(rabbit, log)

	gateway := cache.New(cfg.RedisAddr(), log)
	defer gateway.Close()
	if err := gateway.Ping(context.Background()); err != nil {
		// The cache is an accelerator, not a dependency; start degraded.
		log.Error("cache_unavailable", requestID, "Redis unavailable, serving uncached", err, nil)
	}

	clientDirectory := clients.NewDirectory(clients.NewPostgresRepository(db), log)
	menuService := menu.NewService(menu.NewPostgresRepository(db), log)
	userRepo := users.NewPostgresRepository(db)
	tableService := tables.NewService(tables.NewPostgresRepository(db), clientDirectory, userRepo, publisher, log)
	orderService := orders.NewService(orders.NewPostgresRepository(db),
		clientDirectory, menuService, userRepo, tableService, publisher, log)

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(httpx.WithRequestLogging(log))

	router.Get("/health", healthHandler(db, gateway, rabbit))
	router.Mount("/orders", orders.NewHandler(orderService, log).Routes())
	router.Mount("/menu", menu.NewHandler(menuService, gateway, log).Routes())
	router.Mount("/tables", tables.NewHandler(tableService, log).Routes())
	router.Mount("/clients", clients.NewHandler(clientDirectory, log).Routes())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("http_server_started", requestID, "HTTP server listening",
			map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigChan:
		log.Info("graceful_shutdown", requestID, "Received shutdown signal",
			map[string]interface{}{"signal": sig.String()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("service_stopped", requestID, "POS backend stopped", nil)
	return nil
}

// healthHandler reports liveness of the service and its dependencies. Only
// the database is required; the cache and broker being down degrade service
// without failing the check.
func healthHandler(db *database.DB, gateway *cache.Gateway, rabbit *messaging.Connection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			httpx.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		status := map[string]interface{}{
			"database": "ok",
			"cache":    "ok",
			"rabbitmq": "ok",
		}
		if err := gateway.Ping(ctx); err != nil {
			status["cache"] = "unavailable"
		}
		if rabbit.IsClosed() {
			status["rabbitmq"] = "unavailable"
		}
		httpx.WriteResource(w, http.StatusOK, "health", status)
	}
}
