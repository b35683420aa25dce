package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"laundry/internal/db"
	"laundry/internal/domain/audit"
	"laundry/internal/domain/billing"
	"laundry/internal/domain/payroll"
	"laundry/internal/domain/pricing"
	"laundry/internal/domain/revenue"
	"laundry/internal/domain/sends"
	"laundry/internal/domain/sheets"
	"laundry/internal/platform/config"
	"laundry/internal/platform/metrics"
	"laundry/internal/transport/http/api"
	audithandler "laundry/internal/transport/http/handlers/audit"
	billinghandler "laundry/internal/transport/http/handlers/billing"
	payrollhandler "laundry/internal/transport/http/handlers/payroll"
	revenuehandler "laundry/internal/transport/http/handlers/revenue"
	sheetshandler "laundry/internal/transport/http/handlers/sheets"
	"laundry/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	pctx := pricing.Context{TableclothRate: cfg.TableclothRate}

	sheetStore := sheets.NewStore(pool)
	sendStore := sends.NewStore(pool)
	sendService := sends.NewService(sendStore, sheetStore, pctx)
	billingService := billing.NewService(billing.NewStore(pool))
	payrollService := payroll.NewService(payroll.NewStore(pool))
	revenueStore := revenue.NewStore(pool)
	auditService := audit.New(pool)
	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Actor)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics/summary", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		sheetsHandler := sheetshandler.NewHandler(sheetStore, sendService, sendStore, pctx, auditService)
		sheetsHandler.RegisterRoutes(r)

		billingHandler := billinghandler.NewHandler(billingService, auditService, cfg.StatementDir)
		billingHandler.RegisterRoutes(r)

		payrollHandler := payrollhandler.NewHandler(payrollService, auditService)
		payrollHandler.RegisterRoutes(r)

		revenueHandler := revenuehandler.NewHandler(revenueStore)
		revenueHandler.RegisterRoutes(r)

		auditHandler := audithandler.NewHandler(auditService)
		auditHandler.RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: http.MaxBytesHandler(router, cfg.MaxBodyBytes),
	}

	go func() {
		log.Printf("laundry server listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
