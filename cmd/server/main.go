package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"libnet/internal/audit"
	circmetrics "libnet/internal/circulation/metrics"
	circservice "libnet/internal/circulation/service"
	circstore "libnet/internal/circulation/store"
	invservice "libnet/internal/inventory/service"
	invstore "libnet/internal/inventory/store"
	"libnet/internal/jwttoken"
	"libnet/internal/platform/config"
	"libnet/internal/platform/httpserver"
	"libnet/internal/platform/logger"
	"libnet/internal/platform/postgres"
	"libnet/internal/readers"
	"libnet/internal/staff"
	httptransport "libnet/internal/transport/http"
)

// main wires the stores and services, exposes the router, and keeps the
// server lifecycle small. Business rules live in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var (
		inventoryStore invstore.Store
		readerStore    readers.Store
		staffStore     staff.Store
		loanStore      circstore.Store
		auditStore     audit.Store
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres unavailable", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		pgInventory := invstore.NewPostgresStore(db)
		inventoryStore = pgInventory
		readerStore = readers.NewPostgresStore(db)
		staffStore = staff.NewPostgresStore(db)
		loanStore = circstore.NewPostgresStore(db, pgInventory)
		auditStore = audit.NewPostgresStore(db)
		log.Info("using postgres stores")
	} else {
		memInventory := invstore.NewInMemoryStore()
		inventoryStore = memInventory
		readerStore = readers.NewInMemoryStore()
		staffStore = staff.NewInMemoryStore()
		loanStore = circstore.NewInMemoryStore(memInventory)
		auditStore = audit.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	auditSvc := audit.NewService(auditStore, log)
	inventorySvc := invservice.NewService(inventoryStore, auditSvc, log)
	readerSvc := readers.NewService(readerStore, auditSvc, log)
	staffSvc := staff.NewService(staffStore, auditSvc, log)
	circulationSvc := circservice.NewService(
		loanStore, inventoryStore, readerStore, auditSvc,
		circmetrics.New(registry), log,
		config.LoanPeriod, config.MaxOpenLoansPerReader,
	)
	tokens := jwttoken.NewService(cfg.JWTSigningKey, "libnet")

	if cfg.AdminEmail != "" {
		if err := staffSvc.Bootstrap(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Error("bootstrap admin failed", "error", err.Error())
			os.Exit(1)
		}
	}

	handler := httptransport.NewHandler(inventorySvc, readerSvc, circulationSvc, staffSvc, auditSvc, tokens, log)
	srv := httpserver.New(cfg.Addr, handler.Routes(registry))

	log.Info("starting libnet", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}
