// Package main - Entry point for the storefront pricing server
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shadeworks/api"
	"shadeworks/cache"
	"shadeworks/core/admin"
	"shadeworks/core/catalog"
	"shadeworks/core/pricing"
	"shadeworks/core/quote"
	"shadeworks/internal/config"
	"shadeworks/internal/logging"
	"shadeworks/store/memory"
	"shadeworks/store/postgres"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "path to config file")
	addr := flag.String("addr", "", "listen address override")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logging.Fatal("load config", zap.Error(err))
		}
		cfg = loaded
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Fatal("initialize logging", zap.Error(err))
	}
	defer logging.Sync()
	log := logging.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rowStore catalog.Store
	switch cfg.Store.Backend {
	case "postgres":
		pg, err := postgres.New(ctx, cfg.Store.DSN)
		if err != nil {
			log.Fatal("connect row store", zap.Error(err))
		}
		defer pg.Close()
		rowStore = pg
	default:
		rowStore = memory.New()
	}

	cacheStore := cache.NewStore(
		time.Duration(cfg.Cache.DefaultTTLSeconds)*time.Second,
		namespaceTTLs(cfg.Cache.NamespaceTTLSeconds),
		log,
	)
	defer cacheStore.Close()

	invalidator := cache.NewInvalidationRouter(cacheStore, log)
	resolver := pricing.NewMatrixResolver(rowStore, log)
	fabric := pricing.NewFabricCalculator(rowStore)
	aggregator := pricing.NewAggregator(resolver, fabric)
	quotes := quote.NewService(aggregator, cacheStore, cfg.Cache.Enabled)
	adminSvc := admin.NewService(rowStore, invalidator, log)

	listenAddr := cfg.Server.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	server := &http.Server{
		Addr:    listenAddr,
		Handler: api.NewServer(quotes, rowStore, adminSvc, cacheStore, log, version),
	}

	go func() {
		log.Info("server listening",
			zap.String("addr", listenAddr),
			zap.String("store", cfg.Store.Backend),
			zap.Bool("cache_enabled", cfg.Cache.Enabled))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

func namespaceTTLs(seconds map[string]int) map[string]time.Duration {
	out := make(map[string]time.Duration, len(seconds))
	for ns, s := range seconds {
		out[ns] = time.Duration(s) * time.Second
	}
	return out
}
