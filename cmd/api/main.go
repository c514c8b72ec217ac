package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"vigilant-link/internal/api"
	"vigilant-link/internal/api/handlers"
	apimiddleware "vigilant-link/internal/api/middleware"
	"vigilant-link/internal/bootstrap"
	"vigilant-link/internal/config"
	grpchealth "vigilant-link/internal/grpc/health"
	"vigilant-link/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Str("storage", cfg.Storage.Driver).
		Msg("starting VigilantLink API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, cfg, log, bootstrap.Options{Redis: true, NATS: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize report service")
	}
	defer app.Close()

	h := handlers.NewHandlers(handlers.Dependencies{
		Service:    app.Service,
		Ready:      app.Ready,
		Version:    cfg.App.Version,
		RetryAfter: cfg.Breaker.Timeout,
		Logger:     log,
	})

	// A nil *RedisCache must not reach the router as a non-nil interface
	var limiter apimiddleware.RateLimitStore
	if app.Cache != nil {
		limiter = app.Cache
	} else if cfg.RateLimit.Enabled {
		log.Warn().Msg("rate limiting enabled but Redis is unavailable, requests are not limited")
	}

	router := api.NewRouter(*cfg, h, limiter, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen for gRPC")
	}
	grpcServer := grpc.NewServer()
	grpchealth.Register(ctx, grpcServer, app.Ready, 10*time.Second)

	go func() {
		log.Info().Str("addr", grpcListener.Addr().String()).Msg("starting gRPC server")
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Fatal().Err(err).Msg("gRPC server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("shutting down servers")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	grpcServer.GracefulStop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("servers stopped")
}

func newLogger(cfg *config.Config) *logger.Logger {
	switch cfg.App.Environment {
	case "production":
		return logger.NewProduction()
	case "development":
		if cfg.App.Debug {
			return logger.NewDevelopment()
		}
	}
	return logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		TimeFormat: cfg.Logger.TimeFormat,
	})
}
