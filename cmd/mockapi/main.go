package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	appconfig "github.com/wolfman30/mhrs-booking/internal/config"
	"github.com/wolfman30/mhrs-booking/internal/mockapi"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: os.Stdout})
	logger.Info("starting MHRS fixture backend",
		"env", cfg.Env,
		"port", cfg.MockAPIPort,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := mockapi.New(mockapi.Config{
		Logger:             logger,
		JWTSecret:          cfg.MockAPIJWTSecret,
		TokenTTL:           cfg.MockAPITokenTTL,
		Registry:           reg,
		CORSAllowedOrigins: cfg.MockAPIOrigins,
		LoginRate:          5,
		LoginBurst:         10,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.MockAPIPort,
		Handler:      server.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "api_base", "http://localhost:"+cfg.MockAPIPort+"/api")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Fixture backend exited gracefully")
}
