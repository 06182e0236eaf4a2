package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SteveMet/eps-connect-demo/application/quotegen"
	"github.com/SteveMet/eps-connect-demo/infrastructure/knowledge"
	"github.com/SteveMet/eps-connect-demo/infrastructure/openrouter"
	httpiface "github.com/SteveMet/eps-connect-demo/interfaces/http"
	"github.com/SteveMet/eps-connect-demo/internal/config"
)

func main() {
	cfg, err := config.LoadYAML("")
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Configure logging level
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// Configure logging formatter per environment
	switch cfg.Logging.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetReportCaller(cfg.Logging.ReportCaller)

	logrus.WithFields(logrus.Fields{
		"port":      cfg.Server.Port,
		"host":      cfg.Server.Host,
		"model":     cfg.LLMProvider.Model,
		"simulated": cfg.Simulated(),
	}).Info("Starting print quote service")

	var service *quotegen.Service
	if cfg.Simulated() {
		logrus.Warn("OPENROUTER_API_KEY not configured, running in simulated mode with canned quotes")
		service = quotegen.NewSimulatedService()
	} else {
		library, err := knowledge.NewLibrary(cfg.Knowledge.Dir)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to open knowledge base")
		}

		provider := openrouter.NewProvider(
			cfg.LLMProvider.APIKey,
			cfg.LLMProvider.BaseURL,
			cfg.LLMProvider.Model,
			cfg.LLMProvider.MaxTokens,
			cfg.LLMProvider.ReasoningMaxTokens,
			cfg.Server.RefererURL,
			cfg.Server.AppName,
			library,
		)

		circuitBreakerConfig := openrouter.CircuitBreakerConfig{
			Enabled:          cfg.CircuitBreaker.Enabled,
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
			SuccessThreshold: cfg.CircuitBreaker.SuccessThreshold,
			Timeout:          cfg.CircuitBreaker.Timeout,
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
		}
		streamer := openrouter.NewCircuitBreakerStreamer(provider, circuitBreakerConfig)

		logrus.WithFields(logrus.Fields{
			"enabled":           circuitBreakerConfig.Enabled,
			"failure_threshold": circuitBreakerConfig.FailureThreshold,
			"timeout":           circuitBreakerConfig.Timeout,
		}).Info("Circuit breaker configured")

		service = quotegen.NewService(streamer)
	}

	router := httpiface.NewRouter(service, cfg.Server.CorsOrigins)
	ginRouter := router.SetupRoutes()

	address := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Generations stream for up to two minutes; the write timeout
		// must outlive the slowest model run.
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logrus.WithField("address", address).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-c
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	} else {
		logrus.Info("Server shutdown complete")
	}
}
