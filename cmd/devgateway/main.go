// The devgateway command runs an in-memory stand-in for the production
// commerce API so the storefront client can be exercised end to end on
// a workstation.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/server/api"
	"github.com/example/storefront/internal/server/auth"
	"github.com/example/storefront/internal/server/store"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.NewDefault()

	addr := getEnv("ADDR", ":8000")
	secret := getEnv("JWT_SECRET", "dev-only-secret-do-not-deploy")

	jwtService := auth.NewJWTService(secret, 30*time.Minute, 24*time.Hour)
	memory := store.NewMemory()
	handlers := api.NewHandlers(memory, jwtService, log)

	server := &http.Server{
		Addr:    addr,
		Handler: api.NewRouter(handlers, jwtService, log),
	}

	go func() {
		log.Info(ctx, "dev gateway listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "shutdown failed", "error", err)
	}
	log.Info(context.Background(), "dev gateway stopped")
}
