package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/davidbz/glimpse/internal/app"
	"github.com/davidbz/glimpse/internal/config"
	"github.com/davidbz/glimpse/internal/httpserver"
	"github.com/davidbz/glimpse/internal/observability"
)

func main() {
	container, err := app.NewContainer(config.Load)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}

	err = container.Invoke(func(server *httpserver.Server, cfg *config.ServerConfig) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case startErr := <-errCh:
			return startErr
		case <-ctx.Done():
		}

		observability.FromContext(ctx).Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
		defer cancel()

		return errors.Join(server.Shutdown(shutdownCtx), <-errCh)
	})
	if err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
