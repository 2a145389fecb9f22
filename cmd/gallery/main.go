package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/galleria-go/internal/facade/server"
	"github.com/galleria-go/pkg/config"
	"github.com/galleria-go/pkg/logger"
)

func main() {
	cfg, err := config.Load("gallery")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Logger)

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to create server", "error", err)
	}

	go func() {
		log.Info("Starting gallery facade", "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gallery facade...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Gallery facade exited")
}
