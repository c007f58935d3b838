package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tutorgate/config"
	"tutorgate/errors"
	"tutorgate/server"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("Critical error: Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Printf("Warning: Failed to sync logger: %v\n", syncErr)
		}
	}()

	errors.SetLogger(logger)

	configPath := "config.yaml"
	if path := os.Getenv("TUTORGATE_CONFIG"); path != "" {
		configPath = path
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		logger.Fatal("Configuration load failed",
			zap.Error(err),
			zap.String("config_path", configPath),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := server.NewServer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Server initialization failed", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Shutdown signal received",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("Server startup or runtime error", zap.Error(err))
	}
}
