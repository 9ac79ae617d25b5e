package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
	"github.com/Ishusharma9096/Suraksha-AI/internal/di"
	"github.com/Ishusharma9096/Suraksha-AI/internal/ports"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	gateway ports.Gateway,
	explanationClient core.ExplanationClient,
	resultCache core.ResultCache,
) error {
	defer logger.Sync()

	// Start the gateway
	if err := gateway.Start(); err != nil {
		logger.Fatal("Failed to start gateway", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the gateway
	if err := gateway.Stop(); err != nil {
		logger.Error("Failed to stop gateway", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := explanationClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close explanation client", zap.Error(err))
		}
	}

	// Stop the cache if needed
	if stopper, ok := resultCache.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
