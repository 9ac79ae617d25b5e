package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
	"github.com/Ishusharma9096/Suraksha-AI/internal/di"
)

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the scanner
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Scan error: %v\n", err)
		os.Exit(1)
	}
}

// run performs a single scan and prints the result as JSON
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	service *core.AnalysisService,
	explanationClient core.ExplanationClient,
) error {
	defer logger.Sync()

	if flags.Message == "" && flags.InputFile == "" {
		return fmt.Errorf("nothing to scan: pass -message or -file")
	}

	ctx := context.Background()
	startTime := time.Now()

	var result any
	var err error

	switch {
	case flags.Message != "":
		result, err = service.AnalyzeMessage(ctx, core.Message{
			Body:     flags.Message,
			Language: flags.Language,
		})
	case flags.VaultMode:
		var data []byte
		data, err = os.ReadFile(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		result, err = service.AnalyzeVaultFile(ctx, filepath.Base(flags.InputFile), data, flags.Language)
	default:
		var data []byte
		data, err = os.ReadFile(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		result, err = service.ScanFile(ctx, filepath.Base(flags.InputFile), data, flags.Language)
	}
	if err != nil {
		return err
	}

	logger.Debug("Scan finished", zap.Duration("duration", time.Since(startTime)))

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(output))

	// Close any resources that need closing
	if closer, ok := explanationClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close explanation client", zap.Error(err))
		}
	}

	return nil
}
