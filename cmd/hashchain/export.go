package hashchain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/liftedinit/hashchain/internal/chain"
	"github.com/liftedinit/hashchain/internal/config"
	"github.com/liftedinit/hashchain/internal/output"
	"github.com/liftedinit/hashchain/internal/timeref"
)

// loadOutputConfig reads and validates the export flags.
func loadOutputConfig() (config.OutputConfig, error) {
	outputConfig := config.LoadOutputConfigFromCLI()
	if err := outputConfig.Validate(); err != nil {
		return config.OutputConfig{}, fmt.Errorf("invalid output configuration: %w", err)
	}
	slog.Debug("Command-line arguments", "outputConfig", outputConfig)
	return outputConfig, nil
}

// exportBlocks writes blocks with the configured output handler.
func exportBlocks[D any](ctx context.Context, cmd *cobra.Command, cfg config.OutputConfig, ref *timeref.Reference, blocks []chain.Block[D]) error {
	rows, err := chain.ToModels(ref, blocks)
	if err != nil {
		return fmt.Errorf("failed to serialize blocks: %w", err)
	}

	outputHandler, err := output.New(cfg.Format, cfg.Out, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to create output handler: %w", err)
	}

	if err := outputHandler.WriteBlocks(ctx, rows); err != nil {
		_ = outputHandler.Close()
		return fmt.Errorf("failed to write blocks: %w", err)
	}
	if err := outputHandler.Close(); err != nil {
		return fmt.Errorf("failed to close output handler: %w", err)
	}

	if cfg.Out != output.Stdout {
		slog.Info("Chain exported", "format", cfg.Format, "out", cfg.Out, "blocks", len(rows))
	}
	return nil
}

// commandContext returns a context cancelled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	handleInterrupt(ctx, cancel)
	return ctx, cancel
}

// handleInterrupt handles interrupt signals for graceful shutdown.
func handleInterrupt(ctx context.Context, cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(c)
		select {
		case <-c:
			slog.Info("Received interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()
}
