package hashchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/liftedinit/hashchain/internal/chain"
	"github.com/liftedinit/hashchain/internal/config"
	"github.com/liftedinit/hashchain/internal/metrics"
	"github.com/liftedinit/hashchain/internal/pow"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Mine blocks continuously",
	Long: `Mines one block per --block-time on top of a fresh chain until interrupted or
--max-blocks blocks have been appended, then exports the chain. Mining activity
can be exposed to Prometheus.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runConfig := config.LoadRunConfigFromCLI()
		if err := runConfig.Validate(); err != nil {
			return fmt.Errorf("invalid run configuration: %w", err)
		}
		outputConfig, err := loadOutputConfig()
		if err != nil {
			return err
		}
		slog.Debug("Command-line arguments", "runConfig", runConfig)

		ctx, cancel := commandContext(cmd)
		defer cancel()

		collector := metrics.NewChainCollector()
		node := chain.New[Tick](
			chain.WithMiner(pow.NewMiner(pow.WithObserver(collector))),
			chain.WithObserver(collector),
		)
		if err := node.Genesis(Tick{Note: "genesis"}); err != nil {
			return err
		}

		miningCtx, stopMining := context.WithCancel(ctx)
		defer stopMining()

		eg, egCtx := errgroup.WithContext(miningCtx)
		if runConfig.EnablePrometheus {
			server, err := metrics.CreateMetricsServer(runConfig.PrometheusAddr, collector)
			if err != nil {
				return fmt.Errorf("failed to start metrics server: %w", err)
			}
			slog.Info("Metrics server listening", "address", server.Addr)
			eg.Go(func() error {
				<-egCtx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})
		}

		slog.Info("Starting live mining", "block_time", runConfig.BlockTime, "max_blocks", runConfig.MaxBlocks)
		eg.Go(func() error {
			defer stopMining()
			return mineLive(egCtx, node, runConfig)
		})

		if err := eg.Wait(); err != nil {
			return fmt.Errorf("live mining failed: %w", err)
		}
		slog.Info("Live mining stopped", "length", node.Len())

		return exportBlocks(context.Background(), cmd, outputConfig, node.Reference(), node.Blocks())
	},
}

func init() {
	runCmd.Flags().Duration("block-time", 2*time.Second, "Interval between mined blocks")
	runCmd.Flags().Uint64("max-blocks", 0, "Stop after appending this many blocks (0 runs until interrupted)")
	runCmd.Flags().Bool("enable-prometheus", false, "Enable Prometheus metrics server")
	runCmd.Flags().String("prometheus-addr", "0.0.0.0:2112", "Address and port of the Prometheus metrics server")
	if err := viper.BindPFlags(runCmd.Flags()); err != nil {
		slog.Error("Failed to bind runCmd flags", "error", err)
	}
}

// mineLive appends one block per tick until ctx is done or the block limit is reached.
// Cancellation is a normal stop, not an error.
func mineLive(ctx context.Context, node *chain.Chain[Tick], cfg config.RunConfig) error {
	ticker := time.NewTicker(cfg.BlockTime)
	defer ticker.Stop()

	var appended uint64
	for {
		latest, err := node.Latest()
		if err != nil {
			return err
		}

		block, err := node.MineNext(ctx, Tick{Sequence: latest.ID + 1})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("failed to mine block %d: %w", latest.ID+1, err)
		}
		hash, err := node.Append(block)
		if err != nil {
			return fmt.Errorf("failed to append block %d: %w", block.ID, err)
		}
		appended++
		slog.Info("Block appended", "id", block.ID, "nonce", block.Nonce, "hash", hash)

		if cfg.MaxBlocks > 0 && appended >= cfg.MaxBlocks {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
