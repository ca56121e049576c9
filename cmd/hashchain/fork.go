package hashchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/liftedinit/hashchain/internal/chain"
	"github.com/liftedinit/hashchain/internal/config"
)

var forkCmd = &cobra.Command{
	Use:   "fork",
	Short: "Grow two replicas from one genesis block and keep the longest valid one",
	Long: `Mines two independent replicas sharing a genesis block, one per worker, then
applies the fork-choice rule: the longest valid chain wins and the local replica
wins ties. The winning chain is exported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		forkConfig := config.LoadForkConfigFromCLI()
		if err := forkConfig.Validate(); err != nil {
			return fmt.Errorf("invalid fork configuration: %w", err)
		}
		outputConfig, err := loadOutputConfig()
		if err != nil {
			return err
		}
		slog.Debug("Command-line arguments", "forkConfig", forkConfig)

		ctx, cancel := commandContext(cmd)
		defer cancel()

		genesis := chain.GenesisBlock(Record{Replica: "shared"})
		local := chain.New[Record]()
		remote := chain.New[Record]()
		if err := local.Seed(genesis); err != nil {
			return err
		}
		if err := remote.Seed(genesis); err != nil {
			return err
		}

		bar := newProgressBar(cmd, int64(forkConfig.LocalLength+forkConfig.RemoteLength-2))

		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			return growReplica(egCtx, local, "local", forkConfig.LocalLength, bar)
		})
		eg.Go(func() error {
			return growReplica(egCtx, remote, "remote", forkConfig.RemoteLength, bar)
		})
		if err := eg.Wait(); err != nil {
			return fmt.Errorf("failed to build replicas: %w", err)
		}

		if err := bar.Finish(); err != nil {
			return fmt.Errorf("failed to finish progress bar: %w", err)
		}

		winner, err := local.ChooseChain(local.Blocks(), remote.Blocks())
		if err != nil {
			return fmt.Errorf("failed to choose chain: %w", err)
		}
		slog.Info("Fork resolved", "local", local.Len(), "remote", remote.Len(), "winner", len(winner))

		return exportBlocks(ctx, cmd, outputConfig, local.Reference(), winner)
	},
}

func init() {
	forkCmd.Flags().Uint("local", 5, "Number of blocks in the local replica, genesis included")
	forkCmd.Flags().Uint("remote", 7, "Number of blocks in the remote replica, genesis included")
	if err := viper.BindPFlags(forkCmd.Flags()); err != nil {
		slog.Error("Failed to bind forkCmd flags", "error", err)
	}
}

// growReplica mines and appends blocks until replica holds length blocks.
// Each replica is owned by exactly one worker.
func growReplica(ctx context.Context, replica *chain.Chain[Record], name string, length uint, bar *progressbar.ProgressBar) error {
	for uint(replica.Len()) < length {
		latest, err := replica.Latest()
		if err != nil {
			return err
		}
		block, err := replica.MineNext(ctx, Record{Replica: name, Height: latest.ID + 1})
		if err != nil {
			return fmt.Errorf("failed to mine %s block %d: %w", name, latest.ID+1, err)
		}
		if _, err := replica.Append(block); err != nil {
			return fmt.Errorf("failed to append %s block %d: %w", name, block.ID, err)
		}
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
	return nil
}

func newProgressBar(cmd *cobra.Command, total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("Mining replicas..."),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
