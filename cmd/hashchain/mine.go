package hashchain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/liftedinit/hashchain/internal/chain"
	"github.com/liftedinit/hashchain/internal/config"
	"github.com/liftedinit/hashchain/internal/pow"
	"github.com/liftedinit/hashchain/internal/timeref"
)

var mineCmd = &cobra.Command{
	Use:   "mine [payload-json]",
	Short: "Mine a single block carrying a JSON payload",
	Long:  `Mines one block on top of the given previous hash and exports it. The search stops on interrupt or when --timeout expires.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mineConfig := config.LoadMineConfigFromCLI()
		if err := mineConfig.Validate(); err != nil {
			return fmt.Errorf("invalid mine configuration: %w", err)
		}
		outputConfig, err := loadOutputConfig()
		if err != nil {
			return err
		}
		slog.Debug("Command-line arguments", "mineConfig", mineConfig)

		payload := json.RawMessage(args[0])
		if !json.Valid(payload) {
			return fmt.Errorf("payload is not valid JSON: %s", args[0])
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		if mineConfig.Timeout > 0 {
			var timeoutCancel context.CancelFunc
			ctx, timeoutCancel = context.WithTimeout(ctx, mineConfig.Timeout)
			defer timeoutCancel()
		}

		ref := timeref.Process()
		block, err := chain.MineBlock(ctx, pow.NewMiner(), ref, mineConfig.ID, mineConfig.PrevHash, payload)
		if err != nil {
			return fmt.Errorf("failed to mine block: %w", err)
		}
		slog.Info("Block mined", "id", block.ID, "nonce", block.Nonce, "hash", block.Hash)

		return exportBlocks(ctx, cmd, outputConfig, ref, []chain.Block[json.RawMessage]{block})
	},
}

func init() {
	mineCmd.Flags().Uint64("id", 1, "Block id")
	mineCmd.Flags().String("prev-hash", chain.GenesisHash, "Hash of the previous block")
	mineCmd.Flags().Duration("timeout", 0, "Give up mining after this duration (0 disables)")
	if err := viper.BindPFlags(mineCmd.Flags()); err != nil {
		slog.Error("Failed to bind mineCmd flags", "error", err)
	}
}
