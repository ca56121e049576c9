package hashchain

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/liftedinit/hashchain/internal/chain"
	"github.com/liftedinit/hashchain/internal/pow"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build a small chain and try to append a forged block",
	Long: `Seeds a chain with Adam, appends Seth and Enos, then tries to append Lucifer
with a forged previous hash. The forged block must be rejected. The resulting
chain is exported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputConfig, err := loadOutputConfig()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		miner := pow.NewMiner()
		humans := chain.New[Human](chain.WithMiner(miner))
		if err := humans.Genesis(Human{Name: "Adam", Age: 930}); err != nil {
			return err
		}

		seth, err := chain.MineBlock(ctx, miner, humans.Reference(), 1, chain.GenesisHash, Human{Name: "Seth", Age: 912})
		if err != nil {
			return fmt.Errorf("failed to mine block: %w", err)
		}
		sethHash, err := humans.Append(seth)
		if err != nil {
			return fmt.Errorf("failed to append block: %w", err)
		}
		slog.Info("Block appended", "id", seth.ID, "name", seth.Data.Name, "hash", sethHash)

		enos, err := chain.MineBlock(ctx, miner, humans.Reference(), 2, sethHash, Human{Name: "Enos", Age: 905})
		if err != nil {
			return fmt.Errorf("failed to mine block: %w", err)
		}
		enosHash, err := humans.Append(enos)
		if err != nil {
			return fmt.Errorf("failed to append block: %w", err)
		}
		slog.Info("Block appended", "id", enos.ID, "name", enos.Data.Name, "hash", enosHash)

		lucifer, err := chain.MineBlock(ctx, miner, humans.Reference(), 3, "Vicious but useless try", Human{Name: "Lucifer", Age: 895})
		if err != nil {
			return fmt.Errorf("failed to mine block: %w", err)
		}
		_, err = humans.Append(lucifer)
		switch {
		case err == nil:
			return fmt.Errorf("forged block %d was accepted", lucifer.ID)
		case !errors.Is(err, chain.ErrInvalidBlock):
			return fmt.Errorf("failed to append block: %w", err)
		}
		slog.Info("Rejected invalid block", "id", lucifer.ID, "name", lucifer.Data.Name, "error", err)

		slog.Info("Demo finished", "length", humans.Len())
		return exportBlocks(ctx, cmd, outputConfig, humans.Reference(), humans.Blocks())
	},
}
