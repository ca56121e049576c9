package hashchain

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/liftedinit/hashchain/internal/chain"
	"github.com/liftedinit/hashchain/internal/output"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [path]",
	Short: "Validate an exported chain",
	Long: `Loads a chain exported in JSON, either a single array file or an output
directory, and checks every block against its predecessor.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := output.ReadJSONBlocks(args[0])
		if err != nil {
			return fmt.Errorf("failed to read chain: %w", err)
		}
		if len(raw) == 0 {
			return fmt.Errorf("chain %s has no blocks", args[0])
		}

		wire := make([]chain.WireBlock[json.RawMessage], len(raw))
		for i, data := range raw {
			if err := json.Unmarshal(data, &wire[i]); err != nil {
				return fmt.Errorf("failed to decode block at index %d: %w", i, err)
			}
		}

		blocks, ref, err := chain.DecodeWire(wire)
		if err != nil {
			return fmt.Errorf("failed to decode chain: %w", err)
		}

		if blocks[0].Hash != chain.GenesisHash || blocks[0].PrevHash != chain.GenesisPrevHash {
			slog.Warn("First block is not the standard genesis block", "hash", blocks[0].Hash, "prev_hash", blocks[0].PrevHash)
		}

		verifier := chain.New[json.RawMessage](chain.WithReference(ref))
		if index, outcome := verifier.CheckChain(blocks); outcome != chain.Valid {
			return fmt.Errorf("chain is invalid at index %d (block %d): %s", index, blocks[index].ID, outcome)
		}

		slog.Info("Chain verified", "length", len(blocks))
		fmt.Fprintf(cmd.OutOrStdout(), "chain is valid: %d blocks\n", len(blocks))
		return nil
	},
}
