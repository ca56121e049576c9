package chain

import (
	"context"
	"encoding/hex"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/liftedinit/hashchain/internal/pow"
	"github.com/liftedinit/hashchain/internal/timeref"
)

// Observer is notified about append decisions.
type Observer interface {
	BlockAppended(id uint64)
	BlockRejected(id uint64, outcome Outcome)
}

// Chain is an ordered sequence of blocks with a single owner.
type Chain[D any] struct {
	blocks   []Block[D]
	ref      *timeref.Reference
	miner    *pow.Miner
	logger   *slog.Logger
	observer Observer
}

// Option configures a Chain.
type Option func(*options)

type options struct {
	ref      *timeref.Reference
	miner    *pow.Miner
	logger   *slog.Logger
	observer Observer
}

// WithReference sets the time reference used for hashing timestamps.
func WithReference(ref *timeref.Reference) Option {
	return func(o *options) {
		o.ref = ref
	}
}

// WithMiner sets the miner used by MineNext.
func WithMiner(miner *pow.Miner) Option {
	return func(o *options) {
		o.miner = miner
	}
}

// WithLogger sets the logger for validation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver registers an observer for append decisions.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// New returns an empty chain. Call Genesis before Append.
func New[D any](opts ...Option) *Chain[D] {
	o := options{
		ref:    timeref.Process(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.miner == nil {
		o.miner = pow.NewMiner(pow.WithLogger(o.logger))
	}

	return &Chain[D]{
		blocks:   make([]Block[D], 0),
		ref:      o.ref,
		miner:    o.miner,
		logger:   o.logger,
		observer: o.observer,
	}
}

// Reference returns the time reference the chain hashes timestamps with.
func (c *Chain[D]) Reference() *timeref.Reference {
	return c.ref
}

// Genesis seeds the chain with the fixed genesis block.
// It fails with ErrAlreadyInitialized if the chain is not empty.
func (c *Chain[D]) Genesis(data D) error {
	return c.Seed(GenesisBlock(data))
}

// Seed starts the chain from an existing genesis block so that replicas can
// share one. The block is trusted as is. It fails with ErrAlreadyInitialized
// if the chain is not empty.
func (c *Chain[D]) Seed(genesis Block[D]) error {
	if len(c.blocks) != 0 {
		return errors.WithMessagef(ErrAlreadyInitialized, "chain has %d blocks", len(c.blocks))
	}
	c.blocks = append(c.blocks, genesis)
	return nil
}

// Len returns the number of blocks.
func (c *Chain[D]) Len() int {
	return len(c.blocks)
}

// Blocks returns a copy of the block sequence.
func (c *Chain[D]) Blocks() []Block[D] {
	out := make([]Block[D], len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Block returns the block at index i.
func (c *Chain[D]) Block(i int) (Block[D], error) {
	if i < 0 || i >= len(c.blocks) {
		return Block[D]{}, errors.Errorf("index %d out of range [0, %d)", i, len(c.blocks))
	}
	return c.blocks[i], nil
}

// Latest returns the last block.
func (c *Chain[D]) Latest() (Block[D], error) {
	if len(c.blocks) == 0 {
		return Block[D]{}, ErrEmptyChain
	}
	return c.blocks[len(c.blocks)-1], nil
}

// Append validates block against the current tip and adds it.
// On success it returns the block hash; on failure the chain is unchanged.
func (c *Chain[D]) Append(block Block[D]) (string, error) {
	latest, err := c.Latest()
	if err != nil {
		return "", err
	}

	if outcome := c.CheckBlock(block, latest); outcome != Valid {
		c.logger.Error("Tried to add an invalid block", "id", block.ID, "outcome", outcome.String())
		if c.observer != nil {
			c.observer.BlockRejected(block.ID, outcome)
		}
		return "", &BlockError{ID: block.ID, Outcome: outcome}
	}

	c.blocks = append(c.blocks, block)
	if c.observer != nil {
		c.observer.BlockAppended(block.ID)
	}
	return block.Hash, nil
}

// MineNext mines a block carrying data on top of the current tip. The block is
// returned, not appended.
func (c *Chain[D]) MineNext(ctx context.Context, data D) (Block[D], error) {
	latest, err := c.Latest()
	if err != nil {
		return Block[D]{}, err
	}
	return MineBlock(ctx, c.miner, c.ref, latest.ID+1, latest.Hash, data)
}

// IsBlockValid reports whether block may follow prev.
func (c *Chain[D]) IsBlockValid(block, prev Block[D]) bool {
	return c.CheckBlock(block, prev) == Valid
}

// CheckBlock validates block against prev and returns the first failed check.
func (c *Chain[D]) CheckBlock(block, prev Block[D]) Outcome {
	if block.PrevHash != prev.Hash {
		c.logger.Warn("Block has wrong previous hash", "id", block.ID)
		return LinkMismatch
	}

	claimed, err := hex.DecodeString(block.Hash)
	if err != nil || !pow.MeetsDifficulty(claimed) {
		c.logger.Warn("Block has invalid difficulty", "id", block.ID)
		return DifficultyFailure
	}

	if block.ID != prev.ID+1 {
		c.logger.Warn("Block is not the next block after the latest", "id", block.ID, "latest", prev.ID)
		return SequenceGap
	}

	computed, err := ComputeBlockHash(c.ref, block)
	if err != nil {
		c.logger.Warn("Block hash cannot be recomputed", "id", block.ID, "error", err)
		return HashMismatch
	}
	if computed != block.Hash {
		c.logger.Warn("Block has invalid hash", "id", block.ID, "data", block.Data)
		return HashMismatch
	}

	return Valid
}

// IsChainValid reports whether every block in seq is valid against its predecessor.
func (c *Chain[D]) IsChainValid(seq []Block[D]) bool {
	_, outcome := c.CheckChain(seq)
	return outcome == Valid
}

// CheckChain returns the index and outcome of the first invalid block in seq,
// or (-1, Valid). Sequences of length 0 or 1 are valid.
func (c *Chain[D]) CheckChain(seq []Block[D]) (int, Outcome) {
	for i := 1; i < len(seq); i++ {
		if outcome := c.CheckBlock(seq[i], seq[i-1]); outcome != Valid {
			return i, outcome
		}
	}
	return -1, Valid
}

// ChooseChain applies the fork-choice rule: the longest valid sequence wins and
// local wins ties. It fails with ErrNoValidChain when neither is valid.
func (c *Chain[D]) ChooseChain(local, remote []Block[D]) ([]Block[D], error) {
	remoteWins, err := c.remoteWins(local, remote)
	if err != nil {
		return nil, err
	}
	if remoteWins {
		return remote, nil
	}
	return local, nil
}

func (c *Chain[D]) remoteWins(local, remote []Block[D]) (bool, error) {
	localValid := c.IsChainValid(local)
	remoteValid := c.IsChainValid(remote)

	switch {
	case localValid && remoteValid:
		return len(remote) > len(local), nil
	case localValid:
		return false, nil
	case remoteValid:
		return true, nil
	default:
		c.logger.Error("Local and remote chains are both invalid", "local", len(local), "remote", len(remote))
		return false, ErrNoValidChain
	}
}

// Resolve applies the fork-choice rule between the chain's own blocks and remote
// and, when remote wins, replaces the whole sequence with it. It reports whether
// the chain was replaced.
func (c *Chain[D]) Resolve(remote []Block[D]) (bool, error) {
	remoteWins, err := c.remoteWins(c.blocks, remote)
	if err != nil || !remoteWins {
		return false, err
	}

	previous := len(c.blocks)
	c.blocks = make([]Block[D], len(remote))
	copy(c.blocks, remote)
	c.logger.Info("Chain replaced by fork choice", "from", previous, "to", len(remote))
	return true, nil
}
