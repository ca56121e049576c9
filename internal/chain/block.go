package chain

import (
	"context"
	"encoding/hex"

	"github.com/liftedinit/hashchain/internal/pow"
	"github.com/liftedinit/hashchain/internal/timeref"
)

const (
	GenesisHash     = "0000f816a87f806bb0073dcf026a64fb40c946b5abee2573702828694d5b4c43"
	GenesisPrevHash = "genesis"
	GenesisNonce    = 2836
)

// Block is a single link in the chain. Blocks are values and are not modified after creation.
type Block[D any] struct {
	ID        uint64
	Timestamp timeref.Instant
	Hash      string
	PrevHash  string
	Nonce     uint64
	Data      D
}

// NewBlock captures a timestamp and mines a block on top of prevHash.
// It blocks until a nonce is found.
func NewBlock[D any](id uint64, prevHash string, data D) (Block[D], error) {
	return MineBlock(context.Background(), pow.NewMiner(), timeref.Process(), id, prevHash, data)
}

// MineBlock is NewBlock with an explicit miner, time reference and cancellation.
func MineBlock[D any](ctx context.Context, miner *pow.Miner, ref *timeref.Reference, id uint64, prevHash string, data D) (Block[D], error) {
	timestamp := timeref.Now()
	seconds, err := timestamp.EpochSeconds(ref)
	if err != nil {
		return Block[D]{}, err
	}

	nonce, hash, err := miner.Mine(ctx, id, seconds, prevHash, data)
	if err != nil {
		return Block[D]{}, err
	}

	return Block[D]{
		ID:        id,
		Timestamp: timestamp,
		Hash:      hash,
		PrevHash:  prevHash,
		Nonce:     nonce,
		Data:      data,
	}, nil
}

// GenesisBlock returns the fixed first block. It is not mined.
func GenesisBlock[D any](data D) Block[D] {
	return Block[D]{
		ID:        0,
		Timestamp: timeref.Now(),
		Hash:      GenesisHash,
		PrevHash:  GenesisPrevHash,
		Nonce:     GenesisNonce,
		Data:      data,
	}
}

// ComputeBlockHash recomputes the hex hash of b from its own fields.
func ComputeBlockHash[D any](ref *timeref.Reference, b Block[D]) (string, error) {
	seconds, err := b.Timestamp.EpochSeconds(ref)
	if err != nil {
		return "", err
	}
	hash, err := pow.ComputeHash(b.ID, seconds, b.PrevHash, b.Data, b.Nonce)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hash), nil
}
