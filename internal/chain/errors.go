package chain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrEmptyChain         = errors.New("no block found, there must at least be one block")
	ErrInvalidBlock       = errors.New("tried to add an invalid block")
	ErrNoValidChain       = errors.New("local and remote chains are both invalid")
	ErrAlreadyInitialized = errors.New("chain already has a genesis block")
)

// BlockError is returned when a block is rejected. It matches ErrInvalidBlock.
type BlockError struct {
	ID      uint64
	Outcome Outcome
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("%s: block %d: %s", ErrInvalidBlock, e.ID, e.Outcome)
}

func (e *BlockError) Is(target error) bool {
	return target == ErrInvalidBlock
}
