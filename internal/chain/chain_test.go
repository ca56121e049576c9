package chain

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftedinit/hashchain/internal/pow"
	"github.com/liftedinit/hashchain/internal/timeref"
)

type human struct {
	Name string `json:"name"`
	Age  uint32 `json:"age"`
}

type countingObserver struct {
	appended []uint64
	rejected map[Outcome]int
}

func (o *countingObserver) BlockAppended(id uint64) {
	o.appended = append(o.appended, id)
}

func (o *countingObserver) BlockRejected(_ uint64, outcome Outcome) {
	if o.rejected == nil {
		o.rejected = make(map[Outcome]int)
	}
	o.rejected[outcome]++
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestChain(t *testing.T, opts ...Option) *Chain[human] {
	t.Helper()
	c := New[human](append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, c.Genesis(human{Name: "Adam", Age: 930}))
	return c
}

// extend mines and appends n blocks on top of c.
func extend(t *testing.T, c *Chain[human], n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		block, err := c.MineNext(context.Background(), human{Name: "descendant", Age: uint32(i)})
		require.NoError(t, err)
		_, err = c.Append(block)
		require.NoError(t, err)
	}
}

// fromGenesis returns a chain sharing genesis with other blocks and grown to length n.
func fromGenesis(t *testing.T, genesis Block[human], n int) *Chain[human] {
	t.Helper()
	c := New[human](WithLogger(quietLogger()))
	require.NoError(t, c.Seed(genesis))
	extend(t, c, n-1)
	require.Equal(t, n, c.Len())
	return c
}

func TestGenesis(t *testing.T) {
	c := newTestChain(t)
	require.Equal(t, 1, c.Len())

	genesis, err := c.Latest()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), genesis.ID)
	assert.Equal(t, GenesisHash, genesis.Hash)
	assert.Equal(t, "genesis", genesis.PrevHash)
	assert.Equal(t, uint64(2836), genesis.Nonce)
	assert.Equal(t, "Adam", genesis.Data.Name)
}

func TestGenesisTwice(t *testing.T) {
	c := newTestChain(t)

	err := c.Genesis(human{Name: "Eve"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyInitialized))
	assert.Equal(t, 1, c.Len())

	err = c.Seed(GenesisBlock(human{Name: "Eve"}))
	assert.True(t, errors.Is(err, ErrAlreadyInitialized))
}

func TestAppendBeforeGenesis(t *testing.T) {
	c := New[human](WithLogger(quietLogger()))

	block, err := NewBlock(1, GenesisHash, human{Name: "Seth"})
	require.NoError(t, err)

	_, err = c.Append(block)
	assert.True(t, errors.Is(err, ErrEmptyChain))
	assert.Zero(t, c.Len())

	_, err = c.MineNext(context.Background(), human{Name: "Seth"})
	assert.True(t, errors.Is(err, ErrEmptyChain))
}

func TestNewBlock(t *testing.T) {
	block, err := NewBlock(1, GenesisHash, human{Name: "Seth", Age: 912})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), block.ID)
	assert.Equal(t, GenesisHash, block.PrevHash)
	assert.Len(t, block.Hash, 64)
	assert.Equal(t, "00", pow.BinaryRepresentation(mustDecodeHex(t, block.Hash))[:2])

	recomputed, err := ComputeBlockHash(timeref.Process(), block)
	require.NoError(t, err)
	assert.Equal(t, block.Hash, recomputed)
}

func TestCheckBlock(t *testing.T) {
	c := newTestChain(t)
	prev, err := c.Latest()
	require.NoError(t, err)

	valid, err := c.MineNext(context.Background(), human{Name: "Seth", Age: 912})
	require.NoError(t, err)
	require.True(t, c.IsBlockValid(valid, prev))

	tests := []struct {
		name   string
		mutate func(b *Block[human])
		want   Outcome
	}{
		{"PrevHash", func(b *Block[human]) { b.PrevHash = "Vicious but useless try" }, LinkMismatch},
		{"HashPrefix", func(b *Block[human]) { b.Hash = "f" + b.Hash[1:] }, DifficultyFailure},
		{"HashNotHex", func(b *Block[human]) { b.Hash = "zz" }, DifficultyFailure},
		{"ID", func(b *Block[human]) { b.ID = 2 }, SequenceGap},
		{"Nonce", func(b *Block[human]) { b.Nonce++ }, HashMismatch},
		{"Data", func(b *Block[human]) { b.Data.Age++ }, HashMismatch},
		{"Timestamp", func(b *Block[human]) { b.Timestamp = b.Timestamp.Add(10 * time.Second) }, HashMismatch},
		{"ForgedHash", func(b *Block[human]) { b.Hash = GenesisHash }, HashMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := valid
			tt.mutate(&block)
			assert.Equal(t, tt.want, c.CheckBlock(block, prev))
			assert.False(t, c.IsBlockValid(block, prev))
		})
	}
}

func TestAppend(t *testing.T) {
	observer := &countingObserver{}
	c := newTestChain(t, WithObserver(observer))

	block, err := c.MineNext(context.Background(), human{Name: "Seth", Age: 912})
	require.NoError(t, err)

	hash, err := c.Append(block)
	require.NoError(t, err)
	assert.Equal(t, block.Hash, hash)
	assert.Equal(t, 2, c.Len())

	latest, err := c.Latest()
	require.NoError(t, err)
	assert.Equal(t, block.Hash, latest.Hash)

	// Appending the same block again breaks the link to the new tip.
	_, err = c.Append(block)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidBlock))

	var blockErr *BlockError
	require.True(t, errors.As(err, &blockErr))
	assert.Equal(t, uint64(1), blockErr.ID)
	assert.Equal(t, LinkMismatch, blockErr.Outcome)
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, []uint64{1}, observer.appended)
	assert.Equal(t, map[Outcome]int{LinkMismatch: 1}, observer.rejected)
}

func TestBlocksReturnsCopy(t *testing.T) {
	c := newTestChain(t)
	extend(t, c, 2)

	blocks := c.Blocks()
	blocks[1].Hash = "tampered"

	stored, err := c.Block(1)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", stored.Hash)

	_, err = c.Block(3)
	assert.ErrorContains(t, err, "out of range")
}

func TestIsChainValid(t *testing.T) {
	c := newTestChain(t)
	assert.True(t, c.IsChainValid(nil))
	assert.True(t, c.IsChainValid(c.Blocks()))

	for _, n := range []int{1, 4, 9} {
		extend(t, c, n)
		assert.True(t, c.IsChainValid(c.Blocks()), "length %d", c.Len())
	}

	blocks := c.Blocks()
	blocks[5].Data.Name = "Cain"
	index, outcome := c.CheckChain(blocks)
	assert.Equal(t, 5, index)
	assert.Equal(t, HashMismatch, outcome)
	assert.False(t, c.IsChainValid(blocks))

	index, outcome = c.CheckChain(c.Blocks())
	assert.Equal(t, -1, index)
	assert.Equal(t, Valid, outcome)
}

func TestChooseChain(t *testing.T) {
	a := newTestChain(t)
	genesis, err := a.Block(0)
	require.NoError(t, err)
	extend(t, a, 4)
	b := fromGenesis(t, genesis, 7)
	same := fromGenesis(t, genesis, 5)

	t.Run("LongerRemoteWins", func(t *testing.T) {
		got, err := a.ChooseChain(a.Blocks(), b.Blocks())
		require.NoError(t, err)
		assert.Len(t, got, 7)
		assert.Equal(t, b.Blocks(), got)
	})

	t.Run("LongerLocalWins", func(t *testing.T) {
		got, err := a.ChooseChain(b.Blocks(), a.Blocks())
		require.NoError(t, err)
		assert.Equal(t, b.Blocks(), got)
	})

	t.Run("LocalWinsTies", func(t *testing.T) {
		got, err := a.ChooseChain(a.Blocks(), same.Blocks())
		require.NoError(t, err)
		assert.Equal(t, a.Blocks(), got)
	})

	t.Run("OnlyValidWins", func(t *testing.T) {
		broken := b.Blocks()
		broken[3].Nonce++

		got, err := a.ChooseChain(broken, a.Blocks())
		require.NoError(t, err)
		assert.Equal(t, a.Blocks(), got)

		got, err = a.ChooseChain(a.Blocks(), broken)
		require.NoError(t, err)
		assert.Equal(t, a.Blocks(), got)
	})

	t.Run("NoValidChain", func(t *testing.T) {
		brokenA := a.Blocks()
		brokenA[1].PrevHash = "nope"
		brokenB := b.Blocks()
		brokenB[2].ID = 9

		_, err := a.ChooseChain(brokenA, brokenB)
		assert.True(t, errors.Is(err, ErrNoValidChain))
	})
}

func TestResolve(t *testing.T) {
	a := newTestChain(t)
	genesis, err := a.Block(0)
	require.NoError(t, err)
	extend(t, a, 4)
	b := fromGenesis(t, genesis, 7)

	replaced, err := a.Resolve(b.Blocks())
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, b.Blocks(), a.Blocks())

	shorter := fromGenesis(t, genesis, 3)
	replaced, err = a.Resolve(shorter.Blocks())
	require.NoError(t, err)
	assert.False(t, replaced)
	assert.Equal(t, 7, a.Len())

	// The chain keeps growing from the adopted tip.
	extend(t, a, 1)
	assert.True(t, a.IsChainValid(a.Blocks()))
}

func TestHumanScenario(t *testing.T) {
	c := newTestChain(t)

	seth, err := NewBlock(1, GenesisHash, human{Name: "Seth", Age: 912})
	require.NoError(t, err)
	sethHash, err := c.Append(seth)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	enos, err := NewBlock(2, sethHash, human{Name: "Enos", Age: 905})
	require.NoError(t, err)
	_, err = c.Append(enos)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	lucifer, err := NewBlock(3, "Vicious but useless try", human{Name: "Lucifer", Age: 895})
	require.NoError(t, err)
	_, err = c.Append(lucifer)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidBlock))
	assert.Equal(t, 3, c.Len())

	for _, b := range c.Blocks() {
		assert.NotEqual(t, "Lucifer", b.Data.Name)
	}
	assert.True(t, c.IsChainValid(c.Blocks()))
}
