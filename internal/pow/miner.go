package pow

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"
)

const (
	// progressInterval is how often (in nonces) the search logs its progress.
	progressInterval = 100000
	// cancelCheckInterval is how often (in nonces) the search looks at its context.
	cancelCheckInterval = 1024
)

// Observer is notified after each successful search.
type Observer interface {
	BlockMined(id, nonce uint64, elapsed time.Duration)
}

// Miner runs the proof-of-work nonce search.
type Miner struct {
	logger   *slog.Logger
	observer Observer
}

// Option configures a Miner.
type Option func(*Miner)

// WithLogger sets the logger used for mining diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Miner) {
		m.logger = logger
	}
}

// WithObserver registers an observer for mined blocks.
func WithObserver(observer Observer) Option {
	return func(m *Miner) {
		m.observer = observer
	}
}

// NewMiner returns a miner with the given options applied.
func NewMiner(opts ...Option) *Miner {
	m := &Miner{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Miner) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return slog.Default()
}

// Mine searches nonces from 0 upward and returns the first one whose hash meets the
// difficulty, with the hex-encoded hash. The search has no upper bound; it stops
// early only when ctx is cancelled, which a context.Background() never is.
func (m *Miner) Mine(ctx context.Context, id, epochSeconds uint64, prevHash string, data any) (uint64, string, error) {
	payload, err := EncodePayload(data)
	if err != nil {
		return 0, "", err
	}

	logger := m.log()
	logger.Debug("Mining block", "id", id)
	started := time.Now()

	for nonce := uint64(0); ; nonce++ {
		if nonce%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, "", err
			}
		}
		if nonce%progressInterval == 0 && nonce > 0 {
			logger.Debug("Mining in progress", "id", id, "nonce", nonce)
		}

		hash := computeHash(id, epochSeconds, prevHash, payload, nonce)
		if !MeetsDifficulty(hash) {
			continue
		}

		encoded := hex.EncodeToString(hash)
		elapsed := time.Since(started)
		logger.Debug("Block mined",
			"id", id,
			"nonce", nonce,
			"hash", encoded,
			"binary_hash", BinaryRepresentation(hash),
			"elapsed", elapsed)
		if m.observer != nil {
			m.observer.BlockMined(id, nonce, elapsed)
		}
		return nonce, encoded, nil
	}
}
