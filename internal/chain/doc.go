// Package chain implements a proof-of-work hash chain over an opaque payload type.
//
// # Core Components
//
// Block: an immutable link carrying a payload, its timestamp, the nonce found by
// the miner and the hash binding it to its predecessor.
//
// Chain: an ordered, single-owner sequence of blocks seeded by one genesis block.
// Blocks are admitted only after validation against the current tip, and a chain
// can be replaced wholesale by the fork-choice rule.
//
// # Validation
//
// A block is checked against its predecessor in a fixed order, stopping at the
// first failure:
//   - LinkMismatch: prev_hash differs from the predecessor's hash
//   - DifficultyFailure: the stored hash does not start with two zero bits
//   - SequenceGap: the id is not the predecessor's id + 1
//   - HashMismatch: the hash cannot be reproduced from the block's fields
//
// The genesis block is trusted by construction and never recomputed.
//
// # Fork choice
//
// ChooseChain validates two candidate sequences and keeps the longer valid one,
// the local sequence winning ties. Sequences are never merged.
//
// # Concurrency
//
// A Chain has no internal locking. Concurrent writers must be serialized by the
// caller or built as separate replicas and reconciled with ChooseChain.
package chain
