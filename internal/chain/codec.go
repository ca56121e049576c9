package chain

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/liftedinit/hashchain/internal/models"
	"github.com/liftedinit/hashchain/internal/pow"
	"github.com/liftedinit/hashchain/internal/timeref"
)

// WireBlock is the serialized form of a Block. The timestamp is whole seconds since the Unix epoch.
type WireBlock[D any] struct {
	ID        uint64 `json:"id"`
	Timestamp uint64 `json:"timestamp"`
	Hash      string `json:"hash"`
	PrevHash  string `json:"prev_hash"`
	Nonce     uint64 `json:"nonce"`
	Data      D      `json:"data"`
}

// ToWire converts b to its serialized form through ref.
func ToWire[D any](ref *timeref.Reference, b Block[D]) (WireBlock[D], error) {
	seconds, err := b.Timestamp.EpochSeconds(ref)
	if err != nil {
		return WireBlock[D]{}, errors.WithMessagef(err, "block %d", b.ID)
	}
	return WireBlock[D]{
		ID:        b.ID,
		Timestamp: seconds,
		Hash:      b.Hash,
		PrevHash:  b.PrevHash,
		Nonce:     b.Nonce,
		Data:      b.Data,
	}, nil
}

// FromWire rebuilds a Block from its serialized form through ref.
func FromWire[D any](ref *timeref.Reference, w WireBlock[D]) (Block[D], error) {
	timestamp, err := timeref.InstantFromEpochSeconds(ref, w.Timestamp)
	if err != nil {
		return Block[D]{}, errors.WithMessagef(err, "block %d", w.ID)
	}
	return Block[D]{
		ID:        w.ID,
		Timestamp: timestamp,
		Hash:      w.Hash,
		PrevHash:  w.PrevHash,
		Nonce:     w.Nonce,
		Data:      w.Data,
	}, nil
}

// MarshalBlocks encodes a block sequence as a JSON array.
func MarshalBlocks[D any](ref *timeref.Reference, blocks []Block[D]) ([]byte, error) {
	wire := make([]WireBlock[D], 0, len(blocks))
	for _, b := range blocks {
		w, err := ToWire(ref, b)
		if err != nil {
			return nil, err
		}
		wire = append(wire, w)
	}
	out, err := json.Marshal(wire)
	if err != nil {
		return nil, errors.Wrap(pow.ErrPayloadSerialization, err.Error())
	}
	return out, nil
}

// UnmarshalBlocks decodes a JSON array of blocks through ref.
func UnmarshalBlocks[D any](ref *timeref.Reference, data []byte) ([]Block[D], error) {
	var wire []WireBlock[D]
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, errors.Wrap(err, "failed to decode blocks")
	}
	return fromWireAll(ref, wire)
}

// DecodeBlocks decodes a JSON array of blocks produced by another process. The
// returned reference is anchored at the earliest timestamp in the sequence and
// must be used to validate the blocks.
func DecodeBlocks[D any](data []byte) ([]Block[D], *timeref.Reference, error) {
	var wire []WireBlock[D]
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, nil, errors.Wrap(err, "failed to decode blocks")
	}
	return DecodeWire(wire)
}

// DecodeWire converts already parsed wire blocks, anchoring the reference at
// the earliest timestamp.
func DecodeWire[D any](wire []WireBlock[D]) ([]Block[D], *timeref.Reference, error) {
	var earliest uint64
	for i, w := range wire {
		if i == 0 || w.Timestamp < earliest {
			earliest = w.Timestamp
		}
	}
	ref, err := timeref.Anchored(earliest)
	if err != nil {
		return nil, nil, err
	}
	blocks, err := fromWireAll(ref, wire)
	if err != nil {
		return nil, nil, err
	}
	return blocks, ref, nil
}

func fromWireAll[D any](ref *timeref.Reference, wire []WireBlock[D]) ([]Block[D], error) {
	blocks := make([]Block[D], 0, len(wire))
	for _, w := range wire {
		b, err := FromWire(ref, w)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// ToModels converts blocks to payload-erased rows for the exporters.
func ToModels[D any](ref *timeref.Reference, blocks []Block[D]) ([]*models.Block, error) {
	rows := make([]*models.Block, 0, len(blocks))
	for _, b := range blocks {
		w, err := ToWire(ref, b)
		if err != nil {
			return nil, err
		}
		payload, err := pow.EncodePayload(w.Data)
		if err != nil {
			return nil, errors.WithMessagef(err, "block %d", b.ID)
		}
		rows = append(rows, &models.Block{
			ID:        w.ID,
			Timestamp: w.Timestamp,
			Hash:      w.Hash,
			PrevHash:  w.PrevHash,
			Nonce:     w.Nonce,
			Data:      payload,
		})
	}
	return rows, nil
}
