package models

import "encoding/json"

// Block is a serialized chain block with its payload already encoded.
type Block struct {
	ID        uint64          `json:"id"`
	Timestamp uint64          `json:"timestamp"`
	Hash      string          `json:"hash"`
	PrevHash  string          `json:"prev_hash"`
	Nonce     uint64          `json:"nonce"`
	Data      json.RawMessage `json:"data"`
}
