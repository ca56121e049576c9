package pow

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// DifficultyPrefix is the bit prefix every accepted hash must start with.
const DifficultyPrefix = "00"

// ErrPayloadSerialization is returned when a block payload cannot be encoded.
var ErrPayloadSerialization = errors.New("payload serialization failed")

// ComputeHash returns the SHA-256 digest of a block's fields in their canonical order:
// id and epoch seconds as 8 big-endian bytes, the previous hash, the JSON payload
// and the nonce as 8 big-endian bytes.
func ComputeHash(id, epochSeconds uint64, prevHash string, data any, nonce uint64) ([]byte, error) {
	payload, err := EncodePayload(data)
	if err != nil {
		return nil, err
	}
	return computeHash(id, epochSeconds, prevHash, payload, nonce), nil
}

// EncodePayload serializes a payload the way it is fed to the hasher.
// Struct fields keep declaration order and map keys are sorted, so the output
// is stable for the same logical value.
func EncodePayload(data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrapf(ErrPayloadSerialization, "%T: %v", data, err)
	}
	return payload, nil
}

func computeHash(id, epochSeconds uint64, prevHash string, payload []byte, nonce uint64) []byte {
	var buf [8]byte
	hasher := sha256.New()

	binary.BigEndian.PutUint64(buf[:], id)
	hasher.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], epochSeconds)
	hasher.Write(buf[:])
	hasher.Write([]byte(prevHash))
	hasher.Write(payload)
	binary.BigEndian.PutUint64(buf[:], nonce)
	hasher.Write(buf[:])

	return hasher.Sum(nil)
}

// BinaryRepresentation expands each byte of hash to 8 binary digits, in byte order.
func BinaryRepresentation(hash []byte) string {
	var sb strings.Builder
	sb.Grow(len(hash) * 8)
	for _, b := range hash {
		fmt.Fprintf(&sb, "%08b", b)
	}
	return sb.String()
}

// MeetsDifficulty reports whether the bit expansion of hash starts with DifficultyPrefix.
func MeetsDifficulty(hash []byte) bool {
	return strings.HasPrefix(BinaryRepresentation(hash), DifficultyPrefix)
}
