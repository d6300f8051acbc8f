package database

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// GenesisMarker is the previous block hash carried by the genesis block.
const GenesisMarker = "GENESIS"

// ErrMalformedBlock is returned when a flat encoding can't be turned back
// into a block.
var ErrMalformedBlock = errors.New("malformed block")

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Index         uint32 `json:"index"`           // Position in the chain, 0 for genesis.
	TimeStamp     uint64 `json:"timestamp"`       // Seconds since the epoch the block was created.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
}

// Block represents an opaque payload bound to its place in the chain.
type Block struct {
	Header  BlockHeader `json:"header"`
	Payload []byte      `json:"payload"`
	Hash    string      `json:"hash"`
}

// NewBlock constructs a block and computes its hash.
func NewBlock(header BlockHeader, payload []byte) Block {
	b := Block{
		Header:  header,
		Payload: clonePayload(payload),
	}
	b.Hash = ComputeHash(b.Header, b.Payload)

	return b
}

// ComputeHash returns the digest over the index, timestamp, previous hash
// and payload, in that order. The numeric fields are fixed width so the
// concatenation is unambiguous.
func ComputeHash(header BlockHeader, payload []byte) string {
	var index [4]byte
	binary.BigEndian.PutUint32(index[:], header.Index)

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], header.TimeStamp)

	return signature.Hash(index[:], ts[:], []byte(header.PrevBlockHash), payload)
}

// HashMatches reports if the stored hash matches the header and payload.
func (b Block) HashMatches() bool {
	return b.Hash == ComputeHash(b.Header, b.Payload)
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	b.Payload = clonePayload(b.Payload)
	return b
}

// Equal reports if two blocks carry the same header, payload and hash.
func (b Block) Equal(other Block) bool {
	return b.Header == other.Header && b.Hash == other.Hash && bytes.Equal(b.Payload, other.Payload)
}

// Serialize returns the flat encoding of the block:
//
//	index|timestamp|len(prev)|prev|len(payload)|payload|hash
//
// The previous hash and payload are length prefixed since both may contain
// the delimiter. The hash is the unprefixed remainder.
func (b Block) Serialize() []byte {
	out := make([]byte, 0, 64+len(b.Header.PrevBlockHash)+len(b.Payload)+len(b.Hash))

	out = strconv.AppendUint(out, uint64(b.Header.Index), 10)
	out = append(out, delimiter)
	out = strconv.AppendUint(out, b.Header.TimeStamp, 10)
	out = append(out, delimiter)
	out = strconv.AppendInt(out, int64(len(b.Header.PrevBlockHash)), 10)
	out = append(out, delimiter)
	out = append(out, b.Header.PrevBlockHash...)
	out = append(out, delimiter)
	out = strconv.AppendInt(out, int64(len(b.Payload)), 10)
	out = append(out, delimiter)
	out = append(out, b.Payload...)
	out = append(out, delimiter)
	out = append(out, b.Hash...)

	return out
}

// Deserialize is the inverse of Serialize.
func Deserialize(raw []byte) (Block, error) {
	r := reader{raw: raw}

	index, ok := r.uint(delimiter, 32)
	if !ok {
		return Block{}, fmt.Errorf("%w: index", ErrMalformedBlock)
	}

	ts, ok := r.uint(delimiter, 64)
	if !ok {
		return Block{}, fmt.Errorf("%w: timestamp", ErrMalformedBlock)
	}

	size, ok := r.uint(delimiter, 64)
	if !ok {
		return Block{}, fmt.Errorf("%w: previous hash size", ErrMalformedBlock)
	}

	prev, ok := r.sized(size, delimiter)
	if !ok {
		return Block{}, fmt.Errorf("%w: previous hash", ErrMalformedBlock)
	}

	size, ok = r.uint(delimiter, 64)
	if !ok {
		return Block{}, fmt.Errorf("%w: payload size", ErrMalformedBlock)
	}

	payload, ok := r.sized(size, delimiter)
	if !ok {
		return Block{}, fmt.Errorf("%w: payload", ErrMalformedBlock)
	}

	hash := r.rest()
	if len(hash) == 0 {
		return Block{}, fmt.Errorf("%w: hash", ErrMalformedBlock)
	}

	b := Block{
		Header: BlockHeader{
			Index:         uint32(index),
			TimeStamp:     ts,
			PrevBlockHash: string(prev),
		},
		Payload: payload,
		Hash:    string(hash),
	}

	return b, nil
}

// =============================================================================

func clonePayload(payload []byte) []byte {
	out := make([]byte, len(payload))
	copy(out, payload)
	return out
}
