// Package chain owns the ordered, append only sequence of blocks and
// implements the rules for validating and appending blocks received from
// the network.
package chain

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// GenesisPayload is the fixed payload carried by the genesis block.
const GenesisPayload = "ledger genesis"

// Set of error variables for the chain. Every block validation failure
// wraps exactly one of these so callers can branch with errors.Is.
var (
	ErrInvalidConfig           = errors.New("invalid chain config")
	ErrNoCommonCodec           = errors.New("no mutually supported codec")
	ErrIndexMismatch           = errors.New("index mismatch")
	ErrPreviousHashMismatch    = errors.New("previous hash mismatch")
	ErrTimestampRegression     = errors.New("timestamp regression")
	ErrTimestampTooFarInFuture = errors.New("timestamp too far in the future")
	ErrHashMismatch            = errors.New("hash mismatch")
	ErrEmptyChain              = errors.New("empty chain")
	ErrInvalidGenesis          = errors.New("invalid genesis block")
	ErrNotFound                = errors.New("block not found")
)

// =============================================================================

// Clock returns the current time. It is read once per operation.
type Clock func() time.Time

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to construct a chain.
type Config struct {
	PreferredCodec    string
	MaxTransportBytes int
	MaxFutureDrift    time.Duration
	Clock             Clock
	EvHandler         EventHandler
}

// Chain manages the ordered sequence of blocks starting with genesis.
type Chain struct {
	mu     sync.RWMutex
	blocks []database.Block

	preferredCodec    string
	maxTransportBytes int
	maxFutureDrift    uint64
	clock             Clock
	evHandler         EventHandler
}

// New constructs a chain holding only the genesis block.
func New(cfg Config) (*Chain, error) {
	if !codec.IsSupported(cfg.PreferredCodec) {
		return nil, fmt.Errorf("%w: unsupported preferred codec %q", ErrInvalidConfig, cfg.PreferredCodec)
	}

	if cfg.MaxTransportBytes <= 0 {
		return nil, fmt.Errorf("%w: max transport bytes must be > 0", ErrInvalidConfig)
	}

	drift := uint64(cfg.MaxFutureDrift / time.Second)
	if cfg.MaxFutureDrift <= 0 || drift == 0 {
		return nil, fmt.Errorf("%w: max future drift must be at least 1s", ErrInvalidConfig)
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	c := Chain{
		blocks:            []database.Block{Genesis()},
		preferredCodec:    cfg.PreferredCodec,
		maxTransportBytes: cfg.MaxTransportBytes,
		maxFutureDrift:    drift,
		clock:             clock,
		evHandler:         ev,
	}

	return &c, nil
}

// Genesis returns the fixed first block of every chain.
func Genesis() database.Block {
	header := database.BlockHeader{
		Index:         0,
		TimeStamp:     0,
		PrevBlockHash: database.GenesisMarker,
	}

	return database.NewBlock(header, []byte(GenesisPayload))
}

// =============================================================================

// PreferredCodec returns the codec this chain asks for when compressing.
func (c *Chain) PreferredCodec() string {
	return c.preferredCodec
}

// Length returns the number of blocks including genesis.
func (c *Chain) Length() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.blocks)
}

// LatestBlock returns a copy of the tip of the chain.
func (c *Chain) LatestBlock() database.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.blocks[len(c.blocks)-1].Clone()
}

// Block returns a copy of the block at the specified index.
func (c *Chain) Block(index uint32) (database.Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if int(index) >= len(c.blocks) {
		return database.Block{}, fmt.Errorf("%w: index %d, length %d", ErrNotFound, index, len(c.blocks))
	}

	return c.blocks[index].Clone(), nil
}

// Blocks returns a copy of every block in the chain.
func (c *Chain) Blocks() []database.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blocks := make([]database.Block, len(c.blocks))
	for i, b := range c.blocks {
		blocks[i] = b.Clone()
	}

	return blocks
}

// =============================================================================

// CreateBlock builds a candidate block on top of the current tip. The chain
// isn't changed.
func (c *Chain) CreateBlock(payload []byte) database.Block {
	now := c.now()

	c.mu.RLock()
	tip := c.blocks[len(c.blocks)-1]
	index := uint32(len(c.blocks))
	c.mu.RUnlock()

	header := database.BlockHeader{
		Index:         index,
		TimeStamp:     now,
		PrevBlockHash: tip.Hash,
	}

	return database.NewBlock(header, payload)
}

// CompressForTransport encodes the block under the preferred codec.
func (c *Chain) CompressForTransport(block database.Block) (codec.CompressedBlock, error) {
	return codec.Compress(block.Serialize(), c.preferredCodec)
}

// CompressForPeer encodes the block under the codec negotiated with a peer
// that supports the specified codecs.
func (c *Chain) CompressForPeer(block database.Block, peerCodecs []string) (codec.CompressedBlock, error) {
	name, err := c.NegotiateCodec(peerCodecs)
	if err != nil {
		return codec.CompressedBlock{}, err
	}

	return codec.Compress(block.Serialize(), name)
}

// NegotiateCodec picks the preferred codec if the peer supports it,
// otherwise the first codec in peer order this build supports.
func (c *Chain) NegotiateCodec(peerCodecs []string) (string, error) {
	return Negotiate(c.preferredCodec, peerCodecs)
}

// Negotiate is the pure codec negotiation between a preference and the list
// of codecs a peer supports.
func Negotiate(preferred string, peerCodecs []string) (string, error) {
	if slices.Contains(peerCodecs, preferred) {
		return preferred, nil
	}

	for _, name := range peerCodecs {
		if codec.IsSupported(name) {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: peer codecs %v", ErrNoCommonCodec, peerCodecs)
}

// AcceptFromNetwork decompresses, deserializes and validates the block and
// appends it to the chain. On error the chain is left unchanged.
func (c *Chain) AcceptFromNetwork(cb codec.CompressedBlock) (database.Block, error) {
	now := c.now()

	block, err := c.Decode(cb)
	if err != nil {
		return database.Block{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tip := c.blocks[len(c.blocks)-1]
	if err := c.validateNext(uint32(len(c.blocks)), tip, block, now); err != nil {
		c.evHandler("chain: AcceptFromNetwork: blk[%d]: rejected: %s", block.Header.Index, err)
		return database.Block{}, err
	}

	c.blocks = append(c.blocks, block)
	c.evHandler("chain: AcceptFromNetwork: blk[%d]: appended: codec[%s]: hash[%s]", block.Header.Index, cb.Codec, block.Hash)

	return block.Clone(), nil
}

// Decode decompresses and deserializes a block received from the network
// without validating it against the chain.
func (c *Chain) Decode(cb codec.CompressedBlock) (database.Block, error) {
	raw, err := codec.Decompress(cb, c.maxTransportBytes)
	if err != nil {
		return database.Block{}, err
	}

	return database.Deserialize(raw)
}

// =============================================================================

// validateNext checks the block can follow prev at the expected index. The
// checks run in a fixed order so the first violated rule is reported.
func (c *Chain) validateNext(expIndex uint32, prev database.Block, block database.Block, now uint64) error {
	if block.Header.Index != expIndex {
		return fmt.Errorf("%w: got %d, exp %d", ErrIndexMismatch, block.Header.Index, expIndex)
	}

	if block.Header.PrevBlockHash != prev.Hash {
		return fmt.Errorf("%w: got %s, exp %s", ErrPreviousHashMismatch, block.Header.PrevBlockHash, prev.Hash)
	}

	if block.Header.TimeStamp < prev.Header.TimeStamp {
		return fmt.Errorf("%w: parent %d, block %d", ErrTimestampRegression, prev.Header.TimeStamp, block.Header.TimeStamp)
	}

	if block.Header.TimeStamp > now+c.maxFutureDrift {
		return fmt.Errorf("%w: block %d, now %d, drift %ds", ErrTimestampTooFarInFuture, block.Header.TimeStamp, now, c.maxFutureDrift)
	}

	if !block.HashMatches() {
		return fmt.Errorf("%w: got %s, exp %s", ErrHashMismatch, block.Hash, database.ComputeHash(block.Header, block.Payload))
	}

	return nil
}

// now reads the clock in seconds.
func (c *Chain) now() uint64 {
	sec := c.clock().Unix()
	if sec < 0 {
		return 0
	}

	return uint64(sec)
}
