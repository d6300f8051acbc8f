package chain

import (
	"errors"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ValidationReport is a snapshot of a full walk of the chain.
type ValidationReport struct {
	Valid               bool    `json:"valid"`
	BlocksChecked       int     `json:"blocks_checked"`
	FailedBlockIndex    *uint32 `json:"failed_block_index,omitempty"`
	FailureReason       string  `json:"failure_reason,omitempty"`
	ElapsedMicroseconds int64   `json:"elapsed_microseconds"`
	Err                 error   `json:"-"`
}

// ValidateWithMetrics walks the whole chain from genesis checking every
// block. The walk runs on a snapshot taken under the append lock so it
// never observes a partial append.
func (c *Chain) ValidateWithMetrics() ValidationReport {
	start := time.Now()
	now := c.now()

	c.mu.RLock()
	blocks := c.blocks[:len(c.blocks):len(c.blocks)]
	c.mu.RUnlock()

	report := ValidationReport{
		BlocksChecked: len(blocks),
	}

	index, err := c.walk(blocks, now)
	switch {
	case err == nil:
		report.Valid = true

	default:
		report.Err = err
		report.FailureReason = reason(err)
		if index >= 0 {
			idx := uint32(index)
			report.FailedBlockIndex = &idx
		}
	}

	report.ElapsedMicroseconds = time.Since(start).Microseconds()

	return report
}

// IsValid collapses ValidateWithMetrics into a boolean.
func (c *Chain) IsValid() bool {
	return c.ValidateWithMetrics().Valid
}

// =============================================================================

// walk returns the index of the first failing block with its error. An
// index of -1 means the chain has no blocks to point at.
func (c *Chain) walk(blocks []database.Block, now uint64) (int, error) {
	if len(blocks) == 0 {
		return -1, ErrEmptyChain
	}

	genesis := blocks[0]
	if genesis.Header.Index != 0 || genesis.Header.PrevBlockHash != database.GenesisMarker || !genesis.HashMatches() {
		return 0, ErrInvalidGenesis
	}

	for i := 1; i < len(blocks); i++ {
		if err := c.validateNext(uint32(i), blocks[i-1], blocks[i], now); err != nil {
			return i, err
		}
	}

	return -1, nil
}

// reason maps an error onto the category reported to humans.
func reason(err error) string {
	kinds := []error{
		ErrEmptyChain,
		ErrInvalidGenesis,
		ErrIndexMismatch,
		ErrPreviousHashMismatch,
		ErrTimestampRegression,
		ErrTimestampTooFarInFuture,
		ErrHashMismatch,
	}

	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}

	return err.Error()
}
