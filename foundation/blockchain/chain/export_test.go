package chain

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// ReplaceBlock swaps a stored block so tests can corrupt a chain.
func (c *Chain) ReplaceBlock(index int, block database.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.blocks[index] = block
}
