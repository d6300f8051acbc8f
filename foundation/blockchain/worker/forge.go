package worker

import (
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// forgeOperations handles forging.
func (w *Worker) forgeOperations() {
	w.evHandler("worker: forgeOperations: G started")
	defer w.evHandler("worker: forgeOperations: G completed")

	for {
		select {
		case <-w.startForge:
			if !w.isShutdown() {
				w.runForgeOperation()
			}
		case <-w.tick:
			if !w.isShutdown() {
				w.runForgeOperation()
			}
		case <-w.shut:
			w.evHandler("worker: forgeOperations: received shut signal")
			return
		}
	}
}

// runForgeOperation takes the best transactions from the mempool and commits
// a new block to the chain.
func (w *Worker) runForgeOperation() {
	w.evHandler("worker: runForgeOperation: FORGE: started")
	defer w.evHandler("worker: runForgeOperation: FORGE: completed")

	block, err := w.state.ForgeBlock(w.transPerBlock)
	if err != nil {
		if errors.Is(err, state.ErrNoTransactions) {
			w.evHandler("worker: runForgeOperation: FORGE: %s", err)
			return
		}
		w.evHandler("worker: runForgeOperation: FORGE: ERROR: %s", err)
		return
	}

	block, err = w.state.CommitBlock(block)
	if err != nil {
		w.evHandler("worker: runForgeOperation: FORGE: commit: ERROR: %s", err)
		return
	}

	w.evHandler("viewer: block: %d: %s", block.Header.Index, block.Hash)

	// After committing a block, check if a new operation should be
	// signaled again.
	if length := w.state.MempoolSize(); length > 0 {
		w.evHandler("worker: runForgeOperation: FORGE: signal new forge operation: Txs[%d]", length)
		w.SignalForge()
	}
}
