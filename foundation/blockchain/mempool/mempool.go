// Package mempool maintains the bounded pool of transactions waiting to be
// included in a block.
package mempool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool/selector"
)

// Set of error variables for pool admission.
var (
	ErrInvalidCapacity      = errors.New("invalid mempool capacity")
	ErrInvalidTransaction   = database.ErrInvalidTransaction
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrPoolFull             = errors.New("mempool full")
)

// Mempool represents a cache of transactions keyed by transaction id that
// remembers the order transactions arrived in.
type Mempool struct {
	mu       sync.RWMutex
	capacity int
	pool     []database.Tx
	ids      map[string]struct{}
	selectFn selector.Func
}

// New constructs a new mempool using the default select strategy.
func New(capacity int) (*Mempool, error) {
	return NewWithStrategy(capacity, selector.StrategyFee)
}

// NewWithStrategy constructs a new mempool with specified select strategy.
func NewWithStrategy(capacity int, strategy string) (*Mempool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		capacity: capacity,
		ids:      make(map[string]struct{}),
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Capacity returns the maximum number of transactions the pool will hold.
func (mp *Mempool) Capacity() int {
	return mp.capacity
}

// Contains reports if a transaction with the specified id is pending.
func (mp *Mempool) Contains(id string) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	_, exists := mp.ids[id]
	return exists
}

// Add admits a transaction into the pool. On error the pool is unchanged.
func (mp *Mempool) Add(tx database.Tx) (int, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	id := tx.ID()

	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.ids[id]; exists {
		return len(mp.pool), fmt.Errorf("%w: %s", ErrDuplicateTransaction, id)
	}

	if len(mp.pool) >= mp.capacity {
		return len(mp.pool), fmt.Errorf("%w: capacity %d", ErrPoolFull, mp.capacity)
	}

	mp.pool = append(mp.pool, tx)
	mp.ids[id] = struct{}{}

	return len(mp.pool), nil
}

// RemoveCommitted removes every pending transaction whose id matches a
// transaction in the batch. Transactions not in the pool are ignored. It
// returns the number of transactions removed.
func (mp *Mempool) RemoveCommitted(batch []database.Tx) int {
	committed := make(map[string]struct{}, len(batch))
	for _, tx := range batch {
		committed[tx.ID()] = struct{}{}
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	kept := make([]database.Tx, 0, len(mp.pool))
	for _, tx := range mp.pool {
		id := tx.ID()
		if _, exists := committed[id]; exists {
			delete(mp.ids, id)
			continue
		}
		kept = append(kept, tx)
	}

	removed := len(mp.pool) - len(kept)
	mp.pool = kept

	return removed
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
	mp.ids = make(map[string]struct{})
}

// Copy returns a copy of the pending transactions in arrival order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)
	return cpy
}

// PickBest uses the configured select strategy to return the next set
// of transactions for the next block. Pass -1 for all the transactions.
// The pool is not changed.
func (mp *Mempool) PickBest(howMany int) []database.Tx {
	return mp.selectFn(mp.Copy(), howMany)
}
