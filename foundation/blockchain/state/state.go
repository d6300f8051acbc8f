// Package state is the core API for the ledger node and implements all the
// business rules for wallets, pending transactions and committed blocks.
package state

import (
	"errors"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/chain"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
)

// Set of error variables for node processing.
var (
	ErrWalletExists     = errors.New("wallet already exists")
	ErrUnknownWallet    = errors.New("unknown wallet")
	ErrUnknownSender    = errors.New("unknown sender")
	ErrUnknownReceiver  = errors.New("unknown receiver")
	ErrNoTransactions   = errors.New("no transactions in mempool")
	ErrBlockNotPayable  = errors.New("block transactions can't be applied")
	ErrInvalidSignature = errors.New("invalid signature")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background forging.
type Worker interface {
	Shutdown()
	SignalForge()
}

// =============================================================================

// Config represents the configuration required to start the ledger node.
type Config struct {
	Genesis        genesis.Genesis
	Chain          chain.Config
	PoolCapacity   int
	SelectStrategy string
	EvHandler      EventHandler
}

// State manages the wallets, the mempool and the chain of a node. Every
// mutation runs under one lock so balances, pending transactions and blocks
// move together.
type State struct {
	mu        sync.Mutex
	evHandler EventHandler

	genesis genesis.Genesis
	wallets map[string]*wallet.Wallet
	mempool *mempool.Mempool
	chain   *chain.Chain

	Worker Worker
}

// New constructs the node state and registers the genesis wallets.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Chain.EvHandler == nil {
		cfg.Chain.EvHandler = chain.EventHandler(ev)
	}

	chn, err := chain.New(cfg.Chain)
	if err != nil {
		return nil, err
	}

	// Construct a mempool with the specified select strategy.
	mp, err := mempool.NewWithStrategy(cfg.PoolCapacity, cfg.SelectStrategy)
	if err != nil {
		return nil, err
	}

	s := State{
		evHandler: ev,
		genesis:   cfg.Genesis,
		wallets:   make(map[string]*wallet.Wallet),
		mempool:   mp,
		chain:     chn,
	}

	for _, gw := range cfg.Genesis.Wallets {
		if _, err := s.RegisterWallet(gw.Address, gw.Secret, gw.Balance); err != nil {
			return nil, err
		}
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &s, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all forging activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
