package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
)

// RegisterWallet adds a new wallet to the node with a starting balance.
func (s *State) RegisterWallet(address string, secret string, balance uint64) (*wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.wallets[address]; exists {
		return nil, fmt.Errorf("%w: %s", ErrWalletExists, address)
	}

	w, err := wallet.New(address, secret, balance)
	if err != nil {
		return nil, err
	}

	s.wallets[address] = w
	s.evHandler("state: RegisterWallet: address[%s]: balance[%d]", address, balance)

	return w, nil
}
