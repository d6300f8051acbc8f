package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
)

// SubmitTransaction accepts a stamped transaction from a wallet for
// inclusion in a future block.
func (s *State) SubmitTransaction(signedTx database.SignedTx) error {
	if err := s.admit(signedTx); err != nil {
		s.evHandler("state: SubmitTransaction: tx[%s]: rejected: %s", signedTx.Tx, err)
		return err
	}

	s.evHandler("state: SubmitTransaction: tx[%s]: accepted", signedTx.Tx)

	if s.Worker != nil {
		s.Worker.SignalForge()
	}

	return nil
}

// admit runs the node rules ahead of the pool rules.
func (s *State) admit(signedTx database.SignedTx) error {
	if err := signedTx.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sender, exists := s.wallets[signedTx.From]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownSender, signedTx.From)
	}

	if _, exists := s.wallets[signedTx.To]; !exists {
		return fmt.Errorf("%w: %s", ErrUnknownReceiver, signedTx.To)
	}

	if err := sender.VerifySignature(signedTx); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if !sender.CanAfford(signedTx.Amount, signedTx.Fee) {
		return fmt.Errorf("%w: bal %d, amount %d, fee %d", wallet.ErrInsufficientFunds, sender.Balance(), signedTx.Amount, signedTx.Fee)
	}

	if _, err := s.mempool.Add(signedTx.Tx); err != nil {
		return err
	}

	return nil
}
