package state

import (
	"fmt"
	"math"

	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
)

// ForgeBlock selects up to howMany payable transactions from the mempool and
// builds a candidate block on top of the current tip. Neither the chain nor
// the mempool is changed. Transactions a sender can't cover once the
// transactions ahead of them are applied are left pending.
func (s *State) ForgeBlock(howMany int) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mempool.Count() == 0 {
		return database.Block{}, ErrNoTransactions
	}

	s.evHandler("state: ForgeBlock: select transactions: max[%d]", howMany)

	balances := s.balances()
	var trans []database.Tx

	for _, tx := range s.mempool.PickBest(-1) {
		if howMany >= 0 && len(trans) >= howMany {
			break
		}

		if err := debitCredit(balances, tx); err != nil {
			s.evHandler("state: ForgeBlock: tx[%s]: skipped: %s", tx, err)
			continue
		}

		trans = append(trans, tx)
	}

	if len(trans) == 0 {
		return database.Block{}, fmt.Errorf("%w: none payable", ErrNoTransactions)
	}

	block := s.chain.CreateBlock(database.EncodeTransactions(trans))
	s.evHandler("state: ForgeBlock: blk[%d]: trans[%d]: hash[%s]", block.Header.Index, len(trans), block.Hash)

	return block, nil
}

// CommitBlock appends a locally forged block. The block takes the same path
// a network block takes: it is compressed with the codec negotiated against
// the codecs this node supports and accepted from that form. Balances and
// the mempool are only changed once the chain accepted the block.
func (s *State) CommitBlock(block database.Block) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cb, err := s.chain.CompressForPeer(block, codec.Supported())
	if err != nil {
		return database.Block{}, err
	}

	return s.commit(block, cb)
}

// AcceptPeerBlock appends a compressed block received from another node.
func (s *State) AcceptPeerBlock(cb codec.CompressedBlock) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, err := s.chain.Decode(cb)
	if err != nil {
		s.evHandler("state: AcceptPeerBlock: rejected: %s", err)
		return database.Block{}, err
	}

	return s.commit(block, cb)
}

// =============================================================================

// commit must be called with the state lock held.
func (s *State) commit(block database.Block, cb codec.CompressedBlock) (database.Block, error) {
	trans, err := database.DecodeTransactions(block.Payload)
	if err != nil {
		return database.Block{}, err
	}

	balances := s.balances()
	for _, tx := range trans {
		if err := debitCredit(balances, tx); err != nil {
			return database.Block{}, fmt.Errorf("%w: tx[%s]: %w", ErrBlockNotPayable, tx, err)
		}
	}

	accepted, err := s.chain.AcceptFromNetwork(cb)
	if err != nil {
		return database.Block{}, err
	}

	for _, tx := range trans {
		if err := s.wallets[tx.From].ApplyDebit(tx.Amount, tx.Fee); err != nil {
			s.evHandler("state: commit: blk[%d]: tx[%s]: debit: ERROR: %s", accepted.Header.Index, tx, err)
		}
		if err := s.wallets[tx.To].ApplyCredit(tx.Amount); err != nil {
			s.evHandler("state: commit: blk[%d]: tx[%s]: credit: ERROR: %s", accepted.Header.Index, tx, err)
		}
	}

	removed := s.mempool.RemoveCommitted(trans)
	s.evHandler("state: commit: blk[%d]: trans[%d]: evicted[%d]: codec[%s]", accepted.Header.Index, len(trans), removed, cb.Codec)

	return accepted, nil
}

// balances must be called with the state lock held.
func (s *State) balances() map[string]uint64 {
	balances := make(map[string]uint64, len(s.wallets))
	for addr, w := range s.wallets {
		balances[addr] = w.Balance()
	}
	return balances
}

// debitCredit applies the transaction to the balances only if both sides
// can take it.
func debitCredit(balances map[string]uint64, tx database.Tx) error {
	from, exists := balances[tx.From]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownSender, tx.From)
	}

	to, exists := balances[tx.To]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownReceiver, tx.To)
	}

	if tx.Fee > math.MaxUint64-tx.Amount || from < tx.Amount+tx.Fee {
		return fmt.Errorf("%w: bal %d, amount %d, fee %d", wallet.ErrInsufficientFunds, from, tx.Amount, tx.Fee)
	}

	if to > math.MaxUint64-tx.Amount {
		return fmt.Errorf("%w: bal %d, credit %d", wallet.ErrBalanceOverflow, to, tx.Amount)
	}

	balances[tx.From] = from - tx.Amount - tx.Fee
	balances[tx.To] = balances[tx.To] + tx.Amount

	return nil
}
