package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/chain"
	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/readiness"
)

// WalletInfo is a snapshot of a registered wallet.
type WalletInfo struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

// Genesis returns the genesis information the node started with.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// Wallet returns a snapshot of the specified wallet.
func (s *State) Wallet(address string) (WalletInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.wallets[address]
	if !exists {
		return WalletInfo{}, fmt.Errorf("%w: %s", ErrUnknownWallet, address)
	}

	return WalletInfo{Address: address, Balance: w.Balance(), Nonce: w.Nonce()}, nil
}

// Balances returns the balance of every registered wallet.
func (s *State) Balances() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balances()
}

// MempoolSize returns the number of pending transactions.
func (s *State) MempoolSize() int {
	return s.mempool.Count()
}

// Mempool returns the pending transactions in arrival order.
func (s *State) Mempool() []database.Tx {
	return s.mempool.Copy()
}

// Blocks returns a copy of the chain from genesis.
func (s *State) Blocks() []database.Block {
	return s.chain.Blocks()
}

// LatestBlock returns the tip of the chain.
func (s *State) LatestBlock() database.Block {
	return s.chain.LatestBlock()
}

// ValidationReport walks the full chain.
func (s *State) ValidationReport() chain.ValidationReport {
	return s.chain.ValidateWithMetrics()
}

// Readiness evaluates the node against the thresholds.
func (s *State) Readiness(th readiness.Thresholds) readiness.Report {
	s.mu.Lock()
	in := readiness.Input{
		Validation:  s.chain.ValidateWithMetrics(),
		MempoolSize: s.mempool.Count(),
		ChainHeight: s.chain.Length(),
		Balances:    s.balances(),
	}
	s.mu.Unlock()

	return readiness.Evaluate(in, th)
}

// Codecs returns the codecs this node can decode in preference order.
func (s *State) Codecs() []string {
	return codec.Supported()
}

// BlockForPeer returns the stored block compressed with the codec negotiated
// against the codecs the peer supports.
func (s *State) BlockForPeer(index uint32, peerCodecs []string) (codec.CompressedBlock, error) {
	block, err := s.chain.Block(index)
	if err != nil {
		return codec.CompressedBlock{}, err
	}

	return s.chain.CompressForPeer(block, peerCodecs)
}
