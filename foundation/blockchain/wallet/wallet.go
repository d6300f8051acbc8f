// Package wallet holds the balance and nonce of an account and stamps the
// payments it makes.
package wallet

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Set of error variables for wallet handling.
var (
	ErrInvalidAddress    = errors.New("invalid wallet address")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBalanceOverflow   = errors.New("balance overflow")
)

// Wallet represents an account that can make stamped payments.
type Wallet struct {
	mu      sync.RWMutex
	address string
	secret  string
	balance uint64
	nonce   uint64
}

// New constructs a wallet with a starting balance.
func New(address string, secret string, balance uint64) (*Wallet, error) {
	if address == "" {
		return nil, ErrInvalidAddress
	}

	w := Wallet{
		address: address,
		secret:  secret,
		balance: balance,
	}

	return &w, nil
}

// Address returns the address of the wallet.
func (w *Wallet) Address() string {
	return w.address
}

// Balance returns the current balance.
func (w *Wallet) Balance() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.balance
}

// Nonce returns the nonce of the last payment created.
func (w *Wallet) Nonce() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.nonce
}

// CreateSignedPayment builds the next payment from this wallet and stamps it.
func (w *Wallet) CreateSignedPayment(to string, amount uint64, fee uint64, memo string) (database.SignedTx, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx := database.Tx{
		From:   w.address,
		To:     to,
		Amount: amount,
		Fee:    fee,
		Nonce:  w.nonce + 1,
		Memo:   memo,
	}

	if err := tx.Validate(); err != nil {
		return database.SignedTx{}, err
	}

	w.nonce = tx.Nonce

	return Sign(tx, w.secret), nil
}

// VerifySignature checks the payment was stamped by this wallet.
func (w *Wallet) VerifySignature(tx database.SignedTx) error {
	if tx.From != w.address {
		return fmt.Errorf("%w: payment from %s checked against wallet %s", signature.ErrInvalidStamp, tx.From, w.address)
	}

	return tx.VerifySignature(w.secret)
}

// CanAfford reports if the wallet holds enough for the amount and fee.
func (w *Wallet) CanAfford(amount uint64, fee uint64) bool {
	total, ok := add(amount, fee)
	if !ok {
		return false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.balance >= total
}

// ApplyDebit removes the amount and fee from the wallet.
func (w *Wallet) ApplyDebit(amount uint64, fee uint64) error {
	total, ok := add(amount, fee)
	if !ok {
		return fmt.Errorf("%w: amount %d, fee %d", ErrInsufficientFunds, amount, fee)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.balance < total {
		return fmt.Errorf("%w: bal %d, needed %d", ErrInsufficientFunds, w.balance, total)
	}

	w.balance -= total
	return nil
}

// ApplyCredit adds the amount to the wallet.
func (w *Wallet) ApplyCredit(amount uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	total, ok := add(w.balance, amount)
	if !ok {
		return fmt.Errorf("%w: bal %d, credit %d", ErrBalanceOverflow, w.balance, amount)
	}

	w.balance = total
	return nil
}

// =============================================================================

// Sign stamps the transaction with the specified secret.
func Sign(tx database.Tx, secret string) database.SignedTx {
	return database.SignedTx{
		Tx:        tx,
		Signature: signature.Stamp(secret, []byte(tx.ID())),
	}
}

// add returns a+b and false on overflow.
func add(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}
