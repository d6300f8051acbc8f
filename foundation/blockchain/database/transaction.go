package database

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Set of error variables for transaction handling.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrMalformedTx        = errors.New("malformed transaction")
)

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	From   string `json:"from" validate:"required"`   // Address of the account paying.
	To     string `json:"to" validate:"required"`     // Address of the account receiving.
	Amount uint64 `json:"amount" validate:"required"` // Value moved from From to To.
	Fee    uint64 `json:"fee"`                        // Offered to get the transaction into a block sooner.
	Nonce  uint64 `json:"nonce"`                      // Sender supplied sequence number.
	Memo   string `json:"memo"`                       // Free form text.
}

// ID returns the digest of the flat encoding. It identifies the transaction
// for deduplication only.
func (tx Tx) ID() string {
	return signature.Hash(tx.Serialize())
}

// Validate performs the basic shape checks on a transaction.
func (tx Tx) Validate() error {
	if tx.From == "" || tx.To == "" {
		return fmt.Errorf("%w: missing endpoint", ErrInvalidTransaction)
	}

	if tx.From == tx.To {
		return fmt.Errorf("%w: sending money to yourself, from %s, to %s", ErrInvalidTransaction, tx.From, tx.To)
	}

	if tx.Amount == 0 {
		return fmt.Errorf("%w: zero amount", ErrInvalidTransaction)
	}

	return nil
}

// IsValid collapses Validate into a boolean.
func (tx Tx) IsValid() bool {
	return tx.Validate() == nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%d", tx.From, tx.Nonce)
}

// Serialize returns the flat encoding of the transaction:
//
//	len(from)|from|len(to)|to|amount|fee|nonce|len(memo)|memo
func (tx Tx) Serialize() []byte {
	out := make([]byte, 0, 64+len(tx.From)+len(tx.To)+len(tx.Memo))

	out = strconv.AppendInt(out, int64(len(tx.From)), 10)
	out = append(out, delimiter)
	out = append(out, tx.From...)
	out = append(out, delimiter)
	out = strconv.AppendInt(out, int64(len(tx.To)), 10)
	out = append(out, delimiter)
	out = append(out, tx.To...)
	out = append(out, delimiter)
	out = strconv.AppendUint(out, tx.Amount, 10)
	out = append(out, delimiter)
	out = strconv.AppendUint(out, tx.Fee, 10)
	out = append(out, delimiter)
	out = strconv.AppendUint(out, tx.Nonce, 10)
	out = append(out, delimiter)
	out = strconv.AppendInt(out, int64(len(tx.Memo)), 10)
	out = append(out, delimiter)
	out = append(out, tx.Memo...)

	return out
}

// DeserializeTx is the inverse of Serialize. The transaction must also pass
// the basic shape checks.
func DeserializeTx(raw []byte) (Tx, error) {
	r := reader{raw: raw}

	from, ok := r.sizedField()
	if !ok {
		return Tx{}, fmt.Errorf("%w: from", ErrMalformedTx)
	}

	to, ok := r.sizedField()
	if !ok {
		return Tx{}, fmt.Errorf("%w: to", ErrMalformedTx)
	}

	amount, ok := r.uint(delimiter, 64)
	if !ok {
		return Tx{}, fmt.Errorf("%w: amount", ErrMalformedTx)
	}

	fee, ok := r.uint(delimiter, 64)
	if !ok {
		return Tx{}, fmt.Errorf("%w: fee", ErrMalformedTx)
	}

	nonce, ok := r.uint(delimiter, 64)
	if !ok {
		return Tx{}, fmt.Errorf("%w: nonce", ErrMalformedTx)
	}

	size, ok := r.uint(delimiter, 64)
	if !ok || size != uint64(r.remaining()) {
		return Tx{}, fmt.Errorf("%w: memo", ErrMalformedTx)
	}

	tx := Tx{
		From:   from,
		To:     to,
		Amount: amount,
		Fee:    fee,
		Nonce:  nonce,
		Memo:   string(r.rest()),
	}

	if err := tx.Validate(); err != nil {
		return Tx{}, fmt.Errorf("%w: %w", ErrMalformedTx, err)
	}

	return tx, nil
}

// sizedField reads a length prefix and the field that follows it.
func (r *reader) sizedField() (string, bool) {
	size, ok := r.uint(delimiter, 64)
	if !ok {
		return "", false
	}

	field, ok := r.sized(size, delimiter)
	if !ok {
		return "", false
	}

	return string(field), true
}

// =============================================================================

// SignedTx is a stamped version of the transaction. This is how clients like
// a wallet provide transactions for inclusion into the ledger.
type SignedTx struct {
	Tx
	Signature string `json:"signature" validate:"required"`
}

// VerifySignature checks the stamp was produced by the holder of the secret.
func (tx SignedTx) VerifySignature(secret string) error {
	return signature.VerifyStamp(secret, []byte(tx.ID()), tx.Signature)
}
