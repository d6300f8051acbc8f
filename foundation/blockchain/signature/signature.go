// Package signature provides helper functions for handling the ledger
// digest and stamping needs.
//
// Nothing in this package is a signature scheme. Hash is an integrity
// checksum over a field tuple and Stamp is a keyed checksum that proves a
// payment was produced by a holder of the wallet secret inside a trusted,
// single-node process. Neither value resists forgery by an adversary.
package signature

import (
	"crypto/subtle"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// ErrInvalidStamp is returned when a stamp does not match the data it
// claims to cover.
var ErrInvalidStamp = errors.New("invalid stamp")

// ledgerStamp is mixed into every stamp so a stamp produced for this ledger
// can't be mistaken for a plain digest of the same data.
var ledgerStamp = []byte("\x19Ledger Stamped Message:\n32")

// =============================================================================

// Hash returns the digest of the concatenation of the specified parts in
// hex form. The order of the parts matters.
func Hash(parts ...[]byte) string {
	return hexutil.Encode(crypto.Keccak256(parts...))
}

// Stamp produces the keyed checksum for the data using the specified secret.
func Stamp(secret string, data []byte) string {
	key := crypto.Keccak256([]byte(secret))
	return hexutil.Encode(crypto.Keccak256(ledgerStamp, key, data))
}

// VerifyStamp checks the stamp was produced for this data with this secret.
func VerifyStamp(secret string, data []byte, stamp string) error {
	exp := Stamp(secret, data)
	if subtle.ConstantTimeCompare([]byte(exp), []byte(stamp)) != 1 {
		return ErrInvalidStamp
	}

	return nil
}
