// Package selector provides different transaction selecting algorithms.
package selector

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// List of different select strategies.
const (
	StrategyFee    = "fee"
	StrategySender = "sender"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyFee:    feeSelect,
	StrategySender: senderSelect,
}

// Func defines a function that takes the pending transactions in insertion
// order and selects howMany of them in an order based on the functions
// strategy. Selection must not modify the slice it is given. A negative
// howMany, or one larger than the number of transactions, selects them all.
type Func func(transactions []database.Tx, howMany int) []database.Tx

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// limit normalizes howMany against the number of available transactions.
func limit(howMany int, available int) int {
	if howMany < 0 || howMany > available {
		return available
	}
	return howMany
}

// byFee orders transactions by fee in descending order and then by nonce in
// ascending order. It is meant to be used with a stable sort so insertion
// order breaks any remaining tie.
func byFee(a, b database.Tx) int {
	switch {
	case a.Fee > b.Fee:
		return -1
	case a.Fee < b.Fee:
		return 1
	case a.Nonce < b.Nonce:
		return -1
	case a.Nonce > b.Nonce:
		return 1
	}
	return 0
}

// byNonce orders transactions by nonce in ascending order to keep the
// transactions in the right order of processing.
func byNonce(a, b database.Tx) int {
	switch {
	case a.Nonce < b.Nonce:
		return -1
	case a.Nonce > b.Nonce:
		return 1
	}
	return 0
}
