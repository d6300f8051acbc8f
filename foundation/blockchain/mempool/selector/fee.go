package selector

import (
	"slices"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// feeSelect returns the transactions with the best fee first. Equal fees
// are ordered by the lowest nonce and then by the order they arrived in.
var feeSelect = func(txs []database.Tx, howMany int) []database.Tx {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, byFee)

	return sorted[:limit(howMany, len(sorted))]
}
