package selector

import (
	"slices"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// senderSelect returns transactions with the best fee while respecting the
// nonce order for each sender.
var senderSelect = func(txs []database.Tx, howMany int) []database.Tx {

	/*
		Bill: {Nonce: 2, To: "ale", Fee: 250},
			  {Nonce: 1, To: "pavel", Fee: 150},
		Pavl: {Nonce: 2, To: "ed", Fee: 200},
			  {Nonce: 1, To: "pavel", Fee: 75},
		Edua: {Nonce: 2, To: "ed", Fee: 75},
			  {Nonce: 1, To: "ale", Fee: 100},
	*/

	// Group the transactions by sender, keeping the order in which senders
	// first appeared so the selection is deterministic.
	var senders []string
	m := make(map[string][]database.Tx)
	for _, tx := range txs {
		if _, exists := m[tx.From]; !exists {
			senders = append(senders, tx.From)
		}
		m[tx.From] = append(m[tx.From], tx)
	}

	// Sort the transactions per sender by nonce.
	for _, from := range senders {
		slices.SortStableFunc(m[from], byNonce)
	}

	/*
		Bill: {Nonce: 1, To: "pavel", Fee: 150},
		      {Nonce: 2, To: "ale", Fee: 250},
		Pavl: {Nonce: 1, To: "pavel", Fee: 75},
		      {Nonce: 2, To: "ed", Fee: 200},
		Edua: {Nonce: 1, To: "ale", Fee: 100},
		      {Nonce: 2, To: "ed", Fee: 75},
	*/

	// Pick the first transaction in the slice for each sender. Each iteration
	// represents a new row of selections. Keep doing that until all the
	// transactions have been selected.
	var rows [][]database.Tx
	for {
		var row []database.Tx
		for _, from := range senders {
			if len(m[from]) > 0 {
				row = append(row, m[from][0])
				m[from] = m[from][1:]
			}
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}

	/*
		0: Bill: {Nonce: 1, To: "pavel", Fee: 150},
		0: Pavl: {Nonce: 1, To: "pavel", Fee: 75},
		0: Edua: {Nonce: 1, To: "ale", Fee: 100},
		1: Bill: {Nonce: 2, To: "ale", Fee: 250},
		1: Pavl: {Nonce: 2, To: "ed", Fee: 200},
		1: Edua: {Nonce: 2, To: "ed", Fee: 75},
	*/

	// Sort each row by fee unless we will take all transactions from that row
	// anyway. Then try to select the number of requested transactions. Keep
	// pulling transactions from each row until the amount is fulfilled or
	// there are no more transactions.
	howMany = limit(howMany, len(txs))
	final := []database.Tx{}
done:
	for _, row := range rows {
		need := howMany - len(final)
		if len(row) > need {
			slices.SortStableFunc(row, byFee)
			final = append(final, row[:need]...)
			break done
		}
		final = append(final, row...)
	}

	/*
		0: Bill: {Nonce: 1, To: "pavel", Fee: 150},
		1: Pavl: {Nonce: 1, To: "pavel", Fee: 75},
		2: Edua: {Nonce: 1, To: "ale", Fee: 100},
		3: Bill: {Nonce: 2, To: "ale", Fee: 250},
	*/

	return final
}
