package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

type tx struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
	Fee    uint64 `json:"fee"`
	Nonce  uint64 `json:"nonce"`
	Memo   string `json:"memo,omitempty"`
}

func toTx(tran database.Tx) tx {
	return tx{
		ID:     tran.ID(),
		From:   tran.From,
		To:     tran.To,
		Amount: tran.Amount,
		Fee:    tran.Fee,
		Nonce:  tran.Nonce,
		Memo:   tran.Memo,
	}
}

type block struct {
	Index         uint32 `json:"index"`
	TimeStamp     uint64 `json:"timestamp"`
	PrevBlockHash string `json:"prev_block_hash"`
	Hash          string `json:"hash"`
	Payload       string `json:"payload,omitempty"`
	Transactions  []tx   `json:"transactions,omitempty"`
}

// toBlock shows the transactions of a block whose payload decodes as a
// transaction list and the raw payload otherwise.
func toBlock(blk database.Block) block {
	b := block{
		Index:         blk.Header.Index,
		TimeStamp:     blk.Header.TimeStamp,
		PrevBlockHash: blk.Header.PrevBlockHash,
		Hash:          blk.Hash,
	}

	trans, err := database.DecodeTransactions(blk.Payload)
	if err != nil {
		b.Payload = string(blk.Payload)
		return b
	}

	b.Transactions = make([]tx, len(trans))
	for i, tran := range trans {
		b.Transactions[i] = toTx(tran)
	}

	return b
}

type balance struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
	Nonce   uint64 `json:"nonce,omitempty"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}
