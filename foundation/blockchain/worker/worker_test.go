package worker_test

import (
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/chain"
	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Forge(t *testing.T) {
	t.Log("Given the need to forge blocks in the background.")
	{
		st, err := state.New(state.Config{
			Genesis: genesis.Genesis{
				TransPerBlock: 2,
				Wallets: []genesis.Wallet{
					{Address: "alice", Secret: "a", Balance: 100},
					{Address: "bob", Secret: "b", Balance: 100},
				},
			},
			Chain: chain.Config{
				PreferredCodec:    codec.RLE,
				MaxTransportBytes: codec.DefaultMaxOutputBytes,
				MaxFutureDrift:    time.Minute,
			},
			PoolCapacity:   10,
			SelectStrategy: "fee",
		})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
		}

		worker.Run(st, worker.Config{})
		defer st.Shutdown()

		for nonce := uint64(1); nonce <= 3; nonce++ {
			tx := wallet.Sign(database.Tx{From: "alice", To: "bob", Amount: 10, Fee: 1, Nonce: nonce}, "a")
			if err := st.SubmitTransaction(tx); err != nil {
				t.Fatalf("\t%s\tShould be able to submit a transaction: %v", failed, err)
			}
		}
		t.Logf("\t%s\tShould be able to submit transactions.", success)

		deadline := time.Now().Add(5 * time.Second)
		for st.MempoolSize() > 0 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}

		if st.MempoolSize() != 0 {
			t.Fatalf("\t%s\tShould forge every pending transaction, %d left.", failed, st.MempoolSize())
		}
		t.Logf("\t%s\tShould forge every pending transaction.", success)

		blocks := st.Blocks()
		for _, block := range blocks[1:] {
			trans, err := database.DecodeTransactions(block.Payload)
			if err != nil || len(trans) > 2 {
				t.Fatalf("\t%s\tShould respect the transactions per block: %d, %v", failed, len(trans), err)
			}
		}
		t.Logf("\t%s\tShould respect the transactions per block.", success)

		if bal := st.Balances(); bal["alice"] != 67 || bal["bob"] != 130 {
			t.Fatalf("\t%s\tShould apply the balances: %v", failed, bal)
		}
		t.Logf("\t%s\tShould apply the balances.", success)
	}
}
