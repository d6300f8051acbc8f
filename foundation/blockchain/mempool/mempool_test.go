package mempool_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool/selector"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
		best []database.Tx
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				{From: "bill", To: "ale", Amount: 1, Nonce: 2, Fee: 10},
				{From: "pavel", To: "ale", Amount: 1, Nonce: 3, Fee: 50},
				{From: "ed", To: "ale", Amount: 1, Nonce: 4, Fee: 100},
				{From: "bill", To: "ale", Amount: 1, Nonce: 1, Fee: 10},
			},
			best: []database.Tx{
				{From: "ed", To: "ale", Amount: 1, Nonce: 4, Fee: 100},
				{From: "pavel", To: "ale", Amount: 1, Nonce: 3, Fee: 50},
				{From: "bill", To: "ale", Amount: 1, Nonce: 1, Fee: 10},
				{From: "bill", To: "ale", Amount: 1, Nonce: 2, Fee: 10},
			},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp, err := mempool.New(10)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct mempool: %v", failed, testID, err)
					}

					for _, tx := range tst.txs {
						if _, err := mp.Add(tx); err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to add new transaction: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould be able to add new transaction: %s", success, testID, tx)
					}

					for i, tx := range mp.Copy() {
						if tx != tst.txs[i] {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i])
							t.Fatalf("\t%s\tTest %d:\tShould keep arrival order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould keep arrival order.", success, testID)

					best := mp.PickBest(4)
					for i, tx := range best {
						if tx != tst.best[i] {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.best[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back the right fee order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right fee order.", success, testID)

					if mp.Count() != len(tst.txs) {
						t.Fatalf("\t%s\tTest %d:\tShould not change the pool when selecting.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not change the pool when selecting.", success, testID)

					if n := mp.RemoveCommitted([]database.Tx{best[2], best[0]}); n != 2 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to remove committed transactions, got %d.", failed, testID, n)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to remove committed transactions.", success, testID)

					if mp.Contains(best[0].ID()) || mp.Contains(best[2].ID()) || mp.Count() != 2 {
						t.Fatalf("\t%s\tTest %d:\tShould not find committed transactions.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not find committed transactions.", success, testID)

					mp.Truncate()
					if mp.Count() != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to truncate mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to truncate mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestAdmission(t *testing.T) {
	tx := database.Tx{From: "bill", To: "ale", Amount: 10, Fee: 1, Nonce: 1}

	t.Log("Given the need to control what gets into the mempool.")
	{
		if _, err := mempool.New(0); !errors.Is(err, mempool.ErrInvalidCapacity) {
			t.Fatalf("\t%s\tShould reject a zero capacity: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a zero capacity.", success)

		if _, err := mempool.NewWithStrategy(1, "unknown"); err == nil {
			t.Fatalf("\t%s\tShould reject an unknown strategy.", failed)
		}
		t.Logf("\t%s\tShould reject an unknown strategy.", success)

		mp, err := mempool.NewWithStrategy(2, selector.StrategySender)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct mempool: %v", failed, err)
		}

		if _, err := mp.Add(database.Tx{From: "bill", To: "bill", Amount: 1}); !errors.Is(err, mempool.ErrInvalidTransaction) {
			t.Fatalf("\t%s\tShould reject an invalid transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject an invalid transaction.", success)

		if _, err := mp.Add(tx); err != nil {
			t.Fatalf("\t%s\tShould be able to add a transaction: %v", failed, err)
		}

		if _, err := mp.Add(tx); !errors.Is(err, mempool.ErrDuplicateTransaction) {
			t.Fatalf("\t%s\tShould reject a duplicate transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a duplicate transaction.", success)

		tx2 := tx
		tx2.Nonce = 2
		if _, err := mp.Add(tx2); err != nil {
			t.Fatalf("\t%s\tShould be able to add a second transaction: %v", failed, err)
		}

		tx3 := tx
		tx3.Nonce = 3
		if _, err := mp.Add(tx3); !errors.Is(err, mempool.ErrPoolFull) {
			t.Fatalf("\t%s\tShould reject a transaction when full: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a transaction when full.", success)

		if mp.Count() != 2 {
			t.Fatalf("\t%s\tShould not change the pool on rejection, got %d.", failed, mp.Count())
		}
		t.Logf("\t%s\tShould not change the pool on rejection.", success)

		if n := mp.RemoveCommitted([]database.Tx{tx3}); n != 0 || mp.Count() != 2 {
			t.Fatalf("\t%s\tShould ignore unknown committed transactions.", failed)
		}
		t.Logf("\t%s\tShould ignore unknown committed transactions.", success)

		if _, err := mp.Add(tx); !errors.Is(err, mempool.ErrDuplicateTransaction) {
			t.Fatalf("\t%s\tShould still reject a duplicate when full: %v", failed, err)
		}
		t.Logf("\t%s\tShould still reject a duplicate when full.", success)
	}
}
