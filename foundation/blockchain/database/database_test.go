package database_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_BlockRoundTrip(t *testing.T) {
	type table struct {
		name    string
		header  database.BlockHeader
		payload []byte
	}

	tt := []table{
		{
			name:    "genesis",
			header:  database.BlockHeader{Index: 0, TimeStamp: 0, PrevBlockHash: database.GenesisMarker},
			payload: []byte("ledger genesis"),
		},
		{
			name:    "delimiters",
			header:  database.BlockHeader{Index: 7, TimeStamp: 1700000000, PrevBlockHash: "prev|hash|with|pipes"},
			payload: []byte("tx:alice|bob\nmetadata:1"),
		},
		{
			name:    "empty",
			header:  database.BlockHeader{Index: 4294967295, TimeStamp: 18446744073709551615, PrevBlockHash: ""},
			payload: nil,
		},
		{
			name:    "transactions",
			header:  database.BlockHeader{Index: 2, TimeStamp: 42, PrevBlockHash: "0xabc"},
			payload: database.EncodeTransactions([]database.Tx{{From: "bill", To: "ale", Amount: 10, Fee: 1, Nonce: 1, Memo: "a|b\nc"}}),
		},
	}

	t.Log("Given the need to move blocks through the flat encoding.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling a %s block.", testID, tst.name)
				{
					b := database.NewBlock(tst.header, tst.payload)

					got, err := database.Deserialize(b.Serialize())
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to deserialize: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to deserialize.", success, testID)

					if !got.Equal(b) {
						t.Logf("\t%s\tTest %d:\tgot: %+v", failed, testID, got)
						t.Logf("\t%s\tTest %d:\texp: %+v", failed, testID, b)
						t.Fatalf("\t%s\tTest %d:\tShould get back the same block.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the same block.", success, testID)

					if !got.HashMatches() {
						t.Fatalf("\t%s\tTest %d:\tShould have a matching hash.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould have a matching hash.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_BlockHash(t *testing.T) {
	base := database.BlockHeader{Index: 1, TimeStamp: 42, PrevBlockHash: "prev"}
	h := database.ComputeHash(base, []byte("abc"))

	t.Log("Given the need to detect any field change through the hash.")
	{
		changes := map[string]string{
			"index":     database.ComputeHash(database.BlockHeader{Index: 2, TimeStamp: 42, PrevBlockHash: "prev"}, []byte("abc")),
			"timestamp": database.ComputeHash(database.BlockHeader{Index: 1, TimeStamp: 43, PrevBlockHash: "prev"}, []byte("abc")),
			"prev":      database.ComputeHash(database.BlockHeader{Index: 1, TimeStamp: 42, PrevBlockHash: "prev2"}, []byte("abc")),
			"payload":   database.ComputeHash(base, []byte("abd")),
		}

		for field, got := range changes {
			if got == h {
				t.Fatalf("\t%s\tShould change the hash when the %s changes.", failed, field)
			}
			t.Logf("\t%s\tShould change the hash when the %s changes.", success, field)
		}

		if strings.ContainsRune(h, '|') {
			t.Fatalf("\t%s\tShould produce a delimiter free hash.", failed)
		}
		t.Logf("\t%s\tShould produce a delimiter free hash.", success)
	}
}

func Test_BlockMalformed(t *testing.T) {
	good := database.NewBlock(database.BlockHeader{Index: 1, TimeStamp: 42, PrevBlockHash: "prev"}, []byte("abc"))
	raw := string(good.Serialize())

	type table struct {
		name string
		raw  string
	}

	tt := []table{
		{name: "empty", raw: ""},
		{name: "no-delimiter", raw: "12345"},
		{name: "bad-index", raw: "x|42|4|prev|3|abc|hash"},
		{name: "index-overflow", raw: "4294967296|42|4|prev|3|abc|hash"},
		{name: "prev-too-long", raw: strings.Replace(raw, "|4|prev|", "|40|prev|", 1)},
		{name: "payload-too-long", raw: strings.Replace(raw, "|3|abc|", "|10|abc|", 1)},
		{name: "payload-too-short", raw: strings.Replace(raw, "|3|abc|", "|2|abc|", 1)},
		{name: "missing-hash", raw: "1|42|4|prev|3|abc|"},
		{name: "truncated", raw: "1|42|4|prev|3|abc"},
	}

	t.Log("Given the need to reject malformed block encodings.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling %s.", testID, tst.name)
				{
					_, err := database.Deserialize([]byte(tst.raw))
					if !errors.Is(err, database.ErrMalformedBlock) {
						t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, err)
						t.Fatalf("\t%s\tTest %d:\tShould get a malformed block error.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get a malformed block error.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Transactions(t *testing.T) {
	tx := database.Tx{From: "bill", To: "ale", Amount: 100, Fee: 5, Nonce: 3, Memo: "rent|march\n2"}

	t.Log("Given the need to encode transactions.")
	{
		got, err := database.DeserializeTx(tx.Serialize())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to deserialize: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to deserialize.", success)

		if got != tx {
			t.Logf("\t%s\tgot: %+v", failed, got)
			t.Logf("\t%s\texp: %+v", failed, tx)
			t.Fatalf("\t%s\tShould get back the same transaction.", failed)
		}
		t.Logf("\t%s\tShould get back the same transaction.", success)

		if got.ID() != tx.ID() {
			t.Fatalf("\t%s\tShould get back the same id.", failed)
		}
		t.Logf("\t%s\tShould get back the same id.", success)

		other := tx
		other.Memo = "rent|april\n2"
		if other.ID() == tx.ID() {
			t.Fatalf("\t%s\tShould get a different id for a different memo.", failed)
		}
		t.Logf("\t%s\tShould get a different id for a different memo.", success)

		raw := tx.Serialize()
		if _, err := database.DeserializeTx(append(raw, 'x')); !errors.Is(err, database.ErrMalformedTx) {
			t.Fatalf("\t%s\tShould reject trailing bytes: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject trailing bytes.", success)

		bad := database.Tx{From: "bill", To: "bill", Amount: 1}
		if _, err := database.DeserializeTx(bad.Serialize()); !errors.Is(err, database.ErrInvalidTransaction) {
			t.Fatalf("\t%s\tShould reject invalid transactions: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject invalid transactions.", success)
	}

	t.Log("Given the need to validate the shape of transactions.")
	{
		tt := map[string]database.Tx{
			"no-from":   {To: "ale", Amount: 1},
			"no-to":     {From: "bill", Amount: 1},
			"same":      {From: "bill", To: "bill", Amount: 1},
			"no-amount": {From: "bill", To: "ale"},
		}

		for name, tx := range tt {
			if tx.IsValid() {
				t.Fatalf("\t%s\tShould reject %s.", failed, name)
			}
			t.Logf("\t%s\tShould reject %s.", success, name)
		}

		if !tx.IsValid() {
			t.Fatalf("\t%s\tShould accept a good transaction.", failed)
		}
		t.Logf("\t%s\tShould accept a good transaction.", success)
	}
}

func Test_Payload(t *testing.T) {
	txs := []database.Tx{
		{From: "bill", To: "ale", Amount: 100, Fee: 5, Nonce: 1},
		{From: "ale", To: "pavel", Amount: 7, Fee: 0, Nonce: 1, Memo: "line1\nline2"},
	}

	t.Log("Given the need to pack transactions into a block payload.")
	{
		payload := database.EncodeTransactions(txs)
		if !bytes.HasPrefix(payload, []byte("2\n")) {
			t.Fatalf("\t%s\tShould start with the count: %q", failed, payload)
		}
		t.Logf("\t%s\tShould start with the count.", success)

		got, err := database.DecodeTransactions(payload)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to decode: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to decode.", success)

		if len(got) != len(txs) || got[0] != txs[0] || got[1] != txs[1] {
			t.Logf("\t%s\tgot: %+v", failed, got)
			t.Logf("\t%s\texp: %+v", failed, txs)
			t.Fatalf("\t%s\tShould get back the same transactions.", failed)
		}
		t.Logf("\t%s\tShould get back the same transactions.", success)

		got, err = database.DecodeTransactions(nil)
		if err != nil || len(got) != 0 {
			t.Fatalf("\t%s\tShould decode an empty payload to nothing: %v", failed, err)
		}
		t.Logf("\t%s\tShould decode an empty payload to nothing.", success)

		bad := map[string][]byte{
			"count":    []byte("x\n"),
			"short":    []byte("2\n" + string(payload[2:20])),
			"trailing": append(bytes.Clone(payload), 'x'),
			"genesis":  []byte("ledger genesis"),
		}
		for name, p := range bad {
			if _, err := database.DecodeTransactions(p); !errors.Is(err, database.ErrMalformedPayload) {
				t.Fatalf("\t%s\tShould reject a %s payload: %v", failed, name, err)
			}
			t.Logf("\t%s\tShould reject a %s payload.", success, name)
		}
	}
}
