package validate_test

import (
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Check(t *testing.T) {
	t.Log("Given the need to validate a submitted transaction.")
	{
		tx := database.SignedTx{
			Tx:        database.Tx{From: "alice", To: "bob", Amount: 10},
			Signature: "0x01",
		}
		if err := validate.Check(tx); err != nil {
			t.Fatalf("\t%s\tShould accept a complete transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a complete transaction.", success)

		err := validate.Check(database.SignedTx{Tx: database.Tx{From: "alice"}})
		fields := validate.GetFieldErrors(err)
		if fields == nil {
			t.Fatalf("\t%s\tShould get back field errors: %v", failed, err)
		}

		m := fields.Fields()
		for _, name := range []string{"to", "amount", "signature"} {
			if m[name] == "" {
				t.Fatalf("\t%s\tShould report the %q field by its json name: %v", failed, name, m)
			}
		}
		if _, exists := m["from"]; exists {
			t.Fatalf("\t%s\tShould not report a field that is set: %v", failed, m)
		}
		t.Logf("\t%s\tShould report missing fields by json name.", success)
	}
}
