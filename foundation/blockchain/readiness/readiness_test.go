package readiness_test

import (
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/chain"
	"github.com/ardanlabs/ledger/foundation/blockchain/readiness"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Evaluate(t *testing.T) {
	healthy := readiness.Input{
		Validation:  chain.ValidationReport{Valid: true, BlocksChecked: 2},
		MempoolSize: 3,
		ChainHeight: 2,
		Balances:    map[string]uint64{"bob": 5, "alice": 10},
	}

	type table struct {
		name   string
		input  func() readiness.Input
		th     readiness.Thresholds
		ready  bool
		failed string
	}

	tt := []table{
		{
			name:  "healthy",
			input: func() readiness.Input { return healthy },
			th:    readiness.DefaultThresholds(),
			ready: true,
		},
		{
			name: "invalid-chain",
			input: func() readiness.Input {
				in := healthy
				in.Validation = chain.ValidationReport{FailureReason: "hash mismatch"}
				return in
			},
			th:     readiness.DefaultThresholds(),
			failed: "Chain validated",
		},
		{
			name:   "few-wallets",
			input:  func() readiness.Input { return healthy },
			th:     readiness.Thresholds{MinWallets: 3, MaxMempool: 10, MinChainHeight: 1},
			failed: "Minimum wallets",
		},
		{
			name:   "busy-mempool",
			input:  func() readiness.Input { return healthy },
			th:     readiness.Thresholds{MinWallets: 1, MaxMempool: 2, MinChainHeight: 1},
			failed: "Mempool under control",
		},
		{
			name:   "short-chain",
			input:  func() readiness.Input { return healthy },
			th:     readiness.Thresholds{MinWallets: 1, MaxMempool: 10, MinChainHeight: 5},
			failed: "Minimum chain height",
		},
		{
			name:   "missing-codec",
			input:  func() readiness.Input { return healthy },
			th:     readiness.Thresholds{MinWallets: 1, MaxMempool: 10, MinChainHeight: 1, RequiredCodecs: []string{"RLE", "LZ4"}},
			failed: "Required codecs available",
		},
		{
			name: "no-liquidity",
			input: func() readiness.Input {
				in := healthy
				in.Balances = map[string]uint64{"alice": 0, "bob": 0}
				return in
			},
			th:     readiness.DefaultThresholds(),
			failed: "Non-zero liquidity",
		},
	}

	t.Log("Given the need to evaluate node readiness.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				r := readiness.Evaluate(tst.input(), tst.th)

				if r.Ready != tst.ready {
					t.Fatalf("\t%s\tTest %d:\tShould report ready=%t: %+v", failed, testID, tst.ready, r.Gates)
				}
				t.Logf("\t%s\tTest %d:\tShould report ready=%t.", success, testID, tst.ready)

				if len(r.Gates) != 6 {
					t.Fatalf("\t%s\tTest %d:\tShould run every gate, got %d.", failed, testID, len(r.Gates))
				}

				for _, g := range r.Gates {
					if g.Passed == (g.Name == tst.failed) {
						t.Fatalf("\t%s\tTest %d:\tShould only fail %q, gate %q passed=%t.", failed, testID, tst.failed, g.Name, g.Passed)
					}
				}
				t.Logf("\t%s\tTest %d:\tShould fail only the expected gate.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Markdown(t *testing.T) {
	in := readiness.Input{
		Validation:  chain.ValidationReport{Valid: true, BlocksChecked: 1},
		ChainHeight: 1,
		Balances:    map[string]uint64{"bob": 5, "alice": 10},
	}

	t.Log("Given the need to render a readiness report.")
	{
		md := readiness.Evaluate(in, readiness.DefaultThresholds()).Markdown()

		for _, want := range []string{
			"# Ledger readiness report",
			"- Ready for development: yes",
			"- [x] Chain validated: chain is consistent",
			"- [x] Non-zero liquidity: sum of balances=15",
		} {
			if !strings.Contains(md, want) {
				t.Fatalf("\t%s\tShould contain %q:\n%s", failed, want, md)
			}
		}
		t.Logf("\t%s\tShould contain the summary and gates.", success)

		if strings.Index(md, "- alice: 10") > strings.Index(md, "- bob: 5") {
			t.Fatalf("\t%s\tShould list balances sorted by address:\n%s", failed, md)
		}
		t.Logf("\t%s\tShould list balances sorted by address.", success)
	}
}
