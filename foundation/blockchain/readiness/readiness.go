// Package readiness evaluates whether a node is fit for development use and
// renders the result for humans.
package readiness

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/chain"
	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
)

// Thresholds are the limits a node is held to.
type Thresholds struct {
	MinWallets     int
	MaxMempool     int
	MinChainHeight int
	RequiredCodecs []string
}

// DefaultThresholds returns the limits used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinWallets:     2,
		MaxMempool:     1000,
		MinChainHeight: 1,
		RequiredCodecs: []string{codec.RLE, codec.RAW},
	}
}

// Input is the node snapshot a report is built from.
type Input struct {
	Validation  chain.ValidationReport
	MempoolSize int
	ChainHeight int
	Balances    map[string]uint64
}

// Gate is a single check in the report.
type Gate struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Balance is a single wallet line in the report.
type Balance struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

// Report is the outcome of evaluating a node.
type Report struct {
	Ready             bool                   `json:"ready"`
	WalletsRegistered int                    `json:"wallets_registered"`
	MempoolSize       int                    `json:"mempool_size"`
	ChainHeight       int                    `json:"chain_height"`
	Validation        chain.ValidationReport `json:"validation"`
	Gates             []Gate                 `json:"gates"`
	Balances          []Balance              `json:"balances"`
}

// Evaluate runs every gate against the snapshot. The report is ready only
// when every gate passes.
func Evaluate(in Input, th Thresholds) Report {
	r := Report{
		WalletsRegistered: len(in.Balances),
		MempoolSize:       in.MempoolSize,
		ChainHeight:       in.ChainHeight,
		Validation:        in.Validation,
		Balances:          sortedBalances(in.Balances),
	}

	add := func(name string, passed bool, detail string) {
		r.Gates = append(r.Gates, Gate{Name: name, Passed: passed, Detail: detail})
	}

	detail := "chain is consistent"
	if !in.Validation.Valid {
		detail = in.Validation.FailureReason
	}
	add("Chain validated", in.Validation.Valid, detail)

	add("Minimum wallets",
		r.WalletsRegistered >= th.MinWallets,
		fmt.Sprintf("expected >= %d, observed=%d", th.MinWallets, r.WalletsRegistered))

	add("Mempool under control",
		r.MempoolSize <= th.MaxMempool,
		fmt.Sprintf("threshold=%d, observed=%d", th.MaxMempool, r.MempoolSize))

	add("Minimum chain height",
		r.ChainHeight >= th.MinChainHeight,
		fmt.Sprintf("expected >= %d, observed=%d", th.MinChainHeight, r.ChainHeight))

	var missing []string
	for _, name := range th.RequiredCodecs {
		if !codec.IsSupported(name) {
			missing = append(missing, name)
		}
	}
	detail = strings.Join(th.RequiredCodecs, "/") + " available"
	switch {
	case len(th.RequiredCodecs) == 0:
		detail = "none required"
	case len(missing) > 0:
		detail = "missing " + strings.Join(missing, "/")
	}
	add("Required codecs available", len(missing) == 0, detail)

	total := liquidity(in.Balances)
	add("Non-zero liquidity", total > 0, fmt.Sprintf("sum of balances=%d", total))

	r.Ready = true
	for _, g := range r.Gates {
		if !g.Passed {
			r.Ready = false
			break
		}
	}

	return r
}

// Markdown renders the report as a markdown document.
func (r Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# Ledger readiness report\n\n")
	fmt.Fprintf(&b, "- Ready for development: %s\n", yesNo(r.Ready))
	fmt.Fprintf(&b, "- Wallets registered: %d\n", r.WalletsRegistered)
	fmt.Fprintf(&b, "- Mempool size: %d\n", r.MempoolSize)
	fmt.Fprintf(&b, "- Chain height: %d\n", r.ChainHeight)

	validation := "valid"
	if !r.Validation.Valid {
		validation = "invalid"
	}
	fmt.Fprintf(&b, "- Validation: %s (%s)\n\n", validation, r.Validation.FailureReason)

	b.WriteString("## Gates\n")
	for _, g := range r.Gates {
		mark := " "
		if g.Passed {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s", mark, g.Name)
		if g.Detail != "" {
			fmt.Fprintf(&b, ": %s", g.Detail)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Balances\n")
	for _, bal := range r.Balances {
		fmt.Fprintf(&b, "- %s: %d\n", bal.Address, bal.Balance)
	}

	return b.String()
}

// =============================================================================

func sortedBalances(balances map[string]uint64) []Balance {
	list := make([]Balance, 0, len(balances))
	for addr, bal := range balances {
		list = append(list, Balance{Address: addr, Balance: bal})
	}

	slices.SortFunc(list, func(a, b Balance) int {
		return strings.Compare(a.Address, b.Address)
	})

	return list
}

// liquidity saturates at MaxUint64.
func liquidity(balances map[string]uint64) uint64 {
	var total uint64
	for _, bal := range balances {
		if total > math.MaxUint64-bal {
			return math.MaxUint64
		}
		total += bal
	}
	return total
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
