// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrInvalidGenesis is returned when the genesis file can't be used to start
// a node.
var ErrInvalidGenesis = errors.New("invalid genesis")

// Wallet represents a starting account in the genesis file.
type Wallet struct {
	Address string `json:"address"`
	Secret  string `json:"secret"`
	Balance uint64 `json:"balance"`
}

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time `json:"date"`
	TransPerBlock uint16    `json:"trans_per_block"` // The maximum number of transactions that can be in a block.
	Wallets       []Wallet  `json:"wallets"`
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis wallets are usable.
func (g Genesis) Validate() error {
	if g.TransPerBlock == 0 {
		return fmt.Errorf("%w: trans_per_block must be positive", ErrInvalidGenesis)
	}

	seen := make(map[string]struct{}, len(g.Wallets))
	for _, w := range g.Wallets {
		if w.Address == "" {
			return fmt.Errorf("%w: wallet with empty address", ErrInvalidGenesis)
		}
		if _, exists := seen[w.Address]; exists {
			return fmt.Errorf("%w: wallet %s listed twice", ErrInvalidGenesis, w.Address)
		}
		seen[w.Address] = struct{}{}
	}

	return nil
}
