package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

type balance struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []balance `json:"balances"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the balance of every wallet or the one specified.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	path := "/v1/balances"
	if len(args) == 1 {
		path += "/" + args[0]
	}

	var bals balances
	if err := send(http.MethodGet, path, nil, &bals); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Latest Block: %s\n", bals.LatestBlock)
	fmt.Fprintf(out, "Uncommitted:  %d\n", bals.Uncommitted)
	for _, bal := range bals.Balances {
		fmt.Fprintf(out, "%s: %d\n", bal.Address, bal.Balance)
	}

	return nil
}
