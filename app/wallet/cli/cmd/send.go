package cmd

import (
	"fmt"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var (
	from   string
	secret string
	to     string
	amount uint64
	fee    uint64
	nonce  uint64
	memo   string
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Stamp and send a transaction",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Address of the paying wallet.")
	sendCmd.Flags().StringVarP(&secret, "secret", "s", "", "Secret of the paying wallet.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the receiving wallet.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "a", 0, "Amount to send.")
	sendCmd.Flags().Uint64VarP(&fee, "fee", "c", 0, "Fee offered to the node.")
	sendCmd.Flags().Uint64VarP(&nonce, "nonce", "n", 1, "Sequence number for the transaction.")
	sendCmd.Flags().StringVarP(&memo, "memo", "m", "", "Free form text.")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("secret")
	sendCmd.MarkFlagRequired("to")
}

func sendRun(cmd *cobra.Command, args []string) error {
	tx := database.Tx{
		From:   from,
		To:     to,
		Amount: amount,
		Fee:    fee,
		Nonce:  nonce,
		Memo:   memo,
	}

	if err := tx.Validate(); err != nil {
		return err
	}

	signedTx := wallet.Sign(tx, secret)

	var resp struct {
		Status string `json:"status"`
		ID     string `json:"id"`
	}
	if err := send(http.MethodPost, "/v1/tx/submit", signedTx, &resp); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", resp.Status, resp.ID)
	return nil
}
