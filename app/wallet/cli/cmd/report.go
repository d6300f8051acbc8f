package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the readiness report of the node.",
	RunE:  reportRun,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func reportRun(cmd *cobra.Command, args []string) error {
	var md string
	if err := send(http.MethodGet, "/v1/readiness?format=markdown", nil, &md); err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), md)
	return nil
}
