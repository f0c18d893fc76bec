// Package cli implements cashflowctl, an offline front end to the forecasting and scoring engines.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the cashflowctl command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "cashflowctl",
		Short:        "Cash flow forecasting and credit scoring CLI",
		Long:         "Run forecasts, projections and credit/risk scoring on JSON payloads without the API server.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("input", "i", "-", "JSON payload file, - for stdin")

	root.AddCommand(
		newForecastCmd(),
		newMonthlyCmd(),
		newCreditCmd(),
		newRiskCmd(),
		newBenchmarksCmd(),
		newClientCmd(),
	)
	return root
}

var validate = validator.New()

// readPayload decodes and validates the --input payload into dst
func readPayload(cmd *cobra.Command, dst any) error {
	path, _ := cmd.Flags().GetString("input")

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
