package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sheetbill/internal/sample"
)

func newSampleCommand() *cobra.Command {
	var invoices int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "sample [path]",
		Short: "Write a sample invoice workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "sample_invoices.xlsx"
			if len(args) > 0 {
				path = args[0]
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}

			sum, err := sample.Save(path, sample.Options{Invoices: invoices, Seed: seed})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample workbook created: %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows of invoice data across %d invoices (1-3 items each)\n", sum.Rows, sum.Invoices)
			return nil
		},
	}

	cmd.Flags().IntVar(&invoices, "invoices", sample.DefaultInvoices, "number of invoices")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible output")

	return cmd
}
