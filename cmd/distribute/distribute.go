// Package distribute funds every bucket with what it wants for a month
package distribute

import (
	"fmt"

	"fjacquet/bucket-ledger/cmd/root"
	"fjacquet/bucket-ledger/internal/dateutils"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var dryRun bool

// Cmd represents the distribute command
var Cmd = &cobra.Command{
	Use:   "distribute",
	Short: "Move the wanted amount into every bucket",
	Long: `Compute the overview of the selected month and create one movement per active
bucket that still wants money. All movements are written in a single transaction.`,
	RunE: runDistribute,
}

func init() {
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only print what would be distributed")
}

func runDistribute(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	month, err := root.Month()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if dryRun {
		rows, err := c.GetCalculator().Overview(cmd.Context(), month)
		if err != nil {
			return err
		}
		total := decimal.Zero
		for _, r := range rows {
			if r.Bucket.IsSystem || !r.Bucket.IsActiveIn(month) || !r.Want.IsPositive() {
				continue
			}
			total = total.Add(r.Want)
			fmt.Fprintf(out, "%-30s %12s\n", r.Bucket.Name, r.Want.StringFixed(2))
		}
		fmt.Fprintf(out, "Would distribute %s in %s\n", total.StringFixed(2), dateutils.FormatMonth(month))
		return nil
	}

	movements, err := c.GetDistributor().Distribute(cmd.Context(), month)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Amount)
	}
	fmt.Fprintf(out, "Distributed %s to %d buckets in %s\n",
		total.StringFixed(2), len(movements), dateutils.FormatMonth(month))
	return nil
}
