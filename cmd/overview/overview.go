// Package overview prints the computed figures of every bucket for a month
package overview

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"fjacquet/bucket-ledger/cmd/root"
	"fjacquet/bucket-ledger/internal/budget"
	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/fileutils"
	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/report"
	"fjacquet/bucket-ledger/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	format string
	output string
)

// Cmd represents the overview command
var Cmd = &cobra.Command{
	Use:   "overview",
	Short: "Show balance, want and progress of every bucket",
	Long: `Compute every bucket visible in the selected month and print its balance,
this month's in and activity, what it still wants and its progress.`,
	RunE: runOverview,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, csv, json or xlsx")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
}

func runOverview(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidOutputFormat(format); err != nil {
		return err
	}
	if format == "xlsx" && output == "" {
		return fmt.Errorf("xlsx output requires --output")
	}
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	month, err := root.Month()
	if err != nil {
		return err
	}

	months, err := c.GetCalculator().Overview(cmd.Context(), month)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := fileutils.CreateFile(output)
		if err != nil {
			return fmt.Errorf("error creating report file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				root.Log.Warnf("Failed to close file: %v", err)
			}
		}()
		out = f
		c.GetLogger().Debug("Writing overview to file",
			logging.Field{Key: logging.FieldOutputFile, Value: output},
			logging.Field{Key: logging.FieldMonth, Value: dateutils.FormatMonth(month)})
	}

	if format == "table" {
		return writeTable(out, month, months)
	}
	data, err := c.GetReportGenerator().GenerateReport(report.NewOverviewRows(months), format)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func writeTable(out io.Writer, month time.Time, months []budget.BucketMonth) error {
	fmt.Fprintf(out, "Overview %s\n\n", dateutils.FormatMonth(month))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "BUCKET\tBALANCE\tIN\tACTIVITY\tWANT\tPROGRESS\tDETAILS\t")
	total := decimal.Zero
	for _, m := range months {
		total = total.Add(m.Want)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d%%\t%s\t\n",
			m.Bucket.Name,
			m.Balance.StringFixed(2),
			m.In.StringFixed(2),
			m.Activity.StringFixed(2),
			m.Want.StringFixed(2),
			m.Progress.Percent, m.Progress.Details)
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t\t%s\t\t\t\n", total.StringFixed(2))
	return tw.Flush()
}
