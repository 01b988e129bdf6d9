// Package recurring manages recurring bank transactions and their monthly occurrences
package recurring

import (
	"fmt"
	"strings"

	"fjacquet/bucket-ledger/cmd/common"
	"fjacquet/bucket-ledger/cmd/root"
	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/models"
	"fjacquet/bucket-ledger/internal/recurrence"

	"github.com/spf13/cobra"
)

type addFlags struct {
	Account  int64
	Type     string
	Interval int
	First    string
	Payee    string
	Memo     string
	Amount   string
}

var add addFlags

// Cmd represents the recurring command
var Cmd = &cobra.Command{
	Use:   "recurring",
	Short: "Manage recurring transactions",
}

var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Store the occurrences of every recurring transaction in the selected month",
	Long: `Generate the bank transactions every recurring template produces in the selected
month. Occurrences stored by an earlier run are skipped, so the command can be repeated.`,
	RunE: runMaterialize,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a recurring transaction template",
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().Int64Var(&add.Account, "account", 1, "Account the transactions are booked on")
	addCmd.Flags().StringVarP(&add.Type, "every", "e", "months", "Recurrence unit: weeks, months, quarters, years")
	addCmd.Flags().IntVarP(&add.Interval, "interval", "i", 1, "Number of units between occurrences")
	addCmd.Flags().StringVar(&add.First, "first", "", "First occurrence date, yyyy-mm-dd")
	addCmd.Flags().StringVar(&add.Payee, "payee", "", "Payee of the transactions")
	addCmd.Flags().StringVar(&add.Memo, "memo", "", "Memo of the transactions")
	addCmd.Flags().StringVarP(&add.Amount, "amount", "a", "", "Signed amount, negative for expenses")
	_ = addCmd.MarkFlagRequired("first")
	_ = addCmd.MarkFlagRequired("amount")

	Cmd.AddCommand(materializeCmd, addCmd)
}

func runMaterialize(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	month, err := root.Month()
	if err != nil {
		return err
	}

	result, err := c.GetRecurringProcessor().Materialize(cmd.Context(), month)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, tx := range result.Created {
		fmt.Fprintf(out, "%s  %-30s %12s\n", dateutils.ToISODate(tx.TransactionDate), tx.Payee, tx.Amount.StringFixed(2))
	}
	fmt.Fprintf(out, "Created %d transactions, skipped %d already stored in %s\n",
		len(result.Created), result.Skipped, dateutils.FormatMonth(month))
	return nil
}

func (f addFlags) template() (models.RecurringBankTransaction, error) {
	recurrenceType, err := models.ParseRecurrenceType(f.Type)
	if err != nil {
		return models.RecurringBankTransaction{}, err
	}
	first, err := dateutils.ParseDate(f.First)
	if err != nil {
		return models.RecurringBankTransaction{}, fmt.Errorf("invalid --first %q: %w", f.First, err)
	}
	amount, err := common.ParseAmount(f.Amount)
	if err != nil {
		return models.RecurringBankTransaction{}, err
	}

	rt := models.RecurringBankTransaction{
		AccountID:           f.Account,
		RecurrenceType:      recurrenceType,
		RecurrenceInterval:  f.Interval,
		FirstOccurrenceDate: first,
		Payee:               strings.TrimSpace(f.Payee),
		Memo:                f.Memo,
		Amount:              amount,
	}
	if _, err := recurrence.Occurrences(rt, first); err != nil {
		return models.RecurringBankTransaction{}, err
	}
	return rt, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	rt, err := add.template()
	if err != nil {
		return err
	}

	id, err := c.GetStore().CreateRecurringTransaction(cmd.Context(), &rt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created recurring transaction %d: %s every %d %s from %s\n",
		id, rt.Amount.StringFixed(2), rt.RecurrenceInterval, rt.RecurrenceType, dateutils.ToISODate(rt.FirstOccurrenceDate))
	return nil
}
