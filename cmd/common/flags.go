// Package common contains shared functionality for command handlers
package common

import (
	"fmt"

	"fjacquet/bucket-ledger/internal/budget"
	"fjacquet/bucket-ledger/internal/currencyutils"
	"fjacquet/bucket-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// ConfigFlags are the bucket configuration parameters given on the command line
type ConfigFlags struct {
	Type     string
	Interval int
	Amount   string
	Date     string
}

// Register adds the configuration flags to cmd
func (f *ConfigFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Type, "type", "t", "standard", "Bucket type: standard, monthly-expense, expense-every-x-months, save-x-until-y")
	cmd.Flags().IntVar(&f.Interval, "interval", 0, "Months between expenses (expense-every-x-months)")
	cmd.Flags().StringVarP(&f.Amount, "amount", "a", "0", "Target amount")
	cmd.Flags().StringVarP(&f.Date, "date", "d", "", "Target or reference date, yyyy-mm or yyyy-mm-dd")
}

// Config builds the bucket configuration the flags describe
func (f *ConfigFlags) Config() (models.BucketConfig, error) {
	return budget.ParseConfig(f.Type, f.Interval, f.Amount, f.Date)
}

// ParseAmount parses an amount given on the command line
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := currencyutils.ParseAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %w", err)
	}
	return d, nil
}
