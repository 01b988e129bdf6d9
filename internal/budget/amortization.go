package budget

import (
	"time"

	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Want returns the amount the bucket needs in month to stay on pace with its configuration.
// It is never negative except for a past due target with a deficit, which is clawed back.
func Want(cfg models.BucketConfig, month time.Time, f Figures) decimal.Decimal {
	month = dateutils.StartOfMonth(month)

	switch c := cfg.(type) {
	case models.MonthlyExpense:
		return decimal.Max(decimal.Zero, c.Amount.Sub(f.In))
	case models.ExpenseEveryXMonths:
		return amortize(c.Amount, NextDueDate(c, month), month, f)
	case models.SaveXUntilY:
		return amortize(c.Amount, c.Until, month, f)
	default:
		return decimal.Zero
	}
}

// TargetDate returns the date a type 3 or 4 configuration saves towards as of month
func TargetDate(cfg models.BucketConfig, month time.Time) (time.Time, bool) {
	switch c := cfg.(type) {
	case models.ExpenseEveryXMonths:
		return NextDueDate(c, dateutils.StartOfMonth(month)), true
	case models.SaveXUntilY:
		return c.Until, true
	default:
		return time.Time{}, false
	}
}

// NextDueDate steps the reference date forward by the interval until it is not before month
func NextDueDate(c models.ExpenseEveryXMonths, month time.Time) time.Time {
	due := c.Reference
	if c.Interval <= 0 {
		return due
	}
	for due.Before(month) {
		due = dateutils.AddMonths(due, c.Interval)
	}
	return due
}

// amortize spreads the remaining shortfall evenly over the months left, current month included
func amortize(target decimal.Decimal, targetDate, month time.Time, f Figures) decimal.Decimal {
	remaining := dateutils.MonthsBetween(month, targetDate)

	if remaining < 0 {
		if f.Balance.IsNegative() {
			return f.Balance
		}
		return decimal.Zero
	}
	if remaining == 0 && f.Balance.IsNegative() {
		return f.Balance.Neg()
	}

	want := target.Sub(f.Balance).Add(f.In).
		Div(decimal.NewFromInt(int64(remaining + 1))).
		Round(2).
		Sub(f.In)
	if remaining == 0 {
		want = want.Add(f.Activity)
	}
	return decimal.Max(decimal.Zero, want)
}
