package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BucketType identifies how a bucket computes its monthly want
type BucketType int

const (
	BucketTypeStandard            BucketType = 1
	BucketTypeMonthlyExpense      BucketType = 2
	BucketTypeExpenseEveryXMonths BucketType = 3
	BucketTypeSaveXUntilY         BucketType = 4
)

var bucketTypeNames = map[BucketType]string{
	BucketTypeStandard:            "standard",
	BucketTypeMonthlyExpense:      "monthly-expense",
	BucketTypeExpenseEveryXMonths: "expense-every-x-months",
	BucketTypeSaveXUntilY:         "save-x-until-y",
}

func (t BucketType) String() string {
	if name, ok := bucketTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("BucketType(%d)", int(t))
}

// ParseBucketType accepts either the numeric code or the kebab-case name
func ParseBucketType(s string) (BucketType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range bucketTypeNames {
		if s == name || s == fmt.Sprint(int(t)) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown bucket type: %q", s)
}

// BucketConfig is the type-specific part of a bucket version. Each variant carries
// only the parameters its type uses.
type BucketConfig interface {
	Type() BucketType
	// Target is the target amount, zero for Standard buckets
	Target() decimal.Decimal
}

// Standard buckets never want money
type Standard struct{}

// MonthlyExpense refills up to Amount every month
type MonthlyExpense struct {
	Amount decimal.Decimal
}

// ExpenseEveryXMonths saves Amount for an expense recurring every Interval months,
// next due in the month of Reference (or a later multiple of Interval).
type ExpenseEveryXMonths struct {
	Interval  int
	Amount    decimal.Decimal
	Reference time.Time
}

// SaveXUntilY saves Amount until the month of Until
type SaveXUntilY struct {
	Amount decimal.Decimal
	Until  time.Time
}

func (Standard) Type() BucketType            { return BucketTypeStandard }
func (MonthlyExpense) Type() BucketType      { return BucketTypeMonthlyExpense }
func (ExpenseEveryXMonths) Type() BucketType { return BucketTypeExpenseEveryXMonths }
func (SaveXUntilY) Type() BucketType         { return BucketTypeSaveXUntilY }

func (Standard) Target() decimal.Decimal              { return decimal.Zero }
func (c MonthlyExpense) Target() decimal.Decimal      { return c.Amount }
func (c ExpenseEveryXMonths) Target() decimal.Decimal { return c.Amount }
func (c SaveXUntilY) Target() decimal.Decimal         { return c.Amount }

// ConfigParams is the flat (type, X, Y, Z) representation used for persistence
type ConfigParams struct {
	Type         BucketType
	IntParam     int
	DecimalParam decimal.Decimal
	DateParam    time.Time
}

// Params flattens a configuration into its persisted representation
func Params(cfg BucketConfig) ConfigParams {
	switch c := cfg.(type) {
	case MonthlyExpense:
		return ConfigParams{Type: c.Type(), DecimalParam: c.Amount}
	case ExpenseEveryXMonths:
		return ConfigParams{Type: c.Type(), IntParam: c.Interval, DecimalParam: c.Amount, DateParam: c.Reference}
	case SaveXUntilY:
		return ConfigParams{Type: c.Type(), DecimalParam: c.Amount, DateParam: c.Until}
	default:
		return ConfigParams{Type: BucketTypeStandard}
	}
}

// Config rebuilds the tagged configuration from its persisted representation
func (p ConfigParams) Config() (BucketConfig, error) {
	switch p.Type {
	case BucketTypeStandard:
		return Standard{}, nil
	case BucketTypeMonthlyExpense:
		return MonthlyExpense{Amount: p.DecimalParam}, nil
	case BucketTypeExpenseEveryXMonths:
		return ExpenseEveryXMonths{Interval: p.IntParam, Amount: p.DecimalParam, Reference: p.DateParam}, nil
	case BucketTypeSaveXUntilY:
		return SaveXUntilY{Amount: p.DecimalParam, Until: p.DateParam}, nil
	default:
		return nil, fmt.Errorf("unknown bucket type: %d", int(p.Type))
	}
}

// BucketVersion is an effective-dated snapshot of a bucket's configuration.
// The effective version for a month is the one with the greatest ValidFrom not after it.
type BucketVersion struct {
	ID        int64
	BucketID  int64
	Version   int
	ValidFrom time.Time
	Config    BucketConfig
	Notes     string
}
