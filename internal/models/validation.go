package models

import (
	"fmt"

	"fjacquet/bucket-ledger/internal/ledgererror"
)

// ValidateConfig checks a configuration before it is stored as a version
func ValidateConfig(cfg BucketConfig) error {
	if cfg == nil {
		return &ledgererror.ValidationError{Field: "type", Reason: "missing bucket configuration"}
	}
	target := cfg.Target()
	if target.IsNegative() {
		return &ledgererror.ValidationError{Field: "amount", Reason: fmt.Sprintf("target amount %s is negative", target)}
	}

	switch c := cfg.(type) {
	case Standard:
		return nil
	case MonthlyExpense, SaveXUntilY:
		if !target.IsPositive() {
			return &ledgererror.ValidationError{Field: "amount", Reason: fmt.Sprintf("%s buckets need a positive target", cfg.Type())}
		}
	case ExpenseEveryXMonths:
		if !target.IsPositive() {
			return &ledgererror.ValidationError{Field: "amount", Reason: fmt.Sprintf("%s buckets need a positive target", cfg.Type())}
		}
		if c.Interval <= 0 {
			return &ledgererror.ValidationError{Field: "interval", Reason: fmt.Sprintf("interval must be positive, got %d", c.Interval)}
		}
	default:
		return &ledgererror.ValidationError{Field: "type", Reason: fmt.Sprintf("unsupported bucket type %s", cfg.Type())}
	}
	return nil
}
