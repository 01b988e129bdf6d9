package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is a transaction as it appears on an account statement
type BankTransaction struct {
	ID              int64
	AccountID       int64
	TransactionDate time.Time
	Payee           string
	Memo            string
	Amount          decimal.Decimal
	// OccurrenceKey identifies transactions materialized from a recurring template
	OccurrenceKey string
}

// BudgetedTransaction assigns a part of a bank transaction to a bucket. The splits of
// one bank transaction sum up to its amount.
type BudgetedTransaction struct {
	ID            int64
	TransactionID int64
	BucketID      int64
	Amount        decimal.Decimal
}

// BucketMovement is a manual transfer into (positive) or out of (negative) a bucket
type BucketMovement struct {
	ID           int64
	BucketID     int64
	Amount       decimal.Decimal
	MovementDate time.Time
}

// DatedAmount is the projection the aggregator works on: a signed amount and its date
type DatedAmount struct {
	Amount decimal.Decimal
	Date   time.Time
}
