package budget

import (
	"context"
	"fmt"
	"time"

	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerReader is the part of the store the aggregator reads from
type LedgerReader interface {
	ListBudgetedTransactions(ctx context.Context, bucketID int64, from time.Time) ([]models.DatedAmount, error)
	ListBucketMovements(ctx context.Context, bucketID int64, from time.Time) ([]models.DatedAmount, error)
}

// Figures are the money flows of a bucket for one month
type Figures struct {
	// Balance is everything credited to the bucket up to the end of the month
	Balance decimal.Decimal
	// In sums the positive amounts dated in the month
	In decimal.Decimal
	// Activity sums the negative amounts dated in the month
	Activity decimal.Decimal
}

// Aggregator computes Figures from budgeted transactions and movements
type Aggregator struct {
	store LedgerReader
}

// NewAggregator creates an aggregator reading from store
func NewAggregator(store LedgerReader) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate loads the bucket's history and folds it into the figures of month
func (a *Aggregator) Aggregate(ctx context.Context, bucketID int64, month time.Time) (Figures, error) {
	budgeted, err := a.store.ListBudgetedTransactions(ctx, bucketID, time.Time{})
	if err != nil {
		return Figures{}, fmt.Errorf("error loading budgeted transactions of bucket %d: %w", bucketID, err)
	}
	movements, err := a.store.ListBucketMovements(ctx, bucketID, time.Time{})
	if err != nil {
		return Figures{}, fmt.Errorf("error loading movements of bucket %d: %w", bucketID, err)
	}
	return Fold(month, budgeted, movements), nil
}

// Fold computes the figures of month from already loaded amounts
func Fold(month time.Time, sources ...[]models.DatedAmount) Figures {
	start := dateutils.StartOfMonth(month)
	end := dateutils.NextMonth(start)

	f := Figures{Balance: decimal.Zero, In: decimal.Zero, Activity: decimal.Zero}
	for _, amounts := range sources {
		for _, a := range amounts {
			if !a.Date.Before(end) {
				continue
			}
			f.Balance = f.Balance.Add(a.Amount)
			if a.Date.Before(start) {
				continue
			}
			switch a.Amount.Sign() {
			case 1:
				f.In = f.In.Add(a.Amount)
			case -1:
				f.Activity = f.Activity.Add(a.Amount)
			}
		}
	}
	return f
}
