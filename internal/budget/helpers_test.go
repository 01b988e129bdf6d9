package budget

import (
	"context"
	"testing"
	"time"

	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/models"
	"fjacquet/bucket-ledger/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	ctx    context.Context
	store  *store.MockStore
	logger *logging.MockLogger
	group  models.BucketGroup
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:    context.Background(),
		store:  store.NewMockStore(),
		logger: logging.NewMockLogger(),
		group:  models.BucketGroup{Name: "Household", Position: 1},
	}
	_, err := f.store.CreateBucketGroup(f.ctx, &f.group)
	require.NoError(t, err)
	return f
}

func (f *fixture) bucket(t *testing.T, name string, validFrom time.Time, cfg models.BucketConfig) models.Bucket {
	t.Helper()
	b := models.Bucket{GroupID: f.group.ID, Name: name, ValidFrom: validFrom}
	_, err := f.store.CreateBucket(f.ctx, &b)
	require.NoError(t, err)
	v := models.BucketVersion{BucketID: b.ID, Version: 1, ValidFrom: validFrom, Config: cfg}
	_, err = f.store.CreateOrUpdateBucketVersion(f.ctx, &v)
	require.NoError(t, err)
	return b
}

func (f *fixture) movement(t *testing.T, bucketID int64, amount string, date time.Time) {
	t.Helper()
	m := models.BucketMovement{BucketID: bucketID, Amount: dec(amount), MovementDate: date}
	_, err := f.store.CreateBucketMovement(f.ctx, &m)
	require.NoError(t, err)
}

func (f *fixture) expense(t *testing.T, bucketID int64, amount string, date time.Time) {
	t.Helper()
	tx := models.BankTransaction{AccountID: 1, TransactionDate: date, Amount: dec(amount)}
	_, err := f.store.CreateBankTransaction(f.ctx, &tx)
	require.NoError(t, err)
	bt := models.BudgetedTransaction{TransactionID: tx.ID, BucketID: bucketID, Amount: tx.Amount}
	_, err = f.store.CreateBudgetedTransaction(f.ctx, &bt)
	require.NoError(t, err)
}

func (f *fixture) calculator() *Calculator {
	return NewCalculator(f.store, 2, f.logger)
}
