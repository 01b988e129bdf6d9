// Package store persists ledger entities. GormStore is backed by SQLite through gorm,
// MockStore keeps everything in memory for tests.
package store

import (
	"context"
	"time"

	"fjacquet/bucket-ledger/internal/models"
)

// Store is the repository surface over raw ledger entities. Write methods return a
// *ledgererror.PersistenceError on failure; lookups of a single missing entity return a
// *ledgererror.NotFoundError.
type Store interface {
	ListBucketGroups(ctx context.Context) ([]models.BucketGroup, error)
	CreateBucketGroup(ctx context.Context, group *models.BucketGroup) (int64, error)

	ListBuckets(ctx context.Context) ([]models.Bucket, error)
	GetBucket(ctx context.Context, id int64) (models.Bucket, error)
	CreateBucket(ctx context.Context, bucket *models.Bucket) (int64, error)
	UpdateBucket(ctx context.Context, bucket models.Bucket) error
	// DeleteBucket removes the bucket together with its versions
	DeleteBucket(ctx context.Context, id int64) error

	ListVersions(ctx context.Context, bucketID int64) ([]models.BucketVersion, error)
	CreateOrUpdateBucketVersion(ctx context.Context, version *models.BucketVersion) (int64, error)

	// ListBudgetedTransactions returns the bucket's splits dated by their bank transaction.
	// A zero from returns the full history.
	ListBudgetedTransactions(ctx context.Context, bucketID int64, from time.Time) ([]models.DatedAmount, error)
	ListAllBudgetedTransactions(ctx context.Context) ([]models.BudgetedTransaction, error)
	CreateBudgetedTransaction(ctx context.Context, bt *models.BudgetedTransaction) (int64, error)

	// ListBucketMovements returns the bucket's movements. A zero from returns the full history.
	ListBucketMovements(ctx context.Context, bucketID int64, from time.Time) ([]models.DatedAmount, error)
	ListAllBucketMovements(ctx context.Context) ([]models.BucketMovement, error)
	CreateBucketMovement(ctx context.Context, movement *models.BucketMovement) (int64, error)

	// ListBankTransactions returns transactions dated in [from, to). Zero bounds are open.
	ListBankTransactions(ctx context.Context, from, to time.Time) ([]models.BankTransaction, error)
	CreateBankTransaction(ctx context.Context, tx *models.BankTransaction) (int64, error)
	OccurrenceKeyExists(ctx context.Context, key string) (bool, error)

	ListRecurringTransactions(ctx context.Context) ([]models.RecurringBankTransaction, error)
	CreateRecurringTransaction(ctx context.Context, rt *models.RecurringBankTransaction) (int64, error)

	// WithTx runs fn against a transactional view of the store. Returning an error from
	// fn rolls back every write made through that view.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
