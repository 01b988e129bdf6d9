package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/models"

	"gorm.io/gorm"
)

// GormStore implements Store on top of a gorm database handle
type GormStore struct {
	db     *gorm.DB
	logger logging.Logger
}

// NewGormStore creates a store over an opened database
func NewGormStore(db *gorm.DB, logger logging.Logger) *GormStore {
	return &GormStore{db: db, logger: logger}
}

// Close releases the underlying database connections
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}

func (s *GormStore) persistenceError(operation string, err error) error {
	s.logger.WithError(err).Error("Store write failed",
		logging.Field{Key: logging.FieldOperation, Value: operation})
	return &ledgererror.PersistenceError{Operation: operation, Err: err}
}

func (s *GormStore) ListBucketGroups(ctx context.Context) ([]models.BucketGroup, error) {
	var records []bucketGroupRecord
	if err := s.db.WithContext(ctx).Order("position").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list bucket groups: %w", err)
	}
	groups := make([]models.BucketGroup, len(records))
	for i, r := range records {
		groups[i] = models.BucketGroup{ID: r.ID, Name: r.Name, Position: r.Position}
	}
	return groups, nil
}

func (s *GormStore) CreateBucketGroup(ctx context.Context, group *models.BucketGroup) (int64, error) {
	r := bucketGroupRecord{ID: group.ID, Name: group.Name, Position: group.Position}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return 0, s.persistenceError("create bucket group", err)
	}
	group.ID = r.ID
	return r.ID, nil
}

func (s *GormStore) ListBuckets(ctx context.Context) ([]models.Bucket, error) {
	var records []bucketRecord
	if err := s.db.WithContext(ctx).Order("group_id, name, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	buckets := make([]models.Bucket, len(records))
	for i, r := range records {
		buckets[i] = r.toModel()
	}
	return buckets, nil
}

func (s *GormStore) GetBucket(ctx context.Context, id int64) (models.Bucket, error) {
	var r bucketRecord
	err := s.db.WithContext(ctx).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Bucket{}, &ledgererror.NotFoundError{Entity: "bucket", ID: id}
	}
	if err != nil {
		return models.Bucket{}, fmt.Errorf("get bucket %d: %w", id, err)
	}
	return r.toModel(), nil
}

func (s *GormStore) CreateBucket(ctx context.Context, bucket *models.Bucket) (int64, error) {
	r := bucketFromModel(*bucket)
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return 0, s.persistenceError("create bucket", err)
	}
	bucket.ID = r.ID
	return r.ID, nil
}

func (s *GormStore) UpdateBucket(ctx context.Context, bucket models.Bucket) error {
	r := bucketFromModel(bucket)
	res := s.db.WithContext(ctx).Select("*").Updates(&r)
	if res.Error != nil {
		return s.persistenceError("update bucket", res.Error)
	}
	if res.RowsAffected == 0 {
		return &ledgererror.NotFoundError{Entity: "bucket", ID: bucket.ID}
	}
	return nil
}

func (s *GormStore) DeleteBucket(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bucket_id = ?", id).Delete(&bucketVersionRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&bucketRecord{}, id).Error
	})
	if err != nil {
		return s.persistenceError("delete bucket", err)
	}
	return nil
}

func (s *GormStore) ListVersions(ctx context.Context, bucketID int64) ([]models.BucketVersion, error) {
	var records []bucketVersionRecord
	err := s.db.WithContext(ctx).
		Where("bucket_id = ?", bucketID).
		Order("valid_from DESC, version DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list versions of bucket %d: %w", bucketID, err)
	}
	versions := make([]models.BucketVersion, 0, len(records))
	for _, r := range records {
		v, err := r.toModel()
		if err != nil {
			return nil, fmt.Errorf("bucket %d version %d: %w", bucketID, r.Version, err)
		}
		versions = append(versions, v)
	}
	return versions, nil
}

func (s *GormStore) CreateOrUpdateBucketVersion(ctx context.Context, version *models.BucketVersion) (int64, error) {
	r := versionFromModel(*version)
	// Save inserts when the primary key is zero and updates every column otherwise
	if err := s.db.WithContext(ctx).Save(&r).Error; err != nil {
		return 0, s.persistenceError("save bucket version", err)
	}
	version.ID = r.ID
	return r.ID, nil
}

func (s *GormStore) ListBudgetedTransactions(ctx context.Context, bucketID int64, from time.Time) ([]models.DatedAmount, error) {
	q := s.db.WithContext(ctx).
		Table("budgeted_transactions AS bt").
		Select("bt.amount AS amount, t.transaction_date AS occurred_at").
		Joins("JOIN bank_transactions AS t ON t.id = bt.transaction_id").
		Where("bt.bucket_id = ?", bucketID)
	if !from.IsZero() {
		q = q.Where("t.transaction_date >= ?", from)
	}
	var rows []datedAmountRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list budgeted transactions of bucket %d: %w", bucketID, err)
	}
	return toDatedAmounts(rows), nil
}

func (s *GormStore) ListAllBudgetedTransactions(ctx context.Context) ([]models.BudgetedTransaction, error) {
	var records []budgetedTransactionRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list budgeted transactions: %w", err)
	}
	out := make([]models.BudgetedTransaction, len(records))
	for i, r := range records {
		out[i] = models.BudgetedTransaction{ID: r.ID, TransactionID: r.TransactionID, BucketID: r.BucketID, Amount: r.Amount}
	}
	return out, nil
}

func (s *GormStore) CreateBudgetedTransaction(ctx context.Context, bt *models.BudgetedTransaction) (int64, error) {
	r := budgetedTransactionRecord{ID: bt.ID, TransactionID: bt.TransactionID, BucketID: bt.BucketID, Amount: bt.Amount}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return 0, s.persistenceError("create budgeted transaction", err)
	}
	bt.ID = r.ID
	return r.ID, nil
}

func (s *GormStore) ListBucketMovements(ctx context.Context, bucketID int64, from time.Time) ([]models.DatedAmount, error) {
	q := s.db.WithContext(ctx).
		Model(&bucketMovementRecord{}).
		Select("amount, movement_date AS occurred_at").
		Where("bucket_id = ?", bucketID)
	if !from.IsZero() {
		q = q.Where("movement_date >= ?", from)
	}
	var rows []datedAmountRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list movements of bucket %d: %w", bucketID, err)
	}
	return toDatedAmounts(rows), nil
}

func (s *GormStore) ListAllBucketMovements(ctx context.Context) ([]models.BucketMovement, error) {
	var records []bucketMovementRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	out := make([]models.BucketMovement, len(records))
	for i, r := range records {
		out[i] = models.BucketMovement{ID: r.ID, BucketID: r.BucketID, Amount: r.Amount, MovementDate: r.MovementDate.UTC()}
	}
	return out, nil
}

func (s *GormStore) CreateBucketMovement(ctx context.Context, movement *models.BucketMovement) (int64, error) {
	r := bucketMovementRecord{
		ID:           movement.ID,
		BucketID:     movement.BucketID,
		Amount:       movement.Amount,
		MovementDate: movement.MovementDate,
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return 0, s.persistenceError("create bucket movement", err)
	}
	movement.ID = r.ID
	return r.ID, nil
}

func (s *GormStore) ListBankTransactions(ctx context.Context, from, to time.Time) ([]models.BankTransaction, error) {
	q := s.db.WithContext(ctx).Order("transaction_date, id")
	if !from.IsZero() {
		q = q.Where("transaction_date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("transaction_date < ?", to)
	}
	var records []bankTransactionRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list bank transactions: %w", err)
	}
	out := make([]models.BankTransaction, len(records))
	for i, r := range records {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *GormStore) CreateBankTransaction(ctx context.Context, tx *models.BankTransaction) (int64, error) {
	r := bankTransactionFromModel(*tx)
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return 0, s.persistenceError("create bank transaction", err)
	}
	tx.ID = r.ID
	return r.ID, nil
}

func (s *GormStore) OccurrenceKeyExists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&bankTransactionRecord{}).Where("occurrence_key = ?", key).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("look up occurrence key: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) ListRecurringTransactions(ctx context.Context) ([]models.RecurringBankTransaction, error) {
	var records []recurringTransactionRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list recurring transactions: %w", err)
	}
	out := make([]models.RecurringBankTransaction, len(records))
	for i, r := range records {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *GormStore) CreateRecurringTransaction(ctx context.Context, rt *models.RecurringBankTransaction) (int64, error) {
	r := recurringTransactionRecord{
		ID:                  rt.ID,
		AccountID:           rt.AccountID,
		RecurrenceType:      int(rt.RecurrenceType),
		RecurrenceInterval:  rt.RecurrenceInterval,
		FirstOccurrenceDate: rt.FirstOccurrenceDate,
		Payee:               rt.Payee,
		Memo:                rt.Memo,
		Amount:              rt.Amount,
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return 0, s.persistenceError("create recurring transaction", err)
	}
	rt.ID = r.ID
	return r.ID, nil
}

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, logger: s.logger})
	})
}

func toDatedAmounts(rows []datedAmountRow) []models.DatedAmount {
	out := make([]models.DatedAmount, len(rows))
	for i, r := range rows {
		out[i] = models.DatedAmount{Amount: r.Amount, Date: r.OccurredAt.UTC()}
	}
	return out
}
