package store

import (
	"time"

	"fjacquet/bucket-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Amounts are stored as DECIMAL(20,8) and scanned back into decimal.Decimal, never float.

type bucketGroupRecord struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"size:128;not null"`
	Position int    `gorm:"not null"`
}

func (bucketGroupRecord) TableName() string { return "bucket_groups" }

type bucketRecord struct {
	ID             int64  `gorm:"primaryKey"`
	GroupID        int64  `gorm:"index;not null"`
	Name           string `gorm:"size:128;not null"`
	ColorCode      string `gorm:"size:32"`
	TextColorCode  string `gorm:"size:32"`
	ValidFrom      time.Time
	IsInactive     bool
	IsInactiveFrom time.Time
	IsSystem       bool
}

func (bucketRecord) TableName() string { return "buckets" }

type bucketVersionRecord struct {
	ID           int64           `gorm:"primaryKey"`
	BucketID     int64           `gorm:"uniqueIndex:bucket_version;not null"`
	Version      int             `gorm:"uniqueIndex:bucket_version;not null"`
	ValidFrom    time.Time       `gorm:"index;not null"`
	BucketType   int             `gorm:"not null"`
	IntParam     int             `gorm:"not null;default:0"`
	DecimalParam decimal.Decimal `gorm:"type:DECIMAL(20,8);not null;default:0"`
	DateParam    time.Time
	Notes        string `gorm:"size:1024"`
}

func (bucketVersionRecord) TableName() string { return "bucket_versions" }

type bankTransactionRecord struct {
	ID              int64           `gorm:"primaryKey"`
	AccountID       int64           `gorm:"index;not null"`
	TransactionDate time.Time       `gorm:"index;not null"`
	Payee           string          `gorm:"size:255"`
	Memo            string          `gorm:"size:1024"`
	Amount          decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
	OccurrenceKey   *string         `gorm:"size:36;uniqueIndex"`
}

func (bankTransactionRecord) TableName() string { return "bank_transactions" }

type budgetedTransactionRecord struct {
	ID            int64           `gorm:"primaryKey"`
	TransactionID int64           `gorm:"index;not null"`
	BucketID      int64           `gorm:"index;not null"`
	Amount        decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
}

func (budgetedTransactionRecord) TableName() string { return "budgeted_transactions" }

type bucketMovementRecord struct {
	ID           int64           `gorm:"primaryKey"`
	BucketID     int64           `gorm:"index;not null"`
	Amount       decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
	MovementDate time.Time       `gorm:"index;not null"`
}

func (bucketMovementRecord) TableName() string { return "bucket_movements" }

type recurringTransactionRecord struct {
	ID                  int64           `gorm:"primaryKey"`
	AccountID           int64           `gorm:"index;not null"`
	RecurrenceType      int             `gorm:"not null"`
	RecurrenceInterval  int             `gorm:"not null"`
	FirstOccurrenceDate time.Time       `gorm:"not null"`
	Payee               string          `gorm:"size:255"`
	Memo                string          `gorm:"size:1024"`
	Amount              decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
}

func (recurringTransactionRecord) TableName() string { return "recurring_bank_transactions" }

// datedAmountRow is the projection scanned from joins and movement queries
type datedAmountRow struct {
	Amount     decimal.Decimal
	OccurredAt time.Time
}

func (r bucketRecord) toModel() models.Bucket {
	return models.Bucket{
		ID:             r.ID,
		GroupID:        r.GroupID,
		Name:           r.Name,
		ColorCode:      r.ColorCode,
		TextColorCode:  r.TextColorCode,
		ValidFrom:      r.ValidFrom.UTC(),
		IsInactive:     r.IsInactive,
		IsInactiveFrom: r.IsInactiveFrom.UTC(),
		IsSystem:       r.IsSystem,
	}
}

func bucketFromModel(b models.Bucket) bucketRecord {
	return bucketRecord{
		ID:             b.ID,
		GroupID:        b.GroupID,
		Name:           b.Name,
		ColorCode:      b.ColorCode,
		TextColorCode:  b.TextColorCode,
		ValidFrom:      b.ValidFrom,
		IsInactive:     b.IsInactive,
		IsInactiveFrom: b.IsInactiveFrom,
		IsSystem:       b.IsSystem,
	}
}

func (r bucketVersionRecord) toModel() (models.BucketVersion, error) {
	cfg, err := models.ConfigParams{
		Type:         models.BucketType(r.BucketType),
		IntParam:     r.IntParam,
		DecimalParam: r.DecimalParam,
		DateParam:    r.DateParam.UTC(),
	}.Config()
	if err != nil {
		return models.BucketVersion{}, err
	}
	return models.BucketVersion{
		ID:        r.ID,
		BucketID:  r.BucketID,
		Version:   r.Version,
		ValidFrom: r.ValidFrom.UTC(),
		Config:    cfg,
		Notes:     r.Notes,
	}, nil
}

func versionFromModel(v models.BucketVersion) bucketVersionRecord {
	p := models.Params(v.Config)
	return bucketVersionRecord{
		ID:           v.ID,
		BucketID:     v.BucketID,
		Version:      v.Version,
		ValidFrom:    v.ValidFrom,
		BucketType:   int(p.Type),
		IntParam:     p.IntParam,
		DecimalParam: p.DecimalParam,
		DateParam:    p.DateParam,
		Notes:        v.Notes,
	}
}

func (r bankTransactionRecord) toModel() models.BankTransaction {
	tx := models.BankTransaction{
		ID:              r.ID,
		AccountID:       r.AccountID,
		TransactionDate: r.TransactionDate.UTC(),
		Payee:           r.Payee,
		Memo:            r.Memo,
		Amount:          r.Amount,
	}
	if r.OccurrenceKey != nil {
		tx.OccurrenceKey = *r.OccurrenceKey
	}
	return tx
}

func bankTransactionFromModel(t models.BankTransaction) bankTransactionRecord {
	r := bankTransactionRecord{
		ID:              t.ID,
		AccountID:       t.AccountID,
		TransactionDate: t.TransactionDate,
		Payee:           t.Payee,
		Memo:            t.Memo,
		Amount:          t.Amount,
	}
	if t.OccurrenceKey != "" {
		key := t.OccurrenceKey
		r.OccurrenceKey = &key
	}
	return r
}

func (r recurringTransactionRecord) toModel() models.RecurringBankTransaction {
	return models.RecurringBankTransaction{
		ID:                  r.ID,
		AccountID:           r.AccountID,
		RecurrenceType:      models.RecurrenceType(r.RecurrenceType),
		RecurrenceInterval:  r.RecurrenceInterval,
		FirstOccurrenceDate: r.FirstOccurrenceDate.UTC(),
		Payee:               r.Payee,
		Memo:                r.Memo,
		Amount:              r.Amount,
	}
}
