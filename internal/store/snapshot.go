package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/fileutils"
	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Snapshot is the YAML document used to move a whole ledger in and out of a store.
// Entities keep their identifiers so that splits and movements can reference buckets.
type Snapshot struct {
	Groups       []models.BucketGroup  `yaml:"groups"`
	Buckets      []SnapshotBucket      `yaml:"buckets"`
	Transactions []SnapshotTransaction `yaml:"transactions,omitempty"`
	Movements    []SnapshotMovement    `yaml:"movements,omitempty"`
	Recurring    []SnapshotRecurring   `yaml:"recurring,omitempty"`
}

// SnapshotBucket is a bucket together with its version chain
type SnapshotBucket struct {
	models.Bucket `yaml:",inline"`
	Versions      []SnapshotVersion `yaml:"versions"`
}

// SnapshotVersion is the flat form of a bucket version
type SnapshotVersion struct {
	Version   int             `yaml:"version"`
	ValidFrom time.Time       `yaml:"valid_from"`
	Type      string          `yaml:"type"`
	Interval  int             `yaml:"interval,omitempty"`
	Amount    decimal.Decimal `yaml:"amount,omitempty"`
	Date      time.Time       `yaml:"date,omitempty"`
	Notes     string          `yaml:"notes,omitempty"`
}

// SnapshotTransaction is a bank transaction with its bucket splits
type SnapshotTransaction struct {
	ID            int64           `yaml:"id"`
	AccountID     int64           `yaml:"account_id"`
	Date          time.Time       `yaml:"date"`
	Payee         string          `yaml:"payee,omitempty"`
	Memo          string          `yaml:"memo,omitempty"`
	Amount        decimal.Decimal `yaml:"amount"`
	OccurrenceKey string          `yaml:"occurrence_key,omitempty"`
	Splits        []SnapshotSplit `yaml:"splits,omitempty"`
}

// SnapshotSplit assigns part of a transaction to a bucket
type SnapshotSplit struct {
	BucketID int64           `yaml:"bucket_id"`
	Amount   decimal.Decimal `yaml:"amount"`
}

type SnapshotMovement struct {
	BucketID int64           `yaml:"bucket_id"`
	Amount   decimal.Decimal `yaml:"amount"`
	Date     time.Time       `yaml:"date"`
}

type SnapshotRecurring struct {
	ID              int64           `yaml:"id"`
	AccountID       int64           `yaml:"account_id"`
	Recurrence      string          `yaml:"recurrence"`
	Interval        int             `yaml:"interval"`
	FirstOccurrence time.Time       `yaml:"first_occurrence"`
	Payee           string          `yaml:"payee,omitempty"`
	Memo            string          `yaml:"memo,omitempty"`
	Amount          decimal.Decimal `yaml:"amount"`
}

// ImportSummary counts the entities written by an import
type ImportSummary struct {
	Groups       int
	Buckets      int
	Versions     int
	Transactions int
	Splits       int
	Movements    int
	Recurring    int
}

// DecodeSnapshot parses and validates a YAML snapshot
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil && err != io.EOF {
		return nil, fmt.Errorf("error parsing snapshot: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Validate checks references between entities and that the splits of every
// transaction add up to its amount.
func (s *Snapshot) Validate() error {
	groups := make(map[int64]bool, len(s.Groups))
	for _, g := range s.Groups {
		groups[g.ID] = true
	}
	buckets := make(map[int64]bool, len(s.Buckets))
	for _, b := range s.Buckets {
		if !groups[b.GroupID] {
			return &ledgererror.ValidationError{
				Field:  "buckets.group_id",
				Reason: fmt.Sprintf("bucket %q references unknown group %d", b.Name, b.GroupID),
			}
		}
		if len(b.Versions) == 0 {
			return &ledgererror.ValidationError{
				Field:  "buckets.versions",
				Reason: fmt.Sprintf("bucket %q has no version", b.Name),
			}
		}
		for _, v := range b.Versions {
			cfg, err := v.config()
			if err != nil {
				return err
			}
			if err := models.ValidateConfig(cfg); err != nil {
				var verr *ledgererror.ValidationError
				if errors.As(err, &verr) {
					return &ledgererror.ValidationError{
						Field:  "buckets.versions." + verr.Field,
						Reason: fmt.Sprintf("bucket %q version %d: %s", b.Name, v.Version, verr.Reason),
					}
				}
				return err
			}
		}
		buckets[b.ID] = true
	}

	for _, tx := range s.Transactions {
		if len(tx.Splits) == 0 {
			continue
		}
		sum := decimal.Zero
		for _, split := range tx.Splits {
			if !buckets[split.BucketID] {
				return &ledgererror.ValidationError{
					Field:  "transactions.splits.bucket_id",
					Reason: fmt.Sprintf("transaction %d references unknown bucket %d", tx.ID, split.BucketID),
				}
			}
			sum = sum.Add(split.Amount)
		}
		if !sum.Equal(tx.Amount) {
			return &ledgererror.ValidationError{
				Field:  "transactions.splits",
				Reason: fmt.Sprintf("splits of transaction %d sum to %s, expected %s", tx.ID, sum, tx.Amount),
			}
		}
	}

	for _, m := range s.Movements {
		if !buckets[m.BucketID] {
			return &ledgererror.ValidationError{
				Field:  "movements.bucket_id",
				Reason: fmt.Sprintf("movement references unknown bucket %d", m.BucketID),
			}
		}
	}

	for _, rt := range s.Recurring {
		if _, err := models.ParseRecurrenceType(rt.Recurrence); err != nil {
			return &ledgererror.ValidationError{Field: "recurring.recurrence", Reason: err.Error()}
		}
		if rt.Interval <= 0 {
			return &ledgererror.ValidationError{
				Field:  "recurring.interval",
				Reason: fmt.Sprintf("recurring transaction %d has interval %d", rt.ID, rt.Interval),
			}
		}
	}
	return nil
}

// ImportSnapshot reads the YAML snapshot at path and writes it into s in one transaction
func ImportSnapshot(ctx context.Context, s Store, path string) (ImportSummary, error) {
	f, err := fileutils.OpenFile(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("error opening snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	snap, err := DecodeSnapshot(f)
	if err != nil {
		return ImportSummary{}, err
	}
	return Import(ctx, s, snap)
}

// Import writes a decoded snapshot into s. Nothing is written when any insert fails.
func Import(ctx context.Context, s Store, snap *Snapshot) (ImportSummary, error) {
	var summary ImportSummary
	err := s.WithTx(ctx, func(tx Store) error {
		summary = ImportSummary{}
		for i := range snap.Groups {
			g := snap.Groups[i]
			if _, err := tx.CreateBucketGroup(ctx, &g); err != nil {
				return err
			}
			summary.Groups++
		}

		for _, sb := range snap.Buckets {
			b := sb.Bucket
			b.ValidFrom = dateutils.StartOfMonth(b.ValidFrom.UTC())
			if b.IsInactive {
				b.IsInactiveFrom = dateutils.StartOfMonth(b.IsInactiveFrom.UTC())
			}
			if _, err := tx.CreateBucket(ctx, &b); err != nil {
				return err
			}
			summary.Buckets++
			for _, sv := range sb.Versions {
				v, err := sv.toModel(b.ID)
				if err != nil {
					return err
				}
				if _, err := tx.CreateOrUpdateBucketVersion(ctx, &v); err != nil {
					return err
				}
				summary.Versions++
			}
		}

		for _, st := range snap.Transactions {
			bt := models.BankTransaction{
				ID:              st.ID,
				AccountID:       st.AccountID,
				TransactionDate: st.Date.UTC(),
				Payee:           st.Payee,
				Memo:            st.Memo,
				Amount:          st.Amount,
				OccurrenceKey:   st.OccurrenceKey,
			}
			if _, err := tx.CreateBankTransaction(ctx, &bt); err != nil {
				return err
			}
			summary.Transactions++
			for _, split := range st.Splits {
				budgeted := models.BudgetedTransaction{TransactionID: bt.ID, BucketID: split.BucketID, Amount: split.Amount}
				if _, err := tx.CreateBudgetedTransaction(ctx, &budgeted); err != nil {
					return err
				}
				summary.Splits++
			}
		}

		for _, sm := range snap.Movements {
			m := models.BucketMovement{BucketID: sm.BucketID, Amount: sm.Amount, MovementDate: sm.Date.UTC()}
			if _, err := tx.CreateBucketMovement(ctx, &m); err != nil {
				return err
			}
			summary.Movements++
		}

		for _, sr := range snap.Recurring {
			recurrence, _ := models.ParseRecurrenceType(sr.Recurrence)
			rt := models.RecurringBankTransaction{
				ID:                  sr.ID,
				AccountID:           sr.AccountID,
				RecurrenceType:      recurrence,
				RecurrenceInterval:  sr.Interval,
				FirstOccurrenceDate: sr.FirstOccurrence.UTC(),
				Payee:               sr.Payee,
				Memo:                sr.Memo,
				Amount:              sr.Amount,
			}
			if _, err := tx.CreateRecurringTransaction(ctx, &rt); err != nil {
				return err
			}
			summary.Recurring++
		}
		return nil
	})
	if err != nil {
		return ImportSummary{}, err
	}
	return summary, nil
}

// ExportSnapshot writes the full content of s to path as YAML
func ExportSnapshot(ctx context.Context, s Store, path string) error {
	snap, err := Export(ctx, s)
	if err != nil {
		return err
	}

	f, err := fileutils.CreateFile(path)
	if err != nil {
		return fmt.Errorf("error creating snapshot: %w", err)
	}
	if err := EncodeSnapshot(f, snap); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// EncodeSnapshot writes snap as YAML
func EncodeSnapshot(w io.Writer, snap *Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("error encoding snapshot: %w", err)
	}
	return enc.Close()
}

// Export reads every entity of s into a snapshot
func Export(ctx context.Context, s Store) (*Snapshot, error) {
	snap := &Snapshot{}

	groups, err := s.ListBucketGroups(ctx)
	if err != nil {
		return nil, err
	}
	snap.Groups = groups

	buckets, err := s.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range buckets {
		versions, err := s.ListVersions(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		sb := SnapshotBucket{Bucket: b}
		// stored newest first, exported oldest first
		for i := len(versions) - 1; i >= 0; i-- {
			sb.Versions = append(sb.Versions, versionToSnapshot(versions[i]))
		}
		snap.Buckets = append(snap.Buckets, sb)
	}

	transactions, err := s.ListBankTransactions(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	splits, err := s.ListAllBudgetedTransactions(ctx)
	if err != nil {
		return nil, err
	}
	splitsByTx := make(map[int64][]SnapshotSplit)
	for _, bt := range splits {
		splitsByTx[bt.TransactionID] = append(splitsByTx[bt.TransactionID],
			SnapshotSplit{BucketID: bt.BucketID, Amount: bt.Amount})
	}
	for _, tx := range transactions {
		snap.Transactions = append(snap.Transactions, SnapshotTransaction{
			ID:            tx.ID,
			AccountID:     tx.AccountID,
			Date:          tx.TransactionDate,
			Payee:         tx.Payee,
			Memo:          tx.Memo,
			Amount:        tx.Amount,
			OccurrenceKey: tx.OccurrenceKey,
			Splits:        splitsByTx[tx.ID],
		})
	}

	movements, err := s.ListAllBucketMovements(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range movements {
		snap.Movements = append(snap.Movements, SnapshotMovement{BucketID: m.BucketID, Amount: m.Amount, Date: m.MovementDate})
	}

	recurring, err := s.ListRecurringTransactions(ctx)
	if err != nil {
		return nil, err
	}
	for _, rt := range recurring {
		snap.Recurring = append(snap.Recurring, SnapshotRecurring{
			ID:              rt.ID,
			AccountID:       rt.AccountID,
			Recurrence:      rt.RecurrenceType.String(),
			Interval:        rt.RecurrenceInterval,
			FirstOccurrence: rt.FirstOccurrenceDate,
			Payee:           rt.Payee,
			Memo:            rt.Memo,
			Amount:          rt.Amount,
		})
	}
	return snap, nil
}

func (sv SnapshotVersion) config() (models.BucketConfig, error) {
	bucketType, err := models.ParseBucketType(sv.Type)
	if err != nil {
		return nil, &ledgererror.ValidationError{Field: "buckets.versions.type", Reason: err.Error()}
	}
	cfg, err := models.ConfigParams{
		Type:         bucketType,
		IntParam:     sv.Interval,
		DecimalParam: sv.Amount,
		DateParam:    sv.Date.UTC(),
	}.Config()
	if err != nil {
		return nil, &ledgererror.ValidationError{Field: "buckets.versions.type", Reason: err.Error()}
	}
	return cfg, nil
}

// toModel builds the stored version; valid_from is kept at month granularity
func (sv SnapshotVersion) toModel(bucketID int64) (models.BucketVersion, error) {
	cfg, err := sv.config()
	if err != nil {
		return models.BucketVersion{}, err
	}
	return models.BucketVersion{
		BucketID:  bucketID,
		Version:   sv.Version,
		ValidFrom: dateutils.StartOfMonth(sv.ValidFrom.UTC()),
		Config:    cfg,
		Notes:     sv.Notes,
	}, nil
}

func versionToSnapshot(v models.BucketVersion) SnapshotVersion {
	p := models.Params(v.Config)
	return SnapshotVersion{
		Version:   v.Version,
		ValidFrom: v.ValidFrom,
		Type:      p.Type.String(),
		Interval:  p.IntParam,
		Amount:    p.DecimalParam,
		Date:      p.DateParam,
		Notes:     v.Notes,
	}
}
