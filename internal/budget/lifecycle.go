package budget

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/models"
	"fjacquet/bucket-ledger/internal/store"
)

// CloseAction tells how a bucket was closed
type CloseAction int

const (
	// CloseDeactivated keeps the bucket and its history but hides it from the next month on
	CloseDeactivated CloseAction = iota + 1
	// CloseDeleted removes a bucket that never had any money flow
	CloseDeleted
)

func (a CloseAction) String() string {
	switch a {
	case CloseDeactivated:
		return "deactivated"
	case CloseDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("CloseAction(%d)", int(a))
	}
}

// BucketService manages the bucket lifecycle and its version chain
type BucketService struct {
	store  store.Store
	logger logging.Logger
}

// NewBucketService creates a service over store
func NewBucketService(s store.Store, logger logging.Logger) *BucketService {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &BucketService{store: s, logger: logging.ForComponent(logger, "buckets")}
}

// Visible reports whether bucket is listed in month
func Visible(bucket models.Bucket, month time.Time) bool {
	return bucket.IsVisibleIn(dateutils.StartOfMonth(month))
}

// CreateBucket stores bucket, valid from month, together with its first version.
// The bucket's group must exist.
func (s *BucketService) CreateBucket(ctx context.Context, bucket models.Bucket, cfg models.BucketConfig, month time.Time) (models.Bucket, error) {
	if err := prepareBucket(&bucket, cfg, month); err != nil {
		return models.Bucket{}, err
	}

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		groups, err := tx.ListBucketGroups(ctx)
		if err != nil {
			return err
		}
		if !slices.ContainsFunc(groups, func(g models.BucketGroup) bool { return g.ID == bucket.GroupID }) {
			return &ledgererror.NotFoundError{Entity: "group", ID: bucket.GroupID}
		}
		return createWithVersion(ctx, tx, &bucket, cfg)
	})
	if err != nil {
		return models.Bucket{}, err
	}
	s.logCreated(bucket, cfg)
	return bucket, nil
}

// CreateBucketInGroup stores bucket in the group called groupName, matched without
// regard to case. A missing group is appended after the existing ones in the same
// transaction, so a failed create leaves no empty group behind.
func (s *BucketService) CreateBucketInGroup(ctx context.Context, groupName string, bucket models.Bucket, cfg models.BucketConfig, month time.Time) (models.Bucket, error) {
	groupName = strings.TrimSpace(groupName)
	if groupName == "" {
		return models.Bucket{}, &ledgererror.ValidationError{Field: "group", Reason: "group name is required"}
	}
	if err := prepareBucket(&bucket, cfg, month); err != nil {
		return models.Bucket{}, err
	}

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		groupID, err := findOrCreateGroup(ctx, tx, groupName)
		if err != nil {
			return err
		}
		bucket.GroupID = groupID
		return createWithVersion(ctx, tx, &bucket, cfg)
	})
	if err != nil {
		return models.Bucket{}, err
	}
	s.logCreated(bucket, cfg)
	return bucket, nil
}

func prepareBucket(bucket *models.Bucket, cfg models.BucketConfig, month time.Time) error {
	bucket.Name = strings.TrimSpace(bucket.Name)
	if bucket.Name == "" {
		return &ledgererror.ValidationError{Field: "name", Reason: "bucket name is required"}
	}
	if err := models.ValidateConfig(cfg); err != nil {
		return err
	}
	bucket.ID = 0
	bucket.ValidFrom = dateutils.StartOfMonth(month)
	bucket.IsInactive = false
	bucket.IsInactiveFrom = time.Time{}
	return nil
}

func createWithVersion(ctx context.Context, tx store.Store, bucket *models.Bucket, cfg models.BucketConfig) error {
	if _, err := tx.CreateBucket(ctx, bucket); err != nil {
		return err
	}
	version := models.BucketVersion{BucketID: bucket.ID, Version: 1, ValidFrom: bucket.ValidFrom, Config: cfg}
	_, err := tx.CreateOrUpdateBucketVersion(ctx, &version)
	return err
}

func findOrCreateGroup(ctx context.Context, tx store.Store, name string) (int64, error) {
	groups, err := tx.ListBucketGroups(ctx)
	if err != nil {
		return 0, err
	}
	for _, g := range groups {
		if strings.EqualFold(g.Name, name) {
			return g.ID, nil
		}
	}
	g := models.BucketGroup{Name: name, Position: len(groups) + 1}
	return tx.CreateBucketGroup(ctx, &g)
}

func (s *BucketService) logCreated(bucket models.Bucket, cfg models.BucketConfig) {
	s.logger.Info("Created bucket",
		logging.Field{Key: logging.FieldBucketID, Value: bucket.ID},
		logging.Field{Key: logging.FieldBucketName, Value: bucket.Name},
		logging.Field{Key: logging.FieldBucketType, Value: cfg.Type().String()})
}

// Configure applies cfg from month on. A change in the month of the latest version
// rewrites it, a later month appends a new version and an earlier month is rejected.
func (s *BucketService) Configure(ctx context.Context, bucketID int64, cfg models.BucketConfig, month time.Time, notes string) (models.BucketVersion, error) {
	if err := models.ValidateConfig(cfg); err != nil {
		return models.BucketVersion{}, err
	}
	month = dateutils.StartOfMonth(month)

	var saved models.BucketVersion
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.GetBucket(ctx, bucketID); err != nil {
			return err
		}
		versions, err := tx.ListVersions(ctx, bucketID)
		if err != nil {
			return err
		}
		latest, ok := LatestVersion(versions)
		if !ok {
			return &ledgererror.NotFoundError{Entity: "bucket version", ID: bucketID, Month: month}
		}

		switch {
		case latest.ValidFrom.Equal(month):
			saved = latest
		case latest.ValidFrom.Before(month):
			saved = models.BucketVersion{BucketID: bucketID, Version: latest.Version + 1, ValidFrom: month}
		default:
			return &ledgererror.ValidationError{
				Field: "month",
				Reason: fmt.Sprintf("bucket %d already has a version valid from %s",
					bucketID, dateutils.FormatMonth(latest.ValidFrom)),
			}
		}
		saved.Config = cfg
		saved.Notes = notes
		_, err = tx.CreateOrUpdateBucketVersion(ctx, &saved)
		return err
	})
	if err != nil {
		return models.BucketVersion{}, err
	}

	s.logger.Info("Configured bucket",
		logging.Field{Key: logging.FieldBucketID, Value: bucketID},
		logging.Field{Key: logging.FieldVersion, Value: saved.Version},
		logging.Field{Key: logging.FieldMonth, Value: dateutils.FormatMonth(month)})
	return saved, nil
}

// Close retires a bucket whose balance is zero in month. Buckets with history are
// deactivated from the following month, the others are deleted with their versions.
func (s *BucketService) Close(ctx context.Context, bucketID int64, month time.Time) (CloseAction, error) {
	month = dateutils.StartOfMonth(month)

	var action CloseAction
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		bucket, err := tx.GetBucket(ctx, bucketID)
		if err != nil {
			return err
		}
		if bucket.IsSystem {
			return &ledgererror.ValidationError{Field: "bucket", Reason: fmt.Sprintf("system bucket %q cannot be closed", bucket.Name)}
		}
		if bucket.IsInactive {
			return &ledgererror.ValidationError{Field: "bucket", Reason: fmt.Sprintf("bucket %q is already closed", bucket.Name)}
		}

		budgeted, err := tx.ListBudgetedTransactions(ctx, bucketID, time.Time{})
		if err != nil {
			return err
		}
		movements, err := tx.ListBucketMovements(ctx, bucketID, time.Time{})
		if err != nil {
			return err
		}
		if balance := Fold(month, budgeted, movements).Balance; !balance.IsZero() {
			return &ledgererror.ValidationError{
				Field:  "balance",
				Reason: fmt.Sprintf("bucket %q still holds %s", bucket.Name, balance),
			}
		}

		if len(budgeted) > 0 || len(movements) > 0 {
			bucket.IsInactive = true
			bucket.IsInactiveFrom = dateutils.NextMonth(month)
			action = CloseDeactivated
			return tx.UpdateBucket(ctx, bucket)
		}
		action = CloseDeleted
		return tx.DeleteBucket(ctx, bucketID)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Closed bucket",
		logging.Field{Key: logging.FieldBucketID, Value: bucketID},
		logging.Field{Key: logging.FieldAction, Value: action.String()})
	return action, nil
}
