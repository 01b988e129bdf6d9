// Package budget holds the calculation engine: it resolves the bucket configuration
// effective for a month, aggregates the bucket's money flows, derives what the bucket
// still wants and how far it has progressed, and distributes funds to buckets in need.
package budget

import (
	"context"
	"fmt"
	"time"

	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/models"
)

// VersionLister is the part of the store the resolver reads from
type VersionLister interface {
	ListVersions(ctx context.Context, bucketID int64) ([]models.BucketVersion, error)
}

// VersionResolver selects the bucket version effective for a month
type VersionResolver struct {
	store VersionLister
}

// NewVersionResolver creates a resolver reading versions from store
func NewVersionResolver(store VersionLister) *VersionResolver {
	return &VersionResolver{store: store}
}

// Resolve returns the version with the greatest ValidFrom not after month.
// A bucket without such a version yields a *ledgererror.NotFoundError.
func (r *VersionResolver) Resolve(ctx context.Context, bucketID int64, month time.Time) (models.BucketVersion, error) {
	month = dateutils.StartOfMonth(month)
	versions, err := r.store.ListVersions(ctx, bucketID)
	if err != nil {
		return models.BucketVersion{}, fmt.Errorf("error loading versions of bucket %d: %w", bucketID, err)
	}
	return EffectiveVersion(bucketID, versions, month)
}

// EffectiveVersion picks the effective version from an unordered list
func EffectiveVersion(bucketID int64, versions []models.BucketVersion, month time.Time) (models.BucketVersion, error) {
	var (
		best  models.BucketVersion
		found bool
	)
	for _, v := range versions {
		if v.ValidFrom.After(month) {
			continue
		}
		if !found || v.ValidFrom.After(best.ValidFrom) ||
			(v.ValidFrom.Equal(best.ValidFrom) && v.Version > best.Version) {
			best = v
			found = true
		}
	}
	if !found {
		return models.BucketVersion{}, &ledgererror.NotFoundError{Entity: "bucket version", ID: bucketID, Month: month}
	}
	return best, nil
}

// LatestVersion returns the version with the greatest ValidFrom regardless of month
func LatestVersion(versions []models.BucketVersion) (models.BucketVersion, bool) {
	var (
		latest models.BucketVersion
		found  bool
	)
	for _, v := range versions {
		if !found || v.ValidFrom.After(latest.ValidFrom) ||
			(v.ValidFrom.Equal(latest.ValidFrom) && v.Version > latest.Version) {
			latest = v
			found = true
		}
	}
	return latest, found
}
