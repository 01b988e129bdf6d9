package budget

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelism bounds concurrent bucket computations when none is configured
const DefaultParallelism = 4

// Reader is everything the calculator needs from the store
type Reader interface {
	VersionLister
	LedgerReader
	ListBuckets(ctx context.Context) ([]models.Bucket, error)
}

// BucketMonth is the computed state of one bucket in one month
type BucketMonth struct {
	Bucket  models.Bucket
	Version models.BucketVersion
	Month   time.Time
	Figures
	Want     decimal.Decimal
	Progress Progress
}

// Calculator runs the per-bucket pipeline: version, figures, want, progress
type Calculator struct {
	buckets     Reader
	resolver    *VersionResolver
	aggregator  *Aggregator
	parallelism int
	logger      logging.Logger
}

// NewCalculator creates a calculator over store. A parallelism below 1 uses DefaultParallelism.
func NewCalculator(store Reader, parallelism int, logger logging.Logger) *Calculator {
	if parallelism < 1 {
		parallelism = DefaultParallelism
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Calculator{
		buckets:     store,
		resolver:    NewVersionResolver(store),
		aggregator:  NewAggregator(store),
		parallelism: parallelism,
		logger:      logging.ForComponent(logger, "calculator"),
	}
}

// Compute returns the figures of bucket for month. Closed buckets want nothing and
// system buckets carry no configuration.
func (c *Calculator) Compute(ctx context.Context, bucket models.Bucket, month time.Time) (BucketMonth, error) {
	month = dateutils.StartOfMonth(month)
	result := BucketMonth{Bucket: bucket, Month: month, Want: decimal.Zero}

	figures, err := c.aggregator.Aggregate(ctx, bucket.ID, month)
	if err != nil {
		return BucketMonth{}, err
	}
	result.Figures = figures

	if bucket.IsSystem {
		return result, nil
	}

	version, err := c.resolver.Resolve(ctx, bucket.ID, month)
	if err != nil {
		return BucketMonth{}, err
	}
	result.Version = version

	if bucket.IsActiveIn(month) {
		result.Want = Want(version.Config, month, figures)
		result.Progress = RenderProgress(version.Config, month, figures.Balance, result.Want, figures.Activity)
	}

	c.logger.Debug("Computed bucket month",
		logging.Field{Key: logging.FieldBucketID, Value: bucket.ID},
		logging.Field{Key: logging.FieldMonth, Value: dateutils.FormatMonth(month)},
		logging.Field{Key: logging.FieldBalance, Value: figures.Balance.String()},
		logging.Field{Key: logging.FieldWant, Value: result.Want.String()})
	return result, nil
}

// Overview computes every bucket visible in month, ordered by group and name.
// The first failure cancels the remaining computations.
func (c *Calculator) Overview(ctx context.Context, month time.Time) ([]BucketMonth, error) {
	month = dateutils.StartOfMonth(month)
	buckets, err := c.buckets.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing buckets: %w", err)
	}

	visible := make([]models.Bucket, 0, len(buckets))
	for _, b := range buckets {
		if Visible(b, month) {
			visible = append(visible, b)
		}
	}

	results := make([]BucketMonth, len(visible))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for i, b := range visible {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := c.Compute(gctx, b, month)
			if err != nil {
				return fmt.Errorf("bucket %q: %w", b.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Bucket.GroupID != results[j].Bucket.GroupID {
			return results[i].Bucket.GroupID < results[j].Bucket.GroupID
		}
		return results[i].Bucket.Name < results[j].Bucket.Name
	})
	return results, nil
}
