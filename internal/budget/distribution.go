package budget

import (
	"context"
	"errors"
	"time"

	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/models"
	"fjacquet/bucket-ledger/internal/store"

	"github.com/shopspring/decimal"
)

// Transactor opens a transactional view of the store
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx store.Store) error) error
}

// Distributor funds every bucket that still wants money in one atomic batch.
// Callers serialize distributions for the same budget.
type Distributor struct {
	calculator *Calculator
	store      Transactor
	logger     logging.Logger
}

// NewDistributor creates a distributor writing movements through store
func NewDistributor(calculator *Calculator, store Transactor, logger logging.Logger) *Distributor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Distributor{
		calculator: calculator,
		store:      store,
		logger:     logging.ForComponent(logger, "distributor"),
	}
}

// Distribute computes the overview of month and funds it
func (d *Distributor) Distribute(ctx context.Context, month time.Time) ([]models.BucketMovement, error) {
	rows, err := d.calculator.Overview(ctx, month)
	if err != nil {
		return nil, err
	}
	return d.DistributeFigures(ctx, month, rows)
}

// DistributeFigures creates one movement per active, non-system row with a positive want.
// Either every movement is committed or none is. Figures are not refreshed afterwards.
func (d *Distributor) DistributeFigures(ctx context.Context, month time.Time, rows []BucketMonth) ([]models.BucketMovement, error) {
	month = dateutils.StartOfMonth(month)

	var pending []models.BucketMovement
	for _, row := range rows {
		if row.Bucket.IsSystem || !row.Bucket.IsActiveIn(month) || !row.Want.IsPositive() {
			continue
		}
		pending = append(pending, models.BucketMovement{
			BucketID:     row.Bucket.ID,
			Amount:       row.Want,
			MovementDate: month,
		})
	}
	if len(pending) == 0 {
		d.logger.Info("Nothing to distribute",
			logging.Field{Key: logging.FieldMonth, Value: dateutils.FormatMonth(month)})
		return nil, nil
	}

	var created []models.BucketMovement
	err := d.store.WithTx(ctx, func(tx store.Store) error {
		created = created[:0]
		for _, m := range pending {
			if _, err := tx.CreateBucketMovement(ctx, &m); err != nil {
				return err
			}
			created = append(created, m)
		}
		return nil
	})
	if err != nil {
		var persistence *ledgererror.PersistenceError
		if !errors.As(err, &persistence) {
			err = &ledgererror.PersistenceError{Operation: "distribute budget", Err: err}
		}
		d.logger.WithError(err).Error("Distribution rolled back",
			logging.Field{Key: logging.FieldMonth, Value: dateutils.FormatMonth(month)})
		return nil, err
	}

	total := decimal.Zero
	for _, m := range created {
		total = total.Add(m.Amount)
	}
	d.logger.Info("Distributed budget",
		logging.Field{Key: logging.FieldMonth, Value: dateutils.FormatMonth(month)},
		logging.Field{Key: logging.FieldCount, Value: len(created)},
		logging.Field{Key: logging.FieldAmount, Value: total.StringFixed(2)})
	return created, nil
}
