package recurrence

import (
	"context"
	"fmt"
	"time"

	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/models"
	"fjacquet/bucket-ledger/internal/store"
)

// Result reports what a materialization run wrote
type Result struct {
	Created []models.BankTransaction
	Skipped int
}

// Processor stores the occurrences of every recurring transaction for a month,
// skipping occurrences that were stored by an earlier run.
type Processor struct {
	store  store.Store
	logger logging.Logger
}

// NewProcessor creates a processor writing through s
func NewProcessor(s store.Store, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Processor{store: s, logger: logging.ForComponent(logger, "recurring")}
}

// Materialize stores the occurrences of month in one transaction
func (p *Processor) Materialize(ctx context.Context, month time.Time) (Result, error) {
	month = dateutils.StartOfMonth(month)

	var result Result
	err := p.store.WithTx(ctx, func(tx store.Store) error {
		result = Result{}
		templates, err := tx.ListRecurringTransactions(ctx)
		if err != nil {
			return fmt.Errorf("error listing recurring transactions: %w", err)
		}

		for _, rt := range templates {
			occurrences, err := Transactions(rt, month)
			if err != nil {
				return fmt.Errorf("recurring transaction %d: %w", rt.ID, err)
			}
			for bt := range occurrences {
				exists, err := tx.OccurrenceKeyExists(ctx, bt.OccurrenceKey)
				if err != nil {
					return err
				}
				if exists {
					p.logger.Debug("Occurrence already stored",
						logging.Field{Key: logging.FieldRecurringID, Value: rt.ID},
						logging.Field{Key: logging.FieldOccurrence, Value: dateutils.ToISODate(bt.TransactionDate)})
					result.Skipped++
					continue
				}
				if _, err := tx.CreateBankTransaction(ctx, &bt); err != nil {
					return err
				}
				result.Created = append(result.Created, bt)
			}
		}
		return nil
	})
	if err != nil {
		p.logger.WithError(err).Error("Materialization rolled back",
			logging.Field{Key: logging.FieldMonth, Value: dateutils.FormatMonth(month)})
		return Result{}, err
	}

	p.logger.Info("Materialized recurring transactions",
		logging.Field{Key: logging.FieldMonth, Value: dateutils.FormatMonth(month)},
		logging.Field{Key: logging.FieldCount, Value: len(result.Created)},
		logging.Field{Key: logging.FieldSkipped, Value: result.Skipped})
	return result, nil
}
