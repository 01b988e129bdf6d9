// Package container provides dependency injection for the bucket-ledger application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/bucket-ledger/internal/budget"
	"fjacquet/bucket-ledger/internal/config"
	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/recurrence"
	"fjacquet/bucket-ledger/internal/report"
	"fjacquet/bucket-ledger/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation.
type Container struct {
	logger logging.Logger
	config *config.Config
	store  store.Store
	closer func() error

	calculator  *budget.Calculator
	distributor *budget.Distributor
	buckets     *budget.BucketService
	recurring   *recurrence.Processor
	reports     *report.ReportGenerator
}

// NewContainer opens the configured database and wires every service on top of it.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	db, err := store.Open(cfg.Database.Path, cfg.Database.LogMode)
	if err != nil {
		return nil, fmt.Errorf("error opening database %s: %w", cfg.Database.Path, err)
	}
	gormStore := store.NewGormStore(db, logger)

	c := NewContainerWithStore(cfg, logger, gormStore)
	c.closer = gormStore.Close

	logger.Info("Container initialized successfully",
		logging.Field{Key: logging.FieldDatabasePath, Value: cfg.Database.Path})
	return c, nil
}

// NewContainerWithStore wires the services on top of an existing store
func NewContainerWithStore(cfg *config.Config, logger logging.Logger, s store.Store) *Container {
	calculator := budget.NewCalculator(s, cfg.Budget.Parallelism, logger)
	return &Container{
		logger:      logger,
		config:      cfg,
		store:       s,
		calculator:  calculator,
		distributor: budget.NewDistributor(calculator, s, logger),
		buckets:     budget.NewBucketService(s, logger),
		recurring:   recurrence.NewProcessor(s, logger),
		reports:     report.NewReportGenerator(logger, cfg.DelimiterRune()),
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the entity store
func (c *Container) GetStore() store.Store {
	return c.store
}

func (c *Container) GetCalculator() *budget.Calculator {
	return c.calculator
}

func (c *Container) GetDistributor() *budget.Distributor {
	return c.distributor
}

func (c *Container) GetBucketService() *budget.BucketService {
	return c.buckets
}

func (c *Container) GetRecurringProcessor() *recurrence.Processor {
	return c.recurring
}

func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}

// Close releases the database connection, if the container opened one.
func (c *Container) Close() error {
	if c.closer != nil {
		if err := c.closer(); err != nil {
			return fmt.Errorf("error closing store: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
