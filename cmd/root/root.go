// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/bucket-ledger/internal/config"
	"fjacquet/bucket-ledger/internal/container"
	"fjacquet/bucket-ledger/internal/dateutils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	ConfigFile string
	Database   string
	Month      string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppContainer holds the wired services for the running command
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bucket-ledger",
		Short: "An envelope budgeting ledger computing what every bucket wants each month.",
		Long: `bucket-ledger keeps budget buckets, their effective-dated targets and the money
flowing through them. For any month it computes each bucket's balance, what it still
wants and how far it got towards its goal, and it can fund all buckets in one go.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to bucket-ledger!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.Warnf("Failed to close container: %v", err)
			}
			AppContainer = nil
		},
	}

	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches config.yaml)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Database, "db", "", "SQLite database path (overrides database.path)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Month, "month", "m", "", "Month to work on, yyyy-mm (default current month)")
}

func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if SharedFlags.Database != "" {
		cfg.Database.Path = SharedFlags.Database
	}

	if level, err := logrus.ParseLevel(strings.ToLower(cfg.Log.Level)); err == nil {
		Log.SetLevel(level)
	}
	if cfg.Log.Format == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	AppContainer = c
	return nil
}

// Month returns the month selected with --month, or the current month
func Month() (time.Time, error) {
	if SharedFlags.Month == "" {
		return dateutils.StartOfMonth(time.Now()), nil
	}
	m, err := dateutils.ParseMonth(SharedFlags.Month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --month %q: %w", SharedFlags.Month, err)
	}
	return m, nil
}

// GetContainer returns the container built for the running command
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application container is not initialized")
	}
	return AppContainer, nil
}
