// Package snapshot imports and exports the whole ledger as a YAML document
package snapshot

import (
	"fmt"

	"fjacquet/bucket-ledger/cmd/root"
	"fjacquet/bucket-ledger/internal/logging"
	"fjacquet/bucket-ledger/internal/store"
	"fjacquet/bucket-ledger/internal/validation"

	"github.com/spf13/cobra"
)

// Cmd represents the snapshot command
var Cmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Import or export the ledger as YAML",
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a YAML snapshot into the database",
	Long: `Validate a YAML snapshot and insert its groups, buckets, versions, transactions,
movements and recurring templates in one transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the database content to a YAML snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	Cmd.AddCommand(importCmd, exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidSnapshotPath(args[0]); err != nil {
		return err
	}
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	summary, err := store.ImportSnapshot(cmd.Context(), c.GetStore(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(),
		"Imported %d groups, %d buckets, %d versions, %d transactions, %d splits, %d movements, %d recurring\n",
		summary.Groups, summary.Buckets, summary.Versions, summary.Transactions,
		summary.Splits, summary.Movements, summary.Recurring)
	c.GetLogger().Info("Imported snapshot",
		logging.Field{Key: logging.FieldInputFile, Value: args[0]},
		logging.Field{Key: logging.FieldCount, Value: summary.Buckets})
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidSnapshotPath(args[0]); err != nil {
		return err
	}
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	if err := store.ExportSnapshot(cmd.Context(), c.GetStore(), args[0]); err != nil {
		return err
	}
	c.GetLogger().Info("Exported snapshot", logging.Field{Key: logging.FieldOutputFile, Value: args[0]})
	fmt.Fprintf(cmd.OutOrStdout(), "Exported snapshot to %s\n", args[0])
	return nil
}
