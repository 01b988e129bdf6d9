// Package validation checks command line arguments before any work is done.
package validation

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// OutputFormats are the formats an overview can be printed in
var OutputFormats = []string{"table", "csv", "json", "xlsx"}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	if slices.Contains(OutputFormats, format) {
		return nil
	}
	return fmt.Errorf("unsupported output format: %s. Supported formats are %s",
		format, strings.Join(OutputFormats, ", "))
}

// IsValidSnapshotPath checks that path names a YAML file
func IsValidSnapshotPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("snapshot path cannot be empty")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return nil
	default:
		return fmt.Errorf("snapshot must be a .yaml or .yml file: %s", path)
	}
}
