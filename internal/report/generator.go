// Package report renders month overviews for people and spreadsheets.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/bucket-ledger/internal/budget"
	"fjacquet/bucket-ledger/internal/logging"

	"github.com/gocarina/gocsv"
)

// OverviewRow is one bucket line of a month overview
type OverviewRow struct {
	GroupID  int64  `csv:"group_id" json:"group_id"`
	Bucket   string `csv:"bucket" json:"bucket"`
	Type     string `csv:"type" json:"type"`
	Balance  string `csv:"balance" json:"balance"`
	In       string `csv:"in" json:"in"`
	Activity string `csv:"activity" json:"activity"`
	Want     string `csv:"want" json:"want"`
	Progress int    `csv:"progress" json:"progress"`
	Details  string `csv:"details" json:"details"`
}

// NewOverviewRows flattens computed bucket months into report rows. Amounts keep two decimals.
func NewOverviewRows(months []budget.BucketMonth) []OverviewRow {
	rows := make([]OverviewRow, 0, len(months))
	for _, m := range months {
		bucketType := "system"
		if m.Version.Config != nil {
			bucketType = m.Version.Config.Type().String()
		}
		rows = append(rows, OverviewRow{
			GroupID:  m.Bucket.GroupID,
			Bucket:   m.Bucket.Name,
			Type:     bucketType,
			Balance:  m.Balance.StringFixed(2),
			In:       m.In.StringFixed(2),
			Activity: m.Activity.StringFixed(2),
			Want:     m.Want.StringFixed(2),
			Progress: m.Progress.Percent,
			Details:  m.Progress.Details,
		})
	}
	return rows
}

// WriteOverviewCSV writes rows with a header line using delimiter between fields
func WriteOverviewCSV(w io.Writer, rows []OverviewRow, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// ReportGenerator renders overviews in the supported output formats
type ReportGenerator struct {
	logger    logging.Logger
	delimiter rune
}

// NewReportGenerator creates a generator; delimiter applies to CSV output
func NewReportGenerator(logger logging.Logger, delimiter rune) *ReportGenerator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &ReportGenerator{
		logger:    logging.ForComponent(logger, "report"),
		delimiter: delimiter,
	}
}

// GenerateReport renders rows as csv, json or xlsx
func (g *ReportGenerator) GenerateReport(rows []OverviewRow, format string) ([]byte, error) {
	switch format {
	case "csv":
		return g.generateCSVReport(rows)
	case "json":
		return g.generateJSONReport(rows)
	case "xlsx":
		return g.generateXLSXReport(rows)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateCSVReport(rows []OverviewRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteOverviewCSV(&buf, rows, g.delimiter); err != nil {
		g.logger.WithError(err).Error("Failed to write CSV report")
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) generateJSONReport(rows []OverviewRow) ([]byte, error) {
	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *ReportGenerator) generateXLSXReport(rows []OverviewRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteOverviewXLSX(&buf, rows); err != nil {
		g.logger.WithError(err).Error("Failed to write XLSX report")
		return nil, err
	}
	return buf.Bytes(), nil
}
