// Package source reads claims exports (CSV, XLSX or Parquet) into raw
// records keyed by header name.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gyeh/claimstats/internal/model"
)

// Format identifies an export file type.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// RequiredColumns must be present in every export header.
var RequiredColumns = []string{model.ColClaimNumber, model.ColCoverage}

// Table is a fully loaded export.
type Table struct {
	Format  Format
	Columns []string
	Records []model.RawRecord
	// BlankRows counts rows with no non-blank cell; they are dropped.
	BlankRows int64
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported export type %q", filepath.Ext(path))
	}
}

// Load reads the export at path, dispatching on its extension, and checks
// that the required columns are present.
func Load(ctx context.Context, path string) (*Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var t *Table
	switch format {
	case FormatCSV:
		t, err = LoadCSV(ctx, path)
	case FormatXLSX:
		t, err = LoadXLSX(ctx, path, XLSXOptions{})
	case FormatParquet:
		t, err = LoadParquet(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	if err := ValidateColumns(t.Columns); err != nil {
		return nil, err
	}
	return t, nil
}

// ValidateColumns checks that every required column is in the header.
func ValidateColumns(columns []string) error {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// ColumnReport splits the known columns into those present in and missing
// from a header, and lists header columns the engine ignores.
type ColumnReport struct {
	Present []string
	Missing []string
	Unknown []string
}

// CheckColumns compares a header against the columns the engine reads.
func CheckColumns(columns []string) ColumnReport {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	known := make(map[string]bool)
	var r ColumnReport
	for _, c := range model.KnownColumns() {
		known[c] = true
		if present[c] {
			r.Present = append(r.Present, c)
		} else {
			r.Missing = append(r.Missing, c)
		}
	}
	for _, c := range columns {
		if !known[c] {
			r.Unknown = append(r.Unknown, c)
		}
	}
	return r
}

// builder turns header + cell slices into records.
type builder struct {
	table   *Table
	headers []string
}

func newBuilder(format Format, header []string) *builder {
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
	}
	return &builder{
		table:   &Table{Format: format, Columns: headers},
		headers: headers,
	}
}

func (b *builder) add(cells []string) {
	rec := make(model.RawRecord, len(b.headers))
	blank := true
	for i, h := range b.headers {
		if h == "" || i >= len(cells) {
			continue
		}
		rec[h] = cells[i]
		if strings.TrimSpace(cells[i]) != "" {
			blank = false
		}
	}
	if blank {
		b.table.BlankRows++
		return
	}
	b.table.Records = append(b.table.Records, rec)
}
