package report

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

// Builder turns a populated error tracker into the run's output artifacts:
// the verbose report, the compacted transport variant, and the clean/error
// dataset split. Building consumes the tracker and resets it so a fresh run
// starts clean.
type Builder struct {
	compressor Compressor
}

// NewBuilder wires a builder with the transport compression collaborator.
// A nil compressor skips the compressed variant.
func NewBuilder(compressor Compressor) *Builder {
	return &Builder{compressor: compressor}
}

// Output bundles everything a validation run produces.
type Output struct {
	Report            domain.ErrorReport
	Compact           domain.ErrorReport
	CompressedCompact []byte
	CleanRows         []domain.FlightRow
	ErrorRecords      []domain.ErrorRecord
}

// Build aggregates the tracker state. Rows must carry their original
// indices; file level findings reference no row.
func (b *Builder) Build(tracker *domain.ErrorTracker, rows []domain.FlightRow) (Output, error) {
	byIndex := make(map[int]domain.FlightRow, len(rows))
	for _, row := range rows {
		byIndex[row.OriginalIndex] = row
	}

	report := domain.ErrorReport{
		Summary: domain.ReportSummary{
			TotalErrors: tracker.TotalErrors(),
			ErrorRows:   len(tracker.ErrorRows()),
			Categories:  make(map[string]int),
		},
		RowsData: make(map[int]map[string]any),
	}

	var errorRecords []domain.ErrorRecord

	for _, category := range tracker.Categories() {
		entries := tracker.Entries(category)
		report.Summary.Categories[string(category)] = len(entries)

		grouped := make(map[string][]int)
		seenReasons := make(map[string]struct{})
		var reasons []string
		for _, entry := range entries {
			if _, seen := seenReasons[entry.Reason]; !seen {
				seenReasons[entry.Reason] = struct{}{}
				reasons = append(reasons, entry.Reason)
			}
			if entry.RowIndex != nil {
				grouped[entry.Reason] = appendRowOnce(grouped[entry.Reason], *entry.RowIndex)
				if _, done := report.RowsData[*entry.RowIndex]; !done {
					if row, found := byIndex[*entry.RowIndex]; found {
						report.RowsData[*entry.RowIndex] = snapshotRow(row)
					}
				}
			}

			record := domain.ErrorRecord{
				Category: entry.Category,
				Reason:   entry.Reason,
				RowIndex: entry.RowIndex,
				Columns:  entry.Columns,
			}
			if entry.RowIndex != nil {
				record.Fields = report.RowsData[*entry.RowIndex]
			}
			errorRecords = append(errorRecords, record)
		}

		sort.Strings(reasons)
		reportCategory := domain.ReportCategory{Name: string(category)}
		for _, reason := range reasons {
			rowIndices := grouped[reason]
			sort.Ints(rowIndices)
			reportCategory.Errors = append(reportCategory.Errors, domain.ReportGroup{
				Reason: reason,
				Rows:   rowIndices,
			})
		}
		report.Categories = append(report.Categories, reportCategory)
	}

	var cleanRows []domain.FlightRow
	for _, row := range rows {
		if !tracker.RowHasError(row.OriginalIndex) {
			cleanRows = append(cleanRows, row)
		}
	}

	output := Output{
		Report:       report,
		Compact:      report.Compact(),
		CleanRows:    cleanRows,
		ErrorRecords: errorRecords,
	}

	if b.compressor != nil {
		payload, err := json.Marshal(output.Compact)
		if err != nil {
			return Output{}, fmt.Errorf("failed to serialize compact report: %w", err)
		}
		compressed, err := b.compressor.Compress(payload)
		if err != nil {
			return Output{}, fmt.Errorf("failed to compress compact report: %w", err)
		}
		output.CompressedCompact = compressed
	}

	tracker.Reset()
	return output, nil
}

func appendRowOnce(rows []int, index int) []int {
	for _, existing := range rows {
		if existing == index {
			return rows
		}
	}
	return append(rows, index)
}

// snapshotRow coerces a row's field values into serializable scalars.
// Numbers are rounded to 3 decimal places and dates truncated to a
// date-only representation.
func snapshotRow(row domain.FlightRow) map[string]any {
	snapshot := make(map[string]any, len(row.Values))
	for column, value := range row.Values {
		snapshot[column] = snapshotValue(value)
	}
	return snapshot
}

func snapshotValue(value any) any {
	switch v := value.(type) {
	case float64:
		return math.Round(v*1000) / 1000
	case float32:
		return math.Round(float64(v)*1000) / 1000
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return value
	}
}
