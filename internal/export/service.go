package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aeroaudit/flightcheck/internal/domain"
	"github.com/aeroaudit/flightcheck/internal/report"
)

// Service writes the derived clean and error datasets as XLSX workbooks.
type Service struct {
	exportDir string
	now       func() time.Time
}

// Option customizes the export service.
type Option func(*Service)

// WithExportDirectory overrides the output directory.
func WithExportDirectory(dir string) Option {
	return func(s *Service) {
		if strings.TrimSpace(dir) != "" {
			s.exportDir = filepath.Clean(dir)
		}
	}
}

// NewService creates an export service writing under the system temp
// directory by default.
func NewService(opts ...Option) *Service {
	service := &Service{
		exportDir: filepath.Join(os.TempDir(), "flightcheck-exports"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// errorMetaHeaders are prepended to the original columns in the error
// dataset.
var errorMetaHeaders = []string{"Category", "Reason", "Row Index", "Columns"}

// WriteWorkbooks writes one workbook for the clean rows and one for the
// error records, returning both paths.
func (s *Service) WriteWorkbooks(headers []string, output report.Output) (cleanPath, errorPath string, err error) {
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create export directory: %w", err)
	}

	stamp := s.now().UTC().Format("20060102T150405Z")
	cleanPath = filepath.Join(s.exportDir, fmt.Sprintf("clean_%s.xlsx", stamp))
	errorPath = filepath.Join(s.exportDir, fmt.Sprintf("errors_%s.xlsx", stamp))

	if err := s.writeCleanWorkbook(cleanPath, headers, output.CleanRows); err != nil {
		return "", "", err
	}
	if err := s.writeErrorWorkbook(errorPath, headers, output.ErrorRecords); err != nil {
		return "", "", err
	}
	return cleanPath, errorPath, nil
}

func (s *Service) writeCleanWorkbook(path string, headers []string, rows []domain.FlightRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := setRow(f, sheet, 1, toCells(headers)); err != nil {
		return err
	}

	for i, row := range rows {
		cells := make([]any, len(headers))
		for col, header := range headers {
			cells[col] = row.Value(header)
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save clean workbook: %w", err)
	}
	return nil
}

func (s *Service) writeErrorWorkbook(path string, headers []string, records []domain.ErrorRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	combined := append(append([]string{}, errorMetaHeaders...), headers...)
	if err := setRow(f, sheet, 1, toCells(combined)); err != nil {
		return err
	}

	for i, record := range records {
		cells := make([]any, 0, len(combined))
		cells = append(cells, string(record.Category), record.Reason)
		if record.RowIndex != nil {
			cells = append(cells, *record.RowIndex)
		} else {
			cells = append(cells, nil)
		}
		cells = append(cells, strings.Join(record.Columns, ", "))
		for _, header := range headers {
			cells = append(cells, record.Fields[header])
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save error workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNumber int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return fmt.Errorf("failed to compute cell coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNumber, err)
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, value := range values {
		cells[i] = value
	}
	return cells
}
