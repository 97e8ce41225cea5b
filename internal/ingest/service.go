package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/aeroaudit/flightcheck/internal/domain"
	"github.com/aeroaudit/flightcheck/internal/icao"
	"github.com/aeroaudit/flightcheck/internal/report"
	"github.com/aeroaudit/flightcheck/internal/repository"
	"github.com/aeroaudit/flightcheck/internal/validation"
)

// Service runs the full pipeline over an uploaded flight log: parse, filter,
// validate, report, and persist findings for audit.
type Service struct {
	lookup        icao.AirportLookup
	disambiguator icao.CountryDisambiguator
	invalidCodes  repository.InvalidCodeRepository
	airports      repository.AirportRepository
	aliases       repository.CountryAliasRepository
	logRepo       repository.ValidationLogRepository
	builder       *report.Builder
}

// NewService creates a new validation service.
func NewService(
	lookup icao.AirportLookup,
	disambiguator icao.CountryDisambiguator,
	invalidCodes repository.InvalidCodeRepository,
	airports repository.AirportRepository,
	aliases repository.CountryAliasRepository,
	logRepo repository.ValidationLogRepository,
) *Service {
	return &Service{
		lookup:        lookup,
		disambiguator: disambiguator,
		invalidCodes:  invalidCodes,
		airports:      airports,
		aliases:       aliases,
		logRepo:       logRepo,
		builder:       report.NewBuilder(report.NewGzipCompressor()),
	}
}

// Request describes one validation run input.
type Request struct {
	UploadID  uuid.UUID
	FileName  string
	Params    domain.RunParams
	Data      io.Reader
	Reference map[string]string
}

// Result returns the run outcome back to callers.
type Result struct {
	UploadID         uuid.UUID            `json:"upload_id"`
	Valid            bool                 `json:"is_valid"`
	TotalRows        int                  `json:"total_rows"`
	FilteredRows     int                  `json:"filtered_rows"`
	ErrorRows        int                  `json:"error_rows"`
	Report           domain.ErrorReport   `json:"report"`
	CompressedReport []byte               `json:"compressed_report,omitempty"`
	Headers          []string             `json:"-"`
	Output           report.Output        `json:"-"`
	CleanRows        []domain.FlightRow   `json:"-"`
	ErrorRecords     []domain.ErrorRecord `json:"-"`
}

// Validate parses the upload and runs the validation state machine. A
// schema failure yields is_valid=false with no processed output; every
// other finding accumulates into the report without failing the run.
func (s *Service) Validate(ctx context.Context, req Request) (Result, error) {
	result := Result{UploadID: req.UploadID}

	if strings.TrimSpace(req.FileName) == "" {
		return result, errors.New("file name is required")
	}
	if req.Data == nil {
		return result, errors.New("data reader is required")
	}
	if result.UploadID == uuid.Nil {
		result.UploadID = uuid.New()
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return result, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return result, errors.New("file is empty")
	}

	table, err := ParseTable(req.FileName, payload)
	if err != nil {
		return result, err
	}
	if len(table.Headers) == 0 {
		return result, errors.New("no header row detected")
	}

	rows := BuildRows(table)
	result.TotalRows = len(rows)
	rows = FilterRows(rows, req.Params)
	result.FilteredRows = len(rows)

	resolver := icao.NewResolver(s.lookup, s.disambiguator, s.invalidCodes, s.airports, s.aliases)
	resolver.Prepare(ctx)
	if len(req.Reference) > 0 {
		resolver.SeedReference(req.Reference)
	}

	runner := validation.NewRunner(resolver, s.builder)
	run, err := runner.Run(ctx, table.Headers, rows, req.Params)
	if err != nil {
		return result, err
	}

	result.Valid = run.Valid
	result.Headers = table.Headers
	result.Output = run.Output
	result.Report = run.Output.Report
	result.CompressedReport = run.Output.CompressedCompact
	result.CleanRows = run.Output.CleanRows
	result.ErrorRecords = run.Output.ErrorRecords
	result.ErrorRows = run.Output.Report.Summary.ErrorRows

	s.recordFindings(ctx, result.UploadID, req.FileName, run.Output.ErrorRecords)

	return result, nil
}

// recordFindings persists the run's findings for audit in one transactional
// batch, best effort.
func (s *Service) recordFindings(ctx context.Context, uploadID uuid.UUID, fileName string, records []domain.ErrorRecord) {
	if s.logRepo == nil || len(records) == 0 {
		return
	}
	entries := make([]domain.ValidationLogEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, domain.ValidationLogEntry{
			UploadID: uploadID,
			FileName: fileName,
			RowIndex: record.RowIndex,
			Category: record.Category,
			Reason:   record.Reason,
		})
	}
	if err := s.logRepo.RecordBatch(ctx, entries); err != nil {
		log.Printf("[VALIDATE] failed to record audit log for upload %s: %v", uploadID, err)
	}
}
