package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/aeroaudit/flightcheck/internal/domain"
	"github.com/aeroaudit/flightcheck/internal/icao"
	"github.com/aeroaudit/flightcheck/internal/repository"
)

type stubLookup struct {
	airports map[string]domain.Airport
	calls    int
}

func (s *stubLookup) Lookup(ctx context.Context, code string) (domain.Airport, error) {
	s.calls++
	if airport, ok := s.airports[code]; ok {
		return airport, nil
	}
	return domain.Airport{}, icao.ErrAirportNotFound
}

type stubLogRepo struct {
	recorded []domain.ValidationLogEntry
	batches  int
	listErr  error
}

func (s *stubLogRepo) RecordBatch(ctx context.Context, entries []domain.ValidationLogEntry) error {
	s.batches++
	s.recorded = append(s.recorded, entries...)
	return nil
}

func (s *stubLogRepo) List(ctx context.Context, uploadID uuid.UUID, limit, offset int) ([]domain.ValidationLogEntry, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var matched []domain.ValidationLogEntry
	for _, entry := range s.recorded {
		if entry.UploadID == uploadID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

const cleanUpload = `Date,A/C Registration,Flight No,A/C Type,ATD (UTC) Block Off,ATA (UTC) Block On,Origin ICAO,Destination ICAO,Block Off Fuel,Block On Fuel,Fuel Consumption
01-02-2024,G-ABCD,BA100,A320,08:00,09:10,EGLL,EHAM,1000,300,700
01-02-2024,G-ABCD,BA101,A320,11:00,12:05,EHAM,EGLL,950,280,670
`

func blockBalanceParams() domain.RunParams {
	return domain.RunParams{
		DateConvention: domain.DateDayFirst,
		FuelMethod:     domain.FuelMethodBlockBalance,
	}
}

func newTestService(logRepo *stubLogRepo) *Service {
	lookup := &stubLookup{airports: map[string]domain.Airport{}}
	var repo repository.ValidationLogRepository
	if logRepo != nil {
		repo = logRepo
	}
	return NewService(lookup, nil, nil, nil, nil, repo)
}

func TestValidateCleanUpload(t *testing.T) {
	service := newTestService(nil)

	result, err := service.Validate(context.Background(), Request{
		FileName:  "flights.csv",
		Params:    blockBalanceParams(),
		Data:      strings.NewReader(cleanUpload),
		Reference: map[string]string{"EGLL": "United Kingdom", "EHAM": "Netherlands"},
	})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if !result.Valid {
		t.Fatalf("expected valid run, report %+v", result.Report)
	}
	if result.TotalRows != 2 || result.FilteredRows != 2 || result.ErrorRows != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.CleanRows) != 2 {
		t.Fatalf("expected 2 clean rows, got %d", len(result.CleanRows))
	}
	if result.UploadID == uuid.Nil {
		t.Fatalf("expected an assigned upload id")
	}
	if len(result.CompressedReport) == 0 {
		t.Fatalf("expected compressed report payload")
	}
}

func TestValidateMissingColumnHalts(t *testing.T) {
	service := newTestService(nil)
	upload := `Date,A/C Registration,Flight No
01-02-2024,G-ABCD,BA100
`

	result, err := service.Validate(context.Background(), Request{
		FileName: "flights.csv",
		Params:   blockBalanceParams(),
		Data:     strings.NewReader(upload),
	})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if result.Valid {
		t.Fatalf("expected invalid run for missing columns")
	}
	if len(result.CleanRows) != 0 {
		t.Fatalf("expected no processed rows on halt, got %d", len(result.CleanRows))
	}
	if result.Report.Summary.Categories[string(domain.CategoryColumnMissing)] == 0 {
		t.Fatalf("expected ColumnMissing findings, got %+v", result.Report.Summary)
	}
}

func TestValidateFlightPrefixFilter(t *testing.T) {
	service := newTestService(nil)
	upload := `Date,A/C Registration,Flight No,A/C Type,ATD (UTC) Block Off,ATA (UTC) Block On,Origin ICAO,Destination ICAO,Block Off Fuel,Block On Fuel,Fuel Consumption
01-02-2024,G-ABCD,BA100,A320,08:00,09:10,EGLL,EHAM,1000,300,700
01-02-2024,D-EFGH,LH44,A321,09:00,10:10,EDDF,EGLL,900,250,650
`

	params := blockBalanceParams()
	params.FlightPrefix = "BA"
	result, err := service.Validate(context.Background(), Request{
		FileName:  "flights.csv",
		Params:    params,
		Data:      strings.NewReader(upload),
		Reference: map[string]string{"EGLL": "United Kingdom", "EHAM": "Netherlands", "EDDF": "Germany"},
	})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if result.TotalRows != 2 || result.FilteredRows != 1 {
		t.Fatalf("expected the LH flight filtered out, got %+v", result)
	}
	if len(result.CleanRows) != 1 {
		t.Fatalf("expected 1 clean row, got %d", len(result.CleanRows))
	}
}

func TestValidateRecordsFindings(t *testing.T) {
	logRepo := &stubLogRepo{}
	service := newTestService(logRepo)
	upload := `Date,A/C Registration,Flight No,A/C Type,ATD (UTC) Block Off,ATA (UTC) Block On,Origin ICAO,Destination ICAO,Block Off Fuel,Block On Fuel,Fuel Consumption
01-02-2024,G-ABCD,BA100,A320,08:00,09:10,EGLL,EHAM,1000,300,650
`

	uploadID := uuid.New()
	result, err := service.Validate(context.Background(), Request{
		UploadID:  uploadID,
		FileName:  "flights.csv",
		Params:    blockBalanceParams(),
		Data:      strings.NewReader(upload),
		Reference: map[string]string{"EGLL": "United Kingdom", "EHAM": "Netherlands"},
	})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if !result.Valid {
		t.Fatalf("fuel findings must not invalidate the run")
	}
	if result.ErrorRows != 1 {
		t.Fatalf("expected 1 error row, got %d", result.ErrorRows)
	}
	if len(logRepo.recorded) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(logRepo.recorded))
	}
	if logRepo.batches != 1 {
		t.Fatalf("expected findings written as one batch, got %d", logRepo.batches)
	}
	entry := logRepo.recorded[0]
	if entry.UploadID != uploadID || entry.Category != domain.CategoryFuel {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}
}

func TestValidateRejectsEmptyInput(t *testing.T) {
	service := newTestService(nil)

	if _, err := service.Validate(context.Background(), Request{FileName: "", Data: strings.NewReader("x")}); err == nil {
		t.Fatalf("expected error for missing file name")
	}
	if _, err := service.Validate(context.Background(), Request{FileName: "flights.csv", Data: strings.NewReader("")}); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := service.Validate(context.Background(), Request{FileName: "flights.txt", Data: strings.NewReader("x")}); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
