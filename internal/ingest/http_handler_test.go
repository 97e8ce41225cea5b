package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

func multipartUpload(t *testing.T, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, content := range files {
		part, err := writer.CreateFormFile(field, field+".csv")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close form writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHandlerReferencePartSeedsResolver(t *testing.T) {
	// The lookup stub knows no airports, so only the reference sheet can
	// make the codes resolve.
	service := newTestService(nil)
	handler := NewHTTPHandler(service, nil)

	reference := "ICAO,Country\nEGLL,United Kingdom\nEHAM,Netherlands\n"
	body, contentType := multipartUpload(t,
		map[string]string{"file": cleanUpload, "reference": reference},
		map[string]string{"fuelMethod": "block_balance"},
	)

	req := httptest.NewRequest(http.MethodPost, "/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response validateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.Valid {
		t.Fatalf("expected valid run, got %+v", response.Report.Summary)
	}
	if count := response.Report.Summary.Categories[string(domain.CategoryICAO)]; count != 0 {
		t.Fatalf("reference sheet must satisfy the codes, got %d ICAO findings", count)
	}
}

func TestHandlerWithoutReferenceFlagsUnknownCodes(t *testing.T) {
	service := newTestService(nil)
	handler := NewHTTPHandler(service, nil)

	body, contentType := multipartUpload(t,
		map[string]string{"file": cleanUpload},
		map[string]string{"fuelMethod": "block_balance"},
	)

	req := httptest.NewRequest(http.MethodPost, "/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response validateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if count := response.Report.Summary.Categories[string(domain.CategoryICAO)]; count == 0 {
		t.Fatalf("expected ICAO findings without a reference sheet, got %+v", response.Report.Summary)
	}
}

func TestHandlerRejectsMalformedReference(t *testing.T) {
	service := newTestService(nil)
	handler := NewHTTPHandler(service, nil)

	body, contentType := multipartUpload(t,
		map[string]string{"file": cleanUpload, "reference": "Code,State\nEGLL,United Kingdom\n"},
		map[string]string{"fuelMethod": "block_balance"},
	)

	req := httptest.NewRequest(http.MethodPost, "/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a reference sheet without ICAO/Country columns, got %d", rec.Code)
	}
}

func TestAuditHandlerListsFindings(t *testing.T) {
	uploadID := uuid.New()
	rowIndex := 0
	logRepo := &stubLogRepo{recorded: []domain.ValidationLogEntry{
		{
			UploadID: uploadID,
			FileName: "flights.csv",
			RowIndex: &rowIndex,
			Category: domain.CategoryFuel,
			Reason:   "Fuel Consumption deviates from block fuel difference beyond tolerance",
		},
		{
			UploadID: uuid.New(),
			FileName: "other.csv",
			Category: domain.CategoryMissing,
			Reason:   "Date is missing",
		},
	}}
	handler := NewAuditHandler(logRepo)

	req := httptest.NewRequest(http.MethodGet, "/validate/logs?upload_id="+uploadID.String(), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response auditResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.UploadID != uploadID {
		t.Fatalf("unexpected upload id: %s", response.UploadID)
	}
	if len(response.Findings) != 1 || response.Findings[0].Category != domain.CategoryFuel {
		t.Fatalf("expected only the upload's findings, got %+v", response.Findings)
	}
}

func TestAuditHandlerBadRequests(t *testing.T) {
	handler := NewAuditHandler(&stubLogRepo{})

	req := httptest.NewRequest(http.MethodGet, "/validate/logs?upload_id=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad upload id, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/validate/logs", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST, got %d", rec.Code)
	}
}

func TestAuditHandlerRepositoryFailure(t *testing.T) {
	handler := NewAuditHandler(&stubLogRepo{listErr: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/validate/logs?upload_id="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on repository failure, got %d", rec.Code)
	}
}
