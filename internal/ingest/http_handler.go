package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aeroaudit/flightcheck/internal/domain"
	"github.com/aeroaudit/flightcheck/internal/report"
)

// DatasetWriter persists the derived clean/error datasets when the caller
// requests an export alongside the report.
type DatasetWriter interface {
	WriteWorkbooks(headers []string, output report.Output) (cleanPath, errorPath string, err error)
}

// Handler exposes validation as an HTTP endpoint.
type Handler struct {
	service *Service
	writer  DatasetWriter
}

// NewHTTPHandler wraps the service with a POST endpoint. writer may be nil
// to disable dataset export.
func NewHTTPHandler(service *Service, writer DatasetWriter) http.Handler {
	return &Handler{service: service, writer: writer}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := parseRunParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	reference, err := parseReferencePart(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := Request{
		UploadID:  uuid.New(),
		FileName:  header.Filename,
		Params:    params,
		Data:      bytes.NewReader(data),
		Reference: reference,
	}

	result, err := h.service.Validate(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response := validateResponse{Result: result}
	if h.writer != nil && strings.EqualFold(strings.TrimSpace(r.FormValue("export")), "true") {
		cleanPath, errorPath, exportErr := h.writer.WriteWorkbooks(result.Headers, result.Output)
		if exportErr != nil {
			http.Error(w, fmt.Sprintf("failed to export datasets: %v", exportErr), http.StatusInternalServerError)
			return
		}
		response.CleanDataPath = cleanPath
		response.ErrorDataPath = errorPath
	}

	writeJSON(w, http.StatusOK, response)
}

type validateResponse struct {
	Result
	CleanDataPath string `json:"clean_data_path,omitempty"`
	ErrorDataPath string `json:"error_data_path,omitempty"`
}

// parseReferencePart reads the optional reference upload: a second CSV or
// XLSX file with ICAO and Country columns seeding the run-local airport map.
func parseReferencePart(r *http.Request) (map[string]string, error) {
	file, header, err := r.FormFile("reference")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid reference part: %v", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference file: %v", err)
	}

	table, err := ParseTable(header.Filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference file: %v", err)
	}

	reference := ParseReference(table)
	if reference == nil {
		return nil, fmt.Errorf("reference file needs ICAO and Country columns")
	}
	return reference, nil
}

func parseRunParams(r *http.Request) (domain.RunParams, error) {
	params := domain.RunParams{
		DateConvention: domain.DateDayFirst,
		FlightPrefix:   strings.TrimSpace(r.FormValue("flightPrefix")),
	}

	if convention := strings.TrimSpace(r.FormValue("dateConvention")); convention != "" {
		switch convention {
		case string(domain.DateDayFirst):
			params.DateConvention = domain.DateDayFirst
		case string(domain.DateMonthFirst):
			params.DateConvention = domain.DateMonthFirst
		default:
			return params, fmt.Errorf("invalid date convention %q", convention)
		}
	}

	method, err := domain.ParseFuelMethod(r.FormValue("fuelMethod"))
	if err != nil {
		return params, err
	}
	params.FuelMethod = method

	if raw := strings.TrimSpace(r.FormValue("windowStart")); raw != "" {
		start, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			return params, fmt.Errorf("invalid window start: %v", parseErr)
		}
		params.WindowStart = &start
	}
	if raw := strings.TrimSpace(r.FormValue("windowEnd")); raw != "" {
		end, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			return params, fmt.Errorf("invalid window end: %v", parseErr)
		}
		params.WindowEnd = &end
	}

	switch scheme := strings.ToLower(strings.TrimSpace(r.FormValue("scheme"))); scheme {
	case "":
		params.Scheme = domain.SchemeNone
	case string(domain.SchemeCORSIA):
		params.Scheme = domain.SchemeCORSIA
	case string(domain.SchemeEUETS):
		params.Scheme = domain.SchemeEUETS
	default:
		return params, fmt.Errorf("invalid jurisdiction scheme %q", scheme)
	}

	return params, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
