package ingest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/aeroaudit/flightcheck/internal/domain"
	"github.com/aeroaudit/flightcheck/internal/repository"
)

// AuditHandler serves the persisted findings of past runs.
type AuditHandler struct {
	logRepo repository.ValidationLogRepository
}

// NewAuditHandler wraps the validation log repository with a GET endpoint.
func NewAuditHandler(logRepo repository.ValidationLogRepository) http.Handler {
	return &AuditHandler{logRepo: logRepo}
}

type auditResponse struct {
	UploadID uuid.UUID                   `json:"upload_id"`
	Findings []domain.ValidationLogEntry `json:"findings"`
}

func (h *AuditHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uploadID, err := uuid.Parse(strings.TrimSpace(r.URL.Query().Get("upload_id")))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid upload_id: %v", err), http.StatusBadRequest)
		return
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	findings, err := h.logRepo.List(r.Context(), uploadID, limit, offset)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to load findings: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, auditResponse{UploadID: uploadID, Findings: findings})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
