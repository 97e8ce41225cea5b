package domain

import (
	"time"

	"github.com/google/uuid"
)

// Airport is one reference airport record.
type Airport struct {
	ICAO      string  `json:"icao"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ValidationLogEntry captures one finding persisted for audit alongside the
// run's report.
type ValidationLogEntry struct {
	ID        uuid.UUID     `json:"id"`
	UploadID  uuid.UUID     `json:"upload_id"`
	FileName  string        `json:"file_name"`
	RowIndex  *int          `json:"row_index,omitempty"`
	Category  ErrorCategory `json:"category"`
	Reason    string        `json:"reason"`
	CreatedAt time.Time     `json:"created_at"`
}
