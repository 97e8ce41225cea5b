package domain

// ErrorCategory classifies validation findings into the fixed closed set
// consumed by report rendering.
type ErrorCategory string

const (
	CategoryTime          ErrorCategory = "Time"
	CategoryDate          ErrorCategory = "Date"
	CategoryFuel          ErrorCategory = "Fuel"
	CategoryICAO          ErrorCategory = "ICAO"
	CategorySequence      ErrorCategory = "Sequence"
	CategoryMissing       ErrorCategory = "Missing"
	CategoryColumnMissing ErrorCategory = "ColumnMissing"
)

// categoryOrder fixes the iteration order across categories so reports and
// derived datasets are deterministic.
var categoryOrder = []ErrorCategory{
	CategoryColumnMissing,
	CategoryDate,
	CategoryFuel,
	CategoryICAO,
	CategoryMissing,
	CategorySequence,
	CategoryTime,
}

// ErrorEntry records a single validation finding. RowIndex is nil for file
// level findings such as a missing column.
type ErrorEntry struct {
	RowIndex *int          `json:"row_index"`
	Reason   string        `json:"reason"`
	CellData any           `json:"cell_data,omitempty"`
	Columns  []string      `json:"columns,omitempty"`
	Category ErrorCategory `json:"category"`
}

// ErrorTracker accumulates findings across the validation passes of one run.
// A tracker must not be shared between concurrent runs; each pass appends
// with plain read-modify-write semantics.
type ErrorTracker struct {
	entries   map[ErrorCategory][]ErrorEntry
	errorRows map[int]struct{}
}

// NewErrorTracker returns an empty tracker ready for one run.
func NewErrorTracker() *ErrorTracker {
	return &ErrorTracker{
		entries:   make(map[ErrorCategory][]ErrorEntry),
		errorRows: make(map[int]struct{}),
	}
}

// Add records a row level finding.
func (t *ErrorTracker) Add(category ErrorCategory, rowIndex int, reason string, cellData any, columns ...string) {
	idx := rowIndex
	t.entries[category] = append(t.entries[category], ErrorEntry{
		RowIndex: &idx,
		Reason:   reason,
		CellData: cellData,
		Columns:  columns,
		Category: category,
	})
	t.errorRows[rowIndex] = struct{}{}
}

// AddFileError records a finding not tied to any row, e.g. a missing column.
func (t *ErrorTracker) AddFileError(category ErrorCategory, reason string, columns ...string) {
	t.entries[category] = append(t.entries[category], ErrorEntry{
		Reason:   reason,
		Columns:  columns,
		Category: category,
	})
}

// Entries returns the ordered findings for one category.
func (t *ErrorTracker) Entries(category ErrorCategory) []ErrorEntry {
	return t.entries[category]
}

// Categories returns the categories holding at least one finding, in the
// fixed deterministic order.
func (t *ErrorTracker) Categories() []ErrorCategory {
	var present []ErrorCategory
	for _, category := range categoryOrder {
		if len(t.entries[category]) > 0 {
			present = append(present, category)
		}
	}
	return present
}

// RowHasError reports whether any finding references the row index.
func (t *ErrorTracker) RowHasError(rowIndex int) bool {
	_, ok := t.errorRows[rowIndex]
	return ok
}

// ErrorRows returns the set of row indices referenced by row level findings.
func (t *ErrorTracker) ErrorRows() map[int]struct{} {
	rows := make(map[int]struct{}, len(t.errorRows))
	for idx := range t.errorRows {
		rows[idx] = struct{}{}
	}
	return rows
}

// RowsInCategories returns the row indices referenced by findings in the
// given categories. The sequence pass uses this to exclude rows carrying
// temporal errors.
func (t *ErrorTracker) RowsInCategories(categories ...ErrorCategory) map[int]struct{} {
	rows := make(map[int]struct{})
	for _, category := range categories {
		for _, entry := range t.entries[category] {
			if entry.RowIndex != nil {
				rows[*entry.RowIndex] = struct{}{}
			}
		}
	}
	return rows
}

// TotalErrors returns the finding count across all categories.
func (t *ErrorTracker) TotalErrors() int {
	total := 0
	for _, entries := range t.entries {
		total += len(entries)
	}
	return total
}

// HasCategory reports whether the category holds at least one finding.
func (t *ErrorTracker) HasCategory(category ErrorCategory) bool {
	return len(t.entries[category]) > 0
}

// Reset clears all accumulated state so a fresh run starts clean. The report
// builder calls this after producing output.
func (t *ErrorTracker) Reset() {
	t.entries = make(map[ErrorCategory][]ErrorEntry)
	t.errorRows = make(map[int]struct{})
}
