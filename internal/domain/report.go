package domain

// ReportSummary aggregates counts across the whole run.
type ReportSummary struct {
	TotalErrors int            `json:"total_errors"`
	ErrorRows   int            `json:"error_rows"`
	Categories  map[string]int `json:"categories"`
}

// ReportGroup lists the rows affected by one (category, reason) pair.
type ReportGroup struct {
	Reason string `json:"reason"`
	Rows   []int  `json:"rows"`
}

// ReportCategory holds the grouped findings of one category.
type ReportCategory struct {
	Name   string        `json:"name"`
	Errors []ReportGroup `json:"errors"`
}

// ErrorReport is the final artifact of a validation run. RowsData snapshots
// each implicated row exactly once, keyed by original row index, so multiple
// findings can reference a row without duplicating its fields.
type ErrorReport struct {
	Summary    ReportSummary          `json:"summary"`
	RowsData   map[int]map[string]any `json:"rows_data"`
	Categories []ReportCategory       `json:"categories"`
}

// columnAbbreviations shortens common column names in the compacted report
// variant used for size sensitive transport.
var columnAbbreviations = map[string]string{
	ColDate:            "d",
	ColRegistration:    "r",
	ColFlightNo:        "f",
	ColACType:          "t",
	ColBlockOff:        "o",
	ColBlockOn:         "i",
	ColOriginICAO:      "or",
	ColDestinationICAO: "de",
	ColUpliftVolume:    "uv",
	ColUpliftDensity:   "ud",
	ColUpliftWeight:    "uw",
	ColRemainingFuel:   "rf",
	ColBlockOffFuel:    "bf",
	ColBlockOnFuel:     "bo",
	ColFuelConsumption: "fc",
}

var columnExpansions = func() map[string]string {
	expanded := make(map[string]string, len(columnAbbreviations))
	for full, short := range columnAbbreviations {
		expanded[short] = full
	}
	return expanded
}()

// AbbreviateColumn returns the transport short form of a column name, or the
// name unchanged when no abbreviation is defined.
func AbbreviateColumn(name string) string {
	if short, ok := columnAbbreviations[name]; ok {
		return short
	}
	return name
}

// ExpandColumn reverses AbbreviateColumn.
func ExpandColumn(name string) string {
	if full, ok := columnExpansions[name]; ok {
		return full
	}
	return name
}

// Compact returns a copy of the report with abbreviated column names in every
// row snapshot. Unmapped columns pass through unchanged.
func (r ErrorReport) Compact() ErrorReport {
	return r.mapColumns(AbbreviateColumn)
}

// Expand reverses Compact.
func (r ErrorReport) Expand() ErrorReport {
	return r.mapColumns(ExpandColumn)
}

func (r ErrorReport) mapColumns(rename func(string) string) ErrorReport {
	out := ErrorReport{
		Summary:    r.Summary,
		RowsData:   make(map[int]map[string]any, len(r.RowsData)),
		Categories: r.Categories,
	}
	for idx, fields := range r.RowsData {
		mapped := make(map[string]any, len(fields))
		for column, value := range fields {
			mapped[rename(column)] = value
		}
		out.RowsData[idx] = mapped
	}
	return out
}

// ErrorRecord is one row of the derived error dataset: the finding metadata
// prepended to the implicated row's full field values.
type ErrorRecord struct {
	Category ErrorCategory  `json:"category"`
	Reason   string         `json:"reason"`
	RowIndex *int           `json:"row_index"`
	Columns  []string       `json:"columns,omitempty"`
	Fields   map[string]any `json:"fields"`
}
