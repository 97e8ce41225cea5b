package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Column names as they appear in operator upload templates.
const (
	ColDate            = "Date"
	ColRegistration    = "A/C Registration"
	ColFlightNo        = "Flight No"
	ColACType          = "A/C Type"
	ColBlockOff        = "ATD (UTC) Block Off"
	ColBlockOn         = "ATA (UTC) Block On"
	ColOriginICAO      = "Origin ICAO"
	ColDestinationICAO = "Destination ICAO"
	ColUpliftVolume    = "Uplift Volume"
	ColUpliftDensity   = "Uplift Density"
	ColUpliftWeight    = "Uplift weight"
	ColRemainingFuel   = "Remaining Fuel From Prev. Flight"
	ColBlockOffFuel    = "Block Off Fuel"
	ColBlockOnFuel     = "Block On Fuel"
	ColFuelConsumption = "Fuel Consumption"
)

// FuelMethod selects which fuel accounting formula applies to a run.
type FuelMethod string

const (
	// FuelMethodBlockBalance derives consumption from block-off minus block-on fuel.
	FuelMethodBlockBalance FuelMethod = "block_balance"
	// FuelMethodUpliftBalance derives consumption from uplifted fuel plus the
	// quantity remaining from the previous flight.
	FuelMethodUpliftBalance FuelMethod = "uplift_balance"
)

// ParseFuelMethod maps user supplied method names onto a FuelMethod.
func ParseFuelMethod(raw string) (FuelMethod, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "block_balance", "block-balance", "block":
		return FuelMethodBlockBalance, nil
	case "uplift_balance", "uplift-balance", "uplift":
		return FuelMethodUpliftBalance, nil
	default:
		return "", fmt.Errorf("unknown fuel method %q", raw)
	}
}

// baseColumns are required regardless of the fuel accounting method.
var baseColumns = []string{
	ColDate,
	ColRegistration,
	ColFlightNo,
	ColACType,
	ColBlockOff,
	ColBlockOn,
	ColOriginICAO,
	ColDestinationICAO,
}

var fuelColumnsByMethod = map[FuelMethod][]string{
	FuelMethodBlockBalance: {
		ColBlockOffFuel,
		ColBlockOnFuel,
		ColFuelConsumption,
	},
	FuelMethodUpliftBalance: {
		ColUpliftVolume,
		ColUpliftDensity,
		ColUpliftWeight,
		ColRemainingFuel,
		ColBlockOnFuel,
		ColFuelConsumption,
	},
}

// RequiredColumns returns the full required column list for the method.
func RequiredColumns(method FuelMethod) []string {
	columns := make([]string, 0, len(baseColumns)+len(fuelColumnsByMethod[method]))
	columns = append(columns, baseColumns...)
	columns = append(columns, fuelColumnsByMethod[method]...)
	return columns
}

// FuelColumns returns only the method specific fuel columns.
func FuelColumns(method FuelMethod) []string {
	return fuelColumnsByMethod[method]
}

// DateConvention controls day/month ordering when parsing ambiguous dates.
type DateConvention string

const (
	DateDayFirst   DateConvention = "day_first"
	DateMonthFirst DateConvention = "month_first"
)

// JurisdictionScheme selects which regulatory state list applies to route
// filtering upstream of validation.
type JurisdictionScheme string

const (
	SchemeNone   JurisdictionScheme = ""
	SchemeCORSIA JurisdictionScheme = "corsia"
	SchemeEUETS  JurisdictionScheme = "eu_ets"
)

// RunParams carries the caller supplied knobs for one validation run.
type RunParams struct {
	DateConvention DateConvention
	FuelMethod     FuelMethod
	FlightPrefix   string
	WindowStart    *time.Time
	WindowEnd      *time.Time
	Scheme         JurisdictionScheme
}

// FlightRow is a single flight leg. Values maps column name to the raw cell
// value (string, float64, time.Time or nil). OriginalIndex is the position in
// the upload before sorting and is the stable identity used for error
// attribution. Index is the position after the chronological sort.
type FlightRow struct {
	OriginalIndex int
	Index         int
	Values        map[string]any
}

// Value returns the raw cell value for a column, nil when absent.
func (r FlightRow) Value(column string) any {
	return r.Values[column]
}

// Text returns the trimmed string form of a cell, empty for nil cells.
func (r FlightRow) Text(column string) string {
	value, ok := r.Values[column]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// Float parses a cell as a number. The bool reports whether the cell held a
// parseable numeric value.
func (r FlightRow) Float(column string) (float64, bool) {
	value, ok := r.Values[column]
	if !ok || value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// Set rewrites a cell in place, used by normalizing passes.
func (r FlightRow) Set(column string, value any) {
	r.Values[column] = value
}

// Missing reports whether a cell is null or blank after trimming.
func (r FlightRow) Missing(column string) bool {
	value, ok := r.Values[column]
	if !ok || value == nil {
		return true
	}
	if s, isString := value.(string); isString {
		return strings.TrimSpace(s) == ""
	}
	return false
}
