package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

var dateLayoutsByConvention = map[domain.DateConvention][]string{
	domain.DateDayFirst: {
		"02-01-2006",
		"02/01/2006",
		"2006-01-02",
		"2006/01/02",
	},
	domain.DateMonthFirst: {
		"01-02-2006",
		"01/02/2006",
		"2006-01-02",
		"2006/01/02",
	},
}

var canonicalDateLayout = map[domain.DateConvention]string{
	domain.DateDayFirst:   "02-01-2006",
	domain.DateMonthFirst: "01-02-2006",
}

// ParseDate reads a date value under the selected day/month convention,
// accepting hyphen, slash and ISO forms.
func ParseDate(raw string, convention domain.DateConvention) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	layouts, ok := dateLayoutsByConvention[convention]
	if !ok {
		layouts = dateLayoutsByConvention[domain.DateDayFirst]
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", raw)
}

// CanonicalDate renders a date in the canonical string form for the
// convention.
func CanonicalDate(date time.Time, convention domain.DateConvention) string {
	layout, ok := canonicalDateLayout[convention]
	if !ok {
		layout = canonicalDateLayout[domain.DateDayFirst]
	}
	return date.Format(layout)
}

// CheckTemporal validates and normalizes the date and time columns of every
// row. Successfully parsed values are rewritten in place in canonical form;
// failures degrade to Date or Time findings and never halt the run.
func CheckTemporal(rows []domain.FlightRow, params domain.RunParams, tracker *domain.ErrorTracker) {
	for _, row := range rows {
		checkDate(row, params, tracker)
		checkTime(row, domain.ColBlockOff, tracker)
		checkTime(row, domain.ColBlockOn, tracker)
	}
}

func checkDate(row domain.FlightRow, params domain.RunParams, tracker *domain.ErrorTracker) {
	if row.Missing(domain.ColDate) {
		return
	}

	raw := row.Text(domain.ColDate)
	parsed, err := ParseDate(raw, params.DateConvention)
	if err != nil {
		tracker.Add(domain.CategoryDate, row.OriginalIndex, fmt.Sprintf("cannot parse date: %v", err), raw, domain.ColDate)
		return
	}

	if params.WindowStart != nil && parsed.Before(*params.WindowStart) {
		tracker.Add(domain.CategoryDate, row.OriginalIndex, "date is before the reporting period start", raw, domain.ColDate)
	}
	if params.WindowEnd != nil && parsed.After(*params.WindowEnd) {
		tracker.Add(domain.CategoryDate, row.OriginalIndex, "date is after the reporting period end", raw, domain.ColDate)
	}

	row.Set(domain.ColDate, CanonicalDate(parsed, params.DateConvention))
}

func checkTime(row domain.FlightRow, column string, tracker *domain.ErrorTracker) {
	if row.Missing(column) {
		return
	}

	raw := row.Text(column)
	normalized, ok := NormalizeTime(raw)
	if !ok {
		tracker.Add(domain.CategoryTime, row.OriginalIndex, fmt.Sprintf("%s cannot convert to HH:MM format", column), raw, column)
		return
	}
	if normalized != raw {
		row.Set(column, normalized)
	}
}
