package validation

import (
	"fmt"
	"strings"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

// CheckSequence verifies that consecutive flights of each aircraft chain
// correctly: a flight's destination must equal the next flight's origin.
// Rows carrying Date or Time findings are excluded from the walk entirely,
// since a broken clock makes their ordering meaningless. Rows must already
// be in chronological order (see SortRows).
//
// A break between a pair of valid flights is attributed to the pair itself
// plus, when they exist, the flight immediately before and the flight
// immediately after, so the operator sees the full local context without
// re-deriving it.
func CheckSequence(rows []domain.FlightRow, tracker *domain.ErrorTracker) {
	temporalRows := tracker.RowsInCategories(domain.CategoryDate, domain.CategoryTime)

	groups := make(map[string][]domain.FlightRow)
	var order []string
	for _, row := range rows {
		registration := row.Text(domain.ColRegistration)
		if registration == "" {
			continue
		}
		if _, skip := temporalRows[row.OriginalIndex]; skip {
			continue
		}
		if _, seen := groups[registration]; !seen {
			order = append(order, registration)
		}
		groups[registration] = append(groups[registration], row)
	}

	for _, registration := range order {
		flights := groups[registration]
		if len(flights) < 2 {
			continue
		}
		walkAircraft(flights, tracker)
	}
}

func walkAircraft(flights []domain.FlightRow, tracker *domain.ErrorTracker) {
	for i := 0; i < len(flights)-1; i++ {
		first := flights[i]
		second := flights[i+1]

		destination := strings.ToUpper(first.Text(domain.ColDestinationICAO))
		origin := strings.ToUpper(second.Text(domain.ColOriginICAO))
		if destination == "" || origin == "" || destination == origin {
			continue
		}

		reason := fmt.Sprintf("flight sequence broken: %s → %s", destination, origin)

		// Break itself, then each implicated flight by explicit index
		// arithmetic over the filtered list.
		tracker.Add(domain.CategorySequence, first.OriginalIndex, reason,
			fmt.Sprintf("%s → %s", destination, origin),
			domain.ColDestinationICAO, domain.ColOriginICAO)
		tracker.Add(domain.CategorySequence, first.OriginalIndex, reason,
			destination, domain.ColDestinationICAO)
		tracker.Add(domain.CategorySequence, second.OriginalIndex, reason,
			origin, domain.ColOriginICAO)

		if prev := i - 1; prev >= 0 {
			tracker.Add(domain.CategorySequence, flights[prev].OriginalIndex, reason,
				nil, domain.ColOriginICAO, domain.ColDestinationICAO)
		}
		if next := i + 2; next < len(flights) {
			tracker.Add(domain.CategorySequence, flights[next].OriginalIndex, reason,
				nil, domain.ColOriginICAO, domain.ColDestinationICAO)
		}
	}
}
