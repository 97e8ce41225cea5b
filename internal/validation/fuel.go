package validation

import (
	"fmt"
	"math"

	"github.com/aeroaudit/flightcheck/internal/domain"
)

// relativeTolerance is the accepted deviation between recorded and computed
// fuel quantities, as a fraction of the expected value.
const relativeTolerance = 0.005

// absoluteFloor replaces the zero-width window when the expected value is
// exactly zero.
const absoluteFloor = 0.01

// withinFuelTolerance reports whether recorded agrees with expected under
// the relative tolerance with its absolute floor.
func withinFuelTolerance(expected, recorded float64) bool {
	tolerance := relativeTolerance * math.Abs(expected)
	if expected == 0 {
		tolerance = absoluteFloor
	}
	return math.Abs(expected-recorded) <= tolerance
}

// CheckFuel validates the fuel columns mandated by the accounting method:
// numeric parseability, sign, and the method's cross field arithmetic.
// Parse failures degrade to findings and processing continues.
func CheckFuel(rows []domain.FlightRow, method domain.FuelMethod, tracker *domain.ErrorTracker) {
	columns := domain.FuelColumns(method)

	for _, row := range rows {
		numericOK := true
		for _, column := range columns {
			if row.Missing(column) {
				numericOK = false
				continue
			}
			value, ok := row.Float(column)
			if !ok {
				tracker.Add(domain.CategoryFuel, row.OriginalIndex, fmt.Sprintf("%s must be numeric", column), row.Text(column), column)
				numericOK = false
				continue
			}
			if value < 0 {
				tracker.Add(domain.CategoryFuel, row.OriginalIndex, fmt.Sprintf("%s cannot be negative", column), value, column)
				numericOK = false
			}
		}

		if !numericOK {
			continue
		}

		switch method {
		case domain.FuelMethodBlockBalance:
			checkBlockBalance(row, tracker)
		case domain.FuelMethodUpliftBalance:
			checkUpliftBalance(row, tracker)
		}
	}
}

func checkBlockBalance(row domain.FlightRow, tracker *domain.ErrorTracker) {
	blockOff, _ := row.Float(domain.ColBlockOffFuel)
	blockOn, _ := row.Float(domain.ColBlockOnFuel)
	recorded, _ := row.Float(domain.ColFuelConsumption)

	if blockOff <= blockOn {
		tracker.Add(domain.CategoryFuel, row.OriginalIndex,
			"Block Off Fuel must exceed Block On Fuel",
			fmt.Sprintf("%v / %v", blockOff, blockOn),
			domain.ColBlockOffFuel, domain.ColBlockOnFuel)
	}

	expected := blockOff - blockOn
	if !withinFuelTolerance(expected, recorded) {
		tracker.Add(domain.CategoryFuel, row.OriginalIndex,
			"Fuel Consumption deviates from block fuel difference beyond tolerance",
			recorded,
			domain.ColBlockOffFuel, domain.ColBlockOnFuel, domain.ColFuelConsumption)
	}
}

func checkUpliftBalance(row domain.FlightRow, tracker *domain.ErrorTracker) {
	volume, _ := row.Float(domain.ColUpliftVolume)
	density, _ := row.Float(domain.ColUpliftDensity)
	weight, _ := row.Float(domain.ColUpliftWeight)
	remaining, _ := row.Float(domain.ColRemainingFuel)
	blockOn, _ := row.Float(domain.ColBlockOnFuel)
	recorded, _ := row.Float(domain.ColFuelConsumption)

	if !withinFuelTolerance(volume*density, weight) {
		tracker.Add(domain.CategoryFuel, row.OriginalIndex,
			"Uplift weight deviates from volume times density beyond tolerance",
			weight,
			domain.ColUpliftVolume, domain.ColUpliftDensity, domain.ColUpliftWeight)
	}

	expected := remaining + weight - blockOn
	if !withinFuelTolerance(expected, recorded) {
		tracker.Add(domain.CategoryFuel, row.OriginalIndex,
			"Fuel Consumption deviates from uplift balance beyond tolerance",
			recorded,
			domain.ColRemainingFuel, domain.ColUpliftWeight, domain.ColBlockOnFuel, domain.ColFuelConsumption)
	}
}
