package validation

import (
	"context"

	"github.com/aeroaudit/flightcheck/internal/domain"
	"github.com/aeroaudit/flightcheck/internal/report"
)

// Runner drives the validation state machine over one upload:
//
//	SchemaCheck -> {halt | MissingCheck -> FuelCheck -> TemporalCheck ->
//	IcaoCheck -> SequenceCheck} -> ReportBuild -> TrackerReset
//
// Only the schema check short-circuits; every other pass runs to completion
// even when earlier passes found errors, because a run's value is the
// complete error corpus.
type Runner struct {
	resolver CodeResolver
	builder  *report.Builder
}

// NewRunner wires a runner. resolver may be nil to skip the ICAO pass.
func NewRunner(resolver CodeResolver, builder *report.Builder) *Runner {
	return &Runner{resolver: resolver, builder: builder}
}

// RunResult is the outcome of one validation run. Valid is true only when
// no required column was missing; other categories accumulate as warnings.
type RunResult struct {
	Valid  bool
	Output report.Output
}

// Run executes the pass pipeline. The per-run tracker is created here and
// consumed (and reset) by the report builder.
func (r *Runner) Run(ctx context.Context, headers []string, rows []domain.FlightRow, params domain.RunParams) (RunResult, error) {
	tracker := domain.NewErrorTracker()

	if !CheckSchema(headers, params.FuelMethod, tracker) {
		output, err := r.builder.Build(tracker, nil)
		if err != nil {
			return RunResult{}, err
		}
		return RunResult{Valid: false, Output: output}, nil
	}

	sorted := SortRows(rows, params.DateConvention)

	CheckMissing(sorted, params.FuelMethod, tracker)
	CheckFuel(sorted, params.FuelMethod, tracker)
	CheckTemporal(sorted, params, tracker)
	if r.resolver != nil {
		CheckICAO(ctx, sorted, r.resolver, tracker)
	}
	CheckSequence(sorted, tracker)

	valid := !tracker.HasCategory(domain.CategoryColumnMissing)
	output, err := r.builder.Build(tracker, sorted)
	if err != nil {
		return RunResult{}, err
	}
	return RunResult{Valid: valid, Output: output}, nil
}
