// Package pipeline drives a full simulation run: one fresh conversation
// session per student, rows persisted the moment they are scored.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/abisha-thapa/simulate-students-genai/internal/dataset"
	"github.com/abisha-thapa/simulate-students-genai/internal/llm"
	"github.com/abisha-thapa/simulate-students-genai/internal/results"
	"github.com/abisha-thapa/simulate-students-genai/internal/simulate"
)

// SinkError marks a failed append to the results destination. Unlike a
// model failure it breaks the durability guarantee, so it aborts the
// whole run instead of just the current student.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string { return fmt.Sprintf("results sink: %v", e.Err) }

func (e *SinkError) Unwrap() error { return e.Err }

// StudentFailure records a student whose session was aborted mid-run.
type StudentFailure struct {
	StudentID string
	Err       error
}

// RunResult is the in-memory view of a completed (possibly partial) run.
// Every row in Rows was also durably appended to the sink before the next
// model call was made.
type RunResult struct {
	Rows     []results.Row
	Students int
	Failures []StudentFailure
}

// Driver iterates students in first-appearance order and evaluates each
// against a fresh session.
type Driver struct {
	provider llm.Provider
	cfg      simulate.Config

	// Progress receives per-student/per-problem progress lines.
	// Defaults to io.Discard.
	Progress io.Writer
}

// New creates a Driver.
func New(provider llm.Provider, cfg simulate.Config) *Driver {
	return &Driver{provider: provider, cfg: cfg, Progress: io.Discard}
}

// Run processes the whole input table. A student's failure is reported in
// the result and the run moves on; only sink write failures and context
// cancellation abort the run. Rows persisted before an abort are retained
// either way.
func (d *Driver) Run(ctx context.Context, records []dataset.Record, sink results.Sink) (*RunResult, error) {
	order, groups := dataset.GroupByStudent(records)

	res := &RunResult{Students: len(order)}

	fmt.Fprintf(d.Progress, "running pipeline for %d students\n", len(order))

	for i, studentID := range order {
		studentRecords := groups[studentID]
		fmt.Fprintf(d.Progress, "student %d/%d (%s): %d problems\n",
			i+1, len(order), studentID, len(studentRecords))

		session := simulate.NewSession(d.provider, d.cfg)

		emit := func(row results.Row) error {
			if err := sink.Append(row); err != nil {
				return &SinkError{Err: err}
			}
			res.Rows = append(res.Rows, row)
			fmt.Fprintf(d.Progress, "  problem %d done\n", row.ProblemNumber)
			return nil
		}

		err := simulate.EvaluateStudent(ctx, session, studentRecords, emit)
		if err == nil {
			continue
		}

		var sinkErr *SinkError
		switch {
		case errors.As(err, &sinkErr):
			return res, fmt.Errorf("student %s: %w", studentID, err)
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return res, fmt.Errorf("student %s: %w", studentID, err)
		default:
			// Contained: this student's session is abandoned, its
			// already-persisted rows stand, the run continues.
			fmt.Fprintf(d.Progress, "  student %s aborted: %v\n", studentID, err)
			res.Failures = append(res.Failures, StudentFailure{StudentID: studentID, Err: err})
		}
	}

	return res, nil
}
