package simulate

import (
	"context"
	"fmt"

	"github.com/abisha-thapa/simulate-students-genai/internal/dataset"
	"github.com/abisha-thapa/simulate-students-genai/internal/results"
)

// EmitFunc receives each scored row for immediate persistence. An error
// from emit is a durability failure and aborts the evaluation.
type EmitFunc func(results.Row) error

// EvaluateStudent runs one student's records through the session in input
// order: pose, parse, score, emit, then feed the ground truth back —
// except after the final record, whose feedback nothing would consume.
//
// A provider failure aborts this student only; rows already emitted stay
// persisted. The error names the 1-based problem that failed.
func EvaluateStudent(ctx context.Context, session *Session, records []dataset.Record, emit EmitFunc) error {
	for i, rec := range records {
		problemNumber := i + 1

		reply, err := session.Pose(ctx, rec.ProblemText)
		if err != nil {
			return fmt.Errorf("problem %d: %w", problemNumber, err)
		}

		pred := ParseResponse(reply)

		row := results.Row{
			StudentID:     rec.StudentID,
			ProblemNumber: problemNumber,
			ProblemText:   rec.ProblemText,
			ClusterNumber: rec.ClusterNumber,

			GeminiOptimalStrategy: string(pred.OptimalStrategy),
			GeminiSolvedUnknown:   string(pred.SolvedUnknown),
			GeminiCorrectAnswer:   string(pred.CorrectFinalAnswer),

			CorrectStrategy: rec.CorrectStrategy,
			CorrectUnknown:  rec.CorrectUnknown,
			CorrectAnswer:   rec.CorrectAnswer,

			StrategyMatch: pred.OptimalStrategy.Matches(rec.CorrectStrategy),
			UnknownMatch:  pred.SolvedUnknown.Matches(rec.CorrectUnknown),
			AnswerMatch:   pred.CorrectFinalAnswer.Matches(rec.CorrectAnswer),

			GeminiRawResponse: pred.Raw,
		}

		if err := emit(row); err != nil {
			return fmt.Errorf("problem %d: persist row: %w", problemNumber, err)
		}

		if i < len(records)-1 {
			if err := session.Feedback(rec); err != nil {
				return fmt.Errorf("problem %d: %w", problemNumber, err)
			}
		}
	}

	return nil
}
