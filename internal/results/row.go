// Package results defines the output table of a simulation run and the
// incremental CSV sink it is written through.
package results

import "strconv"

// Row is one scored (student, problem) result. Field order mirrors the
// output columns.
type Row struct {
	StudentID     string
	ProblemNumber int
	ProblemText   string
	ClusterNumber string

	// Model self-assessments: "yes", "no", or "unknown".
	GeminiOptimalStrategy string
	GeminiSolvedUnknown   string
	GeminiCorrectAnswer   string

	// Ground truth passthrough.
	CorrectStrategy string
	CorrectUnknown  string
	CorrectAnswer   string

	// Match flags; an unknown prediction never matches.
	StrategyMatch bool
	UnknownMatch  bool
	AnswerMatch   bool

	GeminiRawResponse string
}

// Header is the output column list, in order.
var Header = []string{
	"student_id",
	"problem_number",
	"problem_text",
	"cluster_number",
	"gemini_optimal_strategy",
	"gemini_solved_unknown",
	"gemini_correct_answer",
	"correct_strategy",
	"correct_unknown",
	"correct_answer",
	"strategy_match",
	"unknown_match",
	"answer_match",
	"gemini_raw_response",
}

// Fields renders the row as CSV fields in Header order.
func (r Row) Fields() []string {
	return []string{
		r.StudentID,
		strconv.Itoa(r.ProblemNumber),
		r.ProblemText,
		r.ClusterNumber,
		r.GeminiOptimalStrategy,
		r.GeminiSolvedUnknown,
		r.GeminiCorrectAnswer,
		r.CorrectStrategy,
		r.CorrectUnknown,
		r.CorrectAnswer,
		strconv.FormatBool(r.StrategyMatch),
		strconv.FormatBool(r.UnknownMatch),
		strconv.FormatBool(r.AnswerMatch),
		r.GeminiRawResponse,
	}
}
