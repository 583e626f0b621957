package simulate

// Answer is a three-valued self-assessment. Predictions are tri-state
// rather than nullable booleans: a reply that never states yes or no is
// AnswerUnknown, which is distinct from AnswerNo and never matches
// ground truth.
type Answer string

const (
	AnswerYes     Answer = "yes"
	AnswerNo      Answer = "no"
	AnswerUnknown Answer = "unknown"
)

// Known reports whether the answer carries a real yes/no value.
func (a Answer) Known() bool {
	return a == AnswerYes || a == AnswerNo
}

// Matches compares the answer against a ground-truth token ("yes"/"no").
// An unknown answer never matches.
func (a Answer) Matches(groundTruth string) bool {
	return a.Known() && string(a) == groundTruth
}

// Prediction holds the three self-assessments parsed from one model reply,
// plus the raw reply text for the output table.
type Prediction struct {
	OptimalStrategy    Answer
	SolvedUnknown      Answer
	CorrectFinalAnswer Answer
	Raw                string
}
