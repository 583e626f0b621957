package simulate

import "strings"

// Summary block delimiters the system prompt mandates in every reply.
const (
	summaryStart = "---SUMMARY---"
	summaryEnd   = "---END---"
)

// ParseResponse extracts the three self-assessments from a model reply.
//
// It is deliberately forgiving: the block is located by its fixed markers,
// each labeled line is matched case-insensitively, and the value after the
// last colon is scanned for a yes/no token anywhere in it ("Yes, mostly"
// parses as yes). Anything missing or unrecognizable comes back as
// AnswerUnknown — a malformed reply degrades the row, never the run.
func ParseResponse(text string) Prediction {
	pred := Prediction{
		OptimalStrategy:    AnswerUnknown,
		SolvedUnknown:      AnswerUnknown,
		CorrectFinalAnswer: AnswerUnknown,
		Raw:                text,
	}

	_, block, found := strings.Cut(text, summaryStart)
	if !found {
		return pred
	}
	if inner, _, ok := strings.Cut(block, summaryEnd); ok {
		block = inner
	}

	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		// Value is whatever follows the last colon, so prose like
		// "note: optimal_strategy: yes" still resolves correctly.
		value := line
		if i := strings.LastIndex(line, ":"); i >= 0 {
			value = line[i+1:]
		}

		switch {
		case strings.Contains(lower, "optimal_strategy"):
			pred.OptimalStrategy = parseYesNo(value)
		case strings.Contains(lower, "solved_unknown"):
			pred.SolvedUnknown = parseYesNo(value)
		case strings.Contains(lower, "correct_final_answer"):
			pred.CorrectFinalAnswer = parseYesNo(value)
		}
	}

	return pred
}

// parseYesNo scans s for a yes/no token, case-insensitively. "yes" wins
// when both appear ("yes, no errors" is a yes).
func parseYesNo(s string) Answer {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "yes"):
		return AnswerYes
	case strings.Contains(s, "no"):
		return AnswerNo
	}
	return AnswerUnknown
}
