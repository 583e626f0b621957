package simulate

import (
	"fmt"
	"strings"

	"github.com/abisha-thapa/simulate-students-genai/internal/dataset"
)

// systemPrompt frames every session. It fixes the student persona, the two
// solution strategies, and the summary block format the parser relies on.
// The wording is part of the pipeline contract and is not configurable.
const systemPrompt = `You are simulating a 7th-grade student interacting with an intelligent tutoring system (ITS) whose learning trajectory I will reveal to you problem by problem. Solve each problem as this student would, based on what you have learned about their tendencies so far. Your answers should reflect the student's likely behavior, not ideal performance.

THE TASK: For each problem, solve for the unknown variable in a proportion of the form:
PercentageChange/100 = AmountChange/AmountOriginal

STRATEGIES: There are two strategies to solve for the unknown:
i) Equivalent Ratios (ER): Scale one ratio to the other by multiplying or dividing by a common integer to directly infer the unknown. E.g., x/20 = 50/100 → divide the right side by 5 → x = 10. ER is efficient when the scaling factor is an integer.
ii) Means and Extremes (ME): Perform cross multiplication and solve for the unknown. ME is more efficient when the scaling factor is non-integer.
You may use ER, ME, or BOTH.

AFTER SOLVING EACH PROBLEM, assess whether the student you are simulating would have:
i) used the optimal strategy (yes or no),
ii) solved for the unknown using that strategy without making errors (yes or no), and
iii) after solving for the unknown, used this value to obtain the correct final answer without making errors or requiring additional help (yes or no).

IMPORTANT: At the end of EVERY response, you MUST include a summary block in EXACTLY this format:
---SUMMARY---
optimal_strategy: yes or no
solved_unknown: yes or no
correct_final_answer: yes or no
---END---

Once you do this, I will tell you whether the student you are simulating used the optimal strategy, solved for the unknown without errors, and obtained the correct final answer without errors. Use this to adjust your reasoning for the next problem based on the student's learning trajectory.`

// buildFeedbackMessage renders the fixed feedback turn stating the three
// ground-truth outcomes for the problem just posed.
func buildFeedbackMessage(rec dataset.Record) string {
	var b strings.Builder

	b.WriteString("Here is the correct information for this problem:\n")
	b.WriteString(fmt.Sprintf("- The student used the optimal strategy: %s\n", rec.CorrectStrategy))
	b.WriteString(fmt.Sprintf("- The student solved for the unknown with no errors: %s\n", rec.CorrectUnknown))
	b.WriteString(fmt.Sprintf("- The student obtained the correct final answer with no errors: %s\n", rec.CorrectAnswer))
	b.WriteString("Use this to adjust your reasoning for the next problem based on the student's learning trajectory.")

	return b.String()
}
