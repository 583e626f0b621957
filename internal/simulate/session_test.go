package simulate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abisha-thapa/simulate-students-genai/internal/dataset"
	"github.com/abisha-thapa/simulate-students-genai/internal/llm"
)

func testRecord(strategy, unknown, answer string) dataset.Record {
	return dataset.Record{
		StudentID:       "s1",
		ClusterNumber:   "3",
		ProblemText:     "x/20 = 50/100. Solve for x.",
		CorrectStrategy: strategy,
		CorrectUnknown:  unknown,
		CorrectAnswer:   answer,
	}
}

func TestSessionTranscriptGrowth(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodReply})
	s := NewSession(mock, DefaultConfig())
	ctx := context.Background()

	// After k problems with feedback between (not after the last):
	// 1 system + 2k (problem+reply) + (k-1) feedback turns.
	const k = 3
	for i := 0; i < k; i++ {
		if _, err := s.Pose(ctx, "problem"); err != nil {
			t.Fatalf("pose %d: %v", i+1, err)
		}
		if i < k-1 {
			if err := s.Feedback(testRecord("yes", "no", "yes")); err != nil {
				t.Fatalf("feedback %d: %v", i+1, err)
			}
		}
	}

	want := 1 + 2*k + (k - 1)
	if got := len(s.Transcript()); got != want {
		t.Errorf("transcript length = %d, want %d", got, want)
	}
}

func TestSessionTranscriptStartsWithSystem(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodReply})
	s := NewSession(mock, DefaultConfig())

	tr := s.Transcript()
	if len(tr) != 1 || tr[0].Role != "system" {
		t.Fatalf("fresh transcript = %d turns starting with %q, want 1 system turn", len(tr), tr[0].Role)
	}
	if !strings.Contains(tr[0].Text, "---SUMMARY---") {
		t.Error("system prompt does not mandate the summary block")
	}
}

func TestSessionSendsFullHistory(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodReply})
	s := NewSession(mock, DefaultConfig())
	ctx := context.Background()

	if _, err := s.Pose(ctx, "problem one"); err != nil {
		t.Fatal(err)
	}
	if err := s.Feedback(testRecord("yes", "yes", "yes")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Pose(ctx, "problem two"); err != nil {
		t.Fatal(err)
	}

	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 model calls (feedback sends nothing), got %d", mock.CallCount())
	}

	second := mock.Calls[1]
	if second.System == "" {
		t.Error("second call missing system prompt")
	}
	// problem, reply, feedback, problem
	if len(second.Messages) != 4 {
		t.Fatalf("second call carried %d messages, want 4", len(second.Messages))
	}
	if second.Messages[0].Content != "problem one" {
		t.Errorf("history[0] = %q, want first problem", second.Messages[0].Content)
	}
	if second.Messages[1].Role != llm.RoleAssistant {
		t.Errorf("history[1] role = %q, want assistant", second.Messages[1].Role)
	}
	if !strings.Contains(second.Messages[2].Content, "the optimal strategy: yes") {
		t.Errorf("history[2] is not the feedback turn: %q", second.Messages[2].Content)
	}
	if second.Messages[3].Content != "problem two" {
		t.Errorf("history[3] = %q, want second problem", second.Messages[3].Content)
	}
}

func TestSessionFeedbackTemplate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodReply})
	s := NewSession(mock, DefaultConfig())
	ctx := context.Background()

	if _, err := s.Pose(ctx, "p"); err != nil {
		t.Fatal(err)
	}
	if err := s.Feedback(testRecord("yes", "no", "yes")); err != nil {
		t.Fatal(err)
	}

	tr := s.Transcript()
	fb := tr[len(tr)-1].Text
	for _, want := range []string{
		"Here is the correct information for this problem:",
		"- The student used the optimal strategy: yes",
		"- The student solved for the unknown with no errors: no",
		"- The student obtained the correct final answer with no errors: yes",
		"adjust your reasoning for the next problem",
	} {
		if !strings.Contains(fb, want) {
			t.Errorf("feedback turn missing %q", want)
		}
	}
}

func TestSessionStateMachine(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: goodReply})
	s := NewSession(mock, DefaultConfig())
	ctx := context.Background()

	if err := s.Feedback(testRecord("yes", "yes", "yes")); err == nil {
		t.Error("feedback before any pose should fail")
	}

	if _, err := s.Pose(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Pose(ctx, "p2"); err == nil {
		t.Error("second pose without feedback should fail")
	}
}

func TestSessionFailureLeavesTranscriptIntact(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: goodReply},
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	s := NewSession(mock, DefaultConfig())
	ctx := context.Background()

	if _, err := s.Pose(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Feedback(testRecord("no", "no", "no")); err != nil {
		t.Fatal(err)
	}
	before := len(s.Transcript())

	if _, err := s.Pose(ctx, "p2"); err == nil {
		t.Fatal("expected provider failure")
	}
	if got := len(s.Transcript()); got != before {
		t.Errorf("transcript length changed on failed pose: %d -> %d", before, got)
	}
}
