package simulate

import (
	"context"
	"fmt"

	"github.com/abisha-thapa/simulate-students-genai/internal/dataset"
	"github.com/abisha-thapa/simulate-students-genai/internal/llm"
)

// Config bounds every model call a session makes.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the session defaults used by the pipeline.
func DefaultConfig() Config {
	return Config{MaxTokens: 4096, Temperature: 0}
}

// sessionState tracks where a session is in its pose/feedback cadence.
type sessionState int

const (
	awaitingProblem sessionState = iota
	awaitingFeedback
)

// Turn is one entry in a session transcript, for inspection and tests.
// Role is "system", "user", or "model".
type Turn struct {
	Role string
	Text string
}

// Session owns one student's growing conversation. The transcript is
// append-only: every Pose adds the problem and the reply, every Feedback
// adds the ground-truth turn, and past turns are never edited. Each model
// call carries the entire history, so the model's k-th prediction is
// conditioned on all earlier problems, replies, and corrections for this
// student — and on nothing from any other student.
type Session struct {
	provider llm.Provider
	cfg      Config

	turns []llm.Message
	state sessionState
}

// NewSession creates a fresh session with an empty transcript.
func NewSession(provider llm.Provider, cfg Config) *Session {
	return &Session{provider: provider, cfg: cfg}
}

// Pose sends a problem to the model and returns the raw reply text.
//
// The problem is appended as a user turn and the full history (system
// prompt first) goes out with the request. On provider failure the
// transcript is left exactly as it was before the call, so an aborted
// student never leaves a half-appended turn behind.
func (s *Session) Pose(ctx context.Context, problemText string) (string, error) {
	if s.state != awaitingProblem {
		return "", fmt.Errorf("pose called before feedback for the previous problem")
	}

	history := make([]llm.Message, len(s.turns), len(s.turns)+1)
	copy(history, s.turns)
	history = append(history, llm.Message{Role: llm.RoleUser, Content: problemText})

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    history,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}

	s.turns = append(history, llm.Message{Role: llm.RoleAssistant, Content: resp.Text})
	s.state = awaitingFeedback
	return resp.Text, nil
}

// Feedback appends the ground-truth turn for the problem just posed. The
// turn is not sent to the model by itself; it becomes part of the context
// on the next Pose.
func (s *Session) Feedback(rec dataset.Record) error {
	if s.state != awaitingFeedback {
		return fmt.Errorf("feedback called with no reply outstanding")
	}

	s.turns = append(s.turns, llm.Message{
		Role:    llm.RoleUser,
		Content: buildFeedbackMessage(rec),
	})
	s.state = awaitingProblem
	return nil
}

// Transcript returns a copy of the conversation so far, system prompt
// included as the first turn.
func (s *Session) Transcript() []Turn {
	out := make([]Turn, 0, len(s.turns)+1)
	out = append(out, Turn{Role: "system", Text: systemPrompt})
	for _, m := range s.turns {
		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "model"
		}
		out = append(out, Turn{Role: role, Text: m.Content})
	}
	return out
}
