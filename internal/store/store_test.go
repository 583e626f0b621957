package store

import (
	"context"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEvent(runID string, tokens int) LLMRequestEventData {
	return LLMRequestEventData{
		RunID:        runID,
		Provider:     "gemini",
		Model:        "gemini-2.5-flash",
		Purpose:      "simulate",
		InputTokens:  tokens,
		OutputTokens: tokens / 2,
		LatencyMs:    120,
		Success:      true,
		RequestBody:  `{"messages":[]}`,
		ResponseBody: "the reply",
	}
}

func TestAppendAndQuery(t *testing.T) {
	s := testStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, sampleEvent("run-1", 100)); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendLLMRequest(ctx, sampleEvent("run-2", 200)); err != nil {
		t.Fatal(err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	// Newest first.
	if events[0].RunID != "run-2" {
		t.Errorf("events[0].RunID = %q, want run-2", events[0].RunID)
	}

	e := events[1]
	if e.Provider != "gemini" || e.Model != "gemini-2.5-flash" || e.Purpose != "simulate" {
		t.Errorf("event fields wrong: %+v", e)
	}
	if e.InputTokens != 100 || e.OutputTokens != 50 {
		t.Errorf("token counts = %d/%d, want 100/50", e.InputTokens, e.OutputTokens)
	}
	if e.Timestamp.IsZero() {
		t.Error("timestamp not recorded")
	}
}

func TestQueryFilterByRun(t *testing.T) {
	s := testStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, run := range []string{"run-1", "run-2", "run-1"} {
		if err := repo.AppendLLMRequest(ctx, sampleEvent(run, 10)); err != nil {
			t.Fatal(err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{RunID: "run-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events for run-1, want 2", len(events))
	}
	for _, e := range events {
		if e.RunID != "run-1" {
			t.Errorf("filter leaked event from %q", e.RunID)
		}
	}
}

func TestQueryLimit(t *testing.T) {
	s := testStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.AppendLLMRequest(ctx, sampleEvent("run-1", 10)); err != nil {
			t.Fatal(err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Errorf("got %d events, want 3", len(events))
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := testStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := sampleEvent("run-1", 10)
	data.Success = false
	data.ErrorMessage = "rate limited"
	if err := repo.AppendLLMRequest(ctx, data); err != nil {
		t.Fatal(err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}

	e, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if e == nil {
		t.Fatal("event not found by ID")
	}
	if e.Success || e.ErrorMessage != "rate limited" {
		t.Errorf("failure fields wrong: %+v", e)
	}
	if e.RequestBody == "" || e.ResponseBody == "" {
		t.Error("bodies not stored")
	}

	missing, err := repo.GetLLMEvent(ctx, 99999)
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Error("expected nil for unknown ID")
	}
}

func TestUsageAggregation(t *testing.T) {
	s := testStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.AppendLLMRequest(ctx, sampleEvent("run-1", 100)); err != nil {
			t.Fatal(err)
		}
	}
	other := sampleEvent("run-1", 40)
	other.Model = "gpt-4o-mini"
	other.Purpose = "probe"
	if err := repo.AppendLLMRequest(ctx, other); err != nil {
		t.Fatal(err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purpose groups, want 2", len(byPurpose))
	}
	for _, st := range byPurpose {
		if st.Purpose == "simulate" {
			if st.Calls != 3 || st.InputTokens != 300 || st.OutputTokens != 150 {
				t.Errorf("simulate stats = %+v", st)
			}
		}
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byModel) != 2 {
		t.Fatalf("got %d model groups, want 2", len(byModel))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.EventRepo().AppendLLMRequest(context.Background(), sampleEvent("run-1", 10)); err != nil {
		t.Fatal(err)
	}
	s1.Close()

	// Reopening must keep the schema and the data.
	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	events, err := s2.EventRepo().QueryLLMEvents(context.Background(), QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events after reopen, want 1", len(events))
	}
}
