package results

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleRow(student string, number int) Row {
	return Row{
		StudentID:             student,
		ProblemNumber:         number,
		ProblemText:           "x/4 = 3/12, solve for x",
		ClusterNumber:         "2",
		GeminiOptimalStrategy: "yes",
		GeminiSolvedUnknown:   "no",
		GeminiCorrectAnswer:   "unknown",
		CorrectStrategy:       "yes",
		CorrectUnknown:        "no",
		CorrectAnswer:         "yes",
		StrategyMatch:         true,
		UnknownMatch:          true,
		AnswerMatch:           false,
		GeminiRawResponse:     "reasoning, with commas\nand a newline",
	}
}

func TestRowFieldsMatchHeader(t *testing.T) {
	if got, want := len(sampleRow("s1", 1).Fields()), len(Header); got != want {
		t.Fatalf("Fields() has %d entries, Header has %d", got, want)
	}
}

func TestRowFieldsFormatting(t *testing.T) {
	fields := sampleRow("s1", 3).Fields()

	byName := make(map[string]string, len(Header))
	for i, name := range Header {
		byName[name] = fields[i]
	}

	if byName["problem_number"] != "3" {
		t.Errorf("problem_number = %q, want 3", byName["problem_number"])
	}
	if byName["strategy_match"] != "true" || byName["answer_match"] != "false" {
		t.Errorf("match flags = %q/%q, want true/false",
			byName["strategy_match"], byName["answer_match"])
	}
	if byName["gemini_correct_answer"] != "unknown" {
		t.Errorf("gemini_correct_answer = %q, want unknown", byName["gemini_correct_answer"])
	}
}

func TestCSVWriterAppendsDurably(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Append(sampleRow("s1", 1)); err != nil {
		t.Fatal(err)
	}

	// The row must be on disk before Close: a later crash must not lose it.
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(onDisk), "s1") {
		t.Error("appended row not flushed to disk before Close")
	}

	if err := w.Append(sampleRow("s2", 1)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 3 {
		t.Fatalf("file has %d rows, want header + 2", len(rows))
	}
	for i, name := range Header {
		if rows[0][i] != name {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], name)
		}
	}
	if rows[1][0] != "s1" || rows[2][0] != "s2" {
		t.Errorf("data rows out of order: %q, %q", rows[1][0], rows[2][0])
	}

	// Raw responses carry commas and newlines; the csv layer must round-trip them.
	raw := rows[1][len(Header)-1]
	if raw != "reasoning, with commas\nand a newline" {
		t.Errorf("raw response mangled: %q", raw)
	}
}

func TestCSVWriterTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	if err := os.WriteFile(path, []byte("stale,content\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Error("previous run's content survived NewCSVWriter")
	}
}
