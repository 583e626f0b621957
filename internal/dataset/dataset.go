// Package dataset loads the student problem table that drives a
// simulation run.
//
// The input is a CSV keyed by student_id. Row order is significant twice
// over: it fixes the order problems are posed within a student, and the
// order of first appearance fixes the order students are processed.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one (student, problem) row of the input table, with the three
// ground-truth outcomes observed for the real student. Ground-truth tokens
// are normalized to trimmed lower case at load.
type Record struct {
	StudentID     string
	ClusterNumber string
	ProblemText   string

	// Ground truth, each the literal token "yes" or "no".
	CorrectStrategy string
	CorrectUnknown  string
	CorrectAnswer   string
}

// requiredColumns are the headers the input table must carry.
var requiredColumns = []string{
	"student_id",
	"cluster_number",
	"problem_text",
	"correct_strategy",
	"correct_unknown",
	"correct_answer",
}

// LoadFile reads and validates the input table at path.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input table: %w", err)
	}
	defer f.Close()

	recs, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Load reads and validates the input table from r. A missing required
// column or an empty table is an error; both must be caught before any
// model call is made.
func Load(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // header decides; short rows are rejected below

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("input table is missing required column %q", col)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) < len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", line, len(row), len(header))
		}

		records = append(records, Record{
			StudentID:       strings.TrimSpace(row[idx["student_id"]]),
			ClusterNumber:   strings.TrimSpace(row[idx["cluster_number"]]),
			ProblemText:     row[idx["problem_text"]],
			CorrectStrategy: normalizeToken(row[idx["correct_strategy"]]),
			CorrectUnknown:  normalizeToken(row[idx["correct_unknown"]]),
			CorrectAnswer:   normalizeToken(row[idx["correct_answer"]]),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("input table has no data rows")
	}

	return records, nil
}

// GroupByStudent splits records per student, preserving within-student
// order. The returned order slice lists students by first appearance.
func GroupByStudent(records []Record) (order []string, groups map[string][]Record) {
	groups = make(map[string][]Record)
	for _, rec := range records {
		if _, seen := groups[rec.StudentID]; !seen {
			order = append(order, rec.StudentID)
		}
		groups[rec.StudentID] = append(groups[rec.StudentID], rec)
	}
	return order, groups
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
