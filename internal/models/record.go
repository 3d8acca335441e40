package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TestRecord is one completed administration of one test instrument, as
// extracted from a result XML document.
type TestRecord struct {
	TestName  string   `json:"testName"`
	Type      string   `json:"type"`
	Date      string   `json:"date"`
	Timestamp string   `json:"timestamp,omitempty"`
	Scores    Scores   `json:"scores"`
	Metadata  Metadata `json:"metadata"`
}

// Metadata carries provenance for a record.
type Metadata struct {
	FileName  string `json:"fileName,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// DedupKey builds the composite identity used to collapse re-imports of the
// same source file. Two genuinely distinct administrations on the same day
// differ in timestamp or scores and therefore keep distinct keys.
func (r *TestRecord) DedupKey() string {
	scores, err := json.Marshal(r.Scores)
	if err != nil {
		scores = []byte("{}")
	}
	return fmt.Sprintf("%s_%s_%s_%s", r.Type, r.Date, r.Timestamp, scores)
}

// DateKey normalizes the administration date to a YYYY-MM-DD key for session
// grouping. Unparseable dates fall back to the raw string so that records
// from the same malformed source still group together.
func (r *TestRecord) DateKey() string {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, r.Date); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	return r.Date
}

// DateValue parses the administration date for chronological ordering.
// Records with unparseable dates sort to the zero time.
func (r *TestRecord) DateValue() time.Time {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, r.Date); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// Clone returns a shallow copy, used when a record is routed into more than
// one analysis view.
func (r *TestRecord) Clone() TestRecord {
	return *r
}

// Session groups the records administered on one calendar day that together
// cover enough of the battery to count as a complete administration.
type Session struct {
	Date         string       `json:"date"`
	Tests        []TestRecord `json:"tests"`
	TestTypes    []string     `json:"testTypes"`
	Completeness float64      `json:"completeness"`
}
