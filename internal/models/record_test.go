package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDateKey(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "RFC3339", date: "2024-03-15T10:30:00Z", want: "2024-03-15"},
		{name: "ISO with millis", date: "2024-03-15T10:30:00.000Z", want: "2024-03-15"},
		{name: "space separated", date: "2024-03-15 10:30:00", want: "2024-03-15"},
		{name: "date only", date: "2024-03-15", want: "2024-03-15"},
		{name: "unparseable falls back to raw", date: "15/03/2024", want: "15/03/2024"},
		{name: "empty", date: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := TestRecord{Date: tt.date}
			assert.Equal(t, tt.want, rec.DateKey())
		})
	}
}

func TestDateValueOrdering(t *testing.T) {
	earlier := TestRecord{Date: "2024-03-14T23:59:00Z"}
	later := TestRecord{Date: "2024-03-15"}
	garbled := TestRecord{Date: "not a date"}

	assert.True(t, earlier.DateValue().Before(later.DateValue()))
	assert.True(t, garbled.DateValue().IsZero())
}

func TestDedupKey(t *testing.T) {
	base := TestRecord{
		Type:      TypeHVLTR,
		Date:      "2024-03-15",
		Timestamp: "10:30:00",
		Scores:    Scores{Percentage: Float(75)},
	}

	// Identical content collapses to one key, regardless of provenance.
	dup := base
	dup.Metadata.FileName = "different.xml"
	assert.Equal(t, base.DedupKey(), dup.DedupKey())

	// Distinct scores keep distinct keys.
	otherScores := base
	otherScores.Scores = Scores{Percentage: Float(80)}
	assert.NotEqual(t, base.DedupKey(), otherScores.DedupKey())

	// A second administration later the same day keeps a distinct key.
	otherTime := base
	otherTime.Timestamp = "16:00:00"
	assert.NotEqual(t, base.DedupKey(), otherTime.DedupKey())
}
