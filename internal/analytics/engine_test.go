package analytics

import (
	"fmt"
	"testing"

	"mccb-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecord(testType, date string, percentage float64) models.TestRecord {
	return models.TestRecord{
		TestName: testType + " Test",
		Type:     testType,
		Date:     date,
		Scores:   models.Scores{Percentage: models.Float(percentage)},
	}
}

// fullSessionRecords returns one record for each of the nine canonical
// instruments on the given day.
func fullSessionRecords(date string) []models.TestRecord {
	var records []models.TestRecord
	for i, testType := range models.DefaultBattery().CanonicalTypes() {
		records = append(records, makeRecord(testType, date, float64(60+i)))
	}
	return records
}

func TestCategorizeCompleteSession(t *testing.T) {
	engine := newTestEngine()
	engine.Add(fullSessionRecords("2024-03-15")...)

	sessions := engine.CompleteSessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "2024-03-15", sessions[0].Date)
	assert.Len(t, sessions[0].Tests, 9)
	assert.InDelta(t, 1.0, sessions[0].Completeness, 1e-9)

	// Complete-session records are copied into the improvement pool too.
	assert.Len(t, engine.Improvement(), 9)
}

func TestCategorizeSevenOfNineIsComplete(t *testing.T) {
	engine := newTestEngine()
	engine.Add(fullSessionRecords("2024-03-15")[:7]...)

	sessions := engine.CompleteSessions()
	require.Len(t, sessions, 1)
	assert.InDelta(t, 7.0/9.0, sessions[0].Completeness, 1e-9)
}

func TestCategorizeSixOfNineIsNotComplete(t *testing.T) {
	engine := newTestEngine()
	records := fullSessionRecords("2024-03-15")[:6]
	// Pile on unrecognized documents; they never promote the group.
	for i := 0; i < 3; i++ {
		rec := makeRecord(models.TypeOther, "2024-03-15", 50)
		rec.TestName = fmt.Sprintf("Mystery %d", i)
		rec.Timestamp = fmt.Sprintf("10:0%d:00", i)
		records = append(records, rec)
	}
	engine.Add(records...)

	assert.Empty(t, engine.CompleteSessions())
	// Everything stays in the improvement pool instead.
	assert.Len(t, engine.Improvement(), 9)
}

func TestCategorizeDuplicateTypesCountOnce(t *testing.T) {
	engine := newTestEngine()
	var records []models.TestRecord
	// Seven administrations of one instrument are still one distinct type.
	for i := 0; i < 7; i++ {
		rec := makeRecord(models.TypeHVLTR, "2024-03-15", float64(60+i))
		rec.Timestamp = fmt.Sprintf("10:0%d:00", i)
		records = append(records, rec)
	}
	engine.Add(records...)

	assert.Empty(t, engine.CompleteSessions())
}

func TestCategorizeGroupsByCalendarDay(t *testing.T) {
	engine := newTestEngine()
	var records []models.TestRecord
	for i, testType := range models.DefaultBattery().CanonicalTypes() {
		// Different times of the same day share a session.
		date := fmt.Sprintf("2024-03-15T%02d:00:00Z", 8+i)
		records = append(records, makeRecord(testType, date, 70))
	}
	engine.Add(records...)

	require.Len(t, engine.CompleteSessions(), 1)
	assert.Equal(t, "2024-03-15", engine.CompleteSessions()[0].Date)
}

func TestCategorizeDedupIdempotence(t *testing.T) {
	engine := newTestEngine()
	records := fullSessionRecords("2024-03-15")

	engine.Add(records...)
	firstPool := engine.Improvement()

	// Re-importing the same files adds raw records but the pool stays put.
	engine.Add(records...)
	assert.Len(t, engine.Records(), 18)
	assert.Equal(t, firstPool, engine.Improvement())
}

func TestImprovementPoolSorted(t *testing.T) {
	engine := newTestEngine()
	engine.Add(
		makeRecord(models.TypeHVLTR, "2024-03-20", 80),
		makeRecord(models.TypeBVMTR, "2024-03-10", 60),
		makeRecord(models.TypeHVLTR, "2024-03-10", 70),
	)

	pool := engine.Improvement()
	require.Len(t, pool, 3)
	// Type first, then date.
	assert.Equal(t, models.TypeBVMTR, pool[0].Type)
	assert.Equal(t, models.TypeHVLTR, pool[1].Type)
	assert.Equal(t, "2024-03-10", pool[1].Date)
	assert.Equal(t, models.TypeHVLTR, pool[2].Type)
	assert.Equal(t, "2024-03-20", pool[2].Date)
}

// Login hydration must never discard live imports that have not reached
// storage yet.
func TestHydrateIfEmpty(t *testing.T) {
	engine := newTestEngine()

	stored := []models.TestRecord{makeRecord(models.TypeHVLTR, "2024-03-15", 70)}
	assert.True(t, engine.HydrateIfEmpty(stored))
	assert.Len(t, engine.Records(), 1)

	live := makeRecord(models.TypeCPTIP, "2024-03-16", 80)
	engine.Add(live)

	// A second hydration (a fresh login) sees a non-empty engine and backs
	// off, keeping the record that only exists in memory.
	assert.False(t, engine.HydrateIfEmpty(stored))
	records := engine.Records()
	require.Len(t, records, 2)
	assert.Equal(t, models.TypeCPTIP, records[1].Type)
}

func TestReplaceAndClear(t *testing.T) {
	engine := newTestEngine()
	engine.Add(fullSessionRecords("2024-03-15")...)
	require.NotEmpty(t, engine.CompleteSessions())

	engine.Replace([]models.TestRecord{makeRecord(models.TypeHVLTR, "2024-04-01", 75)})
	assert.Len(t, engine.Records(), 1)
	assert.Empty(t, engine.CompleteSessions())

	engine.Clear()
	assert.Empty(t, engine.Records())
	assert.Empty(t, engine.Improvement())
}
