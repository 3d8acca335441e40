package analytics

import (
	"testing"

	"mccb-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeStatistics(t *testing.T) {
	engine := newTestEngine()
	engine.Add(
		makeRecord(models.TypeHVLTR, "2024-03-01", 60),
		makeRecord(models.TypeHVLTR, "2024-03-08", 70),
		makeRecord(models.TypeHVLTR, "2024-03-15", 80),
		makeRecord(models.TypeBVMTR, "2024-03-01", 50),
	)

	stats := engine.TypeStatistics()
	require.Len(t, stats, 2)

	// Lexicographic ordering: BVMT-R before HVLT-R.
	assert.Equal(t, models.TypeBVMTR, stats[0].Type)
	assert.Equal(t, 1, stats[0].Count)
	assert.Equal(t, "N/A", stats[0].Trend)

	hvlt := stats[1]
	assert.Equal(t, models.TypeHVLTR, hvlt.Type)
	assert.Equal(t, 3, hvlt.Count)
	assert.InDelta(t, 60, hvlt.Min, 1e-9)
	assert.InDelta(t, 80, hvlt.Max, 1e-9)
	assert.InDelta(t, 70, hvlt.Mean, 1e-9)
	assert.InDelta(t, 70, hvlt.Median, 1e-9)
	assert.Equal(t, "Improving", hvlt.Trend)
}

func TestImprovementTrends(t *testing.T) {
	engine := newTestEngine()
	engine.Add(
		makeRecord(models.TypeHVLTR, "2024-03-01", 60),
		makeRecord(models.TypeHVLTR, "2024-03-15", 75),
		makeRecord(models.TypeBVMTR, "2024-03-01", 50),
	)

	trends := engine.ImprovementTrends()
	// BVMT-R has a single administration, so only HVLT-R carries a trend.
	require.Len(t, trends, 1)

	trend := trends[0]
	assert.Equal(t, models.TypeHVLTR, trend.Type)
	assert.InDelta(t, 60, trend.FirstScore, 1e-9)
	assert.InDelta(t, 75, trend.LastScore, 1e-9)
	assert.InDelta(t, 15, trend.Improvement, 1e-9)
	assert.InDelta(t, 25, trend.ImprovementPercent, 1e-9)
	assert.Equal(t, 2, trend.TestCount)
}

func TestScoreDistribution(t *testing.T) {
	engine := newTestEngine()
	engine.Add(
		makeRecord(models.TypeHVLTR, "2024-03-01", 10),
		makeRecord(models.TypeHVLTR, "2024-03-02", 35),
		makeRecord(models.TypeHVLTR, "2024-03-03", 50),
		makeRecord(models.TypeHVLTR, "2024-03-04", 90),
	)

	dist := engine.ScoreDistribution()
	assert.Equal(t, 1, dist.Failed)
	assert.Equal(t, 1, dist.Low)
	assert.Equal(t, 2, dist.Acceptable)
}

func TestSessionAverage(t *testing.T) {
	session := models.Session{Tests: []models.TestRecord{
		makeRecord(models.TypeHVLTR, "2024-03-01", 60),
		makeRecord(models.TypeBVMTR, "2024-03-01", 80),
	}}
	assert.InDelta(t, 70, SessionAverage(&session), 1e-9)
	assert.InDelta(t, 0, SessionAverage(&models.Session{}), 1e-9)
}
