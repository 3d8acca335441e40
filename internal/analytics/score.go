package analytics

import (
	"math"
	"strings"

	"mccb-go/internal/models"
)

// scoreable reports whether a field carries a usable value. Zero counts as
// absent throughout the precedence chain: the exported document schema
// materializes Total, Max and Percentage as 0 fillers, and a filler must not
// shadow a real accuracy or learning score when such a document is
// re-imported.
func scoreable(v *float64) bool {
	return v != nil && *v != 0
}

// ScoreOf maps a record's heterogeneous score fields to one comparable value.
// The precedence order is a business rule: several fields can coexist, and
// some are more diagnostic than others for a given instrument. Do not
// reorder.
func ScoreOf(rec *models.TestRecord) float64 {
	s := &rec.Scores

	// BACS raw percentages run naturally low (typical performance sits well
	// under 50%), so a linear percentage would misrepresent the instrument
	// against the rest of the battery. Re-anchor so ~50% raw reads as good
	// on the common scale.
	if strings.Contains(rec.Type, models.TypeBACSSymbolCoding) && scoreable(s.Percentage) {
		return bacsReanchor(*s.Percentage)
	}

	if scoreable(s.Percentage) {
		return *s.Percentage
	}

	if scoreable(s.Accuracy) {
		return *s.Accuracy
	}

	if scoreable(s.Total) && scoreable(s.Max) {
		return *s.Total / *s.Max * 100
	}

	// Raw total with no maximum is deliberately unbounded; callers must not
	// clamp it.
	if scoreable(s.Total) {
		return *s.Total
	}

	if strings.Contains(rec.Type, models.TypeAnimalNaming) && scoreable(s.Score) {
		return *s.Score
	}
	if strings.Contains(rec.Type, models.TypeTrailMaking) && scoreable(s.Percentage) {
		return *s.Percentage
	}
	if strings.Contains(rec.Type, models.TypeBVMTR) && scoreable(s.TotalLearning) {
		return *s.TotalLearning
	}
	if strings.Contains(rec.Type, models.TypeCPTIP) && scoreable(s.Accuracy) {
		return *s.Accuracy
	}

	return 0
}

// bacsReanchor piecewise-linearly remaps a raw BACS percentage:
// [0,30] -> [0,60], (30,50] -> (60,80], (50,100] -> (80,100], clamped to 100.
// The mapping is continuous at both breakpoints.
func bacsReanchor(raw float64) float64 {
	var mapped float64
	switch {
	case raw <= 30:
		mapped = raw / 30 * 60
	case raw <= 50:
		mapped = 60 + (raw-30)/20*20
	default:
		mapped = 80 + (raw-50)/50*20
	}
	return math.Min(mapped, 100)
}

// UnifyingScore is the single headline figure: the rounded arithmetic mean
// of ScoreOf over the improvement pool when it is non-empty, otherwise over
// the whole collection. A plain mean keeps the number auditable by hand from
// the per-test breakdown.
func (e *Engine) UnifyingScore() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.records) == 0 {
		return 0
	}
	data := e.improvement
	if len(data) == 0 {
		data = e.records
	}

	var sum float64
	for i := range data {
		sum += ScoreOf(&data[i])
	}
	return int(math.Round(sum / float64(len(data))))
}

// Interpretation renders the fixed presentation bands for a unifying score.
// These are display policy, not statistical norms.
func Interpretation(score int) string {
	switch {
	case score >= 85:
		return "Excellent performance - Outstanding cognitive function"
	case score >= 75:
		return "Very good performance - Above average cognitive function"
	case score >= 65:
		return "Good performance - Average cognitive function"
	case score >= 55:
		return "Fair performance - Mildly below average cognitive function"
	case score >= 45:
		return "Poor performance - Moderately impaired cognitive function"
	default:
		return "Very poor performance - Severely impaired cognitive function"
	}
}

// PerformanceLabel is the short per-record badge used in test listings. Its
// thresholds intentionally differ from the unifying-score bands.
func PerformanceLabel(score float64) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 75:
		return "Very Good"
	case score >= 65:
		return "Good"
	case score >= 45:
		return "Fair"
	case score >= 25:
		return "Poor"
	default:
		return "Very Poor"
	}
}

// SessionAverage is the mean comparable score across a session's records.
func SessionAverage(session *models.Session) float64 {
	if len(session.Tests) == 0 {
		return 0
	}
	var sum float64
	for i := range session.Tests {
		sum += ScoreOf(&session.Tests[i])
	}
	return sum / float64(len(session.Tests))
}
