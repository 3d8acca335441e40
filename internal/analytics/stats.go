package analytics

import (
	"math"
	"sort"

	"mccb-go/internal/models"
)

// TypeStats summarizes every administration of one instrument type.
type TypeStats struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"stdDev"`
	Trend      string  `json:"trend"`
	TrendValue float64 `json:"trendValue"`
	Latest     float64 `json:"latestScore"`
	Best       float64 `json:"bestScore"`
}

// ImprovementTrend compares the first and last administration of one type
// within the improvement pool.
type ImprovementTrend struct {
	Type               string              `json:"type"`
	FirstScore         float64             `json:"firstScore"`
	LastScore          float64             `json:"lastScore"`
	Improvement        float64             `json:"improvement"`
	ImprovementPercent float64             `json:"improvementPercent"`
	TestCount          int                 `json:"testCount"`
	Records            []models.TestRecord `json:"-"`
}

// Distribution buckets records by comparable score. The boundaries match the
// dashboard's error-analysis view: under 20 reads as a failed attempt.
type Distribution struct {
	Failed     int `json:"failed"`     // 0-19
	Low        int `json:"low"`        // 20-49
	Acceptable int `json:"acceptable"` // 50+
}

// TypeStatistics computes the per-type breakdown over the full collection.
// Types come back lexicographically sorted.
func (e *Engine) TypeStatistics() []TypeStats {
	records := e.Records()

	byType := make(map[string][]float64)
	for i := range records {
		byType[records[i].Type] = append(byType[records[i].Type], ScoreOf(&records[i]))
	}

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	stats := make([]TypeStats, 0, len(types))
	for _, t := range types {
		scores := byType[t]
		st := TypeStats{Type: t, Count: len(scores), Trend: "N/A"}

		sorted := append([]float64(nil), scores...)
		sort.Float64s(sorted)
		st.Min = sorted[0]
		st.Max = sorted[len(sorted)-1]
		st.Best = st.Max
		st.Latest = scores[len(scores)-1]
		if len(sorted)%2 == 0 {
			st.Median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
		} else {
			st.Median = sorted[len(sorted)/2]
		}

		var sum float64
		for _, s := range scores {
			sum += s
		}
		st.Mean = sum / float64(len(scores))

		var sq float64
		for _, s := range scores {
			sq += (s - st.Mean) * (s - st.Mean)
		}
		st.StdDev = math.Sqrt(sq / float64(len(scores)))

		// Trend: compare the mean of the first half against the second.
		if len(scores) >= 2 {
			half := len(scores) / 2
			st.TrendValue = mean(scores[half:]) - mean(scores[:half])
			switch {
			case st.TrendValue > 5:
				st.Trend = "Improving"
			case st.TrendValue < -5:
				st.Trend = "Declining"
			default:
				st.Trend = "Stable"
			}
		}

		stats = append(stats, st)
	}
	return stats
}

// ImprovementTrends derives per-type first-vs-last progress from the
// improvement pool. Types with fewer than two administrations carry no trend
// and are omitted.
func (e *Engine) ImprovementTrends() []ImprovementTrend {
	pool := e.Improvement()

	byType := make(map[string][]models.TestRecord)
	var typeOrder []string
	for _, rec := range pool {
		if _, seen := byType[rec.Type]; !seen {
			typeOrder = append(typeOrder, rec.Type)
		}
		byType[rec.Type] = append(byType[rec.Type], rec)
	}

	var trends []ImprovementTrend
	for _, t := range typeOrder {
		records := byType[t]
		if len(records) < 2 {
			continue
		}
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].DateValue().Before(records[j].DateValue())
		})

		first := ScoreOf(&records[0])
		last := ScoreOf(&records[len(records)-1])
		trend := ImprovementTrend{
			Type:        t,
			FirstScore:  first,
			LastScore:   last,
			Improvement: last - first,
			TestCount:   len(records),
			Records:     records,
		}
		if first > 0 {
			trend.ImprovementPercent = (last - first) / first * 100
		}
		trends = append(trends, trend)
	}
	return trends
}

// ScoreDistribution buckets the whole collection for the error-analysis view.
func (e *Engine) ScoreDistribution() Distribution {
	records := e.Records()
	var d Distribution
	for i := range records {
		switch score := ScoreOf(&records[i]); {
		case score < 20:
			d.Failed++
		case score < 50:
			d.Low++
		default:
			d.Acceptable++
		}
	}
	return d
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
