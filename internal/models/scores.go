package models

// Scores holds the instrument-specific score fields of a record. Every field
// is optional; extractors populate only what the source document carries.
// JSON field names match the result documents' camelCase tags so that the
// serialized form doubles as the dedup-key payload.
type Scores struct {
	Total      *float64 `json:"total,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Accuracy   *float64 `json:"accuracy,omitempty"`
	Score      *float64 `json:"score,omitempty"`

	ReactionTime    *float64 `json:"reactionTime,omitempty"`
	TotalLearning   *float64 `json:"totalLearning,omitempty"`
	AverageLearning *float64 `json:"averageLearning,omitempty"`
	DelayedRecall   *float64 `json:"delayedRecall,omitempty"`
	Recognition     *float64 `json:"recognition,omitempty"`
	TotalRecall     *float64 `json:"totalRecall,omitempty"`
	Learning        *float64 `json:"learning,omitempty"`
	Retention       *float64 `json:"retention,omitempty"`

	TimeTaken      *float64 `json:"timeTaken,omitempty"`
	TestDuration   *float64 `json:"testDuration,omitempty"`
	CompletionTime *float64 `json:"completionTime,omitempty"`
	Errors         *float64 `json:"errors,omitempty"`
	TimePerItem    *float64 `json:"timePerItem,omitempty"`
	// MaxScore is the BACS document's own maximum field. It is deliberately
	// distinct from Max: BACS results are compared via the re-anchored
	// percentage, never via a total/max ratio.
	MaxScore  *float64 `json:"maxScore,omitempty"`
	WordCount *float64 `json:"wordCount,omitempty"`

	ImmediateRecall []int        `json:"immediateRecall,omitempty"`
	LearningTrials  []int        `json:"learningTrials,omitempty"`
	Trials          []TrialScore `json:"trials,omitempty"`
	Mazes           []MazeResult `json:"mazes,omitempty"`
}

// TrialScore is one numbered trial within a span-type instrument.
type TrialScore struct {
	Trial int `json:"trial"`
	Score int `json:"score"`
}

// MazeResult is one maze within a NAB Mazes administration.
type MazeResult struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	TimeTaken int    `json:"timeTaken"`
	Completed bool   `json:"completed"`
}

// Float is a convenience for building optional score fields.
func Float(v float64) *float64 { return &v }
