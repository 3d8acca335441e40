package parser

import (
	"strconv"
	"strings"

	"mccb-go/internal/models"

	"github.com/antchfx/xmlquery"
)

// firstText returns the trimmed text of the first path that matches with
// non-empty content.
func firstText(node *xmlquery.Node, paths ...string) string {
	for _, path := range paths {
		if found := xmlquery.FindOne(node, path); found != nil {
			if text := strings.TrimSpace(found.InnerText()); text != "" {
				return text
			}
		}
	}
	return ""
}

// numField parses the first matching path as a number, tolerating a trailing
// percent sign. The second return reports presence of a parseable value.
func numField(node *xmlquery.Node, paths ...string) (float64, bool) {
	text := firstText(node, paths...)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(text, "%"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func setNum(dst **float64, node *xmlquery.Node, paths ...string) {
	if v, ok := numField(node, paths...); ok {
		*dst = models.Float(v)
	}
}

func extractHVLTR(node *xmlquery.Node) models.Scores {
	var s models.Scores
	setNum(&s.TotalRecall, node, ".//totalRecallScore")
	setNum(&s.Learning, node, ".//learningScore")
	setNum(&s.DelayedRecall, node, ".//delayedRecallScore")
	setNum(&s.Retention, node, ".//retentionScore")
	setNum(&s.Percentage, node, ".//percentage")

	for _, trial := range xmlquery.Find(node, ".//immediateRecall/trial") {
		if v, ok := numField(trial, "score"); ok {
			s.ImmediateRecall = append(s.ImmediateRecall, int(v))
		}
	}
	return s
}

func extractBVMTR(node *xmlquery.Node) models.Scores {
	var s models.Scores
	setNum(&s.TotalLearning, node, ".//totalLearningScore")
	setNum(&s.AverageLearning, node, ".//averageLearningScore")
	setNum(&s.DelayedRecall, node, ".//delayedRecallScore")
	setNum(&s.Recognition, node, ".//recognitionScore")

	for _, trial := range xmlquery.Find(node, ".//learningScores/trial") {
		if v, ok := numField(trial, "score"); ok {
			s.LearningTrials = append(s.LearningTrials, int(v))
		}
	}
	return s
}

func extractNABMazes(node *xmlquery.Node) models.Scores {
	var s models.Scores
	setNum(&s.Total, node, ".//totalScore")
	setNum(&s.Max, node, ".//maxScore")
	setNum(&s.Percentage, node, ".//percentage")

	for _, maze := range xmlquery.Find(node, ".//mazeResults/maze") {
		name := firstText(maze, "name")
		score, scoreOK := numField(maze, "score")
		if name == "" || !scoreOK {
			continue
		}
		timeTaken, _ := numField(maze, "timeTaken")
		s.Mazes = append(s.Mazes, models.MazeResult{
			Name:      name,
			Score:     int(score),
			TimeTaken: int(timeTaken),
			Completed: firstText(maze, "completed") == "true",
		})
	}
	return s
}

// extractSpanTrials covers Letter-Number Span and WMS-III Spatial Span, which
// share a totalScore/maxScore/trials shape. Their percentage tag is ignored:
// the comparable score for span tasks is always derived from total/max.
func extractSpanTrials(node *xmlquery.Node) models.Scores {
	var s models.Scores
	setNum(&s.Total, node, ".//totalScore")
	setNum(&s.Max, node, ".//maxScore")

	for _, trial := range xmlquery.Find(node, ".//trial") {
		n, nOK := numField(trial, "trialNumber")
		score, scoreOK := numField(trial, "score")
		if nOK && scoreOK {
			s.Trials = append(s.Trials, models.TrialScore{Trial: int(n), Score: int(score)})
		}
	}
	return s
}

func extractBACS(node *xmlquery.Node) models.Scores {
	var s models.Scores
	setNum(&s.Score, node, ".//Score")
	setNum(&s.MaxScore, node, ".//Max_Score")
	setNum(&s.Percentage, node, ".//Percentage")
	setNum(&s.TimeTaken, node, ".//Time_Taken_Seconds")
	setNum(&s.TimePerItem, node, ".//Time_Per_Item")
	return s
}

func extractAnimalNaming(node *xmlquery.Node) models.Scores {
	var s models.Scores
	setNum(&s.Score, node, ".//score")
	setNum(&s.TimeTaken, node, ".//timeTaken")
	setNum(&s.TestDuration, node, ".//testDuration")
	setNum(&s.Percentage, node, ".//percentage")

	if words := xmlquery.Find(node, ".//word"); len(words) > 0 {
		s.WordCount = models.Float(float64(len(words)))
	}
	return s
}

// Completion-time bounds for the derived Trail Making score.
const (
	trailMinSeconds = 20.0
	trailMaxSeconds = 180.0
)

func extractTrailMaking(node *xmlquery.Node) models.Scores {
	var s models.Scores
	setNum(&s.Score, node, ".//score")
	setNum(&s.TimeTaken, node, ".//timeTaken")
	setNum(&s.Errors, node, ".//errors")
	setNum(&s.Percentage, node, ".//percentage")
	setNum(&s.CompletionTime, node, ".//completionTime")

	if s.Percentage == nil && s.Score != nil {
		s.Percentage = models.Float(*s.Score)
	}

	// Lower completion times are better; invert onto the common 0-100 scale
	// when the document carries a time but no explicit score.
	if s.CompletionTime != nil && s.Score == nil {
		t := *s.CompletionTime
		if t < trailMinSeconds {
			t = trailMinSeconds
		}
		if t > trailMaxSeconds {
			t = trailMaxSeconds
		}
		derived := float64(int(100*(1-(t-trailMinSeconds)/(trailMaxSeconds-trailMinSeconds)) + 0.5))
		s.Score = models.Float(derived)
		s.Percentage = models.Float(derived)
	}
	return s
}

func extractCPT(node *xmlquery.Node) models.Scores {
	var s models.Scores
	setNum(&s.Score, node, ".//score")
	setNum(&s.TimeTaken, node, ".//timeTaken")
	setNum(&s.Accuracy, node, ".//accuracy")
	setNum(&s.ReactionTime, node, ".//reactionTime")
	return s
}

// extractExported reads one Test block of the tool's own exported schema.
// Total, Max and Percentage always materialize (defaulting to 0); the
// remaining score fields stay absent unless the block carries them.
func (p *Parser) extractExported(node *xmlquery.Node, fileName string) models.TestRecord {
	testName := firstText(node, "Test_Name")
	if testName == "" {
		testName = "Unknown Test"
	}
	testType := firstText(node, "Test_Type")
	if testType == "" {
		testType = "Unknown"
	}

	var s models.Scores
	total, _ := numField(node, "Scores/Total")
	max, _ := numField(node, "Scores/Max")
	percentage, _ := numField(node, "Scores/Percentage")
	s.Total = models.Float(total)
	s.Max = models.Float(max)
	s.Percentage = models.Float(percentage)
	setNum(&s.Accuracy, node, "Scores/Accuracy")
	setNum(&s.ReactionTime, node, "Scores/ReactionTime")
	setNum(&s.TotalLearning, node, "Scores/TotalLearning")
	setNum(&s.AverageLearning, node, "Scores/AverageLearning")
	setNum(&s.DelayedRecall, node, "Scores/DelayedRecall")
	setNum(&s.Recognition, node, "Scores/Recognition")

	metaFile := firstText(node, "Metadata/File_Name")
	if metaFile == "" {
		metaFile = fileName
	}

	return models.TestRecord{
		TestName:  testName,
		Type:      testType,
		Date:      firstText(node, "Test_Date"),
		Timestamp: firstText(node, "Test_Time"),
		Scores:    s,
		Metadata: models.Metadata{
			FileName:  metaFile,
			SessionID: firstText(node, "Metadata/Session_ID"),
		},
	}
}
