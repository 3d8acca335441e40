package analytics

import (
	"fmt"
	"strconv"
	"time"

	"mccb-go/internal/models"

	"github.com/beevik/etree"
)

// Exporter serializes the engine's state into the tool's own XML schema.
// Parse on the resulting document reproduces the record set up to the
// exported schema's field defaults.
type Exporter struct {
	engine *Engine
}

func NewExporter(engine *Engine) *Exporter {
	return &Exporter{engine: engine}
}

// Export builds the full MCCB_Exported_Results document.
func (x *Exporter) Export(userName string) (string, error) {
	records := x.engine.Records()
	improvement := x.engine.Improvement()
	sessions := x.engine.CompleteSessions()

	if userName == "" {
		userName = "Anonymous"
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("MCCB_Exported_Results")

	info := root.CreateElement("Session_Info")
	info.CreateElement("User_Name").SetText(userName)
	info.CreateElement("Export_Date").SetText(time.Now().UTC().Format(time.RFC3339))
	info.CreateElement("Total_Tests").SetText(strconv.Itoa(len(records)))
	info.CreateElement("Improvement_Sessions").SetText(strconv.Itoa(len(improvement)))
	info.CreateElement("Complete_Sessions").SetText(strconv.Itoa(len(sessions)))

	results := root.CreateElement("Test_Results")
	for i := range records {
		writeTestBlock(results, &records[i], true)
	}

	improvementData := root.CreateElement("Improvement_Data")
	for _, trend := range x.engine.ImprovementTrends() {
		block := improvementData.CreateElement("Improvement_Session")
		block.CreateElement("Test_Type").SetText(trend.Type)
		block.CreateElement("Test_Count").SetText(strconv.Itoa(trend.TestCount))
		block.CreateElement("Date_Range").SetText(fmt.Sprintf("%s - %s",
			trend.Records[0].DateKey(), trend.Records[len(trend.Records)-1].DateKey()))
		block.CreateElement("Trend").SetText(trendLabel(trend.Improvement))
	}

	completeSessions := root.CreateElement("Complete_Sessions")
	for i := range sessions {
		block := completeSessions.CreateElement("Complete_Session")
		block.CreateElement("Session_Date").SetText(sessions[i].Date)
		block.CreateElement("Test_Count").SetText(strconv.Itoa(len(sessions[i].Tests)))
		block.CreateElement("Average_Score").SetText(formatNum(SessionAverage(&sessions[i])))
	}

	doc.Indent(4)
	return doc.WriteToString()
}

// ExportFileName derives the timestamped download name for an export.
func ExportFileName(prefix, userName string) string {
	if userName == "" {
		userName = "Anonymous"
	}
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	return fmt.Sprintf("%s_%s_%s.xml", prefix, userName, stamp)
}

// Merge builds the MCCB_Merged_Results document: the same per-record blocks
// without type or provenance, intended for re-import elsewhere.
func (x *Exporter) Merge(userName string) (string, error) {
	records := x.engine.Records()

	if userName == "" {
		userName = "Anonymous"
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("MCCB_Merged_Results")

	info := root.CreateElement("Session_Info")
	info.CreateElement("User_Name").SetText(userName)
	info.CreateElement("Merge_Date").SetText(time.Now().UTC().Format(time.RFC3339))
	info.CreateElement("Total_Tests").SetText(strconv.Itoa(len(records)))

	results := root.CreateElement("Test_Results")
	for i := range records {
		writeTestBlock(results, &records[i], false)
	}

	doc.Indent(4)
	return doc.WriteToString()
}

// writeTestBlock emits one Test element. Total, Max and Percentage always
// serialize (0 when absent); the remaining score fields serialize as empty
// strings when absent so that re-import leaves them unset.
func writeTestBlock(parent *etree.Element, rec *models.TestRecord, withIdentity bool) {
	test := parent.CreateElement("Test")
	test.CreateElement("Test_Name").SetText(rec.TestName)
	if withIdentity {
		testType := rec.Type
		if testType == "" {
			testType = "Unknown"
		}
		test.CreateElement("Test_Type").SetText(testType)
	}
	test.CreateElement("Test_Date").SetText(rec.Date)
	test.CreateElement("Test_Time").SetText(rec.Timestamp)

	scores := test.CreateElement("Scores")
	scores.CreateElement("Total").SetText(formatNumDefault(rec.Scores.Total))
	scores.CreateElement("Max").SetText(formatNumDefault(rec.Scores.Max))
	scores.CreateElement("Percentage").SetText(formatNumDefault(rec.Scores.Percentage))
	scores.CreateElement("Accuracy").SetText(formatNumOpt(rec.Scores.Accuracy))
	scores.CreateElement("ReactionTime").SetText(formatNumOpt(rec.Scores.ReactionTime))
	scores.CreateElement("TotalLearning").SetText(formatNumOpt(rec.Scores.TotalLearning))
	scores.CreateElement("AverageLearning").SetText(formatNumOpt(rec.Scores.AverageLearning))
	scores.CreateElement("DelayedRecall").SetText(formatNumOpt(rec.Scores.DelayedRecall))
	scores.CreateElement("Recognition").SetText(formatNumOpt(rec.Scores.Recognition))

	if withIdentity {
		meta := test.CreateElement("Metadata")
		fileName := rec.Metadata.FileName
		if fileName == "" {
			fileName = "Unknown"
		}
		meta.CreateElement("File_Name").SetText(fileName)
		meta.CreateElement("Session_ID").SetText(rec.Metadata.SessionID)
	}
}

func trendLabel(improvement float64) string {
	switch {
	case improvement > 5:
		return "Improving"
	case improvement < -5:
		return "Declining"
	default:
		return "Stable"
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatNumDefault(v *float64) string {
	if v == nil {
		return "0"
	}
	return formatNum(*v)
}

func formatNumOpt(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNum(*v)
}
