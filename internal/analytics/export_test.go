package analytics

import (
	"strings"
	"testing"

	"mccb-go/internal/models"
	"mccb-go/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExportDocumentShape(t *testing.T) {
	engine := newTestEngine()
	rec := makeRecord(models.TypeHVLTR, "2024-03-15", 70)
	rec.Timestamp = "10:30:00"
	rec.Metadata.FileName = "hvlt.xml"
	engine.Add(rec)

	xml, err := NewExporter(engine).Export("Pat")
	require.NoError(t, err)

	assert.Contains(t, xml, "<MCCB_Exported_Results>")
	assert.Contains(t, xml, "<User_Name>Pat</User_Name>")
	assert.Contains(t, xml, "<Total_Tests>1</Total_Tests>")
	assert.Contains(t, xml, "<Test_Type>HVLT-R</Test_Type>")
	assert.Contains(t, xml, "<File_Name>hvlt.xml</File_Name>")
	// Core score fields default to 0 rather than disappearing.
	assert.Contains(t, xml, "<Total>0</Total>")
	assert.Contains(t, xml, "<Percentage>70</Percentage>")
}

func TestExportAnonymousUser(t *testing.T) {
	engine := newTestEngine()
	xml, err := NewExporter(engine).Export("")
	require.NoError(t, err)
	assert.Contains(t, xml, "<User_Name>Anonymous</User_Name>")
}

// Exporting and re-importing must reproduce the record set.
func TestExportRoundTrip(t *testing.T) {
	engine := newTestEngine()
	first := makeRecord(models.TypeHVLTR, "2024-03-15", 70)
	first.TestName = "HVLT-R Test Results"
	first.Timestamp = "10:30:00"
	second := makeRecord(models.TypeCPTIP, "2024-03-16", 0)
	second.TestName = "CPT-IP Test"
	second.Scores = models.Scores{Accuracy: models.Float(88)}
	engine.Add(first, second)

	xml, err := NewExporter(engine).Export("Pat")
	require.NoError(t, err)

	p := parser.New(zap.NewNop(), models.DefaultBattery())
	records, err := p.Parse(xml, "reimport.xml")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "HVLT-R Test Results", records[0].TestName)
	assert.Equal(t, models.TypeHVLTR, records[0].Type)
	assert.Equal(t, "2024-03-15", records[0].Date)
	require.NotNil(t, records[0].Scores.Percentage)
	assert.InDelta(t, 70, *records[0].Scores.Percentage, 1e-9)

	assert.Equal(t, models.TypeCPTIP, records[1].Type)
	require.NotNil(t, records[1].Scores.Accuracy)
	assert.InDelta(t, 88, *records[1].Scores.Accuracy, 1e-9)
}

// The exported schema writes Total/Max/Percentage as 0 when a record never
// had them. Those fillers must not change what the record scores as after a
// re-import.
func TestScoreSurvivesReimport(t *testing.T) {
	engine := newTestEngine()

	cpt := makeRecord(models.TypeCPTIP, "2024-03-16", 0)
	cpt.TestName = "CPT-IP Test"
	cpt.Scores = models.Scores{Accuracy: models.Float(88)}

	bvmt := makeRecord(models.TypeBVMTR, "2024-03-16", 0)
	bvmt.TestName = "BVMT-R Test Results"
	bvmt.Scores = models.Scores{TotalLearning: models.Float(27)}

	engine.Add(cpt, bvmt)

	xml, err := NewExporter(engine).Export("Pat")
	require.NoError(t, err)

	p := parser.New(zap.NewNop(), models.DefaultBattery())
	records, err := p.Parse(xml, "reimport.xml")
	require.NoError(t, err)
	require.Len(t, records, 2)

	for i := range records {
		var before models.TestRecord
		switch records[i].Type {
		case models.TypeCPTIP:
			before = cpt
		case models.TypeBVMTR:
			before = bvmt
		default:
			t.Fatalf("unexpected type %q", records[i].Type)
		}
		assert.InDelta(t, ScoreOf(&before), ScoreOf(&records[i]), 1e-9,
			"score changed across export/re-import for %s", records[i].Type)
	}
}

func TestMergeOmitsIdentity(t *testing.T) {
	engine := newTestEngine()
	rec := makeRecord(models.TypeHVLTR, "2024-03-15", 70)
	rec.Metadata.FileName = "hvlt.xml"
	engine.Add(rec)

	xml, err := NewExporter(engine).Merge("Pat")
	require.NoError(t, err)

	assert.Contains(t, xml, "<MCCB_Merged_Results>")
	assert.NotContains(t, xml, "Test_Type")
	assert.NotContains(t, xml, "File_Name")
	assert.NotContains(t, xml, "Metadata")
}

func TestExportFileName(t *testing.T) {
	name := ExportFileName("MCCB_Results", "Pat")
	assert.True(t, strings.HasPrefix(name, "MCCB_Results_Pat_"))
	assert.True(t, strings.HasSuffix(name, ".xml"))

	anon := ExportFileName("MCCB_Results", "")
	assert.True(t, strings.HasPrefix(anon, "MCCB_Results_Anonymous_"))
}

func TestExportImprovementAndSessionBlocks(t *testing.T) {
	engine := newTestEngine()
	engine.Add(fullSessionRecords("2024-03-15")...)
	engine.Add(fullSessionRecords("2024-03-22")...)

	xml, err := NewExporter(engine).Export("Pat")
	require.NoError(t, err)

	assert.Contains(t, xml, "<Improvement_Data>")
	assert.Contains(t, xml, "<Complete_Sessions>")
	assert.Contains(t, xml, "<Session_Date>2024-03-15</Session_Date>")
	assert.Contains(t, xml, "<Session_Date>2024-03-22</Session_Date>")
	assert.Contains(t, xml, "<Date_Range>2024-03-15 - 2024-03-22</Date_Range>")
}
