package parser

import (
	"testing"

	"mccb-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestParser() *Parser {
	return New(zap.NewNop(), models.DefaultBattery())
}

func TestParseHVLTR(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<HVLT_R_Test_Results>
    <testName>HVLT-R Test Results</testName>
    <date>2024-03-15T10:30:00Z</date>
    <timestamp>10:30:00</timestamp>
    <totalRecallScore>25</totalRecallScore>
    <learningScore>8</learningScore>
    <delayedRecallScore>9</delayedRecallScore>
    <retentionScore>90</retentionScore>
    <percentage>78%</percentage>
    <immediateRecall>
        <trial><score>7</score></trial>
        <trial><score>9</score></trial>
        <trial><score>9</score></trial>
    </immediateRecall>
</HVLT_R_Test_Results>`

	records, err := newTestParser().Parse(xml, "hvlt.xml")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "HVLT-R Test Results", rec.TestName)
	assert.Equal(t, models.TypeHVLTR, rec.Type)
	assert.Equal(t, "2024-03-15T10:30:00Z", rec.Date)
	assert.Equal(t, "hvlt.xml", rec.Metadata.FileName)

	require.NotNil(t, rec.Scores.TotalRecall)
	assert.Equal(t, 25.0, *rec.Scores.TotalRecall)
	require.NotNil(t, rec.Scores.Percentage)
	assert.Equal(t, 78.0, *rec.Scores.Percentage)
	assert.Equal(t, []int{7, 9, 9}, rec.Scores.ImmediateRecall)
}

func TestParseBACS(t *testing.T) {
	xml := `<BACS_Test_Results>
    <testName>BACS Symbol Coding Test</testName>
    <date>2024-03-15</date>
    <Score>42</Score>
    <Max_Score>110</Max_Score>
    <Percentage>38.2</Percentage>
    <Time_Taken_Seconds>90</Time_Taken_Seconds>
</BACS_Test_Results>`

	records, err := newTestParser().Parse(xml, "bacs.xml")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, models.TypeBACSSymbolCoding, rec.Type)
	require.NotNil(t, rec.Scores.Score)
	assert.Equal(t, 42.0, *rec.Scores.Score)
	require.NotNil(t, rec.Scores.MaxScore)
	assert.Equal(t, 110.0, *rec.Scores.MaxScore)
	require.NotNil(t, rec.Scores.Percentage)
	assert.Equal(t, 38.2, *rec.Scores.Percentage)
	// BACS never materializes total/max; the percentage carries the score.
	assert.Nil(t, rec.Scores.Total)
	assert.Nil(t, rec.Scores.Max)
}

func TestParseTrailMakingDerivedScore(t *testing.T) {
	xml := `<TMT_Test_Results>
    <testName>Trail Making Test</testName>
    <date>2024-03-15</date>
    <completionTime>28</completionTime>
    <errors>1</errors>
</TMT_Test_Results>`

	records, err := newTestParser().Parse(xml, "tmt.xml")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	require.NotNil(t, rec.Scores.Score)
	assert.Equal(t, 95.0, *rec.Scores.Score)
	require.NotNil(t, rec.Scores.Percentage)
	assert.Equal(t, 95.0, *rec.Scores.Percentage)
}

func TestParseTrailMakingClampsCompletionTime(t *testing.T) {
	tests := []struct {
		name string
		time string
		want float64
	}{
		{name: "faster than floor", time: "5", want: 100},
		{name: "slower than ceiling", time: "600", want: 0},
		{name: "midpoint", time: "100", want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xml := `<TMT_Test_Results>
    <testName>Trail Making Test</testName>
    <completionTime>` + tt.time + `</completionTime>
</TMT_Test_Results>`
			records, err := newTestParser().Parse(xml, "tmt.xml")
			require.NoError(t, err)
			require.NotNil(t, records[0].Scores.Score)
			assert.Equal(t, tt.want, *records[0].Scores.Score)
		})
	}
}

func TestParseMultiTestDocument(t *testing.T) {
	xml := `<Battery_Session>
    <BACS_Test_Results>
        <testName>BACS Symbol Coding Test</testName>
        <date>2024-03-15</date>
        <Percentage>38</Percentage>
    </BACS_Test_Results>
    <TMT_Test_Results>
        <testName>Trail Making Test</testName>
        <date>2024-03-15</date>
        <score>80</score>
    </TMT_Test_Results>
    <CPT_Test_Results>
        <testName>CPT-IP Test</testName>
        <date>2024-03-15</date>
        <accuracy>91</accuracy>
    </CPT_Test_Results>
</Battery_Session>`

	records, err := newTestParser().Parse(xml, "session.xml")
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Synthetic per-test provenance names keep records distinguishable.
	assert.Equal(t, "session.xml_test_1", records[0].Metadata.FileName)
	assert.Equal(t, "session.xml_test_2", records[1].Metadata.FileName)
	assert.Equal(t, "session.xml_test_3", records[2].Metadata.FileName)

	assert.Equal(t, models.TypeBACSSymbolCoding, records[0].Type)
	assert.Equal(t, models.TypeTrailMaking, records[1].Type)
	assert.Equal(t, models.TypeCPTIP, records[2].Type)
}

func TestParseExportedSchema(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<MCCB_Exported_Results>
    <Session_Info>
        <User_Name>Pat</User_Name>
        <Total_Tests>2</Total_Tests>
    </Session_Info>
    <Test_Results>
        <Test>
            <Test_Name>HVLT-R Test Results</Test_Name>
            <Test_Type>HVLT-R</Test_Type>
            <Test_Date>2024-03-15</Test_Date>
            <Test_Time>10:30:00</Test_Time>
            <Scores>
                <Total>25</Total>
                <Max>36</Max>
                <Percentage>69.4</Percentage>
            </Scores>
            <Metadata>
                <File_Name>hvlt.xml</File_Name>
                <Session_ID>abc-123</Session_ID>
            </Metadata>
        </Test>
        <Test>
            <Test_Name>Unknown Thing</Test_Name>
            <Test_Date>2024-03-15</Test_Date>
            <Scores></Scores>
        </Test>
    </Test_Results>
</MCCB_Exported_Results>`

	records, err := newTestParser().Parse(xml, "export.xml")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "HVLT-R Test Results", first.TestName)
	assert.Equal(t, "HVLT-R", first.Type)
	assert.Equal(t, "hvlt.xml", first.Metadata.FileName)
	assert.Equal(t, "abc-123", first.Metadata.SessionID)
	require.NotNil(t, first.Scores.Percentage)
	assert.Equal(t, 69.4, *first.Scores.Percentage)

	// Absent fields of the exported schema still materialize as zeros, and a
	// missing type tag reads Unknown.
	second := records[1]
	assert.Equal(t, "Unknown", second.Type)
	require.NotNil(t, second.Scores.Total)
	assert.Equal(t, 0.0, *second.Scores.Total)
	require.NotNil(t, second.Scores.Max)
	assert.Equal(t, 0.0, *second.Scores.Max)
	assert.Nil(t, second.Scores.Accuracy)
	assert.Equal(t, "export.xml_test_2", second.Metadata.FileName)
}

func TestParseLenientFallback(t *testing.T) {
	xml := `<Totally_Unknown_Root>
    <testName>Mystery Assessment</testName>
    <date>2024-03-15</date>
</Totally_Unknown_Root>`

	records, err := newTestParser().Parse(xml, "mystery.xml")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Mystery Assessment", records[0].TestName)
	assert.Equal(t, models.TypeOther, records[0].Type)
}

func TestParseMissingTestName(t *testing.T) {
	xml := `<Result><date>2024-03-15</date></Result>`
	records, err := newTestParser().Parse(xml, "anon.xml")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Unknown Test", records[0].TestName)
	assert.Equal(t, models.TypeOther, records[0].Type)
}

func TestParseMalformedXML(t *testing.T) {
	_, err := newTestParser().Parse("<a><b></a>", "broken.xml")
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "broken.xml", parseErr.FileName)
}

func TestParseSpanTrials(t *testing.T) {
	xml := `<Test_Result>
    <testName>Letter-Number Span Test</testName>
    <date>2024-03-15</date>
    <totalScore>14</totalScore>
    <maxScore>24</maxScore>
    <percentage>58</percentage>
    <trials>
        <trial><trialNumber>1</trialNumber><score>2</score></trial>
        <trial><trialNumber>2</trialNumber><score>3</score></trial>
    </trials>
</Test_Result>`

	records, err := newTestParser().Parse(xml, "lns.xml")
	require.NoError(t, err)
	rec := records[0]

	assert.Equal(t, models.TypeLetterNumber, rec.Type)
	require.NotNil(t, rec.Scores.Total)
	assert.Equal(t, 14.0, *rec.Scores.Total)
	require.NotNil(t, rec.Scores.Max)
	assert.Equal(t, 24.0, *rec.Scores.Max)
	// Span tasks always derive their comparable score from total/max.
	assert.Nil(t, rec.Scores.Percentage)
	require.Len(t, rec.Scores.Trials, 2)
	assert.Equal(t, models.TrialScore{Trial: 2, Score: 3}, rec.Scores.Trials[1])
}
