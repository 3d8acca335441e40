package parser

import (
	"fmt"
	"strings"

	"mccb-go/internal/models"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"
)

// ParseError marks a result document that could not be read at all. Batch
// imports recover from it per file: the file is skipped and the rest of the
// batch continues.
type ParseError struct {
	FileName string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed XML in %s: %v", e.FileName, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// multiTestTags are the per-instrument root element families. A document
// containing more than one of these is split into independent records.
var multiTestTags = []string{
	"Test",
	"Test_Result",
	"BACS_Test_Results",
	"HVLT_R_Test_Results",
	"BVMT_R_Test_Results",
	"NAB_Mazes_Test_Results",
	"TMT_Test_Results",
	"Stroop_Test_Results",
	"COWAT_Test_Results",
	"CPT_Test_Results",
}

// Parser turns heterogeneous result XML documents into TestRecords.
type Parser struct {
	log     *zap.Logger
	battery *models.Battery
}

func New(log *zap.Logger, battery *models.Battery) *Parser {
	return &Parser{log: log, battery: battery}
}

// Parse extracts every test administration contained in the document.
// Detection runs in a fixed order: the tool's own exported schema first, then
// multi-test documents built from per-instrument root tags, then a single
// test document. A well-formed document that matches no known shape still
// yields one lenient-fallback record so that garbled but real data stays
// visible for manual inspection.
func (p *Parser) Parse(xmlText, fileName string) ([]models.TestRecord, error) {
	doc, err := xmlquery.Parse(strings.NewReader(xmlText))
	if err != nil {
		return nil, &ParseError{FileName: fileName, Err: err}
	}

	if exported := xmlquery.Find(doc, "//MCCB_Exported_Results/Test_Results/Test"); len(exported) > 0 {
		records := make([]models.TestRecord, 0, len(exported))
		for i, node := range exported {
			records = append(records, p.extractExported(node, fmt.Sprintf("%s_test_%d", fileName, i+1)))
		}
		p.log.Debug("Parsed exported-schema document",
			zap.String("file", fileName),
			zap.Int("tests", len(records)))
		return records, nil
	}

	nodes := p.findTestElements(doc)
	if len(nodes) > 1 {
		records := make([]models.TestRecord, 0, len(nodes))
		for i, node := range nodes {
			records = append(records, p.extract(node, fmt.Sprintf("%s_test_%d", fileName, i+1)))
		}
		p.log.Debug("Parsed multi-test document",
			zap.String("file", fileName),
			zap.Int("tests", len(records)))
		return records, nil
	}

	root := documentElement(doc)
	if root == nil {
		return nil, &ParseError{FileName: fileName, Err: fmt.Errorf("document has no root element")}
	}
	return []models.TestRecord{p.extract(root, fileName)}, nil
}

// findTestElements collects every element whose tag belongs to a known
// per-instrument root family, in document order.
func (p *Parser) findTestElements(doc *xmlquery.Node) []*xmlquery.Node {
	tagSet := make(map[string]bool, len(multiTestTags))
	for _, t := range multiTestTags {
		tagSet[t] = true
	}

	var nodes []*xmlquery.Node
	var walk func(n *xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == xmlquery.ElementNode && tagSet[child.Data] {
				nodes = append(nodes, child)
				// A matched element never nests another test element.
				continue
			}
			walk(child)
		}
	}
	walk(doc)
	return nodes
}

// extract reads one test element of the per-instrument or generic camelCase
// shape. Field lookups try the historical tag spellings in order; the first
// match wins.
func (p *Parser) extract(node *xmlquery.Node, fileName string) models.TestRecord {
	testName := firstText(node,
		".//testName",
		".//Test_Name")
	if testName == "" {
		testName = "Unknown Test"
	}

	rec := models.TestRecord{
		TestName:  testName,
		Type:      p.battery.InferType(testName),
		Date:      firstText(node, ".//date", ".//Test_Date"),
		Timestamp: firstText(node, ".//timestamp", ".//Test_Time"),
		Metadata:  models.Metadata{FileName: fileName},
	}

	// Dispatch on the display name, not the canonical tag: the extractors
	// predate type inference and several name variants map to one tag.
	switch {
	case strings.Contains(testName, "HVLT-R"):
		rec.Scores = extractHVLTR(node)
	case strings.Contains(testName, "BVMT-R"):
		rec.Scores = extractBVMTR(node)
	case strings.Contains(testName, "NAB Mazes"):
		rec.Scores = extractNABMazes(node)
	case strings.Contains(testName, "Letter-Number"):
		rec.Scores = extractSpanTrials(node)
	case strings.Contains(testName, "WMS-III"):
		rec.Scores = extractSpanTrials(node)
	case strings.Contains(testName, "BACS Symbol Coding"):
		rec.Scores = extractBACS(node)
	case strings.Contains(testName, "Animal Naming"):
		rec.Scores = extractAnimalNaming(node)
	case strings.Contains(testName, "Trail Making"):
		rec.Scores = extractTrailMaking(node)
	case strings.Contains(testName, "CPT"):
		rec.Scores = extractCPT(node)
	}

	return rec
}

func documentElement(doc *xmlquery.Node) *xmlquery.Node {
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}
