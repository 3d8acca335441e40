package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TypeOther is the catch-all tag for documents that match no instrument.
const TypeOther = "Other"

// Canonical instrument tags.
const (
	TypeBACSSymbolCoding = "BACS Symbol Coding"
	TypeAnimalNaming     = "Animal Naming"
	TypeTrailMaking      = "Trail Making"
	TypeCPTIP            = "CPT-IP"
	TypeWMSIII           = "WMS-III Spatial Span"
	TypeLetterNumber     = "Letter-Number Span"
	TypeHVLTR            = "HVLT-R"
	TypeBVMTR            = "BVMT-R"
	TypeNABMazes         = "NAB Mazes"
)

// Instrument describes one test in the battery catalog. Match substrings are
// evaluated against the free-text test name, in catalog order.
type Instrument struct {
	Type  string   `yaml:"type"`
	Match []string `yaml:"match"`
}

// Battery is the ordered catalog of instruments. The order of the list is
// the type-inference precedence: names can overlap (a generic "CPT" match
// must run after every more specific check), so the catalog must not be
// reordered without re-deriving the overlap cases.
type Battery struct {
	Instruments []Instrument `yaml:"instruments"`
}

// DefaultBattery returns the built-in MCCB catalog, identical to the shipped
// config/battery.yaml.
func DefaultBattery() *Battery {
	return &Battery{Instruments: []Instrument{
		{Type: TypeHVLTR, Match: []string{"HVLT-R"}},
		{Type: TypeBVMTR, Match: []string{"BVMT-R"}},
		{Type: TypeNABMazes, Match: []string{"NAB Mazes"}},
		{Type: TypeLetterNumber, Match: []string{"Letter-Number"}},
		{Type: TypeWMSIII, Match: []string{"WMS-III"}},
		{Type: TypeBACSSymbolCoding, Match: []string{"BACS Symbol Coding"}},
		{Type: TypeAnimalNaming, Match: []string{"Animal Naming"}},
		{Type: TypeTrailMaking, Match: []string{"Trail Making"}},
		{Type: TypeCPTIP, Match: []string{"CPT"}},
	}}
}

// LoadBattery reads and parses a battery catalog YAML file.
func LoadBattery(path string) (*Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read battery file: %w", err)
	}

	var battery Battery
	if err := yaml.Unmarshal(data, &battery); err != nil {
		return nil, fmt.Errorf("failed to unmarshal battery YAML: %w", err)
	}
	if len(battery.Instruments) == 0 {
		return nil, fmt.Errorf("battery file %s defines no instruments", path)
	}
	return &battery, nil
}

// InferType derives the canonical type tag from a free-text test name via
// first-match-wins substring containment. Unmatched names map to Other.
func (b *Battery) InferType(testName string) string {
	for _, inst := range b.Instruments {
		for _, m := range inst.Match {
			if strings.Contains(testName, m) {
				return inst.Type
			}
		}
	}
	return TypeOther
}

// CanonicalTypes returns the distinct instrument tags in catalog order.
func (b *Battery) CanonicalTypes() []string {
	seen := make(map[string]bool, len(b.Instruments))
	types := make([]string, 0, len(b.Instruments))
	for _, inst := range b.Instruments {
		if !seen[inst.Type] {
			seen[inst.Type] = true
			types = append(types, inst.Type)
		}
	}
	return types
}

// IsCanonical reports whether the tag belongs to the battery.
func (b *Battery) IsCanonical(testType string) bool {
	for _, inst := range b.Instruments {
		if inst.Type == testType {
			return true
		}
	}
	return false
}
