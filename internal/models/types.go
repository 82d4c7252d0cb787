package models

import (
	"strings"
)

type SeverityLevel string

const (
	SeverityNormal     SeverityLevel = "normal"
	SeverityBorderline SeverityLevel = "borderline"
	SeverityAbnormal   SeverityLevel = "abnormal"
	SeverityCritical   SeverityLevel = "critical"
)

// ParseSeverity accepts the four severity names in any case, surrounded by whitespace.
func ParseSeverity(raw string) (SeverityLevel, bool) {
	switch SeverityLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case SeverityNormal:
		return SeverityNormal, true
	case SeverityBorderline:
		return SeverityBorderline, true
	case SeverityAbnormal:
		return SeverityAbnormal, true
	case SeverityCritical:
		return SeverityCritical, true
	}
	return "", false
}

func (s SeverityLevel) Valid() bool {
	switch s {
	case SeverityNormal, SeverityBorderline, SeverityAbnormal, SeverityCritical:
		return true
	}
	return false
}

// Input message

type LabValue struct {
	Name         string   `json:"name" description:"Name of the lab test" jsonschema:"name of the lab test, e.g. Hemoglobin"`
	Value        *float64 `json:"value" description:"Measured value" jsonschema:"measured value"`
	Unit         string   `json:"unit" description:"Unit of measurement" jsonschema:"unit of measurement, e.g. g/dL"`
	ReferenceMin *float64 `json:"reference_min,omitempty" description:"Minimum reference range" jsonschema:"lower bound of the reference range"`
	ReferenceMax *float64 `json:"reference_max,omitempty" description:"Maximum reference range" jsonschema:"upper bound of the reference range"`
}

type LabResultsInput struct {
	LabValues []LabValue `json:"lab_values" description:"List of lab values to interpret (1-50)" jsonschema:"lab values to interpret, between 1 and 50 entries"`
}

// Output message

type InterpretedValue struct {
	Name        string        `json:"name" description:"Name of the lab test"`
	Value       float64       `json:"value" description:"Measured value"`
	Unit        string        `json:"unit" description:"Unit of measurement"`
	Severity    SeverityLevel `json:"severity" description:"normal, borderline, abnormal or critical"`
	Explanation string        `json:"explanation" description:"Plain-language explanation"`
	Citation    string        `json:"citation,omitempty" description:"Citation to an authoritative source"`
}

type InterpretationResponse struct {
	Results    []InterpretedValue `json:"results" description:"Interpreted lab values, same order as the input"`
	Disclaimer string             `json:"disclaimer" description:"Medical disclaimer"`
	Summary    string             `json:"summary,omitempty" description:"Overall summary of results"`
}

// Float is a helper for building LabValue literals.
func Float(f float64) *float64 {
	return &f
}
