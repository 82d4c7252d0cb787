package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func labValuesJSON(count int) string {
	entries := make([]string, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, fmt.Sprintf(`{"name":"Test%d","value":%d.5,"unit":"unit"}`, i, 10+i))
	}
	return `{"lab_values":[` + strings.Join(entries, ",") + `]}`
}

func TestParseLabResultsInput_Valid(t *testing.T) {
	body := `{"lab_values":[{"name":"Hemoglobin","value":14.5,"unit":"g/dL","reference_min":13.5,"reference_max":17.5}]}`

	input, err := ParseLabResultsInput([]byte(body))
	if err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	if len(input.LabValues) != 1 {
		t.Fatalf("expected 1 lab value, got %d", len(input.LabValues))
	}

	value := input.LabValues[0]
	if value.Name != "Hemoglobin" || *value.Value != 14.5 || value.Unit != "g/dL" {
		t.Errorf("unexpected lab value: %+v", value)
	}
	if value.ReferenceMin == nil || *value.ReferenceMin != 13.5 {
		t.Errorf("expected reference_min 13.5, got %v", value.ReferenceMin)
	}
	if value.ReferenceMax == nil || *value.ReferenceMax != 17.5 {
		t.Errorf("expected reference_max 17.5, got %v", value.ReferenceMax)
	}
}

func TestParseLabResultsInput_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr error
	}{
		{name: "empty list", count: 0, wantErr: ErrNoLabValues},
		{name: "single value", count: 1},
		{name: "exactly fifty", count: 50},
		{name: "fifty one", count: 51, wantErr: ErrTooManyLabValues},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseLabResultsInput([]byte(labValuesJSON(test.count)))
			if test.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, test.wantErr) {
				t.Errorf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestParseLabResultsInput_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   error
		wantField string
	}{
		{
			name:    "not json",
			body:    "lab values please",
			wantErr: ErrMalformedBody,
		},
		{
			name:      "missing lab_values",
			body:      `{}`,
			wantErr:   ErrMissingLabValues,
			wantField: "lab_values",
		},
		{
			name:      "missing value and unit",
			body:      `{"lab_values":[{"name":"Hemoglobin"}]}`,
			wantErr:   ErrMissingValue,
			wantField: "lab_values[0].value",
		},
		{
			name:      "empty name",
			body:      `{"lab_values":[{"name":"","value":1,"unit":"g/dL"}]}`,
			wantErr:   ErrEmptyName,
			wantField: "lab_values[0].name",
		},
		{
			name:      "empty unit on second entry",
			body:      `{"lab_values":[{"name":"A","value":1,"unit":"x"},{"name":"B","value":2,"unit":""}]}`,
			wantErr:   ErrEmptyUnit,
			wantField: "lab_values[1].unit",
		},
		{
			name:      "name too long",
			body:      `{"lab_values":[{"name":"` + strings.Repeat("a", MaxNameLength+1) + `","value":1,"unit":"x"}]}`,
			wantErr:   ErrNameTooLong,
			wantField: "lab_values[0].name",
		},
		{
			name:      "unit too long",
			body:      `{"lab_values":[{"name":"A","value":1,"unit":"` + strings.Repeat("u", MaxUnitLength+1) + `"}]}`,
			wantErr:   ErrUnitTooLong,
			wantField: "lab_values[0].unit",
		},
		{
			name:    "value is a string",
			body:    `{"lab_values":[{"name":"A","value":"high","unit":"x"}]}`,
			wantErr: ErrMalformedBody,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseLabResultsInput([]byte(test.body))
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if validationErr.Field != test.wantField {
				t.Errorf("expected field %q, got %q", test.wantField, validationErr.Field)
			}
		})
	}
}

func TestParseLabResultsInput_AcceptsAnyMagnitude(t *testing.T) {
	body := `{"lab_values":[{"name":"Base excess","value":-4.2,"unit":"mmol/L"},{"name":"Platelets","value":250000,"unit":"/uL"}]}`

	input, err := ParseLabResultsInput([]byte(body))
	if err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
	if *input.LabValues[0].Value != -4.2 {
		t.Errorf("expected -4.2, got %f", *input.LabValues[0].Value)
	}
	if input.LabValues[0].ReferenceMin != nil {
		t.Error("expected missing reference_min to stay nil")
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		raw  string
		want SeverityLevel
		ok   bool
	}{
		{raw: "normal", want: SeverityNormal, ok: true},
		{raw: " Borderline ", want: SeverityBorderline, ok: true},
		{raw: "ABNORMAL", want: SeverityAbnormal, ok: true},
		{raw: "critical", want: SeverityCritical, ok: true},
		{raw: "severe", ok: false},
		{raw: "", ok: false},
	}

	for _, test := range tests {
		got, ok := ParseSeverity(test.raw)
		if ok != test.ok || got != test.want {
			t.Errorf("ParseSeverity(%q) = (%q, %v), want (%q, %v)", test.raw, got, ok, test.want, test.ok)
		}
	}
}
