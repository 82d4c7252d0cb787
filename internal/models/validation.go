package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	MinLabValues  = 1
	MaxLabValues  = 50
	MaxNameLength = 100
	MaxUnitLength = 50
)

var (
	ErrMissingLabValues = errors.New("lab_values is required")
	ErrNoLabValues      = errors.New("at least one lab value is required")
	ErrTooManyLabValues = fmt.Errorf("at most %d lab values are allowed", MaxLabValues)
	ErrEmptyName        = errors.New("name must not be empty")
	ErrNameTooLong      = fmt.Errorf("name must be at most %d characters", MaxNameLength)
	ErrMissingValue     = errors.New("value is required")
	ErrEmptyUnit        = errors.New("unit must not be empty")
	ErrUnitTooLong      = fmt.Errorf("unit must be at most %d characters", MaxUnitLength)
	ErrMalformedBody    = errors.New("request body is not a valid lab results payload")
)

// ValidationError reports which field of the payload failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseLabResultsInput decodes and validates a request body. Numbers must be JSON numbers;
// a quoted value is rejected rather than coerced.
func ParseLabResultsInput(body []byte) (LabResultsInput, error) {
	var wire struct {
		LabValues *[]LabValue `json:"lab_values"`
	}

	if err := json.Unmarshal(body, &wire); err != nil {
		return LabResultsInput{}, &ValidationError{Err: fmt.Errorf("%w: %v", ErrMalformedBody, err)}
	}

	if wire.LabValues == nil {
		return LabResultsInput{}, &ValidationError{Field: "lab_values", Err: ErrMissingLabValues}
	}

	input := LabResultsInput{LabValues: *wire.LabValues}
	if err := input.Validate(); err != nil {
		return LabResultsInput{}, err
	}

	return input, nil
}

func (in *LabResultsInput) Validate() error {
	if len(in.LabValues) < MinLabValues {
		return &ValidationError{Field: "lab_values", Err: ErrNoLabValues}
	}

	if len(in.LabValues) > MaxLabValues {
		return &ValidationError{Field: "lab_values", Err: ErrTooManyLabValues}
	}

	for i := range in.LabValues {
		if err := in.LabValues[i].Validate(); err != nil {
			var validationErr *ValidationError
			if errors.As(err, &validationErr) {
				validationErr.Field = fmt.Sprintf("lab_values[%d].%s", i, validationErr.Field)
			}
			return err
		}
	}

	return nil
}

func (v *LabValue) Validate() error {
	nameLength := utf8.RuneCountInString(v.Name)
	if nameLength == 0 {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	if nameLength > MaxNameLength {
		return &ValidationError{Field: "name", Err: ErrNameTooLong}
	}

	if v.Value == nil {
		return &ValidationError{Field: "value", Err: ErrMissingValue}
	}

	unitLength := utf8.RuneCountInString(v.Unit)
	if unitLength == 0 {
		return &ValidationError{Field: "unit", Err: ErrEmptyUnit}
	}
	if unitLength > MaxUnitLength {
		return &ValidationError{Field: "unit", Err: ErrUnitTooLong}
	}

	return nil
}
