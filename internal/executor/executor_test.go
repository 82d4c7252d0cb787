package executor

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/labbot/internal/executor/mocks"
	"github.com/povarna/generative-ai-agents/labbot/internal/interpreter"
	"github.com/povarna/generative-ai-agents/labbot/internal/models"
	"github.com/povarna/generative-ai-agents/labbot/internal/pii"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

const hemoglobinBody = `{"lab_values":[{"name":"Hemoglobin","value":14.5,"unit":"g/dL","reference_min":13.5,"reference_max":17.5}]}`

func hemoglobinResponse() *models.InterpretationResponse {
	return &models.InterpretationResponse{
		Results: []models.InterpretedValue{
			{
				Name:        "Hemoglobin",
				Value:       14.5,
				Unit:        "g/dL",
				Severity:    models.SeverityNormal,
				Explanation: "Hemoglobin carries oxygen; this value is within range.",
				Citation:    "Mayo Clinic: https://www.mayoclinic.org/tests-procedures/hemoglobin/about/pac-20384692",
			},
		},
		Disclaimer: "Always consult with a healthcare provider for medical advice.",
	}
}

func TestExecutor_Execute_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInterpreter := mocks.NewMockInterpreter(ctrl)
	mockInterpreter.EXPECT().
		Interpret(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input models.LabResultsInput) (*models.InterpretationResponse, error) {
			if len(input.LabValues) != 1 || input.LabValues[0].Name != "Hemoglobin" {
				t.Errorf("unexpected input passed to interpreter: %+v", input)
			}
			return hemoglobinResponse(), nil
		}).
		Times(1)

	executor := NewExecutor(pii.Scanner{}, mockInterpreter, newTestLogger())

	ctx := WithRequestID(context.Background(), "req-001")
	outcome := executor.Execute(ctx, []byte(hemoglobinBody))

	if outcome.State != StateResponded {
		t.Fatalf("expected %s, got %s (err: %v)", StateResponded, outcome.State, outcome.Err)
	}
	if outcome.RequestID != "req-001" {
		t.Errorf("expected request id req-001, got %s", outcome.RequestID)
	}

	wantPath := []State{StateReceived, StateValidated, StatePIIChecked, StateInterpreted, StateResponded}
	if !reflect.DeepEqual(outcome.Path, wantPath) {
		t.Errorf("expected path %v, got %v", wantPath, outcome.Path)
	}

	if len(outcome.Response.Results) != 1 || outcome.Response.Results[0].Name != "Hemoglobin" {
		t.Errorf("unexpected results: %+v", outcome.Response.Results)
	}
	if outcome.Response.Disclaimer == "" {
		t.Error("expected disclaimer")
	}
	if !outcome.Response.Results[0].Severity.Valid() {
		t.Errorf("unexpected severity %s", outcome.Response.Results[0].Severity)
	}
	if outcome.Err != nil || outcome.PIITypes != nil {
		t.Errorf("expected no error and no PII types, got %v / %v", outcome.Err, outcome.PIITypes)
	}
}

func TestExecutor_Execute_GeneratesRequestID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInterpreter := mocks.NewMockInterpreter(ctrl)
	mockInterpreter.EXPECT().Interpret(gomock.Any(), gomock.Any()).Return(hemoglobinResponse(), nil)

	executor := NewExecutor(pii.Scanner{}, mockInterpreter, newTestLogger())
	outcome := executor.Execute(context.Background(), []byte(hemoglobinBody))

	if outcome.RequestID == "" {
		t.Error("expected a generated request id")
	}
}

func TestExecutor_Execute_PIIRejected(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantType string
	}{
		{
			name:     "name key inside lab value",
			body:     `{"lab_values":[{"name":"Hemoglobin","value":14.5,"unit":"g/dL","patient_name":"John Smith"}]}`,
			wantType: "name",
		},
		{
			name:     "name key at top level",
			body:     `{"patient_name":"John Smith","lab_values":[{"name":"Glucose","value":90,"unit":"mg/dL"}]}`,
			wantType: "name",
		},
		{
			name:     "ssn as test name",
			body:     `{"lab_values":[{"name":"123-45-6789","value":1,"unit":"x"}]}`,
			wantType: "ssn",
		},
		{
			name:     "email in nested metadata",
			body:     `{"lab_values":[{"name":"Sodium","value":140,"unit":"mEq/L"}],"meta":{"contact":["jane@example.com"]}}`,
			wantType: "email",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No expectations: any call to Interpret fails the test.
			mockInterpreter := mocks.NewMockInterpreter(ctrl)
			mockInterpreter.EXPECT().Interpret(gomock.Any(), gomock.Any()).Times(0)

			executor := NewExecutor(pii.Scanner{}, mockInterpreter, newTestLogger())
			outcome := executor.Execute(context.Background(), []byte(test.body))

			if outcome.State != StateRejectedPII {
				t.Fatalf("expected %s, got %s (err: %v)", StateRejectedPII, outcome.State, outcome.Err)
			}

			found := false
			for _, piiType := range outcome.PIITypes {
				if piiType == test.wantType {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %q in %v", test.wantType, outcome.PIITypes)
			}
			if outcome.Response != nil {
				t.Error("expected no response")
			}
		})
	}
}

func TestExecutor_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "empty list", body: `{"lab_values":[]}`, wantErr: models.ErrNoLabValues},
		{name: "missing list", body: `{}`, wantErr: models.ErrMissingLabValues},
		{name: "not json", body: `lab values`, wantErr: models.ErrMalformedBody},
		{name: "trailing garbage", body: hemoglobinBody + `}`, wantErr: models.ErrMalformedBody},
		{name: "fifty one values", body: `{"lab_values":[` + strings.Repeat(`{"name":"A","value":1,"unit":"x"},`, 50) + `{"name":"A","value":1,"unit":"x"}]}`, wantErr: models.ErrTooManyLabValues},
		// Validation runs first, so PII in an invalid request is reported as invalid input.
		{name: "invalid with PII", body: `{"patient_name":"John Smith"}`, wantErr: models.ErrMissingLabValues},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockScanner := mocks.NewMockPIIScanner(ctrl)
			mockInterpreter := mocks.NewMockInterpreter(ctrl)

			executor := NewExecutor(mockScanner, mockInterpreter, newTestLogger())
			outcome := executor.Execute(context.Background(), []byte(test.body))

			if outcome.State != StateRejectedInvalid {
				t.Fatalf("expected %s, got %s", StateRejectedInvalid, outcome.State)
			}
			if !errors.Is(outcome.Err, test.wantErr) {
				t.Errorf("expected %v, got %v", test.wantErr, outcome.Err)
			}
		})
	}
}

func TestExecutor_Execute_FiftyValuesAccepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	body := `{"lab_values":[` + strings.Repeat(`{"name":"A","value":1,"unit":"x"},`, 49) + `{"name":"A","value":1,"unit":"x"}]}`

	mockScanner := mocks.NewMockPIIScanner(ctrl)
	mockScanner.EXPECT().Scan(gomock.Any()).Return(pii.Findings{})

	mockInterpreter := mocks.NewMockInterpreter(ctrl)
	mockInterpreter.EXPECT().Interpret(gomock.Any(), gomock.Any()).Return(&models.InterpretationResponse{Disclaimer: "x"}, nil)

	executor := NewExecutor(mockScanner, mockInterpreter, newTestLogger())
	outcome := executor.Execute(context.Background(), []byte(body))

	if outcome.State != StateResponded {
		t.Errorf("expected %s, got %s (err: %v)", StateResponded, outcome.State, outcome.Err)
	}
}

func TestExecutor_Execute_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind interpreter.ErrorKind
	}{
		{
			name:     "transport error",
			err:      &interpreter.ServiceError{Kind: interpreter.KindTransport, Message: "call failed", Err: errors.New("connection reset")},
			wantKind: interpreter.KindTransport,
		},
		{
			name:     "malformed reply",
			err:      &interpreter.ServiceError{Kind: interpreter.KindMalformed, Message: "model reply is not valid JSON"},
			wantKind: interpreter.KindMalformed,
		},
		{
			name:     "not configured",
			err:      &interpreter.ServiceError{Kind: interpreter.KindNotConfigured, Message: "no credentials"},
			wantKind: interpreter.KindNotConfigured,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockInterpreter := mocks.NewMockInterpreter(ctrl)
			mockInterpreter.EXPECT().Interpret(gomock.Any(), gomock.Any()).Return(nil, test.err).Times(1)

			executor := NewExecutor(pii.Scanner{}, mockInterpreter, newTestLogger())
			outcome := executor.Execute(context.Background(), []byte(hemoglobinBody))

			if outcome.State != StateFailedUpstream {
				t.Fatalf("expected %s, got %s", StateFailedUpstream, outcome.State)
			}
			if len(outcome.PIITypes) != 0 {
				t.Errorf("expected the request to have passed the PII gate, got %v", outcome.PIITypes)
			}
			kind, ok := interpreter.KindOf(outcome.Err)
			if !ok || kind != test.wantKind {
				t.Errorf("expected kind %s, got %v", test.wantKind, outcome.Err)
			}

			wantPath := []State{StateReceived, StateValidated, StatePIIChecked, StateFailedUpstream}
			if !reflect.DeepEqual(outcome.Path, wantPath) {
				t.Errorf("expected path %v, got %v", wantPath, outcome.Path)
			}
		})
	}
}

func TestExecutor_Execute_ScansRawDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockScanner := mocks.NewMockPIIScanner(ctrl)
	mockScanner.EXPECT().
		Scan(gomock.Any()).
		DoAndReturn(func(data any) pii.Findings {
			doc, ok := data.(map[string]any)
			if !ok {
				t.Fatalf("expected decoded object, got %T", data)
			}
			if _, ok := doc["notes"]; !ok {
				t.Error("expected fields outside the schema to reach the scanner")
			}
			return pii.Findings{pii.CategoryDOB: {}}
		})

	mockInterpreter := mocks.NewMockInterpreter(ctrl)

	executor := NewExecutor(mockScanner, mockInterpreter, newTestLogger())
	outcome := executor.Execute(context.Background(), []byte(`{"lab_values":[{"name":"A","value":1,"unit":"x"}],"notes":"anything"}`))

	if outcome.State != StateRejectedPII {
		t.Fatalf("expected %s, got %s", StateRejectedPII, outcome.State)
	}
	if !reflect.DeepEqual(outcome.PIITypes, []string{"dob"}) {
		t.Errorf("expected [dob], got %v", outcome.PIITypes)
	}
}

func TestState_Terminal(t *testing.T) {
	terminal := []State{StateResponded, StateRejectedInvalid, StateRejectedPII, StateFailedUpstream}
	for _, state := range terminal {
		if !state.Terminal() {
			t.Errorf("expected %s to be terminal", state)
		}
	}

	for _, state := range []State{StateReceived, StateValidated, StatePIIChecked, StateInterpreted} {
		if state.Terminal() {
			t.Errorf("expected %s to be non-terminal", state)
		}
	}
}

func TestExecutor_Screen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInterpreter := mocks.NewMockInterpreter(ctrl)
	executor := NewExecutor(pii.Scanner{}, mockInterpreter, newTestLogger())

	outcome := executor.Screen(context.Background(), []byte(hemoglobinBody))
	if outcome.State != StatePIIChecked {
		t.Errorf("expected %s, got %s", StatePIIChecked, outcome.State)
	}
	if outcome.State.Terminal() {
		t.Error("expected a screened request to be non-terminal")
	}

	rejected := executor.Screen(context.Background(), []byte(`{"lab_values":[{"name":"555-123-4567","value":1,"unit":"x"}]}`))
	if rejected.State != StateRejectedPII {
		t.Errorf("expected %s, got %s", StateRejectedPII, rejected.State)
	}
}
