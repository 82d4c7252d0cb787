package batch

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/labbot/internal/executor"
)

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, "csv", newTestLogger()); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestJSONLWriter(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, FormatJSONL, newTestLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := []Result{
		{ID: "a", LineNumber: 1, State: executor.StateRejectedPII, PIITypes: []string{"ssn"}},
		{ID: "b", LineNumber: 2, State: executor.StateFailedUpstream, ErrorKind: "service_error", Error: "interpretation service unavailable"},
	}
	for _, result := range results {
		if err := writer.Write(result); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid json line: %v", err)
	}
	if first["state"] != "REJECTED_PII" || first["line"] != 1.0 {
		t.Errorf("unexpected record: %v", first)
	}
	if _, ok := first["response"]; ok {
		t.Error("expected response to be omitted")
	}
}

func TestSummaryWriter(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, FormatSummary, newTestLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results := []Result{
		{LineNumber: 3, State: executor.StateResponded},
		{LineNumber: 5, State: executor.StateRejectedPII, PIITypes: []string{"ssn", "name"}},
		{LineNumber: 1, State: executor.StateRejectedPII, PIITypes: []string{"name"}},
		{LineNumber: 2, State: executor.StateResponded},
	}
	for _, result := range results {
		_ = writer.Write(result)
	}

	if buf.Len() != 0 {
		t.Error("expected nothing written before Close")
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	var summary Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("invalid summary: %v", err)
	}
	if summary.Total != 4 {
		t.Errorf("expected total 4, got %d", summary.Total)
	}
	if summary.ByState["RESPONDED"] != 2 || summary.ByState["REJECTED_PII"] != 2 {
		t.Errorf("unexpected counts: %v", summary.ByState)
	}
	if summary.PIITypes["name"] != 2 || summary.PIITypes["ssn"] != 1 {
		t.Errorf("unexpected pii counts: %v", summary.PIITypes)
	}
	lines := summary.Lines["REJECTED_PII"]
	if len(lines) != 2 || lines[0] != 1 || lines[1] != 5 {
		t.Errorf("expected sorted lines [1 5], got %v", lines)
	}
	if _, ok := summary.Lines["RESPONDED"]; ok {
		t.Error("expected no line list for successful records")
	}
}
