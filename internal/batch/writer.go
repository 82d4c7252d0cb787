package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/povarna/generative-ai-agents/labbot/internal/executor"
	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

type Writer interface {
	Write(result Result) error
	Close() error
}

func NewWriter(w io.Writer, format string, logger *zerolog.Logger) (Writer, error) {
	switch format {
	case FormatJSONL:
		return &jsonlWriter{encoder: json.NewEncoder(w), logger: logger}, nil
	case FormatSummary:
		return &summaryWriter{w: w, counts: make(map[executor.State]int), piiTypes: make(map[string]int), logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: %s, %s)", format, FormatJSONL, FormatSummary)
	}
}

type jsonlWriter struct {
	encoder *json.Encoder
	logger  *zerolog.Logger
}

func (j *jsonlWriter) Write(result Result) error {
	if err := j.encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to write result %s: %w", result.ID, err)
	}
	return nil
}

func (j *jsonlWriter) Close() error {
	return nil
}

// Summary is what the summary format writes once all results are in.
type Summary struct {
	Total    int              `json:"total"`
	ByState  map[string]int   `json:"by_state"`
	PIITypes map[string]int   `json:"pii_types,omitempty"`
	Lines    map[string][]int `json:"lines_by_state,omitempty"`
}

type summaryWriter struct {
	w        io.Writer
	total    int
	counts   map[executor.State]int
	piiTypes map[string]int
	lines    map[executor.State][]int
	logger   *zerolog.Logger
}

func (s *summaryWriter) Write(result Result) error {
	s.total++
	s.counts[result.State]++
	for _, piiType := range result.PIITypes {
		s.piiTypes[piiType]++
	}
	if result.State != executor.StateResponded && result.State != executor.StatePIIChecked {
		if s.lines == nil {
			s.lines = make(map[executor.State][]int)
		}
		s.lines[result.State] = append(s.lines[result.State], result.LineNumber)
	}
	return nil
}

func (s *summaryWriter) Close() error {
	summary := Summary{
		Total:   s.total,
		ByState: make(map[string]int, len(s.counts)),
	}
	for state, count := range s.counts {
		summary.ByState[string(state)] = count
	}
	if len(s.piiTypes) > 0 {
		summary.PIITypes = s.piiTypes
	}
	if len(s.lines) > 0 {
		summary.Lines = make(map[string][]int, len(s.lines))
		for state, lines := range s.lines {
			sort.Ints(lines)
			summary.Lines[string(state)] = lines
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	s.logger.Info().Int("total", s.total).Msg("summary written")
	return nil
}
