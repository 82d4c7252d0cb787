package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// MaxLineBytes bounds a single JSONL record.
const MaxLineBytes = 1 << 20

var ErrInvalidJSON = errors.New("line is not a valid JSON document")

// InputRecord is one non-empty line of the input file.
type InputRecord struct {
	LineNumber int
	Body       []byte
	Error      error
}

type Reader struct {
	r      io.Reader
	logger *zerolog.Logger
}

func NewReader(r io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{r: r, logger: logger}
}

// ReadAll streams records until EOF or ctx is cancelled. Blank lines are skipped but still
// counted, so LineNumber matches the file.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	records := make(chan InputRecord)

	go func() {
		defer close(records)

		scanner := bufio.NewScanner(r.r)
		scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			record := InputRecord{LineNumber: lineNumber, Body: append([]byte(nil), line...)}
			if !json.Valid(line) {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, ErrInvalidJSON)
			}

			select {
			case records <- record:
			case <-ctx.Done():
				r.logger.Warn().Int("line", lineNumber).Msg("reading cancelled")
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Int("line", lineNumber+1).Msg("failed to read input")
			select {
			case records <- InputRecord{LineNumber: lineNumber + 1, Error: fmt.Errorf("line %d: %w", lineNumber+1, err)}:
			case <-ctx.Done():
			}
		}
	}()

	return records
}
