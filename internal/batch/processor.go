package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/sentimeter/internal/metrics"
	"github.com/spacesedan/sentimeter/internal/models"
)

const (
	DefaultMaxRows = 100
	utf8BOM        = "\ufeff"
)

type Analyzer interface {
	Analyze(ctx context.Context, text string) (models.AnalysisResult, error)
}

// Persister stores one analysis. Its failures never abort a batch.
type Persister interface {
	SaveAnalysis(ctx context.Context, text string, label models.Label, confidence float64) (models.AnalysisRecord, error)
}

type Processor struct {
	analyzer  Analyzer
	persister Persister
	maxRows   int
}

// NewProcessor builds a batch processor. persister may be nil; maxRows <= 0 selects
// DefaultMaxRows.
func NewProcessor(analyzer Analyzer, persister Persister, maxRows int) *Processor {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Processor{
		analyzer:  analyzer,
		persister: persister,
		maxRows:   maxRows,
	}
}

func (p *Processor) MaxRows() int {
	return p.maxRows
}

// ProcessFile classifies the text column of a CSV stream. The first non-blank line is the
// header; column selects the text column by case-insensitive name, or the first column when
// empty. At most maxRows rows are classified; blank, short and empty-text rows are skipped
// without counting. An analysis failure aborts the batch.
func (p *Processor) ProcessFile(ctx context.Context, r io.Reader, column string) (models.BatchResult, error) {
	start := time.Now()
	column = strings.TrimSpace(column)

	reader := bufio.NewReader(r)

	results := make([]models.BatchItem, 0)
	textIndex := 0
	headerSeen := false
	lineNumber := 0

	for len(results) < p.maxRows {
		line, more, err := readLine(reader)
		if err != nil {
			return models.BatchResult{}, fmt.Errorf("%w at line %d: %w", ErrCSVRead, lineNumber+1, err)
		}
		if !more {
			break
		}

		lineNumber++
		if lineNumber == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := ParseLine(line)

		if !headerSeen {
			headerSeen = true
			index, err := resolveColumn(fields, column)
			if err != nil {
				slog.Warn("[BatchProcessor] Column not found in CSV header",
					slog.String("column", column))
				return models.BatchResult{}, err
			}
			textIndex = index
			continue
		}

		if textIndex >= len(fields) {
			slog.Debug("[BatchProcessor] Skipping short row",
				slog.Int("line", lineNumber),
				slog.Int("fields", len(fields)))
			continue
		}

		text := CleanField(fields[textIndex])
		if text == "" {
			continue
		}

		result, err := p.analyzer.Analyze(ctx, text)
		if err != nil {
			slog.Error("[BatchProcessor] Analysis failed, aborting batch",
				slog.Int("line", lineNumber),
				slog.String("error", err.Error()))
			return models.BatchResult{}, fmt.Errorf("line %d: %w", lineNumber, err)
		}

		p.persist(ctx, text, result)

		results = append(results, models.BatchItem{
			Label:      result.Label,
			Confidence: result.Confidence,
			Text:       text,
		})
		metrics.BatchRowProcessed()
	}

	slog.Info("[BatchProcessor] Batch processed",
		slog.Int("total_processed", len(results)),
		slog.Int("lines_read", lineNumber),
		slog.Duration("elapsed", time.Since(start)))

	return models.BatchResult{Results: results, TotalProcessed: len(results)}, nil
}

// persist is a best-effort side effect: the row stays in the batch output whatever happens here.
func (p *Processor) persist(ctx context.Context, text string, result models.AnalysisResult) {
	if p.persister == nil {
		return
	}
	if _, err := p.persister.SaveAnalysis(ctx, text, result.Label, result.Confidence); err != nil {
		metrics.PersistenceFailed()
		slog.Warn("[BatchProcessor] Failed to save analysis, continuing",
			slog.String("error", err.Error()))
	}
}

// readLine returns the next line without its LF or CRLF terminator. Lines have no length cap,
// callers bound the stream. more is false once the stream is exhausted.
func readLine(reader *bufio.Reader) (line string, more bool, err error) {
	line, err = reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, err
		}
		if line == "" {
			return "", false, nil
		}
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}

func resolveColumn(header []string, column string) (int, error) {
	if column == "" {
		return 0, nil
	}

	available := make([]string, 0, len(header))
	for i, field := range header {
		name := CleanField(field)
		if strings.EqualFold(name, column) {
			return i, nil
		}
		available = append(available, name)
	}

	return -1, &ColumnNotFoundError{Column: column, Available: available}
}
