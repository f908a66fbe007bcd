package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spacesedan/sentimeter/internal/batch"
	"github.com/spacesedan/sentimeter/internal/metrics"
	"github.com/spacesedan/sentimeter/internal/models"
)

const DefaultMaxUploadBytes = 10 << 20

type StatisticsReader interface {
	GetStatistics(ctx context.Context) (models.Statistics, error)
	History(ctx context.Context) ([]models.AnalysisRecord, error)
}

type Options struct {
	// Persister may be nil, results are then returned without being stored.
	Persister batch.Persister
	// Statistics may be nil, statistics and history then fail with ErrStorageUnavailable.
	Statistics     StatisticsReader
	MaxRows        int
	MaxUploadBytes int64
}

type SentimentService struct {
	analyzer       batch.Analyzer
	processor      *batch.Processor
	persister      batch.Persister
	statistics     StatisticsReader
	maxUploadBytes int64
}

func NewSentimentService(analyzer batch.Analyzer, opts Options) *SentimentService {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &SentimentService{
		analyzer:       analyzer,
		processor:      batch.NewProcessor(analyzer, opts.Persister, opts.MaxRows),
		persister:      opts.Persister,
		statistics:     opts.Statistics,
		maxUploadBytes: opts.MaxUploadBytes,
	}
}

func (s *SentimentService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// AnalyzeText classifies one text and stores the result. The returned text is the input as
// received.
func (s *SentimentService) AnalyzeText(ctx context.Context, text string) (models.BatchItem, error) {
	if strings.TrimSpace(text) == "" {
		return models.BatchItem{}, ErrEmptyText
	}

	result, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		return models.BatchItem{}, err
	}

	if s.persister != nil {
		if _, err := s.persister.SaveAnalysis(ctx, text, result.Label, result.Confidence); err != nil {
			metrics.PersistenceFailed()
			slog.Warn("[SentimentService] Failed to save analysis",
				slog.String("error", err.Error()))
		}
	}

	return models.BatchItem{Label: result.Label, Confidence: result.Confidence, Text: text}, nil
}

// AnalyzeCSV validates an uploaded file and classifies its text column.
func (s *SentimentService) AnalyzeCSV(ctx context.Context, filename string, size int64, r io.Reader, column string) (models.BatchResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return models.BatchResult{}, fmt.Errorf("%w: only .csv files are accepted", ErrInvalidFile)
	}
	if size <= 0 {
		return models.BatchResult{}, fmt.Errorf("%w: file is empty", ErrInvalidFile)
	}
	if size > s.maxUploadBytes {
		return models.BatchResult{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidFile, s.maxUploadBytes)
	}

	slog.Info("[SentimentService] Processing CSV upload",
		slog.String("filename", filename),
		slog.Int64("size", size),
		slog.String("column", column))

	result, err := s.processor.ProcessFile(ctx, io.LimitReader(r, s.maxUploadBytes), column)
	if err != nil {
		return models.BatchResult{}, err
	}
	if result.TotalProcessed == 0 {
		return models.BatchResult{}, ErrNoValidText
	}
	return result, nil
}

func (s *SentimentService) Statistics(ctx context.Context) (models.Statistics, error) {
	if s.statistics == nil {
		return models.Statistics{}, ErrStorageUnavailable
	}
	return s.statistics.GetStatistics(ctx)
}

func (s *SentimentService) History(ctx context.Context) ([]models.AnalysisRecord, error) {
	if s.statistics == nil {
		return nil, ErrStorageUnavailable
	}
	return s.statistics.History(ctx)
}
