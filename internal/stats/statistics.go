package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/spacesedan/sentimeter/internal/models"
)

const (
	TimelineDays = 7
	HistoryLimit = 100
)

type Store interface {
	Count(ctx context.Context) (int64, error)
	CountByLabel(ctx context.Context, label models.Label) (int64, error)
	AverageConfidence(ctx context.Context) (*float64, error)
	AverageConfidenceByLabel(ctx context.Context, label models.Label) (*float64, error)
	DailyStatistics(ctx context.Context, since time.Time) ([]models.DailyStatistics, error)
	Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) GetStatistics(ctx context.Context) (models.Statistics, error) {
	var stats models.Statistics
	var err error

	if stats.Total, err = s.store.Count(ctx); err != nil {
		return models.Statistics{}, err
	}
	if stats.Positive, err = s.store.CountByLabel(ctx, models.LabelPositive); err != nil {
		return models.Statistics{}, err
	}
	if stats.Negative, err = s.store.CountByLabel(ctx, models.LabelNegative); err != nil {
		return models.Statistics{}, err
	}

	stats.PositivePercentage = percentage(stats.Positive, stats.Total)
	stats.NegativePercentage = percentage(stats.Negative, stats.Total)

	avg, err := s.store.AverageConfidence(ctx)
	if err != nil {
		return models.Statistics{}, err
	}
	stats.AverageConfidence = asPercentage(avg)

	if avg, err = s.store.AverageConfidenceByLabel(ctx, models.LabelPositive); err != nil {
		return models.Statistics{}, err
	}
	stats.PositiveAverageConfidence = asPercentage(avg)

	if avg, err = s.store.AverageConfidenceByLabel(ctx, models.LabelNegative); err != nil {
		return models.Statistics{}, err
	}
	stats.NegativeAverageConfidence = asPercentage(avg)

	since := s.now().AddDate(0, 0, -TimelineDays)
	timeline, err := s.store.DailyStatistics(ctx, since)
	if err != nil {
		return models.Statistics{}, fmt.Errorf("failed to build timeline: %w", err)
	}
	if timeline == nil {
		timeline = []models.DailyStatistics{}
	}
	stats.Timeline = timeline

	return stats, nil
}

// History returns the most recent analyses, newest first.
func (s *Service) History(ctx context.Context) ([]models.AnalysisRecord, error) {
	records, err := s.store.Recent(ctx, HistoryLimit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.AnalysisRecord{}
	}
	return records, nil
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

func asPercentage(avg *float64) float64 {
	if avg == nil {
		return 0
	}
	return *avg * 100
}
