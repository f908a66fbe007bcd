package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spacesedan/sentimeter/internal/models"
)

const (
	insertAnalysisQuery = `
		INSERT INTO sentiment_analyses (text_content, sentiment_result, confidence_score)
		VALUES ($1, $2, $3)
		RETURNING id, analyzed_at`

	dailyStatisticsQuery = `
		SELECT analyzed_at::date AS day,
		       COUNT(*) FILTER (WHERE sentiment_result = $2) AS positive,
		       COUNT(*) FILTER (WHERE sentiment_result = $3) AS negative,
		       COUNT(*) AS total
		FROM sentiment_analyses
		WHERE analyzed_at >= $1
		GROUP BY day
		ORDER BY day DESC`

	recentAnalysesQuery = `
		SELECT id, text_content, sentiment_result, confidence_score, analyzed_at
		FROM sentiment_analyses
		ORDER BY analyzed_at DESC, id DESC
		LIMIT $1`
)

// AnalysisRepository is the append-only store of analyses and the source of every statistic.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, text string, label models.Label, confidence float64) (models.AnalysisRecord, error) {
	record := models.AnalysisRecord{
		Text:       text,
		Label:      models.Label(strings.ToUpper(string(label))),
		Confidence: confidence,
	}

	err := r.pool.QueryRow(ctx, insertAnalysisQuery, record.Text, string(record.Label), record.Confidence).
		Scan(&record.ID, &record.AnalyzedAt)
	if err != nil {
		return models.AnalysisRecord{}, fmt.Errorf("[DB] failed to save analysis: %w", err)
	}

	slog.Debug("[DB] Analysis saved",
		slog.Int64("id", record.ID),
		slog.String("sentiment", string(record.Label)))
	return record, nil
}

func (r *AnalysisRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sentiment_analyses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("[DB] failed to count analyses: %w", err)
	}
	return count, nil
}

func (r *AnalysisRepository) CountByLabel(ctx context.Context, label models.Label) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sentiment_analyses WHERE sentiment_result = $1`, string(label)).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("[DB] failed to count %s analyses: %w", label, err)
	}
	return count, nil
}

// AverageConfidence returns nil when there are no analyses.
func (r *AnalysisRepository) AverageConfidence(ctx context.Context) (*float64, error) {
	var avg *float64
	if err := r.pool.QueryRow(ctx, `SELECT AVG(confidence_score) FROM sentiment_analyses`).Scan(&avg); err != nil {
		return nil, fmt.Errorf("[DB] failed to average confidence: %w", err)
	}
	return avg, nil
}

func (r *AnalysisRepository) AverageConfidenceByLabel(ctx context.Context, label models.Label) (*float64, error) {
	var avg *float64
	err := r.pool.QueryRow(ctx, `SELECT AVG(confidence_score) FROM sentiment_analyses WHERE sentiment_result = $1`, string(label)).
		Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("[DB] failed to average %s confidence: %w", label, err)
	}
	return avg, nil
}

// DailyStatistics buckets analyses made since the given time by calendar day, newest first.
func (r *AnalysisRepository) DailyStatistics(ctx context.Context, since time.Time) ([]models.DailyStatistics, error) {
	rows, err := r.pool.Query(ctx, dailyStatisticsQuery, since,
		string(models.LabelPositive), string(models.LabelNegative))
	if err != nil {
		return nil, fmt.Errorf("[DB] failed to query daily statistics: %w", err)
	}

	days, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.DailyStatistics, error) {
		var day models.DailyStatistics
		err := row.Scan(&day.Date, &day.Positive, &day.Negative, &day.Total)
		return day, err
	})
	if err != nil {
		return nil, fmt.Errorf("[DB] failed to scan daily statistics: %w", err)
	}
	return days, nil
}

func (r *AnalysisRepository) Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	rows, err := r.pool.Query(ctx, recentAnalysesQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("[DB] failed to query recent analyses: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AnalysisRecord, error) {
		var record models.AnalysisRecord
		var label string
		err := row.Scan(&record.ID, &record.Text, &label, &record.Confidence, &record.AnalyzedAt)
		record.Label = models.Label(label)
		return record, err
	})
	if err != nil {
		return nil, fmt.Errorf("[DB] failed to scan recent analyses: %w", err)
	}
	return records, nil
}

func (r *AnalysisRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
