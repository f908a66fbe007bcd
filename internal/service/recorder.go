package service

import (
	"context"
	"log/slog"

	"github.com/spacesedan/sentimeter/internal/models"
)

type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, text string, label models.Label, confidence float64) (models.AnalysisRecord, error)
}

type EventPublisher interface {
	PublishAnalysis(record models.AnalysisRecord) error
}

// Recorder persists an analysis and then announces it. Publishing is best-effort and never
// fails a save.
type Recorder struct {
	store     AnalysisStore
	publisher EventPublisher
}

// NewRecorder builds a recorder over store. publisher may be nil.
func NewRecorder(store AnalysisStore, publisher EventPublisher) *Recorder {
	return &Recorder{store: store, publisher: publisher}
}

func (r *Recorder) SaveAnalysis(ctx context.Context, text string, label models.Label, confidence float64) (models.AnalysisRecord, error) {
	record, err := r.store.SaveAnalysis(ctx, text, label, confidence)
	if err != nil {
		return models.AnalysisRecord{}, err
	}

	if r.publisher != nil {
		if err := r.publisher.PublishAnalysis(record); err != nil {
			slog.Warn("[Recorder] Failed to publish analysis event",
				slog.Int64("id", record.ID),
				slog.String("error", err.Error()))
		}
	}
	return record, nil
}
