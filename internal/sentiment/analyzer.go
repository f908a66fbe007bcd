package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/spacesedan/sentimeter/internal/metrics"
	"github.com/spacesedan/sentimeter/internal/models"
)

const cacheKeyPrefix = "sentiment:result:"

type Inferrer interface {
	Infer(normalizedText string) (models.Label, float32, error)
}

// ResultCache stores results by normalized text. Implementations swallow their own errors.
type ResultCache interface {
	GetResult(ctx context.Context, key string) (models.AnalysisResult, bool)
	SetResult(ctx context.Context, key string, result models.AnalysisResult)
}

// Analyzer is the single entry point for classifying text.
type Analyzer struct {
	runtime Inferrer
	cache   ResultCache
}

type AnalyzerOption func(*Analyzer)

func WithResultCache(cache ResultCache) AnalyzerOption {
	return func(a *Analyzer) {
		a.cache = cache
	}
}

func NewAnalyzer(runtime Inferrer, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{runtime: runtime}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) Analyze(ctx context.Context, text string) (models.AnalysisResult, error) {
	normalized := Normalize(text)

	var key string
	if a.cache != nil {
		key = CacheKey(normalized)
		if cached, ok := a.cache.GetResult(ctx, key); ok {
			metrics.CacheLookup(true)
			return cached, nil
		}
		metrics.CacheLookup(false)
	}

	start := time.Now()
	label, confidence, err := a.runtime.Infer(normalized)
	if err != nil {
		metrics.AnalysisFailed()
		slog.Warn("[Analyzer] Inference failed",
			slog.Int("text_length", len(normalized)),
			slog.String("error", err.Error()))
		return models.AnalysisResult{}, &AnalysisError{Cause: err}
	}
	metrics.ObserveAnalysis(string(label), time.Since(start))

	result := models.AnalysisResult{Label: label, Confidence: float64(confidence)}
	if a.cache != nil {
		a.cache.SetResult(ctx, key, result)
	}

	return result, nil
}

// CacheKey derives the result cache key for normalized text.
func CacheKey(normalized string) string {
	hash := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(hash[:])
}
