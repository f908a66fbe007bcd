package models

import "time"

// Label is the canonical sentiment emitted by the analyzer, whatever token the model produced.
type Label string

const (
	LabelPositive Label = "POSITIVE"
	LabelNegative Label = "NEGATIVE"
)

type AnalysisResult struct {
	Label      Label   `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// BatchItem is an AnalysisResult paired with the text it was computed for.
type BatchItem struct {
	Label      Label   `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Text       string  `json:"text"`
}

type BatchResult struct {
	Results        []BatchItem `json:"results"`
	TotalProcessed int         `json:"total_processed"`
}

type AnalysisRecord struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	Label      Label     `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}
