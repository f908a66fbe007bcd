package models

import "time"

type DailyStatistics struct {
	Date     time.Time `json:"date"`
	Positive int64     `json:"positive"`
	Negative int64     `json:"negative"`
	Total    int64     `json:"total"`
}

// Statistics aggregates every stored analysis. Confidence averages are percentages.
type Statistics struct {
	Total                     int64             `json:"total"`
	Positive                  int64             `json:"positive"`
	Negative                  int64             `json:"negative"`
	PositivePercentage        float64           `json:"positive_percentage"`
	NegativePercentage        float64           `json:"negative_percentage"`
	AverageConfidence         float64           `json:"average_confidence"`
	PositiveAverageConfidence float64           `json:"positive_average_confidence"`
	NegativeAverageConfidence float64           `json:"negative_average_confidence"`
	Timeline                  []DailyStatistics `json:"timeline"`
}
