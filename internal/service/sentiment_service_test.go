package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/sentimeter/internal/batch"
	"github.com/spacesedan/sentimeter/internal/models"
	"github.com/spacesedan/sentimeter/internal/sentiment"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, text string) (models.AnalysisResult, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(models.AnalysisResult), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveAnalysis(ctx context.Context, text string, label models.Label, confidence float64) (models.AnalysisRecord, error) {
	args := m.Called(ctx, text, label, confidence)
	return args.Get(0).(models.AnalysisRecord), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishAnalysis(record models.AnalysisRecord) error {
	return m.Called(record).Error(0)
}

type MockStatistics struct {
	mock.Mock
}

func (m *MockStatistics) GetStatistics(ctx context.Context) (models.Statistics, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Statistics), args.Error(1)
}

func (m *MockStatistics) History(ctx context.Context) ([]models.AnalysisRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.AnalysisRecord), args.Error(1)
}

var positive = models.AnalysisResult{Label: models.LabelPositive, Confidence: 0.91}

func TestAnalyzeText(t *testing.T) {
	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, "Ótimo produto!").Return(positive, nil)
	store := new(MockStore)
	store.On("SaveAnalysis", mock.Anything, "Ótimo produto!", models.LabelPositive, 0.91).
		Return(models.AnalysisRecord{ID: 1}, nil)

	svc := NewSentimentService(analyzer, Options{Persister: NewRecorder(store, nil)})
	item, err := svc.AnalyzeText(context.Background(), "Ótimo produto!")

	require.NoError(t, err)
	assert.Equal(t, models.BatchItem{Label: models.LabelPositive, Confidence: 0.91, Text: "Ótimo produto!"}, item)
	store.AssertExpectations(t)
}

func TestAnalyzeText_Blank(t *testing.T) {
	analyzer := new(MockAnalyzer)
	svc := NewSentimentService(analyzer, Options{})

	_, err := svc.AnalyzeText(context.Background(), "   \t")

	assert.ErrorIs(t, err, ErrEmptyText)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestAnalyzeText_PersistenceFailureIsIgnored(t *testing.T) {
	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, "good").Return(positive, nil)
	store := new(MockStore)
	store.On("SaveAnalysis", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.AnalysisRecord{}, errors.New("db down"))

	svc := NewSentimentService(analyzer, Options{Persister: NewRecorder(store, nil)})
	item, err := svc.AnalyzeText(context.Background(), "good")

	require.NoError(t, err)
	assert.Equal(t, models.LabelPositive, item.Label)
}

func TestAnalyzeText_AnalysisError(t *testing.T) {
	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, "x").
		Return(models.AnalysisResult{}, &sentiment.AnalysisError{Cause: sentiment.ErrUnsupportedLabel})

	_, err := NewSentimentService(analyzer, Options{}).AnalyzeText(context.Background(), "x")

	assert.ErrorIs(t, err, sentiment.ErrAnalysis)
}

func TestAnalyzeCSV(t *testing.T) {
	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, "great").Return(positive, nil)
	svc := NewSentimentService(analyzer, Options{})

	csv := "text\ngreat\n"
	result, err := svc.AnalyzeCSV(context.Background(), "reviews.CSV", int64(len(csv)), strings.NewReader(csv), "")

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalProcessed)
	assert.Equal(t, "great", result.Results[0].Text)
}

func TestAnalyzeCSV_InvalidFiles(t *testing.T) {
	svc := NewSentimentService(new(MockAnalyzer), Options{MaxUploadBytes: 10})

	tests := []struct {
		name     string
		filename string
		size     int64
	}{
		{"wrong extension", "reviews.txt", 5},
		{"no extension", "reviews", 5},
		{"empty", "reviews.csv", 0},
		{"too large", "reviews.csv", 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AnalyzeCSV(context.Background(), tt.filename, tt.size, strings.NewReader("text\n"), "")
			assert.ErrorIs(t, err, ErrInvalidFile)
		})
	}
}

func TestAnalyzeCSV_NoValidText(t *testing.T) {
	svc := NewSentimentService(new(MockAnalyzer), Options{})

	csv := "text\n\n\"\"\n"
	_, err := svc.AnalyzeCSV(context.Background(), "a.csv", int64(len(csv)), strings.NewReader(csv), "")

	assert.ErrorIs(t, err, ErrNoValidText)
}

func TestAnalyzeCSV_MissingColumn(t *testing.T) {
	svc := NewSentimentService(new(MockAnalyzer), Options{})

	csv := "name,body\na,b\n"
	_, err := svc.AnalyzeCSV(context.Background(), "a.csv", int64(len(csv)), strings.NewReader(csv), "text")

	var colErr *batch.ColumnNotFoundError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, []string{"name", "body"}, colErr.Available)
}

func TestStatistics_WithoutStorage(t *testing.T) {
	svc := NewSentimentService(new(MockAnalyzer), Options{})

	_, err := svc.Statistics(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = svc.History(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestStatistics_Delegates(t *testing.T) {
	reader := new(MockStatistics)
	reader.On("GetStatistics", mock.Anything).Return(models.Statistics{Total: 3}, nil)
	reader.On("History", mock.Anything).Return([]models.AnalysisRecord{{ID: 3}}, nil)
	svc := NewSentimentService(new(MockAnalyzer), Options{Statistics: reader})

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRecorder_PublishesSavedRecord(t *testing.T) {
	record := models.AnalysisRecord{ID: 7, Text: "good", Label: models.LabelPositive, Confidence: 0.8}
	store := new(MockStore)
	store.On("SaveAnalysis", mock.Anything, "good", models.LabelPositive, 0.8).Return(record, nil)
	publisher := new(MockPublisher)
	publisher.On("PublishAnalysis", record).Return(errors.New("queue full"))

	got, err := NewRecorder(store, publisher).SaveAnalysis(context.Background(), "good", models.LabelPositive, 0.8)

	require.NoError(t, err)
	assert.Equal(t, record, got)
	publisher.AssertExpectations(t)
}

func TestRecorder_SkipsPublishOnSaveFailure(t *testing.T) {
	store := new(MockStore)
	store.On("SaveAnalysis", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.AnalysisRecord{}, errors.New("db down"))
	publisher := new(MockPublisher)

	_, err := NewRecorder(store, publisher).SaveAnalysis(context.Background(), "good", models.LabelPositive, 0.8)

	assert.Error(t, err)
	publisher.AssertNotCalled(t, "PublishAnalysis", mock.Anything)
}

func TestAnalyzeCSV_RowLongerThanOneMebibyte(t *testing.T) {
	long := strings.Repeat("a", 2<<20)
	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(positive, nil)
	svc := NewSentimentService(analyzer, Options{})

	csv := "text\ngood\n" + long + "\nbad\n"
	result, err := svc.AnalyzeCSV(context.Background(), "a.csv", int64(len(csv)), strings.NewReader(csv), "")

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, "bad", result.Results[2].Text)
}
