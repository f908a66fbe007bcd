package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/sentimeter/internal/models"
	"github.com/spacesedan/sentimeter/internal/service"
)

const (
	MaxTextLength     = 5000
	multipartOverhead = 1 << 20
)

type SentimentService interface {
	AnalyzeText(ctx context.Context, text string) (models.BatchItem, error)
	AnalyzeCSV(ctx context.Context, filename string, size int64, r io.Reader, column string) (models.BatchResult, error)
	Statistics(ctx context.Context) (models.Statistics, error)
	History(ctx context.Context) ([]models.AnalysisRecord, error)
	MaxUploadBytes() int64
}

type AnalyzeTextRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

type SentimentHandler struct {
	svc SentimentService
}

func NewSentimentHandler(svc SentimentService) *SentimentHandler {
	return &SentimentHandler{svc: svc}
}

// AnalyzeText handles POST /sentiment
func (h *SentimentHandler) AnalyzeText(c *gin.Context) {
	var req AnalyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleInvalidRequest(c, fmt.Sprintf("text is required and must be at most %d characters", MaxTextLength))
		return
	}

	item, err := h.svc.AnalyzeText(c.Request.Context(), req.Text)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// AnalyzeBatch handles POST /sentiment/batch
func (h *SentimentHandler) AnalyzeBatch(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.svc.MaxUploadBytes()+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleError(c, fmt.Errorf("%w: file exceeds %d bytes", service.ErrInvalidFile, h.svc.MaxUploadBytes()))
			return
		}
		HandleError(c, fmt.Errorf("%w: a CSV file is required in the 'file' field", service.ErrInvalidFile))
		return
	}

	file, err := header.Open()
	if err != nil {
		HandleError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer file.Close()

	column := c.PostForm("textColumn")
	if column == "" {
		column = c.Query("textColumn")
	}

	result, err := h.svc.AnalyzeCSV(c.Request.Context(), header.Filename, header.Size, file, column)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Statistics handles GET /sentiment/statistics
func (h *SentimentHandler) Statistics(c *gin.Context) {
	stats, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// History handles GET /sentiment/history
func (h *SentimentHandler) History(c *gin.Context) {
	records, err := h.svc.History(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
