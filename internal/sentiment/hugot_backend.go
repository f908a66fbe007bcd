package sentiment

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

const hugotPipelineName = "sentimentClassificationPipeline"

// hugotBackend runs a text-classification ONNX model through a hugot session. Tensors created
// for a run are owned and freed by the pipeline before RunPipeline returns.
type hugotBackend struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

// classificationConfig selects softmax over a single label explicitly so the reported score is a
// probability.
func classificationConfig(modelPath string) hugot.TextClassificationConfig {
	return hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      hugotPipelineName,
		Options: []hugot.TextClassificationOption{
			pipelines.WithSingleLabel(),
			pipelines.WithSoftmax(),
		},
	}
}

func newHugotBackend(session *hugot.Session, modelPath string) (Backend, error) {
	pipeline, err := hugot.NewPipeline(session, classificationConfig(modelPath))
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			slog.Warn("[HugotBackend] Failed to destroy session after pipeline error",
				slog.String("error", destroyErr.Error()))
		}
		return nil, fmt.Errorf("failed to initialize classification pipeline: %w", err)
	}

	return &hugotBackend{session: session, pipeline: pipeline}, nil
}

// resolveModelPath returns a local model directory, downloading cfg.ModelName when the
// configured path does not exist yet.
func resolveModelPath(cfg RuntimeConfig) (string, error) {
	if cfg.ModelPath == "" {
		return "", errors.New("model path is empty")
	}

	_, err := os.Stat(cfg.ModelPath)
	if err == nil {
		slog.Info("[HugotBackend] Using existing model", slog.String("path", cfg.ModelPath))
		return cfg.ModelPath, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat model path: %w", err)
	}
	if cfg.ModelName == "" {
		return "", fmt.Errorf("model not found at %s", cfg.ModelPath)
	}

	modelDir := filepath.Dir(cfg.ModelPath)
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	slog.Info("[HugotBackend] Model not found, downloading...",
		slog.String("model", cfg.ModelName),
		slog.String("dir", modelDir))
	modelPath, err := hugot.DownloadModel(cfg.ModelName, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download model %s: %w", cfg.ModelName, err)
	}
	slog.Info("[HugotBackend] Model downloaded successfully", slog.String("path", modelPath))

	return modelPath, nil
}

func (h *hugotBackend) Run(input Tensor) (*Output, error) {
	batch, err := h.pipeline.RunPipeline(input.Values)
	if err != nil {
		return nil, err
	}
	if len(batch.ClassificationOutputs) != len(input.Values) {
		return nil, fmt.Errorf("%w: expected %d rows, got %d",
			ErrMalformedOutput, len(input.Values), len(batch.ClassificationOutputs))
	}

	out := &Output{
		Labels:        make([]string, 0, len(batch.ClassificationOutputs)),
		Probabilities: make([]map[string]float32, 0, len(batch.ClassificationOutputs)),
	}
	for _, row := range batch.ClassificationOutputs {
		probabilities := make(map[string]float32, len(row))
		predicted := ""
		best := float32(-1)
		for _, class := range row {
			probabilities[class.Label] = class.Score
			if class.Score > best {
				predicted, best = class.Label, class.Score
			}
		}
		out.Labels = append(out.Labels, predicted)
		out.Probabilities = append(out.Probabilities, probabilities)
	}

	return out, nil
}

func (h *hugotBackend) Destroy() error {
	return h.session.Destroy()
}
