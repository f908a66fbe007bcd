package sentiment

import (
	"path/filepath"
	"testing"

	"github.com/knights-analytics/hugot/pipelines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassificationConfig(t *testing.T) {
	cfg := classificationConfig("/models/sentiment")

	assert.Equal(t, "/models/sentiment", cfg.ModelPath)
	assert.Equal(t, hugotPipelineName, cfg.Name)

	pipeline := &pipelines.TextClassificationPipeline{}
	for _, opt := range cfg.Options {
		opt(pipeline)
	}
	assert.Equal(t, "singleLabel", pipeline.ProblemType)
	assert.Equal(t, "SOFTMAX", pipeline.AggregationFunctionName)
}

func TestResolveModelPath(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveModelPath(RuntimeConfig{ModelPath: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = resolveModelPath(RuntimeConfig{})
	assert.ErrorContains(t, err, "model path is empty")

	_, err = resolveModelPath(RuntimeConfig{ModelPath: filepath.Join(dir, "missing")})
	assert.ErrorContains(t, err, "model not found")
}

func TestNewRuntime_HugotBackendsWithoutModel(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	for _, backend := range []string{BackendORT, BackendXLA} {
		t.Run(backend, func(t *testing.T) {
			runtime := NewRuntime(RuntimeConfig{Backend: backend, ModelPath: missing})
			t.Cleanup(func() { _ = runtime.Release() })

			assert.False(t, runtime.Available())
			assert.ErrorIs(t, runtime.InitErr(), ErrModelUnavailable)
		})
	}
}
