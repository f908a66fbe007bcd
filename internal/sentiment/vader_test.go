package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/sentimeter/internal/models"
)

func TestVaderBackend_ThroughRuntime(t *testing.T) {
	rt := NewRuntime(RuntimeConfig{Backend: BackendVader})
	require.True(t, rt.Available())
	defer rt.Release()

	label, confidence, err := rt.Infer("i love this wonderful product")
	require.NoError(t, err)
	assert.Equal(t, models.LabelPositive, label)
	assert.Greater(t, confidence, float32(0.5))
	assert.LessOrEqual(t, confidence, float32(1))

	label, confidence, err = rt.Infer("this is terrible and i hate it")
	require.NoError(t, err)
	assert.Equal(t, models.LabelNegative, label)
	assert.Greater(t, confidence, float32(0.5))
}

func TestVaderBackend_ProbabilitiesSumToOne(t *testing.T) {
	backend, err := newVaderBackend(RuntimeConfig{})
	require.NoError(t, err)

	out, err := backend.Run(newTextTensor("not bad at all"))
	require.NoError(t, err)
	require.Len(t, out.Probabilities, 1)

	probs := out.Probabilities[0]
	assert.InDelta(t, 1.0, probs["POSITIVE"]+probs["NEGATIVE"], 1e-6)
}
