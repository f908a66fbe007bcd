package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/spacesedan/sentimeter/internal/models"
)

// vaderBackend scores text with the VADER lexicon. It needs no model artifact and exposes the
// same label/probability outputs as the ONNX backends, mapping the compound score in [-1,1]
// onto a positive probability in [0,1].
type vaderBackend struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func newVaderBackend(RuntimeConfig) (Backend, error) {
	return &vaderBackend{analyzer: govader.NewSentimentIntensityAnalyzer()}, nil
}

func (v *vaderBackend) Run(input Tensor) (*Output, error) {
	out := &Output{
		Labels:        make([]string, 0, len(input.Values)),
		Probabilities: make([]map[string]float32, 0, len(input.Values)),
	}

	for _, text := range input.Values {
		label, probabilities := v.score(text)
		out.Labels = append(out.Labels, label)
		out.Probabilities = append(out.Probabilities, probabilities)
	}

	return out, nil
}

func (v *vaderBackend) score(text string) (string, map[string]float32) {
	sentiment := v.analyzer.PolarityScores(text)
	positive := float32((sentiment.Compound + 1) / 2)

	probabilities := map[string]float32{
		string(models.LabelPositive): positive,
		string(models.LabelNegative): 1 - positive,
	}

	// a neutral compound score of 0 leans positive, the model is binary
	if sentiment.Compound >= 0 {
		return string(models.LabelPositive), probabilities
	}
	return string(models.LabelNegative), probabilities
}

func (v *vaderBackend) Destroy() error {
	return nil
}
