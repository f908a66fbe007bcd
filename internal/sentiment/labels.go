package sentiment

import (
	"fmt"
	"strings"

	"github.com/spacesedan/sentimeter/internal/models"
)

// accepted model tokens, english and the portuguese ones older models were trained with
var labelVocabulary = map[string]models.Label{
	"POSITIVE": models.LabelPositive,
	"POSITIVO": models.LabelPositive,
	"NEGATIVE": models.LabelNegative,
	"NEGATIVO": models.LabelNegative,
}

// CanonicalLabel maps a raw model label onto POSITIVE or NEGATIVE.
func CanonicalLabel(raw string) (models.Label, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	label, ok := labelVocabulary[token]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLabel, token)
	}
	return label, nil
}
