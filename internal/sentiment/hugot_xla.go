//go:build XLA || ALL

package sentiment

import (
	"fmt"

	"github.com/knights-analytics/hugot"
)

func newXLAHugotBackend(cfg RuntimeConfig) (Backend, error) {
	modelPath, err := resolveModelPath(cfg)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewXLASession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot XLA session: %w", err)
	}
	return newHugotBackend(session, modelPath)
}
