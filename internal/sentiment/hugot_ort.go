//go:build !NOORT || ALL

package sentiment

import (
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
)

func newORTHugotBackend(cfg RuntimeConfig) (Backend, error) {
	modelPath, err := resolveModelPath(cfg)
	if err != nil {
		return nil, err
	}

	var opts []options.WithOption
	if cfg.OnnxLibraryPath != "" {
		opts = append(opts, options.WithOnnxLibraryPath(cfg.OnnxLibraryPath))
	}

	session, err := hugot.NewORTSession(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot ORT session: %w", err)
	}
	return newHugotBackend(session, modelPath)
}
