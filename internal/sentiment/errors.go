package sentiment

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable is the cause of every inference attempt made while no model is loaded.
	ErrModelUnavailable = errors.New("sentiment model unavailable")
	ErrModelReleased    = fmt.Errorf("%w: runtime released", ErrModelUnavailable)
	ErrUnsupportedLabel = errors.New("model returned unsupported sentiment")
	ErrMalformedOutput  = errors.New("model returned malformed output")
	ErrAnalysis         = errors.New("sentiment analysis failed")
)

// InitError records why the model could not be loaded.
type InitError struct {
	ModelPath string
	Cause     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: loading %q: %v", ErrModelUnavailable, e.ModelPath, e.Cause)
}

func (e *InitError) Unwrap() []error {
	return []error{ErrModelUnavailable, e.Cause}
}

// AnalysisError is the single failure kind returned by Analyzer.Analyze.
type AnalysisError struct {
	Cause error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %v", ErrAnalysis, e.Cause)
}

func (e *AnalysisError) Unwrap() []error {
	return []error{ErrAnalysis, e.Cause}
}
