package sentiment

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spacesedan/sentimeter/internal/models"
)

const (
	BackendORT   = "ort"
	BackendXLA   = "xla"
	BackendVader = "vader"
)

// Tensor is the model input: a rank-2 string tensor.
type Tensor struct {
	Shape  []int64
	Values []string
}

func newTextTensor(text string) Tensor {
	return Tensor{Shape: []int64{1, 1}, Values: []string{text}}
}

// Output holds the two named model outputs for every input row: the predicted label and the
// label -> probability mapping.
type Output struct {
	Labels        []string
	Probabilities []map[string]float32

	release func()
}

// Release frees backend resources tied to this output. Safe to call more than once.
func (o *Output) Release() {
	if o == nil || o.release == nil {
		return
	}
	o.release()
	o.release = nil
}

// Backend executes forward passes against a loaded model.
type Backend interface {
	Run(input Tensor) (*Output, error)
	Destroy() error
}

type BackendFactory func(cfg RuntimeConfig) (Backend, error)

type RuntimeConfig struct {
	Backend         string
	ModelPath       string
	ModelName       string
	OnnxLibraryPath string
}

// Runtime owns the process-wide model handle. A runtime whose model failed to load stays
// usable: Available reports false and Infer fails with the recorded InitError.
type Runtime struct {
	cfg       RuntimeConfig
	factories map[string]BackendFactory

	lifecycle sync.RWMutex
	callMu    sync.Mutex
	backend   Backend
	initErr   *InitError
	released  bool

	releaseOnce sync.Once
}

type RuntimeOption func(*Runtime)

// WithBackendFactory registers or replaces the factory used for a backend name.
func WithBackendFactory(name string, factory BackendFactory) RuntimeOption {
	return func(r *Runtime) {
		r.factories[name] = factory
	}
}

func NewRuntime(cfg RuntimeConfig, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		cfg: cfg,
		factories: map[string]BackendFactory{
			BackendORT:   newORTHugotBackend,
			BackendXLA:   newXLAHugotBackend,
			BackendVader: newVaderBackend,
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.initialize()
	return r
}

func (r *Runtime) initialize() {
	start := time.Now()
	slog.Info("[Runtime] Initializing sentiment model",
		slog.String("backend", r.cfg.Backend),
		slog.String("model_path", r.cfg.ModelPath))

	backend, err := r.loadBackend()
	if err != nil {
		r.initErr = &InitError{ModelPath: r.cfg.ModelPath, Cause: err}
		slog.Error("[Runtime] Model unavailable, inference requests will fail",
			slog.String("backend", r.cfg.Backend),
			slog.String("error", err.Error()))
		return
	}

	r.backend = backend
	slog.Info("[Runtime] Model loaded successfully",
		slog.String("backend", r.cfg.Backend),
		slog.Duration("elapsed", time.Since(start)))
}

func (r *Runtime) loadBackend() (backend Backend, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			backend, err = nil, fmt.Errorf("backend panicked during load: %v", rec)
		}
	}()

	factory, ok := r.factories[r.cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("unknown model backend %q", r.cfg.Backend)
	}

	backend, err = factory(r.cfg)
	if err == nil && backend == nil {
		err = fmt.Errorf("backend %q returned no model", r.cfg.Backend)
	}
	return backend, err
}

func (r *Runtime) Available() bool {
	r.lifecycle.RLock()
	defer r.lifecycle.RUnlock()
	return r.backend != nil && !r.released
}

// InitErr returns the load failure, or nil if the model loaded.
func (r *Runtime) InitErr() error {
	if r.initErr == nil {
		return nil
	}
	return r.initErr
}

// Infer runs one forward pass over already normalized text and returns the canonical label with
// the probability the model assigned to it.
func (r *Runtime) Infer(normalizedText string) (models.Label, float32, error) {
	r.lifecycle.RLock()
	defer r.lifecycle.RUnlock()

	if r.released {
		return "", 0, ErrModelReleased
	}
	if r.backend == nil {
		return "", 0, r.initErr
	}

	r.callMu.Lock()
	defer r.callMu.Unlock()

	out, err := r.run(newTextTensor(normalizedText))
	defer out.Release()
	if err != nil {
		return "", 0, fmt.Errorf("inference failed: %w", err)
	}
	if out == nil {
		return "", 0, fmt.Errorf("%w: no output", ErrMalformedOutput)
	}

	if len(out.Labels) == 0 || len(out.Probabilities) == 0 {
		return "", 0, fmt.Errorf("%w: missing label or probability output", ErrMalformedOutput)
	}

	predicted := out.Labels[0]
	probability, ok := out.Probabilities[0][predicted]
	if !ok {
		return "", 0, fmt.Errorf("%w: no probability for label %q", ErrMalformedOutput, predicted)
	}

	label, err := CanonicalLabel(predicted)
	if err != nil {
		return "", 0, err
	}

	return label, probability, nil
}

func (r *Runtime) run(input Tensor) (out *Output, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("backend panicked: %v", rec)
		}
	}()
	return r.backend.Run(input)
}

// Release waits for in-flight inferences and destroys the backend. Only the first call does
// any work.
func (r *Runtime) Release() error {
	var err error
	r.releaseOnce.Do(func() {
		r.lifecycle.Lock()
		defer r.lifecycle.Unlock()

		r.released = true
		if r.backend == nil {
			return
		}

		err = r.destroyBackend()
		r.backend = nil
		if err != nil {
			slog.Error("[Runtime] Failed to release model", slog.String("error", err.Error()))
			return
		}
		slog.Info("[Runtime] Model released")
	})
	return err
}

func (r *Runtime) destroyBackend() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("backend panicked during destroy: %v", rec)
		}
	}()
	return r.backend.Destroy()
}
