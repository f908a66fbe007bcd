//go:build !XLA && !ALL

package sentiment

import "errors"

func newXLAHugotBackend(RuntimeConfig) (Backend, error) {
	return nil, errors.New("xla backend requires building with -tags XLA")
}
