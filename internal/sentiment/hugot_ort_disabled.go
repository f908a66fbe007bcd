//go:build NOORT && !ALL

package sentiment

import "errors"

func newORTHugotBackend(RuntimeConfig) (Backend, error) {
	return nil, errors.New("ort backend is excluded from builds tagged NOORT")
}
