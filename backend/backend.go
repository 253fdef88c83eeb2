package backend

import (
	"errors"
	"fmt"

	"github.com/gogpu/gtext"
)

// Backend name constants.
const (
	// Software is the name of the CPU backend in backend/software.
	Software = "software"
	// GPU is the name of the gpucontext backend in backend/gpubackend.
	GPU = "gpu"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrUnsupportedTarget is returned by a factory that cannot draw to the
	// given target.
	ErrUnsupportedTarget = errors.New("backend: unsupported target")
)

// Factory creates a backend drawing to target. The accepted target types
// depend on the backend.
type Factory func(target any) (gtext.Backend, error)

// New creates the backend registered under name.
func New(name string, target any) (gtext.Backend, error) {
	factory := lookup(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return factory(target)
}
