package gtext

import (
	"errors"
	"fmt"
)

// Sentinel errors for argument validation.
var (
	// ErrNilCache is returned when a render call is given a nil cache.
	ErrNilCache = errors.New("gtext: nil cache")

	// ErrNilBackend is returned when a render call is given a nil backend.
	ErrNilBackend = errors.New("gtext: nil backend")

	// ErrNoFont is returned when the cache has no font to render with.
	ErrNoFont = errors.New("gtext: cache has no font")
)

// BackendOp names the backend operation that failed.
type BackendOp string

// Backend operations reported in a BackendError.
const (
	OpCreateTexture BackendOp = "create texture"
	OpUpload        BackendOp = "upload"
	OpDraw          BackendOp = "draw"
)

// BackendError is returned when a Backend call fails during rendering.
// The render call stops at the first failure; draws issued before it are
// not rolled back.
type BackendError struct {
	Op   BackendOp
	Rune rune
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("gtext: %s for %q: %v", e.Op, e.Rune, e.Err)
}

// Unwrap returns the error reported by the backend.
func (e *BackendError) Unwrap() error {
	return e.Err
}
