package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrEngineUnavailable reports that the recognition runtime itself cannot be
// located. It is a configuration-level failure, distinct from a transient
// per-call engine fault, and should not be retried.
var ErrEngineUnavailable = errors.New("recognition engine unavailable")

// Token is a single recognized word with the engine's raw confidence score
// on its native 0..100 scale.
type Token struct {
	Text       string
	Confidence float64
}

// Engine recognizes text in a grayscale image, returning tokens in reading
// order. Implementations return ErrEngineUnavailable when the underlying
// runtime is missing and a generic error for any other internal fault.
type Engine interface {
	Recognize(ctx context.Context, img *image.Gray) ([]Token, error)
}
