// Package decode reads individual frames out of a media file.
//
// The ffmpeg-backed implementation seeks per frame and decodes the PNG the
// binary writes to stdout, keeping the scanner free of native codec
// dependencies. Decoders are scoped resources: acquire before sampling, close
// on every exit path.
package decode

import (
	"context"
	"errors"
	"image"
)

// ErrNoFrame reports that no frame could be read at the requested offset,
// typically because the offset lies past the end of the stream. Sampling
// treats it as a normal stop condition, not a failure.
var ErrNoFrame = errors.New("no frame at offset")

// Decoder reads frames from an opened media file.
type Decoder interface {
	// ReadFrameAt seeks to the given offset in seconds from the start of the
	// media and decodes one frame. Returns ErrNoFrame when nothing could be
	// read there.
	ReadFrameAt(ctx context.Context, offset float64) (image.Image, error)
	Close() error
}

// Opener produces a decoder for a media path.
type Opener interface {
	Open(path string) (Decoder, error)
}
