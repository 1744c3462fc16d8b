// Package media holds the video value object shared across the pipeline.
package media

import "time"

// SourceKind identifies where a video was imported from.
type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceURL  SourceKind = "url"
)

// Video describes an imported video. It is immutable once constructed; the
// zero ID means the record has not been persisted yet.
type Video struct {
	ID         int64
	Source     SourceKind
	Path       string
	OriginURL  string
	Duration   float64
	Width      int
	Height     int
	ImportedAt time.Time
}

// WithID returns a copy of the video carrying the authoritative identity
// assigned by the store.
func (v Video) WithID(id int64) Video {
	v.ID = id
	return v
}
