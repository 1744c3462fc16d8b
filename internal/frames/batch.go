// Package frames defines the sampled frame batch passed from the sampler to
// recognition.
package frames

import "image"

// Batch is an ordered set of sampled frames belonging to one clip. Frames and
// Timestamps always have equal length; timestamps are absolute video time and
// strictly increasing. ClipID may be the unassigned sentinel (zero) when the
// clip has not been persisted yet.
type Batch struct {
	ClipID     int64
	Frames     []image.Image
	Timestamps []float64
}

// New returns an empty batch for the given clip.
func New(clipID int64) *Batch {
	return &Batch{ClipID: clipID}
}

// Add appends a frame with its absolute timestamp.
func (b *Batch) Add(frame image.Image, timestamp float64) {
	b.Frames = append(b.Frames, frame)
	b.Timestamps = append(b.Timestamps, timestamp)
}

// Len returns the number of sampled frames.
func (b *Batch) Len() int {
	return len(b.Frames)
}
