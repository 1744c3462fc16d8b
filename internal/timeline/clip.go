package timeline

import (
	"fmt"

	"markfind/internal/services"
)

// UnassignedID is the sentinel identity a clip carries until the store
// persists it and hands back the authoritative identifier.
const UnassignedID int64 = 0

// Clip is a contiguous time sub-range of a video, the unit of sampling and
// editing.
type Clip struct {
	ID      int64
	VideoID int64
	Start   float64
	End     float64

	segmentPath string
}

// NewClip constructs an unassigned clip after validating its time range.
func NewClip(videoID int64, start, end float64) (*Clip, error) {
	if start < 0 {
		return nil, services.Wrap(services.ErrValidation, "timeline", "new clip", "start time must be non-negative", nil)
	}
	if end <= start {
		return nil, services.Wrap(services.ErrValidation, "timeline", "new clip", "end time must be greater than start time", nil)
	}
	return &Clip{ID: UnassignedID, VideoID: videoID, Start: start, End: end}, nil
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	return c.End - c.Start
}

// Assigned reports whether the store has handed the clip its identity.
func (c *Clip) Assigned() bool {
	return c.ID != UnassignedID
}

// SegmentPath returns the materialized segment file, or empty when the clip
// has not been trimmed yet.
func (c *Clip) SegmentPath() string {
	return c.segmentPath
}

// BindSegment records the materialized segment path. The binding is
// write-once; a second call with a different path fails.
func (c *Clip) BindSegment(path string) error {
	if c.segmentPath != "" && c.segmentPath != path {
		return services.Wrap(services.ErrValidation, "timeline", "bind segment",
			fmt.Sprintf("clip already bound to %s", c.segmentPath), nil)
	}
	c.segmentPath = path
	return nil
}

func (c *Clip) String() string {
	return fmt.Sprintf("clip[%d] video=%d %.3f..%.3f", c.ID, c.VideoID, c.Start, c.End)
}
