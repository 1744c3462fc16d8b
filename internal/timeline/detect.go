package timeline

import (
	"context"

	"markfind/internal/media"
	"markfind/internal/services"
)

// SceneDetector reports scene-change boundary timestamps for a media path.
// Implementations return the boundaries sorted ascending.
type SceneDetector interface {
	DetectScenes(ctx context.Context, path string, threshold float64) ([]float64, error)
}

// Detect partitions the video into clips at scene-change boundaries. The
// threshold must lie strictly inside (0, 1). The resulting clips are
// contiguous, non-overlapping, sorted, and cover [0, video.Duration]: n
// boundaries produce n+1 clips.
func Detect(ctx context.Context, detector SceneDetector, video media.Video, threshold float64) ([]*Clip, error) {
	if threshold <= 0.0 || threshold >= 1.0 {
		return nil, services.Wrap(services.ErrValidation, "timeline", "detect", "scene threshold must be between 0.0 and 1.0", nil)
	}

	boundaries, err := detector.DetectScenes(ctx, video.Path, threshold)
	if err != nil {
		return nil, err
	}

	clips := make([]*Clip, 0, len(boundaries)+1)
	prev := 0.0
	for _, boundary := range boundaries {
		if boundary <= prev || boundary >= video.Duration {
			// Duplicate, pre-roll, or post-credits markers would produce
			// empty or out-of-range clips.
			continue
		}
		clips = append(clips, &Clip{VideoID: video.ID, Start: prev, End: boundary})
		prev = boundary
	}
	clips = append(clips, &Clip{VideoID: video.ID, Start: prev, End: video.Duration})
	return clips, nil
}
