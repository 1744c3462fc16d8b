// Package sampler materializes clip segments and extracts time-ordered frame
// batches from them.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"markfind/internal/decode"
	"markfind/internal/frames"
	"markfind/internal/logging"
	"markfind/internal/media"
	"markfind/internal/services"
	"markfind/internal/timeline"
)

// Trimmer copies a time range of the source media into a new file without
// re-encoding.
type Trimmer interface {
	Trim(ctx context.Context, src string, start, end float64, dst string) error
}

// Sampler extracts frames from clips at a fixed rate.
type Sampler struct {
	trimmer Trimmer
	opener  decode.Opener
	workDir string
	logger  *slog.Logger
}

// New constructs a sampler writing trimmed segments into workDir.
func New(trimmer Trimmer, opener decode.Opener, workDir string, logger *slog.Logger) *Sampler {
	return &Sampler{
		trimmer: trimmer,
		opener:  opener,
		workDir: workDir,
		logger:  logging.NewComponentLogger(logger, "sampler"),
	}
}

// Extract samples frames from the clip at the given rate and returns them as
// a batch with absolute video timestamps. The clip's segment is materialized
// on first use and reused afterwards. A short or empty batch is valid: a
// failed read simply ends sampling, e.g. at end of stream.
func (s *Sampler) Extract(ctx context.Context, clip *timeline.Clip, video media.Video, fps float64) (*frames.Batch, error) {
	if fps <= 0 {
		return nil, services.Wrap(services.ErrValidation, "sampler", "extract", "sampling rate must be greater than 0", nil)
	}

	segment, err := s.materialize(ctx, clip, video)
	if err != nil {
		return nil, err
	}

	decoder, err := s.opener.Open(segment)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "sampler", "open segment",
			fmt.Sprintf("Cannot open clip file for frame extraction: %s", segment), err)
	}
	defer decoder.Close()

	log := logging.WithContext(ctx, s.logger)
	batch := frames.New(clip.ID)
	interval := 1.0 / fps
	duration := clip.Duration()

	for step := 0; ; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		offset := float64(step) * interval
		if offset >= duration {
			break
		}
		frame, err := decoder.ReadFrameAt(ctx, offset)
		if err != nil {
			if !errors.Is(err, decode.ErrNoFrame) && ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Debug("sampling stopped", logging.Float64("offset", offset), logging.Error(err))
			break
		}
		batch.Add(frame, clip.Start+offset)
	}

	log.Info("extracted frames",
		logging.Int("frames", batch.Len()),
		logging.Float64("fps", fps))
	return batch, nil
}

func (s *Sampler) materialize(ctx context.Context, clip *timeline.Clip, video media.Video) (string, error) {
	if path := clip.SegmentPath(); path != "" {
		return path, nil
	}

	if err := os.MkdirAll(s.workDir, 0o755); err != nil {
		return "", fmt.Errorf("create work directory: %w", err)
	}

	name := "clip_temp.mp4"
	if clip.Assigned() {
		name = fmt.Sprintf("clip_%d.mp4", clip.ID)
	}
	dst := filepath.Join(s.workDir, name)

	if err := s.trimmer.Trim(ctx, video.Path, clip.Start, clip.End, dst); err != nil {
		return "", err
	}
	if err := clip.BindSegment(dst); err != nil {
		return "", err
	}
	return dst, nil
}
