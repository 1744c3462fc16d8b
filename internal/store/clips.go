package store

import (
	"context"
	"database/sql"
	"fmt"

	"markfind/internal/services"
	"markfind/internal/timeline"
)

// SaveClip persists one clip. An unassigned clip is inserted and receives its
// identity in place; an assigned clip is updated.
func (s *Store) SaveClip(ctx context.Context, clip *timeline.Clip) error {
	if clip == nil {
		return services.Wrap(services.ErrValidation, "store", "save clip", "nil clip", nil)
	}

	if clip.Assigned() {
		_, err := s.execWithRetry(
			ctx,
			`UPDATE clips SET video_id = ?, start_time = ?, end_time = ?, segment_path = ?
             WHERE clip_id = ?`,
			clip.VideoID, clip.Start, clip.End, nullableString(clip.SegmentPath()), clip.ID,
		)
		if err != nil {
			return fmt.Errorf("update clip %d: %w", clip.ID, err)
		}
		return nil
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO clips (video_id, start_time, end_time, segment_path) VALUES (?, ?, ?, ?)`,
		clip.VideoID, clip.Start, clip.End, nullableString(clip.SegmentPath()),
	)
	if err != nil {
		return fmt.Errorf("insert clip: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	clip.ID = id
	return nil
}

// SaveClips persists every clip of the set in timeline order.
func (s *Store) SaveClips(ctx context.Context, set *timeline.Set) error {
	for _, clip := range set.Clips() {
		if err := s.SaveClip(ctx, clip); err != nil {
			return err
		}
	}
	return nil
}

// DeleteClips removes the given clips, cascading to their watermarks.
func (s *Store) DeleteClips(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, err := s.execWithRetry(ctx, `DELETE FROM clips WHERE clip_id = ?`, id); err != nil {
			return fmt.Errorf("delete clip %d: %w", id, err)
		}
	}
	return nil
}

// ListClips loads the persisted clips of one video ordered by start time.
func (s *Store) ListClips(ctx context.Context, videoID int64) ([]*timeline.Clip, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT clip_id, video_id, start_time, end_time, segment_path
         FROM clips WHERE video_id = ? ORDER BY start_time`, videoID)
	if err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}
	defer rows.Close()

	var clips []*timeline.Clip
	for rows.Next() {
		var (
			id, vid     int64
			start, end  float64
			segmentPath sql.NullString
		)
		if err := rows.Scan(&id, &vid, &start, &end, &segmentPath); err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		clip, err := timeline.NewClip(vid, start, end)
		if err != nil {
			return nil, fmt.Errorf("rebuild clip %d: %w", id, err)
		}
		clip.ID = id
		if segmentPath.Valid && segmentPath.String != "" {
			if err := clip.BindSegment(segmentPath.String); err != nil {
				return nil, err
			}
		}
		clips = append(clips, clip)
	}
	return clips, rows.Err()
}
