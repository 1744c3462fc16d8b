package store

import (
	"context"
	"fmt"

	"markfind/internal/ocr"
	"markfind/internal/roi"
	"markfind/internal/textnorm"
)

// Watermark is a persisted detection with its assigned identity.
type Watermark struct {
	ID         int64
	VideoID    int64
	ClipID     int64
	Timestamp  float64
	Text       string
	Confidence float64
	ROI        roi.ROI
}

// Filter narrows watermark queries. Zero values mean "no constraint": an
// empty Text matches everything, VideoID/ClipID of zero match all rows, and
// MinConfidence of zero passes every stored confidence.
type Filter struct {
	VideoID       int64
	ClipID        int64
	Text          string
	MinConfidence float64
}

// SaveDetections persists a batch of detections in one transaction and
// returns the number of rows written. An empty batch is a no-op.
func (s *Store) SaveDetections(ctx context.Context, detections []ocr.Detection) (int, error) {
	if len(detections) == 0 {
		return 0, nil
	}
	ctx = ensureContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin detections tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO watermarks (video_id, clip_id, timestamp, extracted_text, confidence,
                                 roi_x, roi_y, roi_width, roi_height)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare detection insert: %w", err)
	}
	defer stmt.Close()

	for _, det := range detections {
		if _, err := stmt.ExecContext(ctx,
			det.VideoID, det.ClipID, det.Timestamp, det.Text, det.Confidence,
			det.ROI.X, det.ROI.Y, det.ROI.Width, det.ROI.Height,
		); err != nil {
			return 0, fmt.Errorf("insert detection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit detections: %w", err)
	}
	return len(detections), nil
}

// QueryWatermarks returns stored watermarks matching the filter, ordered by
// video, clip, then timestamp. Identity and confidence constraints run in
// SQL; text matching is case-folded in Go so it stays correct beyond ASCII.
func (s *Store) QueryWatermarks(ctx context.Context, filter Filter) ([]Watermark, error) {
	ctx = ensureContext(ctx)

	query := `SELECT watermark_id, video_id, clip_id, timestamp, extracted_text, confidence,
                     roi_x, roi_y, roi_width, roi_height
              FROM watermarks WHERE confidence >= ?`
	args := []any{filter.MinConfidence}
	if filter.VideoID != 0 {
		query += " AND video_id = ?"
		args = append(args, filter.VideoID)
	}
	if filter.ClipID != 0 {
		query += " AND clip_id = ?"
		args = append(args, filter.ClipID)
	}
	query += " ORDER BY video_id, clip_id, timestamp"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query watermarks: %w", err)
	}
	defer rows.Close()

	var results []Watermark
	for rows.Next() {
		var w Watermark
		if err := rows.Scan(&w.ID, &w.VideoID, &w.ClipID, &w.Timestamp, &w.Text, &w.Confidence,
			&w.ROI.X, &w.ROI.Y, &w.ROI.Width, &w.ROI.Height); err != nil {
			return nil, fmt.Errorf("scan watermark: %w", err)
		}
		if !textnorm.Contains(w.Text, filter.Text) {
			continue
		}
		results = append(results, w)
	}
	return results, rows.Err()
}
