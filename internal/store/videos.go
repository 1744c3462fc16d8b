package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"markfind/internal/media"
	"markfind/internal/services"
)

// SaveVideo inserts the video and returns a copy carrying the assigned
// identity.
func (s *Store) SaveVideo(ctx context.Context, video media.Video) (media.Video, error) {
	importedAt := video.ImportedAt
	if importedAt.IsZero() {
		importedAt = time.Now().UTC()
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO videos (source, file_path, origin_url, duration, width, height, imported_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(video.Source),
		video.Path,
		nullableString(video.OriginURL),
		video.Duration,
		video.Width,
		video.Height,
		importedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return media.Video{}, fmt.Errorf("insert video: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return media.Video{}, fmt.Errorf("last insert id: %w", err)
	}
	return video.WithID(id), nil
}

// GetVideo loads one video by identity.
func (s *Store) GetVideo(ctx context.Context, id int64) (media.Video, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT video_id, source, file_path, origin_url, duration, width, height, imported_at
         FROM videos WHERE video_id = ?`, id)

	var (
		video      media.Video
		source     string
		originURL  sql.NullString
		importedAt string
	)
	err := row.Scan(&video.ID, &source, &video.Path, &originURL,
		&video.Duration, &video.Width, &video.Height, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return media.Video{}, services.Wrap(services.ErrNotFound, "store", "get video",
			fmt.Sprintf("video %d not found", id), nil)
	}
	if err != nil {
		return media.Video{}, fmt.Errorf("scan video: %w", err)
	}

	video.Source = media.SourceKind(source)
	video.OriginURL = originURL.String
	if parsed, err := time.Parse(time.RFC3339Nano, importedAt); err == nil {
		video.ImportedAt = parsed
	}
	return video, nil
}

// ListVideos returns all imported videos ordered by identity.
func (s *Store) ListVideos(ctx context.Context) ([]media.Video, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id, source, file_path, origin_url, duration, width, height, imported_at
         FROM videos ORDER BY video_id`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []media.Video
	for rows.Next() {
		var (
			video      media.Video
			source     string
			originURL  sql.NullString
			importedAt string
		)
		if err := rows.Scan(&video.ID, &source, &video.Path, &originURL,
			&video.Duration, &video.Width, &video.Height, &importedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		video.Source = media.SourceKind(source)
		video.OriginURL = originURL.String
		if parsed, err := time.Parse(time.RFC3339Nano, importedAt); err == nil {
			video.ImportedAt = parsed
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
