package logging

import (
	"context"
	"log/slog"

	"markfind/internal/services"
)

const (
	// FieldRequestID is the standardized structured logging key for scan
	// correlation identifiers.
	FieldRequestID = "request_id"
	// FieldVideoID is the standardized structured logging key for video
	// identifiers.
	FieldVideoID = "video_id"
	// FieldClipID is the standardized structured logging key for clip
	// identifiers.
	FieldClipID = "clip_id"
)

// ContextFields extracts standardized slog attributes from the provided
// context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRequestID, rid))
	}
	if id, ok := services.VideoIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldVideoID, id))
	}
	if id, ok := services.ClipIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldClipID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, field := range fields {
		args = append(args, field)
	}
	return logger.With(args...)
}
