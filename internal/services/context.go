package services

import "context"

type contextKey string

const (
	videoIDKey   contextKey = "video_id"
	clipIDKey    contextKey = "clip_id"
	requestIDKey contextKey = "request_id"
)

// WithVideoID annotates context with the video identifier being processed.
func WithVideoID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, videoIDKey, id)
}

// VideoIDFromContext extracts the video identifier if present.
func VideoIDFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(videoIDKey).(int64)
	return v, ok
}

// WithClipID annotates context with the clip identifier being processed.
func WithClipID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, clipIDKey, id)
}

// ClipIDFromContext extracts the clip identifier if present.
func ClipIDFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(clipIDKey).(int64)
	return v, ok
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
