package services_test

import (
	"errors"
	"testing"

	"markfind/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "timeline", "detect", "scene detection failed", cause)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to survive, got %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "sampler", "extract", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("nil marker should default to external tool, got %v", err)
	}
}

func TestUserMessageStripsSentinel(t *testing.T) {
	err := services.Wrap(services.ErrExternalTool, "", "", "Scene detection failed.", nil)
	if got := services.UserMessage(err); got != "Scene detection failed." {
		t.Fatalf("unexpected user message: %q", got)
	}
}

func TestUserMessageHidesDiagnosticTail(t *testing.T) {
	cause := errors.New("ffmpeg stderr: pts_time garbage")
	err := services.Wrap(services.ErrExternalTool, "ffmpeg", "scene detect", "Error processing video with FFmpeg.", cause)
	got := services.UserMessage(err)
	if got != "ffmpeg: scene detect: Error processing video with FFmpeg." {
		t.Fatalf("unexpected user message: %q", got)
	}
	if !errors.Is(err, cause) {
		t.Fatal("diagnostic cause must stay reachable for logs")
	}
}

func TestIsFatal(t *testing.T) {
	if services.IsFatal(services.Wrap(services.ErrExternalTool, "ocr", "recognize", "engine error", nil)) {
		t.Fatal("external tool errors are not fatal")
	}
	if !services.IsFatal(services.Wrap(services.ErrUnavailable, "ocr", "recognize", "tesseract not found", nil)) {
		t.Fatal("unavailable errors are fatal")
	}
}
