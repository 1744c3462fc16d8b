package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"markfind/internal/services"
)

type fakeExecutor struct {
	err    error
	binary string
	args   []string
	// create simulates yt-dlp writing files into the output directory.
	create []string
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args ...string) ([]byte, error) {
	f.binary = binary
	f.args = args
	// -o template is the first argument pair; derive the target directory.
	dir := filepath.Dir(args[1])
	for _, name := range f.create {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			return nil, err
		}
	}
	if f.err != nil {
		return []byte("ERROR: unable to download"), f.err
	}
	return nil, nil
}

func foundLookPath(path string) (string, error) {
	return path, nil
}

func TestDownloadSingleFile(t *testing.T) {
	exec := &fakeExecutor{create: []string{"My Video.mp4"}}
	client := New("yt-dlp", 0, WithExecutor(exec), WithLookPath(foundLookPath))

	dir := t.TempDir()
	path, err := client.Download(context.Background(), "https://example.com/v", dir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if filepath.Base(path) != "My Video.mp4" {
		t.Errorf("unexpected file %s", path)
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("download escaped %s: %s", dir, path)
	}
	if exec.args[len(exec.args)-1] != "https://example.com/v" {
		t.Errorf("url must be the final argument, got %v", exec.args)
	}
	for _, arg := range exec.args {
		if arg == "--no-playlist" {
			return
		}
	}
	t.Error("expected --no-playlist flag")
}

func TestDownloadMissingBinary(t *testing.T) {
	client := New("yt-dlp", 0, WithLookPath(func(string) (string, error) {
		return "", errors.New("not found")
	}))

	_, err := client.Download(context.Background(), "https://example.com/v", t.TempDir())
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestDownloadProcessFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("exit status 1")}
	client := New("yt-dlp", 0, WithExecutor(exec), WithLookPath(foundLookPath))

	_, err := client.Download(context.Background(), "https://example.com/v", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unable to download") {
		t.Errorf("expected tool output in diagnostic, got %v", err)
	}
}

func TestDownloadRejectsMultipleFiles(t *testing.T) {
	exec := &fakeExecutor{create: []string{"a.mp4", "b.mp4"}}
	client := New("yt-dlp", 0, WithExecutor(exec), WithLookPath(foundLookPath))

	_, err := client.Download(context.Background(), "https://example.com/v", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "exactly one") {
		t.Errorf("expected file count in message, got %v", err)
	}
}

func TestDownloadRejectsEmptyDirectory(t *testing.T) {
	exec := &fakeExecutor{}
	client := New("yt-dlp", 0, WithExecutor(exec), WithLookPath(foundLookPath))

	_, err := client.Download(context.Background(), "https://example.com/v", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestDownloadDirectoriesIsolated(t *testing.T) {
	exec := &fakeExecutor{create: []string{"v.mp4"}}
	client := New("yt-dlp", 0, WithExecutor(exec), WithLookPath(foundLookPath))

	dir := t.TempDir()
	first, err := client.Download(context.Background(), "https://example.com/a", dir)
	if err != nil {
		t.Fatalf("first download failed: %v", err)
	}
	second, err := client.Download(context.Background(), "https://example.com/b", dir)
	if err != nil {
		t.Fatalf("second download failed: %v", err)
	}
	if filepath.Dir(first) == filepath.Dir(second) {
		t.Error("each download must land in its own directory")
	}
}
