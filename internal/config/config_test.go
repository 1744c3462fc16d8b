package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"markfind/internal/config"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "markfind", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Scan.SceneThreshold != 0.4 {
		t.Fatalf("unexpected scene threshold: %v", cfg.Scan.SceneThreshold)
	}
	if cfg.Scan.ConfidenceThreshold != 0.75 {
		t.Fatalf("unexpected confidence threshold: %v", cfg.Scan.ConfidenceThreshold)
	}
	if len(cfg.Scan.DefaultROIs) != 2 {
		t.Fatalf("expected two default regions, got %d", len(cfg.Scan.DefaultROIs))
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.TesseractBinary() != "tesseract" {
		t.Fatal("expected bare binary names by default")
	}
	if cfg.ToolTimeout() <= 0 {
		t.Fatal("expected a default tool timeout")
	}
}

func TestLoadParsesAndNormalizesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
work_dir = "` + filepath.Join(dir, "work") + `"
database_path = "` + filepath.Join(dir, "db", "marks.db") + `"

[scan]
scene_threshold = 0.25
sampling_fps = 2.0

[import]
supported_formats = [".MP4", "mkv", " "]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%q", exists, resolved)
	}
	if cfg.Scan.SceneThreshold != 0.25 {
		t.Fatalf("unexpected scene threshold: %v", cfg.Scan.SceneThreshold)
	}
	if cfg.Scan.SamplingFPS != 2.0 {
		t.Fatalf("unexpected sampling fps: %v", cfg.Scan.SamplingFPS)
	}
	want := []string{"mp4", "mkv"}
	if len(cfg.Import.SupportedFormats) != len(want) {
		t.Fatalf("unexpected formats: %v", cfg.Import.SupportedFormats)
	}
	for i, format := range want {
		if cfg.Import.SupportedFormats[i] != format {
			t.Fatalf("unexpected formats: %v", cfg.Import.SupportedFormats)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"scene threshold high", func(c *config.Config) { c.Scan.SceneThreshold = 1.0 }, "scene_threshold"},
		{"scene threshold zero", func(c *config.Config) { c.Scan.SceneThreshold = 0 }, "scene_threshold"},
		{"fps", func(c *config.Config) { c.Scan.SamplingFPS = 0 }, "sampling_fps"},
		{"confidence", func(c *config.Config) { c.Scan.ConfidenceThreshold = 1.5 }, "confidence_threshold"},
		{"roi", func(c *config.Config) { c.Scan.DefaultROIs = []config.ROI{{X: -1, Y: 0, Width: 10, Height: 10}} }, "default_rois"},
		{"formats", func(c *config.Config) { c.Import.SupportedFormats = nil }, "supported_formats"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleWritesParsableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load: exists=%v err=%v", exists, err)
	}
}
