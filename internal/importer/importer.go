// Package importer brings videos into the workspace, either from a local
// file or by downloading a URL, and probes their metadata before anything
// downstream touches them.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"markfind/internal/config"
	"markfind/internal/logging"
	"markfind/internal/media"
	"markfind/internal/media/ffprobe"
	"markfind/internal/services"
)

// Downloader fetches a remote video into a local directory and returns the
// path of the downloaded file.
type Downloader interface {
	Download(ctx context.Context, url, dir string) (string, error)
}

// Importer validates and registers video sources.
type Importer struct {
	prober ffprobe.Prober
	cfg    *config.Config
	logger *slog.Logger
}

// New constructs an importer.
func New(prober ffprobe.Prober, cfg *config.Config, logger *slog.Logger) *Importer {
	return &Importer{
		prober: prober,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "importer"),
	}
}

// FromFile imports a local video file. The file must exist and carry one of
// the configured supported extensions; metadata comes from the prober. The
// returned video is unpersisted (zero ID).
func (i *Importer) FromFile(ctx context.Context, path string) (media.Video, error) {
	info, err := os.Stat(path)
	if err != nil {
		return media.Video{}, services.Wrap(services.ErrValidation, "importer", "import file",
			fmt.Sprintf("video file not found: %s", path), err)
	}
	if info.IsDir() {
		return media.Video{}, services.Wrap(services.ErrValidation, "importer", "import file",
			fmt.Sprintf("not a file: %s", path), nil)
	}
	if !i.supportedFormat(path) {
		return media.Video{}, services.Wrap(services.ErrValidation, "importer", "import file",
			fmt.Sprintf("unsupported format %q (supported: %s)",
				extension(path), strings.Join(i.cfg.Import.SupportedFormats, ", ")), nil)
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		return media.Video{}, services.Wrap(services.ErrValidation, "importer", "import file", "cannot resolve path", err)
	}

	meta, err := i.prober.Probe(ctx, absolute)
	if err != nil {
		return media.Video{}, err
	}

	i.logger.Info("video imported",
		logging.String("path", absolute),
		logging.Float64("duration", meta.Duration),
		logging.Int("width", meta.Width),
		logging.Int("height", meta.Height))

	return media.Video{
		Source:     media.SourceFile,
		Path:       absolute,
		Duration:   meta.Duration,
		Width:      meta.Width,
		Height:     meta.Height,
		ImportedAt: time.Now().UTC(),
	}, nil
}

// FromURL downloads a remote video into dir and imports the resulting file.
// The origin URL is retained on the video record.
func (i *Importer) FromURL(ctx context.Context, downloader Downloader, url, dir string) (media.Video, error) {
	if strings.TrimSpace(url) == "" {
		return media.Video{}, services.Wrap(services.ErrValidation, "importer", "import url", "empty URL", nil)
	}

	downloaded, err := downloader.Download(ctx, url, dir)
	if err != nil {
		return media.Video{}, err
	}

	video, err := i.FromFile(ctx, downloaded)
	if err != nil {
		return media.Video{}, err
	}
	video.Source = media.SourceURL
	video.OriginURL = url
	return video, nil
}

func (i *Importer) supportedFormat(path string) bool {
	ext := extension(path)
	for _, format := range i.cfg.Import.SupportedFormats {
		if ext == strings.ToLower(format) {
			return true
		}
	}
	return false
}

func extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
