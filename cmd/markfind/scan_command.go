package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"markfind/internal/config"
	"markfind/internal/decode"
	"markfind/internal/deps"
	"markfind/internal/importer"
	"markfind/internal/logging"
	"markfind/internal/media"
	"markfind/internal/media/ffmpeg"
	"markfind/internal/media/ffprobe"
	"markfind/internal/media/ytdlp"
	"markfind/internal/ocr"
	"markfind/internal/ocr/tesseract"
	"markfind/internal/roi"
	"markfind/internal/sampler"
	"markfind/internal/services"
	"markfind/internal/timeline"
)

type scanOptions struct {
	fromURL             bool
	samplingFPS         float64
	sceneThreshold      float64
	confidenceThreshold float64
	extraROIs           []string
}

func newScanCommand(cmdCtx *commandContext) *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan <path-or-url>",
		Short: "Scan a video for watermark text",
		Long: "Imports the video, splits it into clips at scene changes, samples frames\n" +
			"from each clip, runs OCR over the configured search regions, and stores the\n" +
			"accepted detections.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), cmdCtx, opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.fromURL, "url", false, "Treat the argument as a URL and download it first")
	cmd.Flags().Float64Var(&opts.samplingFPS, "fps", 0, "Sampling rate in frames per second (default from config)")
	cmd.Flags().Float64Var(&opts.sceneThreshold, "scene-threshold", 0, "Scene change threshold in (0, 1) (default from config)")
	cmd.Flags().Float64Var(&opts.confidenceThreshold, "confidence", -1, "Minimum OCR confidence in [0, 1] (default from config)")
	cmd.Flags().StringArrayVar(&opts.extraROIs, "roi", nil, "Additional search region as x,y,width,height (repeatable)")

	return cmd
}

func runScan(ctx context.Context, cmdCtx *commandContext, opts scanOptions, source string, cmd *cobra.Command) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cmdCtx.ensureLogger()
	if err != nil {
		return err
	}
	log := logging.NewComponentLogger(logger, "scan")

	if missing := deps.MissingRequired(deps.CheckBinaries(deps.Requirements(cfg))); len(missing) > 0 {
		return fmt.Errorf("missing required tools: %s (run `markfind deps`)", strings.Join(missing, ", "))
	}

	// One scan at a time; clip records are edited without coordination.
	lock := flock.New(filepath.Join(cfg.Paths.WorkDir, "markfind.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire scan lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another scan is already running")
	}
	defer func() { _ = lock.Unlock() }()

	db, err := cmdCtx.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	regions, err := scanRegions(cfg, opts.extraROIs)
	if err != nil {
		return err
	}

	ctx = services.WithRequestID(ctx, uuid.NewString())

	video, err := importVideo(ctx, cmdCtx, cfg, opts, source)
	if err != nil {
		return presentable(err)
	}
	video, err = db.SaveVideo(ctx, video)
	if err != nil {
		return err
	}
	ctx = services.WithVideoID(ctx, video.ID)
	log = logging.WithContext(ctx, log)
	log.Info("video registered", logging.Float64("duration", video.Duration))

	sceneThreshold := opts.sceneThreshold
	if sceneThreshold == 0 {
		sceneThreshold = cfg.Scan.SceneThreshold
	}
	samplingFPS := opts.samplingFPS
	if samplingFPS == 0 {
		samplingFPS = cfg.Scan.SamplingFPS
	}
	confidence := opts.confidenceThreshold
	if confidence < 0 {
		confidence = cfg.Scan.ConfidenceThreshold
	}

	ffm := ffmpeg.New(cfg.FFmpegBinary(), cfg.ToolTimeout())
	clips, err := timeline.Detect(ctx, ffm, video, sceneThreshold)
	if err != nil {
		return presentable(err)
	}
	set, err := timeline.NewSet(clips)
	if err != nil {
		return err
	}
	if err := db.SaveClips(ctx, set); err != nil {
		return err
	}
	log.Info("timeline detected", logging.Int("clips", set.Len()))

	opener := decode.NewFFmpegOpener(cfg.FFmpegBinary(), cfg.ToolTimeout())
	frameSampler := sampler.New(ffm, opener, cfg.Paths.WorkDir, logger)
	engine := tesseract.New(cfg.TesseractBinary(), cfg.TesseractLanguages())
	processor := ocr.NewProcessor(engine, logger)

	total := 0
	for _, clip := range set.Clips() {
		clipCtx := services.WithClipID(ctx, clip.ID)
		clipLog := log.With(logging.Int64(logging.FieldClipID, clip.ID))

		batch, err := frameSampler.Extract(clipCtx, clip, video, samplingFPS)
		if err != nil {
			if services.IsFatal(err) {
				return presentable(err)
			}
			clipLog.Warn("clip sampling failed, skipping", logging.Error(err))
			continue
		}
		// The segment path was bound during extraction.
		if err := db.SaveClip(clipCtx, clip); err != nil {
			return err
		}

		detections, err := processor.RecognizeBatch(clipCtx, batch, regions, confidence)
		if err != nil {
			if services.IsFatal(err) {
				return presentable(err)
			}
			clipLog.Warn("clip recognition failed, skipping", logging.Error(err))
			continue
		}
		// Recognition stamps the clip id into both identity columns; restore
		// the real video linkage before persisting.
		for i := range detections {
			detections[i].VideoID = video.ID
		}
		count, err := db.SaveDetections(clipCtx, detections)
		if err != nil {
			return err
		}
		total += count
		clipLog.Info("clip scanned",
			logging.Int("frames", batch.Len()),
			logging.Int("detections", count))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scanned %s: %d clips, %d watermark detections (video id %d)\n",
		video.Path, set.Len(), total, video.ID)
	return nil
}

func importVideo(ctx context.Context, cmdCtx *commandContext, cfg *config.Config, opts scanOptions, source string) (media.Video, error) {
	log, err := cmdCtx.ensureLogger()
	if err != nil {
		return media.Video{}, err
	}
	prober := ffprobe.New(cfg.FFprobeBinary())
	imp := importer.New(prober, cfg, log)
	if opts.fromURL {
		downloader := ytdlp.New(cfg.YtDlpBinary(), cfg.ToolTimeout())
		return imp.FromURL(ctx, downloader, source, cfg.Paths.WorkDir)
	}
	return imp.FromFile(ctx, source)
}

func scanRegions(cfg *config.Config, extra []string) ([]roi.ROI, error) {
	regionStore, err := roi.NewStore(cfg.DefaultROIs()...)
	if err != nil {
		return nil, err
	}
	for _, raw := range extra {
		region, err := parseROI(raw)
		if err != nil {
			return nil, err
		}
		if err := regionStore.Add(region); err != nil {
			return nil, err
		}
	}
	return regionStore.List(), nil
}

func parseROI(raw string) (roi.ROI, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return roi.ROI{}, fmt.Errorf("invalid ROI %q: expected x,y,width,height", raw)
	}
	values := make([]int, 4)
	for i, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return roi.ROI{}, fmt.Errorf("invalid ROI %q: %w", raw, err)
		}
		values[i] = value
	}
	return roi.ROI{X: values[0], Y: values[1], Width: values[2], Height: values[3]}, nil
}

// presentable surfaces the safe message of a pipeline error while keeping
// the diagnostic chain in the logs.
func presentable(err error) error {
	if err == nil {
		return nil
	}
	if msg := services.UserMessage(err); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return err
}
