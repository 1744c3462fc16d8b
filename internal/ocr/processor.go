package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"markfind/internal/frames"
	"markfind/internal/logging"
	"markfind/internal/roi"
	"markfind/internal/services"
)

// Processor runs recognition over frame regions and aggregates the results
// into detections.
type Processor struct {
	engine Engine
	logger *slog.Logger
}

// NewProcessor constructs a processor around a recognition engine.
func NewProcessor(engine Engine, logger *slog.Logger) *Processor {
	return &Processor{
		engine: engine,
		logger: logging.NewComponentLogger(logger, "ocr"),
	}
}

// RecognizeFrame runs recognition on every region of one frame and returns
// the accepted detections in region order. Out-of-bounds and empty regions
// are skipped with a warning; an engine fault aborts the frame.
func (p *Processor) RecognizeFrame(ctx context.Context, frame image.Image, timestamp float64, videoID, clipID int64, regions []roi.ROI, threshold float64) ([]Detection, error) {
	if threshold < 0.0 || threshold > 1.0 {
		return nil, services.Wrap(services.ErrValidation, "ocr", "recognize frame", "confidence threshold must be between 0.0 and 1.0", nil)
	}

	var results []Detection
	for _, region := range regions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		outcome := p.recognizeRegion(ctx, frame, timestamp, videoID, clipID, region, threshold)
		switch outcome.Status {
		case OutcomeAccepted:
			results = append(results, *outcome.Detection)
		case OutcomeSkipped:
			logging.WithContext(ctx, p.logger).Warn("region skipped",
				logging.String("roi", region.String()),
				logging.String("reason", outcome.Reason),
				logging.Float64("timestamp", timestamp))
		case OutcomeFailed:
			return nil, outcome.Err
		}
	}
	return results, nil
}

// RecognizeBatch applies RecognizeFrame to every frame of the batch in
// submission order, concatenating results. The batch's clip identifier is
// used as both the video id and the clip id of every detection; callers
// correct the video linkage downstream when persisting.
func (p *Processor) RecognizeBatch(ctx context.Context, batch *frames.Batch, regions []roi.ROI, threshold float64) ([]Detection, error) {
	if threshold < 0.0 || threshold > 1.0 {
		return nil, services.Wrap(services.ErrValidation, "ocr", "recognize batch", "confidence threshold must be between 0.0 and 1.0", nil)
	}

	var results []Detection
	for i, frame := range batch.Frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		partial, err := p.RecognizeFrame(ctx, frame, batch.Timestamps[i], batch.ClipID, batch.ClipID, regions, threshold)
		if err != nil {
			return nil, err
		}
		results = append(results, partial...)
	}
	return results, nil
}

func (p *Processor) recognizeRegion(ctx context.Context, frame image.Image, timestamp float64, videoID, clipID int64, region roi.ROI, threshold float64) Outcome {
	if region.Width <= 0 || region.Height <= 0 {
		return skipped("empty crop")
	}
	bounds := frame.Bounds()
	rect := region.Bounds().Add(bounds.Min)
	if region.X < 0 || region.Y < 0 || !rect.In(bounds) {
		return skipped("out of frame bounds")
	}

	gray := grayCrop(frame, rect)
	tokens, err := p.engine.Recognize(ctx, gray)
	if err != nil {
		if errors.Is(err, ErrEngineUnavailable) {
			return failed(services.Wrap(services.ErrUnavailable, "ocr", "recognize", "OCR engine not installed or not in PATH.", err))
		}
		logging.WithContext(ctx, p.logger).Error("engine fault", logging.Error(err), logging.String("roi", region.String()))
		return failed(services.Wrap(services.ErrExternalTool, "ocr", "recognize", "Error during OCR processing.", err))
	}

	text, confidence := foldTokens(tokens)
	if text == "" || confidence < threshold {
		return skipped(fmt.Sprintf("no accepted text (confidence %.3f)", confidence))
	}

	detection, err := NewDetection(videoID, clipID, timestamp, text, confidence, region)
	if err != nil {
		return failed(err)
	}
	return accepted(detection)
}

// foldTokens concatenates usable tokens in reading order with no separator
// and averages the normalized confidences of every returned token, including
// the ones discarded for non-positive confidence or blank text.
func foldTokens(tokens []Token) (string, float64) {
	var builder strings.Builder
	var sum float64
	for _, token := range tokens {
		normalized := token.Confidence / 100.0
		sum += normalized
		if normalized > 0 && strings.TrimSpace(token.Text) != "" {
			builder.WriteString(token.Text)
		}
	}
	if len(tokens) == 0 {
		return strings.TrimSpace(builder.String()), 0.0
	}
	return strings.TrimSpace(builder.String()), sum / float64(len(tokens))
}

// grayCrop copies the region into a fresh grayscale image, so the engine
// never aliases the source frame.
func grayCrop(src image.Image, rect image.Rectangle) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			pixel := src.At(rect.Min.X+x, rect.Min.Y+y)
			gray.SetGray(x, y, color.GrayModel.Convert(pixel).(color.Gray))
		}
	}
	return gray
}
