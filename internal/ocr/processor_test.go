package ocr

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"

	"markfind/internal/frames"
	"markfind/internal/logging"
	"markfind/internal/roi"
	"markfind/internal/services"
)

type fakeEngine struct {
	tokens []Token
	err    error
	calls  int
	widths []int
}

func (f *fakeEngine) Recognize(_ context.Context, img *image.Gray) ([]Token, error) {
	f.calls++
	f.widths = append(f.widths, img.Bounds().Dx())
	if f.err != nil {
		return nil, f.err
	}
	return f.tokens, nil
}

func testFrame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 320, 240))
}

func TestRecognizeFrameAcceptsConcatenatedTokens(t *testing.T) {
	engine := &fakeEngine{tokens: []Token{
		{Text: "Hello", Confidence: 85},
		{Text: "World", Confidence: 90},
	}}
	processor := NewProcessor(engine, logging.NewNop())

	regions := []roi.ROI{{X: 10, Y: 10, Width: 100, Height: 50}}
	detections, err := processor.RecognizeFrame(context.Background(), testFrame(), 1.5, 7, 42, regions, 0.5)
	if err != nil {
		t.Fatalf("RecognizeFrame failed: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(detections))
	}
	det := detections[0]
	if det.Text != "HelloWorld" {
		t.Errorf("expected text HelloWorld, got %q", det.Text)
	}
	if math.Abs(det.Confidence-0.875) > 1e-9 {
		t.Errorf("expected confidence 0.875, got %f", det.Confidence)
	}
	if det.VideoID != 7 || det.ClipID != 42 {
		t.Errorf("unexpected identity video=%d clip=%d", det.VideoID, det.ClipID)
	}
	if det.Timestamp != 1.5 {
		t.Errorf("unexpected timestamp %f", det.Timestamp)
	}
	if det.ROI != regions[0] {
		t.Errorf("unexpected region %+v", det.ROI)
	}
}

func TestRecognizeFrameRejectsBelowThreshold(t *testing.T) {
	engine := &fakeEngine{tokens: []Token{
		{Text: "Hello", Confidence: 85},
		{Text: "World", Confidence: 90},
	}}
	processor := NewProcessor(engine, logging.NewNop())

	detections, err := processor.RecognizeFrame(context.Background(), testFrame(), 0, 1, 1,
		[]roi.ROI{{X: 0, Y: 0, Width: 50, Height: 50}}, 0.9)
	if err != nil {
		t.Fatalf("RecognizeFrame failed: %v", err)
	}
	if len(detections) != 0 {
		t.Fatalf("expected no detections at threshold 0.9, got %d", len(detections))
	}
}

func TestRecognizeFrameThresholdValidatedBeforeEngine(t *testing.T) {
	for _, threshold := range []float64{-0.1, 1.5} {
		engine := &fakeEngine{tokens: []Token{{Text: "x", Confidence: 99}}}
		processor := NewProcessor(engine, logging.NewNop())

		_, err := processor.RecognizeFrame(context.Background(), testFrame(), 0, 1, 1,
			[]roi.ROI{{X: 0, Y: 0, Width: 10, Height: 10}}, threshold)
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("threshold %v: expected validation error, got %v", threshold, err)
		}
		if engine.calls != 0 {
			t.Errorf("threshold %v: engine consulted %d times before validation", threshold, engine.calls)
		}
	}
}

func TestRecognizeFrameSkipsOutOfBoundsRegion(t *testing.T) {
	engine := &fakeEngine{tokens: []Token{{Text: "edge", Confidence: 95}}}
	processor := NewProcessor(engine, logging.NewNop())

	// 320x240 frame: the first region hangs off the right edge, the second
	// starts past the bottom, the third is degenerate.
	regions := []roi.ROI{
		{X: 300, Y: 10, Width: 100, Height: 20},
		{X: 10, Y: 500, Width: 20, Height: 20},
		{X: 10, Y: 10, Width: 0, Height: 20},
		{X: 10, Y: 10, Width: 40, Height: 20},
	}
	detections, err := processor.RecognizeFrame(context.Background(), testFrame(), 0, 1, 1, regions, 0.5)
	if err != nil {
		t.Fatalf("RecognizeFrame failed: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("expected only the in-bounds region to detect, got %d", len(detections))
	}
	if engine.calls != 1 {
		t.Errorf("expected engine called once, got %d", engine.calls)
	}
	if engine.widths[0] != 40 {
		t.Errorf("expected 40px crop, got %d", engine.widths[0])
	}
}

func TestRecognizeFrameNoTokensMeansZeroConfidence(t *testing.T) {
	engine := &fakeEngine{tokens: nil}
	processor := NewProcessor(engine, logging.NewNop())

	detections, err := processor.RecognizeFrame(context.Background(), testFrame(), 0, 1, 1,
		[]roi.ROI{{X: 0, Y: 0, Width: 50, Height: 50}}, 0.0)
	if err != nil {
		t.Fatalf("RecognizeFrame failed: %v", err)
	}
	// Threshold 0.0 alone is not enough: empty text is never accepted.
	if len(detections) != 0 {
		t.Fatalf("expected no detections from empty token set, got %d", len(detections))
	}
}

func TestRecognizeFrameBlankTokensCountTowardMean(t *testing.T) {
	engine := &fakeEngine{tokens: []Token{
		{Text: "Mark", Confidence: 90},
		{Text: "   ", Confidence: 80},
		{Text: "junk", Confidence: -1},
	}}
	processor := NewProcessor(engine, logging.NewNop())

	detections, err := processor.RecognizeFrame(context.Background(), testFrame(), 0, 1, 1,
		[]roi.ROI{{X: 0, Y: 0, Width: 50, Height: 50}}, 0.5)
	if err != nil {
		t.Fatalf("RecognizeFrame failed: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(detections))
	}
	if detections[0].Text != "Mark" {
		t.Errorf("blank and non-positive tokens must not contribute text, got %q", detections[0].Text)
	}
	want := (0.9 + 0.8 + -0.01) / 3.0
	if math.Abs(detections[0].Confidence-want) > 1e-9 {
		t.Errorf("expected mean over all tokens %f, got %f", want, detections[0].Confidence)
	}
}

func TestRecognizeFrameEngineUnavailableIsFatal(t *testing.T) {
	engine := &fakeEngine{err: ErrEngineUnavailable}
	processor := NewProcessor(engine, logging.NewNop())

	_, err := processor.RecognizeFrame(context.Background(), testFrame(), 0, 1, 1,
		[]roi.ROI{{X: 0, Y: 0, Width: 50, Height: 50}}, 0.5)
	if err == nil {
		t.Fatal("expected error for unavailable engine")
	}
	if !services.IsFatal(err) {
		t.Errorf("expected fatal error, got %v", err)
	}
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("expected cause to remain inspectable, got %v", err)
	}
}

func TestRecognizeFrameEngineFaultIsRecoverable(t *testing.T) {
	engine := &fakeEngine{err: errors.New("tesseract exit status 1")}
	processor := NewProcessor(engine, logging.NewNop())

	_, err := processor.RecognizeFrame(context.Background(), testFrame(), 0, 1, 1,
		[]roi.ROI{{X: 0, Y: 0, Width: 50, Height: 50}}, 0.5)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if services.IsFatal(err) {
		t.Error("engine fault must not be fatal")
	}
}

func TestRecognizeBatchPreservesOrderAndIdentity(t *testing.T) {
	engine := &fakeEngine{tokens: []Token{{Text: "Mark", Confidence: 90}}}
	processor := NewProcessor(engine, logging.NewNop())

	batch := frames.New(42)
	batch.Add(testFrame(), 0.0)
	batch.Add(testFrame(), 0.5)
	batch.Add(testFrame(), 1.0)

	detections, err := processor.RecognizeBatch(context.Background(), batch,
		[]roi.ROI{{X: 0, Y: 0, Width: 50, Height: 50}}, 0.5)
	if err != nil {
		t.Fatalf("RecognizeBatch failed: %v", err)
	}
	if len(detections) != 3 {
		t.Fatalf("expected 3 detections, got %d", len(detections))
	}
	wantTimestamps := []float64{0.0, 0.5, 1.0}
	for i, det := range detections {
		if det.Timestamp != wantTimestamps[i] {
			t.Errorf("detection %d: expected timestamp %f, got %f", i, wantTimestamps[i], det.Timestamp)
		}
		if det.VideoID != 42 || det.ClipID != 42 {
			t.Errorf("detection %d: expected batch clip id for both ids, got video=%d clip=%d", i, det.VideoID, det.ClipID)
		}
	}
}

func TestRecognizeBatchValidatesThreshold(t *testing.T) {
	engine := &fakeEngine{}
	processor := NewProcessor(engine, logging.NewNop())

	batch := frames.New(1)
	batch.Add(testFrame(), 0.0)

	_, err := processor.RecognizeBatch(context.Background(), batch, nil, 1.01)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if engine.calls != 0 {
		t.Errorf("engine consulted %d times before validation", engine.calls)
	}
}

func TestRecognizeBatchStopsOnCancellation(t *testing.T) {
	engine := &fakeEngine{tokens: []Token{{Text: "Mark", Confidence: 90}}}
	processor := NewProcessor(engine, logging.NewNop())

	batch := frames.New(1)
	batch.Add(testFrame(), 0.0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := processor.RecognizeBatch(ctx, batch, []roi.ROI{{X: 0, Y: 0, Width: 10, Height: 10}}, 0.5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if engine.calls != 0 {
		t.Errorf("engine consulted after cancellation: %d calls", engine.calls)
	}
}
