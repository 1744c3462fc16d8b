package sampler_test

import (
	"context"
	"errors"
	"image"
	"math"
	"strings"
	"testing"

	"markfind/internal/decode"
	"markfind/internal/media"
	"markfind/internal/sampler"
	"markfind/internal/services"
	"markfind/internal/timeline"
)

type fakeTrimmer struct {
	calls int
	err   error
	dst   string
}

func (f *fakeTrimmer) Trim(ctx context.Context, src string, start, end float64, dst string) error {
	f.calls++
	f.dst = dst
	return f.err
}

type fakeDecoder struct {
	frameCount int
	reads      int
	closed     bool
}

func (f *fakeDecoder) ReadFrameAt(ctx context.Context, offset float64) (image.Image, error) {
	f.reads++
	if f.reads > f.frameCount {
		return nil, decode.ErrNoFrame
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (f *fakeDecoder) Close() error {
	f.closed = true
	return nil
}

type fakeOpener struct {
	decoder *fakeDecoder
	err     error
	opened  []string
}

func (f *fakeOpener) Open(path string) (decode.Decoder, error) {
	f.opened = append(f.opened, path)
	if f.err != nil {
		return nil, f.err
	}
	return f.decoder, nil
}

func testVideo() media.Video {
	return media.Video{ID: 3, Path: "/videos/sample.mp4", Duration: 30, Width: 640, Height: 480}
}

func testClip(t *testing.T, id int64, start, end float64) *timeline.Clip {
	t.Helper()
	clip, err := timeline.NewClip(3, start, end)
	if err != nil {
		t.Fatalf("NewClip: %v", err)
	}
	clip.ID = id
	return clip
}

func TestExtractSamplesAtFixedInterval(t *testing.T) {
	trimmer := &fakeTrimmer{}
	decoder := &fakeDecoder{frameCount: 100}
	opener := &fakeOpener{decoder: decoder}
	s := sampler.New(trimmer, opener, t.TempDir(), nil)

	clip := testClip(t, 1, 2.0, 2.3)
	batch, err := s.Extract(context.Background(), clip, testVideo(), 10)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if batch.Len() != 3 {
		t.Fatalf("expected 3 frames, got %d", batch.Len())
	}
	want := []float64{2.0, 2.1, 2.2}
	for i, ts := range want {
		if math.Abs(batch.Timestamps[i]-ts) > 1e-9 {
			t.Fatalf("timestamp %d: got %v want %v", i, batch.Timestamps[i], ts)
		}
	}
	for i := 1; i < len(batch.Timestamps); i++ {
		if batch.Timestamps[i] <= batch.Timestamps[i-1] {
			t.Fatal("timestamps must be strictly increasing")
		}
	}
	if len(batch.Frames) != len(batch.Timestamps) {
		t.Fatal("frames and timestamps must have equal length")
	}
	if batch.ClipID != 1 {
		t.Fatalf("unexpected batch clip id %d", batch.ClipID)
	}
	if !decoder.closed {
		t.Fatal("decoder must be closed after extraction")
	}
}

func TestExtractShortReadEndsBatchWithoutError(t *testing.T) {
	trimmer := &fakeTrimmer{}
	decoder := &fakeDecoder{frameCount: 2}
	opener := &fakeOpener{decoder: decoder}
	s := sampler.New(trimmer, opener, t.TempDir(), nil)

	clip := testClip(t, 1, 0, 10)
	batch, err := s.Extract(context.Background(), clip, testVideo(), 1)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if batch.Len() != 2 {
		t.Fatalf("expected short batch of 2, got %d", batch.Len())
	}
	if !decoder.closed {
		t.Fatal("decoder must be closed after early termination")
	}
}

func TestExtractRejectsNonPositiveRate(t *testing.T) {
	trimmer := &fakeTrimmer{}
	opener := &fakeOpener{decoder: &fakeDecoder{}}
	s := sampler.New(trimmer, opener, t.TempDir(), nil)

	clip := testClip(t, 1, 0, 10)
	for _, fps := range []float64{0, -1} {
		_, err := s.Extract(context.Background(), clip, testVideo(), fps)
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("fps %v: expected validation error, got %v", fps, err)
		}
	}
	if trimmer.calls != 0 {
		t.Fatal("trimmer must not run for invalid rates")
	}
}

func TestExtractMaterializesSegmentOnce(t *testing.T) {
	trimmer := &fakeTrimmer{}
	opener := &fakeOpener{decoder: &fakeDecoder{frameCount: 1}}
	s := sampler.New(trimmer, opener, t.TempDir(), nil)

	clip := testClip(t, 42, 0, 1)
	if _, err := s.Extract(context.Background(), clip, testVideo(), 1); err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	opener.decoder = &fakeDecoder{frameCount: 1}
	if _, err := s.Extract(context.Background(), clip, testVideo(), 1); err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	if trimmer.calls != 1 {
		t.Fatalf("expected a single trim, got %d", trimmer.calls)
	}
	if clip.SegmentPath() == "" {
		t.Fatal("segment path must be cached on the clip")
	}
	if len(opener.opened) != 2 || opener.opened[0] != opener.opened[1] {
		t.Fatalf("expected both opens to reuse the segment: %v", opener.opened)
	}
}

func TestExtractUnassignedClipUsesPlaceholderName(t *testing.T) {
	trimmer := &fakeTrimmer{}
	opener := &fakeOpener{decoder: &fakeDecoder{frameCount: 1}}
	s := sampler.New(trimmer, opener, t.TempDir(), nil)

	clip := testClip(t, timeline.UnassignedID, 0, 1)
	if _, err := s.Extract(context.Background(), clip, testVideo(), 1); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := trimmer.dst; got == "" || !strings.HasSuffix(got, "clip_temp.mp4") {
		t.Fatalf("expected placeholder segment name, got %q", got)
	}
}

func TestExtractOpenFailureNamesPath(t *testing.T) {
	trimmer := &fakeTrimmer{}
	opener := &fakeOpener{err: errors.New("permission denied")}
	s := sampler.New(trimmer, opener, t.TempDir(), nil)

	clip := testClip(t, 5, 0, 1)
	_, err := s.Extract(context.Background(), clip, testVideo(), 1)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "clip_5.mp4") {
		t.Fatalf("error should name the offending path: %v", err)
	}
}

func TestExtractPropagatesTrimFailure(t *testing.T) {
	trimmer := &fakeTrimmer{err: services.Wrap(services.ErrExternalTool, "ffmpeg", "trim", "Failed to trim clip.", nil)}
	opener := &fakeOpener{decoder: &fakeDecoder{}}
	s := sampler.New(trimmer, opener, t.TempDir(), nil)

	clip := testClip(t, 1, 0, 1)
	if _, err := s.Extract(context.Background(), clip, testVideo(), 1); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestExtractHonorsCancellation(t *testing.T) {
	trimmer := &fakeTrimmer{}
	opener := &fakeOpener{decoder: &fakeDecoder{frameCount: 1000}}
	s := sampler.New(trimmer, opener, t.TempDir(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	clip := testClip(t, 1, 0, 100)
	if _, err := s.Extract(ctx, clip, testVideo(), 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
