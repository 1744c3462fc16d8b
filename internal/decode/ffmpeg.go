package decode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Executor abstracts command execution for testability. Run returns stdout
// only; the frame bytes must not be mixed with ffmpeg's log output.
type Executor interface {
	Run(ctx context.Context, binary string, args ...string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output()
}

// Option configures the opener.
type Option func(*FFmpegOpener)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(o *FFmpegOpener) {
		if exec != nil {
			o.exec = exec
		}
	}
}

// FFmpegOpener opens media files for per-frame decoding via ffmpeg.
type FFmpegOpener struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// NewFFmpegOpener constructs an opener. A zero timeout disables the
// per-read deadline.
func NewFFmpegOpener(binary string, timeout time.Duration, opts ...Option) *FFmpegOpener {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	opener := &FFmpegOpener{binary: binary, timeout: timeout, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(opener)
	}
	return opener
}

// Open verifies the media file is readable and returns a decoder for it.
func (o *FFmpegOpener) Open(path string) (Decoder, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	_ = file.Close()
	return &ffmpegDecoder{opener: o, path: path}, nil
}

type ffmpegDecoder struct {
	opener *FFmpegOpener
	path   string
	closed bool
}

func (d *ffmpegDecoder) ReadFrameAt(ctx context.Context, offset float64) (image.Image, error) {
	if d.closed {
		return nil, fmt.Errorf("decoder closed")
	}
	if d.opener.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opener.timeout)
		defer cancel()
	}

	output, err := d.opener.exec.Run(ctx, d.opener.binary,
		"-ss", strconv.FormatFloat(offset, 'f', -1, 64),
		"-i", d.path,
		"-frames:v", "1",
		"-c:v", "png",
		"-f", "image2pipe",
		"-",
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrNoFrame
	}
	if len(output) == 0 {
		return nil, ErrNoFrame
	}

	frame, err := png.Decode(bytes.NewReader(output))
	if err != nil {
		return nil, ErrNoFrame
	}
	return frame, nil
}

func (d *ffmpegDecoder) Close() error {
	d.closed = true
	return nil
}
