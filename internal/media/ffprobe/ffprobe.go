// Package ffprobe reads container metadata through the ffprobe binary.
package ffprobe

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"markfind/internal/services"
)

// Metadata captures the probed properties the importer needs.
type Metadata struct {
	Width    int
	Height   int
	Duration float64
}

// Prober describes the metadata probe contract.
type Prober interface {
	Probe(ctx context.Context, path string) (Metadata, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args ...string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output()
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffprobe invocations.
type Client struct {
	binary string
	exec   Executor
}

// New constructs an ffprobe client.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	client := &Client{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Probe returns width, height, and duration for the first video stream.
// ffprobe prints the three values as plain-text lines in that order.
func (c *Client) Probe(ctx context.Context, path string) (Metadata, error) {
	if strings.TrimSpace(path) == "" {
		return Metadata{}, services.Wrap(services.ErrValidation, "ffprobe", "probe", "empty path", nil)
	}

	output, err := c.exec.Run(ctx, c.binary,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return Metadata{}, services.Wrap(services.ErrExternalTool, "ffprobe", "probe", "Cannot read video metadata.", err)
	}

	return parseOutput(string(output))
}

func parseOutput(output string) (Metadata, error) {
	lines := make([]string, 0, 3)
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) < 3 {
		return Metadata{}, services.Wrap(services.ErrExternalTool, "ffprobe", "parse", "Cannot read video metadata.", nil)
	}

	width, err := strconv.Atoi(lines[0])
	if err != nil {
		return Metadata{}, services.Wrap(services.ErrExternalTool, "ffprobe", "parse", "Cannot read video metadata.", err)
	}
	height, err := strconv.Atoi(lines[1])
	if err != nil {
		return Metadata{}, services.Wrap(services.ErrExternalTool, "ffprobe", "parse", "Cannot read video metadata.", err)
	}
	duration, err := strconv.ParseFloat(lines[2], 64)
	if err != nil {
		return Metadata{}, services.Wrap(services.ErrExternalTool, "ffprobe", "parse", "Cannot read video metadata.", err)
	}

	return Metadata{Width: width, Height: height, Duration: duration}, nil
}
