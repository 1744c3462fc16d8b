// Package ffmpeg wraps the ffmpeg binary for scene-change detection and
// stream-copy trimming.
package ffmpeg

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Executor abstracts command execution for testability. Run returns the
// combined stdout/stderr output; ffmpeg writes its reports to stderr.
type Executor interface {
	Run(ctx context.Context, binary string, args ...string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).CombinedOutput()
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

// Client wraps ffmpeg CLI interactions. A zero timeout disables the
// per-invocation deadline.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs an ffmpeg client.
func New(binary string, timeout time.Duration, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	client := &Client{binary: binary, timeout: timeout, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.exec.Run(ctx, c.binary, args...)
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
