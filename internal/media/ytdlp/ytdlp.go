// Package ytdlp downloads remote videos through the yt-dlp command line
// tool.
package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"markfind/internal/services"
)

// Executor abstracts yt-dlp invocation for testing.
type Executor interface {
	Run(ctx context.Context, binary string, args ...string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).CombinedOutput()
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor.
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLookPath replaces binary resolution.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(c *Client) {
		c.lookPath = lookPath
	}
}

// Client wraps yt-dlp downloads. It implements importer.Downloader.
type Client struct {
	binary   string
	timeout  time.Duration
	exec     Executor
	lookPath func(string) (string, error)
}

// New constructs a yt-dlp client. timeout of zero disables the per-call
// deadline.
func New(binary string, timeout time.Duration, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "yt-dlp"
	}
	client := &Client{
		binary:   binary,
		timeout:  timeout,
		exec:     commandExecutor{},
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Download fetches url into a fresh uniquely named subdirectory of dir and
// returns the path of the single downloaded file. A download producing zero
// or multiple files is an error.
func (c *Client) Download(ctx context.Context, url, dir string) (string, error) {
	if _, err := c.lookPath(c.binary); err != nil {
		return "", services.Wrap(services.ErrUnavailable, "ytdlp", "download",
			fmt.Sprintf("%s not installed or not in PATH.", c.binary), err)
	}

	target := filepath.Join(dir, uuid.New().String())
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ytdlp", "download", "Cannot create download directory.", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	output, err := c.exec.Run(ctx, c.binary,
		"-o", filepath.Join(target, "%(title)s.%(ext)s"),
		"--no-playlist",
		url,
	)
	if err != nil {
		detail := fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
		return "", services.Wrap(services.ErrExternalTool, "ytdlp", "download", "Video download failed.", detail)
	}

	return singleFile(target)
}

func singleFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ytdlp", "download", "Cannot read download directory.", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) != 1 {
		return "", services.Wrap(services.ErrExternalTool, "ytdlp", "download",
			fmt.Sprintf("expected exactly one downloaded file, found %d", len(files)), nil)
	}
	return files[0], nil
}
