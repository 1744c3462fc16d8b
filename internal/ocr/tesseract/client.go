// Package tesseract runs text recognition through the tesseract command line
// tool, feeding grayscale crops on stdin and parsing the TSV word report.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"markfind/internal/ocr"
)

// Executor abstracts tesseract invocation for testing.
type Executor interface {
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		if stderr != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, stderr)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return output, nil
}

// Option customizes client construction.
type Option func(*Client)

// WithExecutor replaces the process executor.
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		c.exec = exec
	}
}

// WithLookPath replaces binary resolution.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(c *Client) {
		c.lookPath = lookPath
	}
}

// Client invokes the tesseract binary. It implements ocr.Engine.
type Client struct {
	binary    string
	languages []string
	exec      Executor
	lookPath  func(string) (string, error)
}

// New creates a tesseract client. binary may be a bare name resolved through
// PATH or an explicit path; languages are tesseract language codes joined
// with "+" on invocation.
func New(binary string, languages []string, opts ...Option) *Client {
	if binary == "" {
		binary = "tesseract"
	}
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	client := &Client{
		binary:    binary,
		languages: languages,
		exec:      commandExecutor{},
		lookPath:  exec.LookPath,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Recognize runs tesseract over the grayscale crop and returns every word row
// of the TSV report, including the structural rows tesseract marks with a
// negative confidence.
func (c *Client) Recognize(ctx context.Context, img *image.Gray) ([]ocr.Token, error) {
	resolved, err := c.lookPath(c.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found in PATH", ocr.ErrEngineUnavailable, c.binary)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}

	args := []string{"stdin", "stdout", "-l", strings.Join(c.languages, "+"), "tsv"}
	output, err := c.exec.Run(ctx, &buf, resolved, args...)
	if err != nil {
		return nil, fmt.Errorf("tesseract recognition failed: %w", err)
	}
	return parseTSV(output), nil
}

// parseTSV extracts (text, confidence) pairs from the tesseract TSV report.
// Rows with an unparseable confidence column are dropped; everything else is
// kept in report order so downstream averaging sees the full row set.
func parseTSV(output []byte) []ocr.Token {
	var tokens []ocr.Token
	lines := strings.Split(string(output), "\n")
	for i, line := range lines {
		if i == 0 || line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(fields[10], 64)
		if err != nil {
			continue
		}
		tokens = append(tokens, ocr.Token{Text: fields[11], Confidence: conf})
	}
	return tokens
}
