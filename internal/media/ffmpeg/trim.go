package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"markfind/internal/services"
)

// Trim copies the source media between start and end into dst without
// re-encoding, so the segment bytes match the source stream exactly.
func (c *Client) Trim(ctx context.Context, src string, start, end float64, dst string) error {
	output, err := c.run(ctx,
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-i", src,
		"-c", "copy",
		dst,
	)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "trim", "Failed to trim clip.",
			fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output))))
	}
	return nil
}
