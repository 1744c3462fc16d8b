package ffmpeg

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"markfind/internal/services"
)

// ptsTimePattern matches the presentation-timestamp markers the showinfo
// filter writes for every selected frame. All other report content is noise.
var ptsTimePattern = regexp.MustCompile(`pts_time:([0-9]+(?:\.[0-9]+)?)`)

// DetectScenes runs ffmpeg's scene-change filter over the media at path and
// returns the reported boundary timestamps sorted ascending. The threshold is
// passed through verbatim; callers validate its range.
func (c *Client) DetectScenes(ctx context.Context, path string, threshold float64) ([]float64, error) {
	filter := fmt.Sprintf("select='gt(scene,%s)',showinfo", formatSeconds(threshold))
	output, err := c.run(ctx,
		"-i", path,
		"-filter_complex", filter,
		"-f", "null", "-",
	)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "detect scenes", "Scene detection failed.",
			fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output))))
	}

	return parseSceneReport(string(output)), nil
}

func parseSceneReport(report string) []float64 {
	matches := ptsTimePattern.FindAllStringSubmatch(report, -1)
	boundaries := make([]float64, 0, len(matches))
	for _, match := range matches {
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		boundaries = append(boundaries, value)
	}
	sort.Float64s(boundaries)
	return boundaries
}
