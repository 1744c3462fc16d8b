package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{
	"watermark_id", "video_id", "clip_id", "timestamp",
	"extracted_text", "confidence",
	"roi_x", "roi_y", "roi_width", "roi_height",
}

// ExportCSV writes the watermarks to w with a fixed header row. Floating
// point columns use the shortest round-trippable representation.
func ExportCSV(w io.Writer, watermarks []Watermark) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, mark := range watermarks {
		record := []string{
			strconv.FormatInt(mark.ID, 10),
			strconv.FormatInt(mark.VideoID, 10),
			strconv.FormatInt(mark.ClipID, 10),
			strconv.FormatFloat(mark.Timestamp, 'f', -1, 64),
			mark.Text,
			strconv.FormatFloat(mark.Confidence, 'f', -1, 64),
			strconv.Itoa(mark.ROI.X),
			strconv.Itoa(mark.ROI.Y),
			strconv.Itoa(mark.ROI.Width),
			strconv.Itoa(mark.ROI.Height),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
