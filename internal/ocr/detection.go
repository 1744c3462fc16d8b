package ocr

import (
	"markfind/internal/roi"
	"markfind/internal/services"
)

// Detection is an accepted watermark recognition result tied to a specific
// timestamp, clip, and search region. It is immutable after construction.
type Detection struct {
	VideoID    int64
	ClipID     int64
	Timestamp  float64
	Text       string
	Confidence float64
	ROI        roi.ROI
}

// NewDetection validates and constructs a detection. Text must be non-empty,
// confidence must lie in [0, 1], and the timestamp must be non-negative.
func NewDetection(videoID, clipID int64, timestamp float64, text string, confidence float64, region roi.ROI) (Detection, error) {
	if text == "" {
		return Detection{}, services.Wrap(services.ErrValidation, "ocr", "new detection", "text must be non-empty", nil)
	}
	if confidence < 0.0 || confidence > 1.0 {
		return Detection{}, services.Wrap(services.ErrValidation, "ocr", "new detection", "confidence must be between 0.0 and 1.0", nil)
	}
	if timestamp < 0 {
		return Detection{}, services.Wrap(services.ErrValidation, "ocr", "new detection", "timestamp must be non-negative", nil)
	}
	return Detection{
		VideoID:    videoID,
		ClipID:     clipID,
		Timestamp:  timestamp,
		Text:       text,
		Confidence: confidence,
		ROI:        region,
	}, nil
}
