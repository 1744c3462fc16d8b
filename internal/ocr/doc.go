// Package ocr aggregates per-region text recognition results into accepted
// watermark detections.
//
// The processor crops each search region out of a frame, hands the grayscale
// sub-image to the recognition engine, and folds the returned token
// confidences into a single accept-or-reject decision per region. Regions
// that fall outside the frame or crop to nothing are skipped, not failed;
// a missing engine runtime aborts the run.
package ocr
