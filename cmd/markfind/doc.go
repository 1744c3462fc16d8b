// Command markfind scans videos for watermark text. It partitions a video
// into clips at scene changes, samples frames from each clip, runs OCR over
// configured search regions, and records the accepted detections in a local
// SQLite database for querying and CSV export.
package main
