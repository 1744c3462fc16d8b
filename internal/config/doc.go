// Package config loads, validates, and normalizes the TOML configuration for
// the watermark scanner.
//
// Configuration covers filesystem paths (working directory, logs, database),
// scan parameters (scene threshold, sampling rate, OCR confidence threshold,
// default search regions), external tool binaries and timeouts, accepted
// import formats, and log output settings. Load applies defaults first, so a
// missing file yields a usable configuration.
package config
