package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.SceneThreshold <= 0 || c.Scan.SceneThreshold >= 1 {
		return errors.New("scan.scene_threshold must be strictly between 0 and 1")
	}
	if c.Scan.SamplingFPS <= 0 {
		return errors.New("scan.sampling_fps must be greater than 0")
	}
	if c.Scan.ConfidenceThreshold < 0 || c.Scan.ConfidenceThreshold > 1 {
		return errors.New("scan.confidence_threshold must be between 0 and 1")
	}
	for i, region := range c.Scan.DefaultROIs {
		if region.X < 0 || region.Y < 0 {
			return fmt.Errorf("scan.default_rois[%d]: x and y must be non-negative", i)
		}
		if region.Width <= 0 || region.Height <= 0 {
			return fmt.Errorf("scan.default_rois[%d]: width and height must be positive", i)
		}
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.TimeoutSeconds < 0 {
		return errors.New("tools.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateImport() error {
	if len(c.Import.SupportedFormats) == 0 {
		return errors.New("import.supported_formats must list at least one extension")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
