package config

import (
	"errors"
	"fmt"
)

const minChartSide = 200

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateChart(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.SurfaceThreshold < 0 {
		return errors.New("session.surface_threshold must be >= 0")
	}
	if c.Session.MinDiveSeconds < 0 {
		return errors.New("session.min_dive_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateChart() error {
	switch c.Chart.Format {
	case "png", "svg":
	default:
		return fmt.Errorf("chart.format: unsupported value %q (use png or svg)", c.Chart.Format)
	}
	if c.Chart.Width < minChartSide || c.Chart.Height < minChartSide {
		return fmt.Errorf("chart.width and chart.height must be at least %d", minChartSide)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}
