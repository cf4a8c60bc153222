package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/shai-voice/internal/domain"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate ensures the merged config is usable. Problems are config failures.
func Validate(cfg domain.Config) error {
	if err := cfg.ValidateConsistency(); err != nil {
		return domain.NewConfigError("invalid configuration", err)
	}
	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return domain.NewConfigError("invalid configuration", err)
	}
	if err := validateCapture(cfg.Capture); err != nil {
		return domain.NewConfigError("invalid configuration", err)
	}
	if cfg.Assistant.GracePeriodSeconds < 1 {
		return domain.NewConfigError("invalid configuration",
			fmt.Errorf("assistant.grace_period must be >= 1, got %d", cfg.Assistant.GracePeriodSeconds))
	}
	return nil
}

func validateLogLevel(level string) error {
	if level == "" || logLevels[strings.ToLower(level)] {
		return nil
	}
	return fmt.Errorf("log_level must be debug|info|warn|error, got %s", level)
}

func validateCapture(capture domain.CaptureSettings) error {
	if capture.TimeoutSeconds < 1 {
		return fmt.Errorf("capture.timeout must be >= 1, got %d", capture.TimeoutSeconds)
	}
	if capture.Command == "" && len(capture.Args) > 0 {
		return fmt.Errorf("capture.args set without capture.command")
	}
	return nil
}
