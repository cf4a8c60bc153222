package domain

import (
	"fmt"
	"time"
)

// AssistantTimeout returns the wall-clock budget for one assistant invocation.
func (c Config) AssistantTimeout() time.Duration {
	if c.Assistant.TimeoutSeconds <= 0 {
		return time.Duration(DefaultAssistantTimeoutSeconds) * time.Second
	}
	return time.Duration(c.Assistant.TimeoutSeconds) * time.Second
}

// GracePeriod returns how long a terminated assistant gets before it is killed.
func (c Config) GracePeriod() time.Duration {
	if c.Assistant.GracePeriodSeconds <= 0 {
		return time.Duration(DefaultGracePeriodSeconds) * time.Second
	}
	return time.Duration(c.Assistant.GracePeriodSeconds) * time.Second
}

// CaptureTimeout returns how long the recognizer may listen for one utterance.
func (c Config) CaptureTimeout() time.Duration {
	if c.Capture.TimeoutSeconds <= 0 {
		return time.Duration(DefaultCaptureTimeoutSeconds) * time.Second
	}
	return time.Duration(c.Capture.TimeoutSeconds) * time.Second
}

// GetSummarizeThreshold returns the line count above which responses are summarized.
func (c Config) GetSummarizeThreshold() int {
	if c.Response.SummarizeThreshold <= 0 {
		return DefaultSummarizeThreshold
	}
	return c.Response.SummarizeThreshold
}

// GetMaxSpokenLines returns how many lines a generic summary reads aloud.
func (c Config) GetMaxSpokenLines() int {
	if c.Response.MaxSpokenLines <= 0 {
		return DefaultMaxSpokenLines
	}
	return c.Response.MaxSpokenLines
}

// InterruptionEnabled reports whether playback may be cancelled mid-sentence.
func (c Config) InterruptionEnabled() bool {
	return c.Speech.EnableInterruption != nil && *c.Speech.EnableInterruption
}

// IsMuted reports whether speech output is disabled entirely.
func (c Config) IsMuted() bool {
	return c.Speech.Mute != nil && *c.Speech.Mute
}

// MetricsEnabled reports whether collected metrics are exported.
func (c Config) MetricsEnabled() bool {
	return c.Metrics.Enabled != nil && *c.Metrics.Enabled
}

// Voice returns the playback parameters for the speech output adapter.
func (c Config) Voice() VoiceSettings {
	return VoiceSettings{
		Voice:  c.Speech.Voice,
		Rate:   c.Speech.Rate,
		Volume: c.Speech.Volume,
	}
}

// HasRecognizer reports whether a speech recognizer helper is configured.
func (c Config) HasRecognizer() bool {
	return c.Capture.Command != ""
}

// ValidateConsistency checks value ranges that every layer must respect.
// Volume 0 is silence and rate 0 leaves the engine's own rate; the timeout
// and line counts have no meaningful zero.
func (c Config) ValidateConsistency() error {
	if c.Assistant.Command == "" {
		return fmt.Errorf("assistant.command must be set")
	}
	if c.Assistant.TimeoutSeconds < 1 {
		return fmt.Errorf("assistant.timeout must be >= 1, got %d", c.Assistant.TimeoutSeconds)
	}
	if c.Response.SummarizeThreshold < 1 {
		return fmt.Errorf("response.summarize_threshold must be >= 1, got %d", c.Response.SummarizeThreshold)
	}
	if c.Response.MaxSpokenLines < 1 {
		return fmt.Errorf("response.max_spoken_lines must be >= 1, got %d", c.Response.MaxSpokenLines)
	}
	if c.Speech.Volume < 0 || c.Speech.Volume > MaxSpeechVolume {
		return fmt.Errorf("speech.volume must be between 0 and %d, got %d", MaxSpeechVolume, c.Speech.Volume)
	}
	if c.Speech.Rate < 0 {
		return fmt.Errorf("speech.rate must be >= 0, got %d", c.Speech.Rate)
	}
	return nil
}

// BoolPtr is a helper for the optional boolean settings.
func BoolPtr(v bool) *bool {
	return &v
}
