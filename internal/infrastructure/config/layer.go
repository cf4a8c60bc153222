package config

import "github.com/doeshing/shai-voice/internal/domain"

// Layer is one YAML configuration file before merging. Scalars are pointers
// so an explicit zero ("volume: 0") is told apart from an absent key.
type Layer struct {
	ConfigFormatVersion *string        `yaml:"config_format_version"`
	LogLevel            *string        `yaml:"log_level"`
	Assistant           AssistantLayer `yaml:"assistant"`
	Speech              SpeechLayer    `yaml:"speech"`
	Response            ResponseLayer  `yaml:"response"`
	Capture             CaptureLayer   `yaml:"capture"`
	Metrics             MetricsLayer   `yaml:"metrics"`
}

// AssistantLayer is the assistant section of a Layer.
type AssistantLayer struct {
	Command            *string  `yaml:"command"`
	Args               []string `yaml:"args"`
	TimeoutSeconds     *int     `yaml:"timeout"`
	GracePeriodSeconds *int     `yaml:"grace_period"`
}

// SpeechLayer is the speech section of a Layer.
type SpeechLayer struct {
	Voice              *string `yaml:"voice"`
	Rate               *int    `yaml:"rate"`
	Volume             *int    `yaml:"volume"`
	EnableInterruption *bool   `yaml:"enable_interruption"`
	Mute               *bool   `yaml:"mute"`
}

// ResponseLayer is the response section of a Layer.
type ResponseLayer struct {
	SummarizeThreshold *int `yaml:"summarize_threshold"`
	MaxSpokenLines     *int `yaml:"max_spoken_lines"`
}

// CaptureLayer is the capture section of a Layer.
type CaptureLayer struct {
	Command        *string  `yaml:"command"`
	Args           []string `yaml:"args"`
	TimeoutSeconds *int     `yaml:"timeout"`
}

// MetricsLayer is the metrics section of a Layer.
type MetricsLayer struct {
	Enabled *bool `yaml:"enabled"`
}

// Merge overlays every key present in overlay onto base. Absent keys keep
// the base value; present keys win even when they are zero or empty.
func Merge(base domain.Config, overlay Layer) domain.Config {
	out := base
	set(&out.ConfigFormatVersion, overlay.ConfigFormatVersion)
	set(&out.LogLevel, overlay.LogLevel)

	set(&out.Assistant.Command, overlay.Assistant.Command)
	if overlay.Assistant.Args != nil {
		out.Assistant.Args = append([]string(nil), overlay.Assistant.Args...)
	}
	set(&out.Assistant.TimeoutSeconds, overlay.Assistant.TimeoutSeconds)
	set(&out.Assistant.GracePeriodSeconds, overlay.Assistant.GracePeriodSeconds)

	set(&out.Speech.Voice, overlay.Speech.Voice)
	set(&out.Speech.Rate, overlay.Speech.Rate)
	set(&out.Speech.Volume, overlay.Speech.Volume)
	if overlay.Speech.EnableInterruption != nil {
		out.Speech.EnableInterruption = domain.BoolPtr(*overlay.Speech.EnableInterruption)
	}
	if overlay.Speech.Mute != nil {
		out.Speech.Mute = domain.BoolPtr(*overlay.Speech.Mute)
	}

	set(&out.Response.SummarizeThreshold, overlay.Response.SummarizeThreshold)
	set(&out.Response.MaxSpokenLines, overlay.Response.MaxSpokenLines)

	set(&out.Capture.Command, overlay.Capture.Command)
	if overlay.Capture.Args != nil {
		out.Capture.Args = append([]string(nil), overlay.Capture.Args...)
	}
	set(&out.Capture.TimeoutSeconds, overlay.Capture.TimeoutSeconds)

	if overlay.Metrics.Enabled != nil {
		out.Metrics.Enabled = domain.BoolPtr(*overlay.Metrics.Enabled)
	}
	return out
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
