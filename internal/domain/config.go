package domain

// Config mirrors ~/.shai-voice/config.yaml after every layer has been merged.
// It is built once per process and passed by value; nothing mutates it afterwards.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	LogLevel            string            `yaml:"log_level"`
	Assistant           AssistantSettings `yaml:"assistant"`
	Speech              SpeechSettings    `yaml:"speech"`
	Response            ResponseSettings  `yaml:"response"`
	Capture             CaptureSettings   `yaml:"capture"`
	Metrics             MetricsSettings   `yaml:"metrics"`
}

// AssistantSettings describes how the external assistant CLI is invoked.
type AssistantSettings struct {
	Command            string   `yaml:"command"`
	Args               []string `yaml:"args"`
	TimeoutSeconds     int      `yaml:"timeout"`
	GracePeriodSeconds int      `yaml:"grace_period"`
}

// SpeechSettings controls text-to-speech playback.
type SpeechSettings struct {
	Voice              string `yaml:"voice"`
	Rate               int    `yaml:"rate"`
	Volume             int    `yaml:"volume"`
	EnableInterruption *bool  `yaml:"enable_interruption,omitempty"`
	Mute               *bool  `yaml:"mute,omitempty"`
}

// ResponseSettings tunes the summarization heuristics.
type ResponseSettings struct {
	SummarizeThreshold int `yaml:"summarize_threshold"`
	MaxSpokenLines     int `yaml:"max_spoken_lines"`
}

// CaptureSettings configures the speech recognizer helper.
type CaptureSettings struct {
	Command        string   `yaml:"command"`
	Args           []string `yaml:"args"`
	TimeoutSeconds int      `yaml:"timeout"`
}

// MetricsSettings controls the metrics export written to stderr.
type MetricsSettings struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// VoiceSettings is the subset of configuration handed to a speech output adapter.
type VoiceSettings struct {
	Voice  string
	Rate   int
	Volume int
}
