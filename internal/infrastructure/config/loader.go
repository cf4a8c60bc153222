package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/shai-voice/assets"
	"github.com/doeshing/shai-voice/internal/domain"
	"github.com/doeshing/shai-voice/internal/pkg/filesystem"
	"github.com/doeshing/shai-voice/internal/ports"
)

// Environment variable names read by the loader.
const (
	EnvConfigPath         = "SHAI_VOICE_CONFIG"
	EnvLogLevel           = "SHAI_VOICE_LOG_LEVEL"
	EnvAssistantCommand   = "CLAUDE_COMMAND"
	EnvAssistantTimeout   = "CLAUDE_TIMEOUT"
	EnvSummarizeThreshold = "SUMMARIZE_THRESHOLD"
	EnvMaxSpokenLines     = "MAX_SPOKEN_LINES"
	EnvVoice              = "TTS_VOICE"
	EnvRate               = "TTS_RATE"
	EnvVolume             = "TTS_VOLUME"
	EnvInterruption       = "ENABLE_INTERRUPTION"
	EnvMetrics            = "SHAI_VOICE_METRICS"
)

// Flag names shared with the command line.
const (
	FlagConfig             = "config"
	FlagEnvFile            = "env-file"
	FlagVoice              = "voice"
	FlagRate               = "rate"
	FlagVolume             = "volume"
	FlagTimeout            = "timeout"
	FlagSummarizeThreshold = "summarize-threshold"
	FlagMaxSpokenLines     = "max-spoken-lines"
	FlagInterrupt          = "interrupt"
	FlagMute               = "mute"
	FlagMetrics            = "metrics"
)

const defaultEnvFile = ".env"

// RegisterFlags adds the configuration override flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "config file (default ~/.shai-voice/config.yaml)")
	fs.String(FlagEnvFile, "", "dotenv file with environment overrides (default ./.env)")
	fs.String(FlagVoice, "", "speech voice name")
	fs.Int(FlagRate, 0, "speech rate in words per minute")
	fs.Int(FlagVolume, 0, "speech volume 0-100")
	fs.Int(FlagTimeout, 0, "assistant timeout in seconds")
	fs.Int(FlagSummarizeThreshold, 0, "summarize responses longer than this many lines")
	fs.Int(FlagMaxSpokenLines, 0, "lines read aloud from a long generic response")
	fs.Bool(FlagInterrupt, false, "allow Enter to interrupt playback")
	fs.Bool(FlagMute, false, "print responses without speaking them")
	fs.Bool(FlagMetrics, false, "write collected metrics to stderr on exit")
}

// Loader merges every configuration layer. Later layers win:
// built-in constants, bundled default, user file, environment, flags.
type Loader struct {
	path    string
	envFile string
	flags   *pflag.FlagSet
	lookup  func(string) (string, bool)
}

// Option configures a Loader.
type Option func(*Loader)

// WithPath forces the user config file. A missing forced file is an error.
func WithPath(path string) Option {
	return func(l *Loader) { l.path = path }
}

// WithEnvFile forces the dotenv file. A missing forced file is an error.
func WithEnvFile(path string) Option {
	return func(l *Loader) { l.envFile = path }
}

// WithFlags applies changed flags from fs as the top layer.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(l *Loader) { l.flags = fs }
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(l *Loader) { l.lookup = lookup }
}

// NewLoader builds a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	if l.flags != nil {
		if l.path == "" {
			l.path, _ = l.flags.GetString(FlagConfig)
		}
		if l.envFile == "" {
			l.envFile, _ = l.flags.GetString(FlagEnvFile)
		}
	}
	return l
}

// Load implements ports.ConfigProvider. Every failure is a config Failure.
func (l *Loader) Load(context.Context) (domain.Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return domain.Config{}, err
	}

	env, err := l.environment()
	if err != nil {
		return domain.Config{}, err
	}

	path, explicit := l.resolvePath(env)
	user, err := readFile(path, explicit)
	if err != nil {
		return domain.Config{}, err
	}
	cfg = Merge(cfg, user)

	if cfg, err = applyEnv(cfg, env); err != nil {
		return domain.Config{}, err
	}
	if cfg, err = applyFlags(cfg, l.flags); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Path reports the user config file the loader reads.
func (l *Loader) Path() string {
	env, err := l.environment()
	if err != nil {
		env = nil
	}
	path, _ := l.resolvePath(env)
	return path
}

// WriteDefault copies the bundled default config to the user config path.
// An existing file is kept unless force is set.
func (l *Loader) WriteDefault(force bool) (string, error) {
	path := l.Path()
	if !force && filesystem.Exists(path) {
		return path, fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return path, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
		return path, fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Defaults returns the built-in constants overlaid with the bundled default
// file: the configuration before any user layer applies.
func Defaults() (domain.Config, error) {
	bundled, err := decode(assets.DefaultConfigYAML)
	if err != nil {
		return domain.Config{}, domain.NewConfigError("bundled default config", err)
	}
	return Merge(Builtin(), bundled), nil
}

// Builtin returns the last-resort defaults.
func Builtin() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		LogLevel:            domain.DefaultLogLevel,
		Assistant: domain.AssistantSettings{
			Command:            domain.DefaultAssistantCommand,
			TimeoutSeconds:     domain.DefaultAssistantTimeoutSeconds,
			GracePeriodSeconds: domain.DefaultGracePeriodSeconds,
		},
		Speech: domain.SpeechSettings{
			Rate:               domain.DefaultSpeechRate,
			Volume:             domain.DefaultSpeechVolume,
			EnableInterruption: domain.BoolPtr(false),
			Mute:               domain.BoolPtr(false),
		},
		Response: domain.ResponseSettings{
			SummarizeThreshold: domain.DefaultSummarizeThreshold,
			MaxSpokenLines:     domain.DefaultMaxSpokenLines,
		},
		Capture: domain.CaptureSettings{
			TimeoutSeconds: domain.DefaultCaptureTimeoutSeconds,
		},
		Metrics: domain.MetricsSettings{Enabled: domain.BoolPtr(false)},
	}
}

// environment merges the process environment over the dotenv file.
func (l *Loader) environment() (map[string]string, error) {
	env := make(map[string]string)

	path, explicit := l.envFile, l.envFile != ""
	if !explicit {
		path = defaultEnvFile
	}
	path = filesystem.ExpandPath(path)
	if explicit || filesystem.Exists(path) {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, domain.NewConfigError(fmt.Sprintf("read env file %s", path), err)
		}
		for k, v := range values {
			env[k] = v
		}
	}

	for _, name := range envNames {
		if v, ok := l.lookup(name); ok {
			env[name] = v
		}
	}
	return env, nil
}

var envNames = []string{
	EnvConfigPath, EnvLogLevel, EnvAssistantCommand, EnvAssistantTimeout,
	EnvSummarizeThreshold, EnvMaxSpokenLines, EnvVoice, EnvRate, EnvVolume,
	EnvInterruption, EnvMetrics,
}

func (l *Loader) resolvePath(env map[string]string) (string, bool) {
	if l.path != "" {
		return filesystem.ExpandPath(l.path), true
	}
	if custom := env[EnvConfigPath]; custom != "" {
		return filesystem.ExpandPath(custom), true
	}
	return filepath.Join(filesystem.ConfigDir(), "config.yaml"), false
}

func readFile(path string, required bool) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return Layer{}, nil
		}
		return Layer{}, domain.NewConfigError(fmt.Sprintf("read %s", path), err)
	}
	layer, err := decode(data)
	if err != nil {
		return Layer{}, domain.NewConfigError(fmt.Sprintf("parse %s", path), err)
	}
	return layer, nil
}

// decode parses YAML strictly; unknown keys are rejected.
func decode(data []byte) (Layer, error) {
	var layer Layer
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&layer); err != nil && !errors.Is(err, io.EOF) {
		return Layer{}, err
	}
	return layer, nil
}

func applyEnv(cfg domain.Config, env map[string]string) (domain.Config, error) {
	if v := strings.TrimSpace(env[EnvLogLevel]); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(env[EnvAssistantCommand]); v != "" {
		cfg.Assistant.Command = v
	}
	if v := env[EnvVoice]; v != "" {
		cfg.Speech.Voice = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvAssistantTimeout, &cfg.Assistant.TimeoutSeconds},
		{EnvSummarizeThreshold, &cfg.Response.SummarizeThreshold},
		{EnvMaxSpokenLines, &cfg.Response.MaxSpokenLines},
		{EnvRate, &cfg.Speech.Rate},
		{EnvVolume, &cfg.Speech.Volume},
	}
	for _, item := range ints {
		raw := strings.TrimSpace(env[item.name])
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Config{}, domain.NewConfigError(fmt.Sprintf("%s must be an integer, got %q", item.name, raw), err)
		}
		*item.dst = n
	}

	bools := []struct {
		name string
		dst  **bool
	}{
		{EnvInterruption, &cfg.Speech.EnableInterruption},
		{EnvMetrics, &cfg.Metrics.Enabled},
	}
	for _, item := range bools {
		raw := strings.TrimSpace(env[item.name])
		if raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.Config{}, domain.NewConfigError(fmt.Sprintf("%s must be true or false, got %q", item.name, raw), err)
		}
		*item.dst = domain.BoolPtr(b)
	}
	return cfg, nil
}

func applyFlags(cfg domain.Config, fs *pflag.FlagSet) (domain.Config, error) {
	if fs == nil {
		return cfg, nil
	}
	var err error
	getInt := func(name string, dst *int) {
		if err != nil || !changed(fs, name) {
			return
		}
		var n int
		if n, err = fs.GetInt(name); err == nil {
			*dst = n
		}
	}
	getBool := func(name string, dst **bool) {
		if err != nil || !changed(fs, name) {
			return
		}
		var b bool
		if b, err = fs.GetBool(name); err == nil {
			*dst = domain.BoolPtr(b)
		}
	}

	if changed(fs, FlagVoice) {
		cfg.Speech.Voice, err = fs.GetString(FlagVoice)
	}
	getInt(FlagRate, &cfg.Speech.Rate)
	getInt(FlagVolume, &cfg.Speech.Volume)
	getInt(FlagTimeout, &cfg.Assistant.TimeoutSeconds)
	getInt(FlagSummarizeThreshold, &cfg.Response.SummarizeThreshold)
	getInt(FlagMaxSpokenLines, &cfg.Response.MaxSpokenLines)
	getBool(FlagInterrupt, &cfg.Speech.EnableInterruption)
	getBool(FlagMute, &cfg.Speech.Mute)
	getBool(FlagMetrics, &cfg.Metrics.Enabled)
	if err != nil {
		return domain.Config{}, domain.NewConfigError("read flags", err)
	}
	return cfg, nil
}

func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}

// Marshal renders cfg as YAML.
func Marshal(cfg domain.Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

var _ ports.ConfigProvider = (*Loader)(nil)
