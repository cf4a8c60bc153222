// Package speech adapts operating system speech tools to the voice ports.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/shai-voice/internal/domain"
	"github.com/doeshing/shai-voice/internal/ports"
)

// Engine names a text-to-speech command line tool.
type Engine string

const (
	EngineSay     Engine = "say"
	EngineEspeakN Engine = "espeak-ng"
	EngineEspeak  Engine = "espeak"
)

// playbackWaitDelay bounds how long Speak waits for output pipes after the
// playback process was killed.
const playbackWaitDelay = 500 * time.Millisecond

// CandidateEngines lists the engines tried for goos, in preference order.
func CandidateEngines(goos string) []Engine {
	if goos == "darwin" {
		return []Engine{EngineSay}
	}
	return []Engine{EngineEspeakN, EngineEspeak}
}

// SystemSpeaker speaks through say on macOS and espeak-ng or espeak elsewhere.
type SystemSpeaker struct {
	engine Engine
	path   string
	logger ports.Logger
}

// NewSystemSpeaker resolves the first available engine for the running OS.
// It fails with a dependency error when none is installed.
func NewSystemSpeaker(locator ports.DependencyLocator, logger ports.Logger) (*SystemSpeaker, error) {
	for _, engine := range CandidateEngines(runtime.GOOS) {
		path, err := locator.LookPath(string(engine))
		if err == nil {
			return NewSpeakerWithEngine(engine, path, logger), nil
		}
	}
	return nil, domain.NewDependencyMissing("speech engine (say, espeak-ng or espeak)")
}

// NewSpeakerWithEngine binds a speaker to an explicit engine binary.
func NewSpeakerWithEngine(engine Engine, path string, logger ports.Logger) *SystemSpeaker {
	if logger == nil {
		logger = nopLogger{}
	}
	return &SystemSpeaker{engine: engine, path: path, logger: logger}
}

// Engine reports which engine the speaker drives.
func (s *SystemSpeaker) Engine() Engine {
	return s.engine
}

// Speak plays text and blocks until playback ends. Cancelling ctx kills the
// playback process; Speak returns only after it has exited.
func (s *SystemSpeaker) Speak(ctx context.Context, text string, voice domain.VoiceSettings) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, s.path, EngineArgs(s.engine, text, voice)...)
	cmd.WaitDelay = playbackWaitDelay
	var stderr strings.Builder
	cmd.Stderr = &stderr

	s.logger.Debug("speaking", map[string]interface{}{
		"engine": string(s.engine),
		"chars":  len(text),
	})
	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with %d: %s", s.engine, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("run %s: %w", s.engine, err)
	}
	return nil
}

// EngineArgs builds the argument list for engine. Text always comes last and
// follows "--" so a leading dash is never read as a flag.
func EngineArgs(engine Engine, text string, voice domain.VoiceSettings) []string {
	var args []string
	switch engine {
	case EngineSay:
		if voice.Voice != "" {
			args = append(args, "-v", voice.Voice)
		}
		if voice.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(voice.Rate))
		}
		// say has no volume flag; it honours an embedded volume command.
		text = fmt.Sprintf("[[volm %.2f]] %s", float64(clampVolume(voice.Volume))/domain.MaxSpeechVolume, text)
	default:
		if voice.Voice != "" {
			args = append(args, "-v", voice.Voice)
		}
		if voice.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(voice.Rate))
		}
		// espeak amplitude runs 0-200 with 100 as normal.
		args = append(args, "-a", strconv.Itoa(clampVolume(voice.Volume)*2))
	}
	return append(args, "--", text)
}

func clampVolume(v int) int {
	switch {
	case v < 0:
		return 0
	case v > domain.MaxSpeechVolume:
		return domain.MaxSpeechVolume
	default:
		return v
	}
}

// Silent discards speech. It backs --mute and headless runs.
type Silent struct {
	logger ports.Logger
}

// NewSilent creates a speaker that never produces audio.
func NewSilent(logger ports.Logger) *Silent {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Silent{logger: logger}
}

// Speak logs the text and returns immediately.
func (s *Silent) Speak(ctx context.Context, text string, _ domain.VoiceSettings) error {
	s.logger.Debug("muted speech", map[string]interface{}{"text": text})
	return ctx.Err()
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

var (
	_ ports.SpeechOutput = (*SystemSpeaker)(nil)
	_ ports.SpeechOutput = (*Silent)(nil)
)
