// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The core never talks to the operating system directly:
// the assistant CLI, the speech recognizer and the speech synthesizer are all
// reached through the interfaces below.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., AssistantRunner, SpeechOutput)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/shai-voice/internal/domain"
)

// ConfigProvider loads the effective configuration.
// Implementations merge built-in constants, the bundled default, the user file,
// the environment and command-line overrides.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// AssistantRunner invokes the external assistant CLI with one prompt.
// The returned error is reserved for launch failures; every outcome of a
// started process is reported through ExecutionResult.Status.
type AssistantRunner interface {
	Execute(ctx context.Context, prompt string, timeout time.Duration) (domain.ExecutionResult, error)
}

// VoiceCapture returns a single utterance from the user.
type VoiceCapture interface {
	Listen(ctx context.Context) (domain.CaptureResult, error)
}

// SpeechOutput speaks text aloud. Cancelling ctx must stop playback before
// Speak returns.
type SpeechOutput interface {
	Speak(ctx context.Context, text string, voice domain.VoiceSettings) error
}

// InterruptSource blocks until the user asks to cut playback short or ctx ends.
// It returns true only for a genuine user interrupt.
type InterruptSource interface {
	WaitInterrupt(ctx context.Context) bool
}

// DependencyLocator resolves external programs on the host.
type DependencyLocator interface {
	LookPath(name string) (string, error)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
