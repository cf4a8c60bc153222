package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/doeshing/shai-voice/internal/domain"
)

// TestConfig_AssistantTimeout tests the timeout fallback
func TestConfig_AssistantTimeout(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{name: "uses configured value", seconds: 5, want: 5 * time.Second},
		{name: "falls back when zero", seconds: 0, want: time.Duration(domain.DefaultAssistantTimeoutSeconds) * time.Second},
		{name: "falls back when negative", seconds: -3, want: time.Duration(domain.DefaultAssistantTimeoutSeconds) * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.Config{Assistant: domain.AssistantSettings{TimeoutSeconds: tt.seconds}}
			if got := cfg.AssistantTimeout(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestConfig_ResponseThresholds tests summarization defaults
func TestConfig_ResponseThresholds(t *testing.T) {
	cfg := domain.Config{}
	if got := cfg.GetSummarizeThreshold(); got != domain.DefaultSummarizeThreshold {
		t.Errorf("GetSummarizeThreshold() = %d, want %d", got, domain.DefaultSummarizeThreshold)
	}
	if got := cfg.GetMaxSpokenLines(); got != domain.DefaultMaxSpokenLines {
		t.Errorf("GetMaxSpokenLines() = %d, want %d", got, domain.DefaultMaxSpokenLines)
	}

	cfg.Response = domain.ResponseSettings{SummarizeThreshold: 7, MaxSpokenLines: 3}
	if got := cfg.GetSummarizeThreshold(); got != 7 {
		t.Errorf("GetSummarizeThreshold() = %d, want 7", got)
	}
	if got := cfg.GetMaxSpokenLines(); got != 3 {
		t.Errorf("GetMaxSpokenLines() = %d, want 3", got)
	}
}

// TestConfig_OptionalBooleans tests unset pointers read as false
func TestConfig_OptionalBooleans(t *testing.T) {
	cfg := domain.Config{}
	if cfg.InterruptionEnabled() || cfg.IsMuted() {
		t.Fatal("unset booleans should read as false")
	}
	cfg.Speech.EnableInterruption = domain.BoolPtr(true)
	cfg.Speech.Mute = domain.BoolPtr(true)
	if !cfg.InterruptionEnabled() || !cfg.IsMuted() {
		t.Fatal("explicit true should be honoured")
	}
}

// TestConfig_ValidateConsistency tests range validation
func TestConfig_ValidateConsistency(t *testing.T) {
	valid := domain.Config{
		Assistant: domain.AssistantSettings{Command: "claude", TimeoutSeconds: 30},
		Speech:    domain.SpeechSettings{Rate: 180, Volume: 80},
		Response:  domain.ResponseSettings{SummarizeThreshold: 50, MaxSpokenLines: 10},
	}

	tests := []struct {
		name      string
		mutate    func(*domain.Config)
		wantError bool
	}{
		{name: "valid config", mutate: func(*domain.Config) {}},
		{name: "missing command", mutate: func(c *domain.Config) { c.Assistant.Command = "" }, wantError: true},
		{name: "negative timeout", mutate: func(c *domain.Config) { c.Assistant.TimeoutSeconds = -1 }, wantError: true},
		{name: "volume above max", mutate: func(c *domain.Config) { c.Speech.Volume = 101 }, wantError: true},
		{name: "negative spoken lines", mutate: func(c *domain.Config) { c.Response.MaxSpokenLines = -2 }, wantError: true},
		{name: "zero timeout", mutate: func(c *domain.Config) { c.Assistant.TimeoutSeconds = 0 }, wantError: true},
		{name: "zero summarize threshold", mutate: func(c *domain.Config) { c.Response.SummarizeThreshold = 0 }, wantError: true},
		{name: "zero volume", mutate: func(c *domain.Config) { c.Speech.Volume = 0 }},
		{name: "zero rate", mutate: func(c *domain.Config) { c.Speech.Rate = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.ValidateConsistency()
			if tt.wantError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFailureExitCodes(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: domain.ExitSuccess},
		{err: errors.New("boom"), want: domain.ExitGeneralError},
		{err: domain.NewConfigError("bad", nil), want: domain.ExitConfigError},
		{err: domain.NewLaunchFailure("claude", errors.New("not found")), want: domain.ExitDependencyMissing},
		{err: domain.NewDependencyMissing("say"), want: domain.ExitDependencyMissing},
		{err: domain.NewTimeout("slow"), want: domain.ExitTimeout},
		{err: fmt.Errorf("wrapped: %w", domain.NewTimeout("slow")), want: domain.ExitTimeout},
		{err: domain.NewUnexpectedCapture("odd", nil), want: domain.ExitGeneralError},
	}

	for _, tt := range tests {
		if got := domain.ExitCodeFor(tt.err); got != tt.want {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestIsFailureUnwraps(t *testing.T) {
	err := fmt.Errorf("listen: %w", domain.NewUnexpectedCapture("bad json", nil))
	if !domain.IsFailure(err, domain.FailureUnexpectedCapture) {
		t.Fatalf("expected unexpected capture failure, got %v", err)
	}
	if domain.IsFailure(err, domain.FailureConfig) {
		t.Fatal("code mismatch should not match")
	}
}

func TestCaptureResultPrompt(t *testing.T) {
	if _, ok := domain.Recognized("   ").Prompt(); ok {
		t.Error("blank recognized text must not produce a prompt")
	}
	if _, ok := domain.CaptureTimedOut().Prompt(); ok {
		t.Error("timeout must not produce a prompt")
	}
	got, ok := domain.Recognized("  list files \n").Prompt()
	if !ok || got != "list files" {
		t.Errorf("Prompt() = %q, %v", got, ok)
	}
}
