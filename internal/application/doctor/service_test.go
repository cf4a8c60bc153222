package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/doeshing/shai-voice/internal/domain"
)

type stubConfigProvider struct {
	cfg domain.Config
	err error
}

func (s stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

type stubLocator map[string]string

func (s stubLocator) LookPath(name string) (string, error) {
	if p, ok := s[name]; ok {
		return p, nil
	}
	return "", errors.New("executable file not found")
}

func baseConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		LogLevel:            "warn",
		Assistant:           domain.AssistantSettings{Command: "claude", TimeoutSeconds: 60, GracePeriodSeconds: 2},
		Speech:              domain.SpeechSettings{Rate: 180, Volume: 80},
		Response:            domain.ResponseSettings{SummarizeThreshold: 50, MaxSpokenLines: 10},
		Capture:             domain.CaptureSettings{TimeoutSeconds: 10},
	}
}

func findCheck(t *testing.T, report domain.HealthReport, name string) domain.HealthCheck {
	t.Helper()
	for _, c := range report.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q missing from %+v", name, report.Checks)
	return domain.HealthCheck{}
}

func TestDoctorAllPresent(t *testing.T) {
	cfg := baseConfig()
	cfg.Capture.Command = "recognize"
	svc := &Service{
		ConfigProvider: stubConfigProvider{cfg: cfg},
		Locator:        stubLocator{"claude": "/usr/bin/claude", "espeak": "/usr/bin/espeak", "recognize": "/opt/recognize"},
		SpeechEngines:  []string{"espeak-ng", "espeak"},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := findCheck(t, report, "Speech output"); got.Details != "/usr/bin/espeak" {
		t.Fatalf("speech check = %+v", got)
	}
	if got := findCheck(t, report, "Speech recognizer"); got.Status != domain.HealthOK {
		t.Fatalf("recognizer check = %+v", got)
	}
}

func TestDoctorMissingAssistant(t *testing.T) {
	svc := &Service{
		ConfigProvider: stubConfigProvider{cfg: baseConfig()},
		Locator:        stubLocator{"say": "/usr/bin/say"},
		SpeechEngines:  []string{"say"},
	}

	report, err := svc.Run(context.Background())
	if domain.ExitCodeFor(err) != domain.ExitDependencyMissing {
		t.Fatalf("exit code = %d, err = %v", domain.ExitCodeFor(err), err)
	}
	if missing := report.MissingRequired(); len(missing) != 1 || missing[0] != "Assistant CLI" {
		t.Fatalf("missing = %v", missing)
	}
}

func TestDoctorMutedSpeechIsOptional(t *testing.T) {
	cfg := baseConfig()
	cfg.Speech.Mute = domain.BoolPtr(true)
	svc := &Service{
		ConfigProvider: stubConfigProvider{cfg: cfg},
		Locator:        stubLocator{"claude": "/usr/bin/claude"},
		SpeechEngines:  []string{"espeak-ng"},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := findCheck(t, report, "Speech output"); got.Status != domain.HealthWarn {
		t.Fatalf("speech check = %+v", got)
	}
}

func TestDoctorMissingRecognizerIsWarningOnly(t *testing.T) {
	cfg := baseConfig()
	cfg.Capture.Command = "recognize"
	svc := &Service{
		ConfigProvider: stubConfigProvider{cfg: cfg},
		Locator:        stubLocator{"claude": "/usr/bin/claude", "say": "/usr/bin/say"},
		SpeechEngines:  []string{"say"},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := findCheck(t, report, "Speech recognizer"); got.Status != domain.HealthError || got.Required {
		t.Fatalf("recognizer check = %+v", got)
	}
}

func TestDoctorConfigFailure(t *testing.T) {
	svc := &Service{
		ConfigProvider: stubConfigProvider{err: domain.NewConfigError("bad", nil)},
		Locator:        stubLocator{},
	}
	_, err := svc.Run(context.Background())
	if domain.ExitCodeFor(err) != domain.ExitConfigError {
		t.Fatalf("exit code = %d", domain.ExitCodeFor(err))
	}
}

func TestDoctorReportsAssistantVersion(t *testing.T) {
	svc := &Service{
		ConfigProvider: stubConfigProvider{cfg: baseConfig()},
		Locator:        stubLocator{"claude": "/usr/bin/claude", "say": "/usr/bin/say"},
		SpeechEngines:  []string{"say"},
		VersionProbe: func(_ context.Context, path string) (string, error) {
			if path != "/usr/bin/claude" {
				return "", errors.New("unexpected path")
			}
			return "1.0.3 (Claude Code)", nil
		},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := findCheck(t, report, "Assistant CLI"); got.Details != "/usr/bin/claude (1.0.3 (Claude Code))" {
		t.Fatalf("assistant check = %+v", got)
	}
}

func TestDoctorVersionProbeFailureWarns(t *testing.T) {
	svc := &Service{
		ConfigProvider: stubConfigProvider{cfg: baseConfig()},
		Locator:        stubLocator{"claude": "/usr/bin/claude", "say": "/usr/bin/say"},
		SpeechEngines:  []string{"say"},
		VersionProbe: func(context.Context, string) (string, error) {
			return "", errors.New("exit status 1")
		},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := findCheck(t, report, "Assistant CLI"); got.Status != domain.HealthWarn {
		t.Fatalf("assistant check = %+v", got)
	}
}
