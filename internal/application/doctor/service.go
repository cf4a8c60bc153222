package doctor

import (
	"context"
	"fmt"
	"strings"

	configapp "github.com/doeshing/shai-voice/internal/application/config"
	"github.com/doeshing/shai-voice/internal/domain"
	"github.com/doeshing/shai-voice/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Locator        ports.DependencyLocator
	// SpeechEngines lists the text-to-speech binaries usable on this host, in
	// preference order.
	SpeechEngines []string
	// VersionProbe, when set, reports the assistant's version string.
	VersionProbe func(ctx context.Context, path string) (string, error)
}

// Run executes checks and returns a report. The error is a dependency failure
// when a required check fails, or the config failure that stopped the run.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err == nil {
		err = configapp.Validate(cfg)
	}
	if err != nil {
		checks = append(checks, fail("Config", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config", fmt.Sprintf("format %s, timeout %s", cfg.ConfigFormatVersion, cfg.AssistantTimeout())))

	checks = append(checks, s.assistantCheck(ctx, cfg.Assistant.Command))
	checks = append(checks, s.speechCheck(cfg))
	checks = append(checks, s.recognizerCheck(cfg))

	if cfg.InterruptionEnabled() {
		checks = append(checks, ok("Interruption", "press Enter to stop playback"))
	} else {
		checks = append(checks, warn("Interruption", "disabled; set ENABLE_INTERRUPTION=true to allow it"))
	}

	report := domain.HealthReport{Checks: checks}
	if missing := report.MissingRequired(); len(missing) > 0 {
		return report, domain.NewDependencyMissing(strings.Join(missing, ", "))
	}
	return report, nil
}

func (s *Service) assistantCheck(ctx context.Context, command string) domain.HealthCheck {
	check := s.binaryCheck("Assistant CLI", command, true)
	if check.Status != domain.HealthOK || s.VersionProbe == nil {
		return check
	}
	version, err := s.VersionProbe(ctx, check.Details)
	if err != nil {
		check.Status = domain.HealthWarn
		check.Details = fmt.Sprintf("%s (version check failed: %v)", check.Details, err)
		return check
	}
	if version != "" {
		check.Details = fmt.Sprintf("%s (%s)", check.Details, version)
	}
	return check
}

func (s *Service) binaryCheck(name, command string, required bool) domain.HealthCheck {
	path, err := s.Locator.LookPath(command)
	if err != nil {
		check := fail(name, fmt.Sprintf("%s not found on PATH", command))
		check.Required = required
		return check
	}
	check := ok(name, path)
	check.Required = required
	return check
}

func (s *Service) speechCheck(cfg domain.Config) domain.HealthCheck {
	for _, engine := range s.SpeechEngines {
		if path, err := s.Locator.LookPath(engine); err == nil {
			return domain.HealthCheck{Name: "Speech output", Status: domain.HealthOK, Details: path, Required: !cfg.IsMuted()}
		}
	}
	details := fmt.Sprintf("none of %s found", strings.Join(s.SpeechEngines, ", "))
	if cfg.IsMuted() {
		return warn("Speech output", details+" (muted)")
	}
	return domain.HealthCheck{Name: "Speech output", Status: domain.HealthError, Details: details, Required: true}
}

func (s *Service) recognizerCheck(cfg domain.Config) domain.HealthCheck {
	if !cfg.HasRecognizer() {
		return warn("Speech recognizer", "not configured; prompts are typed")
	}
	return s.binaryCheck("Speech recognizer", cfg.Capture.Command, false)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
