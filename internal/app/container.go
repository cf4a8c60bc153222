package app

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	configapp "github.com/doeshing/shai-voice/internal/application/config"
	"github.com/doeshing/shai-voice/internal/application/doctor"
	"github.com/doeshing/shai-voice/internal/application/voice"
	"github.com/doeshing/shai-voice/internal/domain"
	"github.com/doeshing/shai-voice/internal/infrastructure/config"
	"github.com/doeshing/shai-voice/internal/infrastructure/executor"
	"github.com/doeshing/shai-voice/internal/infrastructure/speech"
	"github.com/doeshing/shai-voice/internal/observe"
	"github.com/doeshing/shai-voice/internal/pkg/logger"
	"github.com/doeshing/shai-voice/internal/ports"
	"github.com/doeshing/shai-voice/internal/version"
)

// Options carries what the command line knows before the container exists.
type Options struct {
	Flags   *pflag.FlagSet
	Verbose bool
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config        domain.Config
	ConfigLoader  *config.Loader
	Logger        ports.Logger
	Locator       ports.DependencyLocator
	Metrics       *observe.Metrics
	Runner        ports.AssistantRunner
	DoctorService *doctor.Service

	opts    Options
	console *speech.Console
	flush   func(context.Context) error
}

// BuildContainer loads configuration and constructs the services that do not
// need audio devices. A config problem is returned as a config failure.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	loader := config.NewLoader(config.WithFlags(opts.Flags))
	cfg, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := configapp.Validate(cfg); err != nil {
		return nil, err
	}

	log := logger.New(opts.Stderr, cfg.LogLevel, opts.Verbose)
	metrics, flush, err := buildMetrics(ctx, cfg, opts.Stderr)
	if err != nil {
		return nil, err
	}
	locator := executor.PathLocator{}

	runner := executor.NewRunner(cfg.Assistant,
		executor.WithGracePeriod(cfg.GracePeriod()),
		executor.WithLogger(log),
		executor.WithMetrics(metrics),
	)

	engines := make([]string, 0, 2)
	for _, e := range speech.CandidateEngines(runtime.GOOS) {
		engines = append(engines, string(e))
	}

	log.Debug("configuration loaded", map[string]interface{}{
		"path":      loader.Path(),
		"assistant": cfg.Assistant.Command,
		"timeout":   cfg.AssistantTimeout().String(),
	})

	return &Container{
		Config:       cfg,
		ConfigLoader: loader,
		Logger:       log,
		Locator:      locator,
		Metrics:      metrics,
		Runner:       runner,
		DoctorService: &doctor.Service{
			ConfigProvider: loader,
			Locator:        locator,
			SpeechEngines:  engines,
			VersionProbe:   executor.ProbeVersion,
		},
		opts:    opts,
		console: speech.NewConsole(opts.Stdin, opts.Stdout),
		flush:   flush,
	}, nil
}

// buildMetrics returns no-op instruments unless metrics are enabled, in which
// case an exporting provider is installed and its flush function returned.
func buildMetrics(ctx context.Context, cfg domain.Config, w io.Writer) (*observe.Metrics, func(context.Context) error, error) {
	if !cfg.MetricsEnabled() {
		return observe.DefaultMetrics(), nil, nil
	}
	mp, flush, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceVersion: version.Version,
		Writer:         w,
	})
	if err != nil {
		return nil, nil, domain.NewGeneral("start metrics export", err)
	}
	metrics, err := observe.NewMetrics(mp)
	if err != nil {
		_ = flush(ctx)
		return nil, nil, domain.NewGeneral("create metrics", err)
	}
	return metrics, flush, nil
}

// Close flushes exported metrics. It is safe to call on every container.
func (c *Container) Close(ctx context.Context) error {
	if c == nil || c.flush == nil {
		return nil
	}
	flush := c.flush
	c.flush = nil
	return flush(ctx)
}

// VoiceService builds the interaction service. A non-empty text replaces
// capture with that single prompt. Speech output is resolved here so that
// commands which never speak do not require a speech engine.
func (c *Container) VoiceService(text string) (*voice.Service, error) {
	speaker, err := c.speaker()
	if err != nil {
		return nil, err
	}
	return &voice.Service{
		Config:     c.Config,
		Runner:     c.Runner,
		Capture:    c.capture(text),
		Speaker:    speaker,
		Interrupts: c.console,
		Logger:     c.Logger,
		Metrics:    c.Metrics,
	}, nil
}

func (c *Container) speaker() (ports.SpeechOutput, error) {
	if c.Config.IsMuted() {
		return speech.NewSilent(c.Logger), nil
	}
	return speech.NewSystemSpeaker(c.Locator, c.Logger)
}

func (c *Container) capture(text string) ports.VoiceCapture {
	if text != "" {
		return speech.NewStaticCapture(text)
	}
	var recognizer ports.VoiceCapture
	if c.Config.HasRecognizer() {
		recognizer = speech.NewCommandRecognizer(c.Config.Capture, c.Config.CaptureTimeout(), c.Logger)
	}
	return speech.NewTypedCapture(c.console, "> ", recognizer)
}

// SetRunner swaps the assistant runner, e.g. to decorate it for the terminal.
func (c *Container) SetRunner(r ports.AssistantRunner) {
	c.Runner = r
}

// Stdout returns the writer for user-facing output.
func (c *Container) Stdout() io.Writer {
	return c.opts.Stdout
}

// Stderr returns the writer for progress output.
func (c *Container) Stderr() io.Writer {
	return c.opts.Stderr
}
