// Package executor runs the external assistant CLI for one prompt.
package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/shai-voice/internal/domain"
	"github.com/doeshing/shai-voice/internal/observe"
	"github.com/doeshing/shai-voice/internal/ports"
)

const partialOutputLogLimit = 512

// Runner invokes the assistant binary with the prompt as its last argument.
type Runner struct {
	command     string
	args        []string
	gracePeriod time.Duration
	tempDir     string
	logger      ports.Logger
	metrics     *observe.Metrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithGracePeriod sets how long a terminated process gets before SIGKILL.
func WithGracePeriod(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.gracePeriod = d
		}
	}
}

// WithTempDir places capture files in dir instead of os.TempDir().
func WithTempDir(dir string) Option {
	return func(r *Runner) { r.tempDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records every execution on m.
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner builds a runner for the configured assistant command.
func NewRunner(settings domain.AssistantSettings, opts ...Option) *Runner {
	command := settings.Command
	if command == "" {
		command = domain.DefaultAssistantCommand
	}
	r := &Runner{
		command:     command,
		args:        append([]string(nil), settings.Args...),
		gracePeriod: time.Duration(domain.DefaultGracePeriodSeconds) * time.Second,
		logger:      nopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute implements ports.AssistantRunner.
//
// Output is captured in temporary files rather than pipes so that Wait returns
// as soon as the assistant exits, even if a grandchild still holds the
// descriptors. Both files are removed on every path.
func (r *Runner) Execute(ctx context.Context, prompt string, timeout time.Duration) (domain.ExecutionResult, error) {
	if timeout <= 0 {
		timeout = time.Duration(domain.DefaultAssistantTimeoutSeconds) * time.Second
	}

	stdoutFile, err := os.CreateTemp(r.tempDir, "shai-voice-stdout-*")
	if err != nil {
		return domain.ExecutionResult{}, domain.NewGeneral("create stdout capture", err)
	}
	defer r.discard(stdoutFile)
	stderrFile, err := os.CreateTemp(r.tempDir, "shai-voice-stderr-*")
	if err != nil {
		return domain.ExecutionResult{}, domain.NewGeneral("create stderr capture", err)
	}
	defer r.discard(stderrFile)

	args := append(append([]string(nil), r.args...), prompt)
	cmd := exec.Command(r.command, args...)
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile
	configureProcessGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return domain.ExecutionResult{}, domain.NewLaunchFailure(r.command, err)
	}
	r.logger.Debug("assistant started", map[string]interface{}{
		"command": r.command,
		"pid":     cmd.Process.Pid,
		"timeout": timeout.String(),
	})

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var (
		waitErr     error
		interrupted domain.ExecutionStatus
	)
	select {
	case waitErr = <-done:
	case <-timer.C:
		interrupted = domain.StatusTimeout
		waitErr = r.stop(cmd, done)
	case <-ctx.Done():
		interrupted = domain.StatusCancelled
		waitErr = r.stop(cmd, done)
	}

	result := domain.ExecutionResult{
		Stdout:     readCapture(stdoutFile),
		Stderr:     readCapture(stderrFile),
		ExitCode:   exitCode(cmd, waitErr),
		DurationMS: time.Since(start).Milliseconds(),
	}

	if interrupted != "" {
		r.logger.Debug("assistant stopped before completion", map[string]interface{}{
			"status":         string(interrupted),
			"partial_stdout": truncate(result.Stdout, partialOutputLogLimit),
			"partial_stderr": truncate(result.Stderr, partialOutputLogLimit),
		})
		result.Status = interrupted
		result.Stdout = ""
		result.Stderr = ""
	} else {
		result.Status = ClassifyOutcome(result.Stderr, result.ExitCode)
		if result.Status != domain.StatusSuccess {
			result.Message = RelevantLine(result.Stderr, result.Status)
		}
	}

	r.logger.Info("assistant finished", map[string]interface{}{
		"status":      string(result.Status),
		"exit_code":   result.ExitCode,
		"duration_ms": result.DurationMS,
	})
	if r.metrics != nil {
		r.metrics.RecordExecution(context.WithoutCancel(ctx), result)
	}
	return result, nil
}

// stop sends SIGTERM to the process group, waits up to the grace period and
// then sends SIGKILL. It always returns after the wait goroutine has finished.
func (r *Runner) stop(cmd *exec.Cmd, done <-chan error) error {
	if err := terminateProcess(cmd); err != nil {
		r.logger.Debug("terminate failed", map[string]interface{}{"error": err.Error()})
	}
	grace := time.NewTimer(r.gracePeriod)
	defer grace.Stop()
	select {
	case err := <-done:
		return err
	case <-grace.C:
	}
	r.logger.Warn("assistant ignored termination, killing", map[string]interface{}{"pid": cmd.Process.Pid})
	if err := killProcess(cmd); err != nil {
		r.logger.Debug("kill failed", map[string]interface{}{"error": err.Error()})
	}
	return <-done
}

func (r *Runner) discard(f *os.File) {
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("capture file not removed", map[string]interface{}{"path": name, "error": err.Error()})
	}
}

func readCapture(f *os.File) string {
	data, err := os.ReadFile(f.Name())
	if err != nil {
		return ""
	}
	return string(data)
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if waitErr != nil {
		return -1
	}
	return 0
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

var _ ports.AssistantRunner = (*Runner)(nil)
