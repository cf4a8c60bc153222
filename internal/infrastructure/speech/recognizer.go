package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/shai-voice/internal/domain"
	"github.com/doeshing/shai-voice/internal/ports"
)

// recognizerReply is the single JSON object a recognizer helper prints, e.g.
//
//	{"status":"recognized","text":"list my files"}
//	{"status":"timeout"}
//	{"status":"error","message":"microphone unavailable"}
type recognizerReply struct {
	Status  string `json:"status"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

// CommandRecognizer captures speech by running an external recognizer helper.
type CommandRecognizer struct {
	command string
	args    []string
	timeout time.Duration
	logger  ports.Logger
}

// NewCommandRecognizer builds a recognizer from the capture settings.
func NewCommandRecognizer(settings domain.CaptureSettings, timeout time.Duration, logger ports.Logger) *CommandRecognizer {
	if logger == nil {
		logger = nopLogger{}
	}
	return &CommandRecognizer{
		command: settings.Command,
		args:    append([]string(nil), settings.Args...),
		timeout: timeout,
		logger:  logger,
	}
}

// Listen runs the helper once. A helper that overruns the capture timeout is
// reported as a timeout capture; a reply outside the three known shapes is an
// UnexpectedCaptureResult failure.
func (r *CommandRecognizer) Listen(ctx context.Context) (domain.CaptureResult, error) {
	listenCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		listenCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(listenCtx, r.command, r.args...)
	cmd.WaitDelay = playbackWaitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return domain.CaptureResult{}, ctx.Err()
	}
	if errors.Is(listenCtx.Err(), context.DeadlineExceeded) {
		r.logger.Debug("recognizer timed out", map[string]interface{}{"timeout": r.timeout.String()})
		return domain.CaptureTimedOut(), nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return domain.CaptureResult{}, domain.NewLaunchFailure(r.command, err)
		}
		r.logger.Debug("recognizer exited non-zero", map[string]interface{}{
			"exit_code": exitErr.ExitCode(),
			"stderr":    strings.TrimSpace(stderr.String()),
		})
	}
	return ParseRecognizerReply(stdout.Bytes())
}

// ParseRecognizerReply decodes one helper reply.
func ParseRecognizerReply(data []byte) (domain.CaptureResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return domain.CaptureResult{}, domain.NewUnexpectedCapture("recognizer printed nothing", nil)
	}

	var reply recognizerReply
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&reply); err != nil {
		return domain.CaptureResult{}, domain.NewUnexpectedCapture("recognizer reply is not valid JSON", err)
	}

	switch domain.CaptureKind(reply.Status) {
	case domain.CaptureRecognized:
		if strings.TrimSpace(reply.Text) == "" {
			return domain.CaptureResult{}, domain.NewUnexpectedCapture("recognized reply without text", nil)
		}
		return domain.Recognized(reply.Text), nil
	case domain.CaptureTimeout:
		return domain.CaptureTimedOut(), nil
	case domain.CaptureError:
		return domain.CaptureFailed(reply.Message), nil
	default:
		return domain.CaptureResult{}, domain.NewUnexpectedCapture(fmt.Sprintf("unknown recognizer status %q", reply.Status), nil)
	}
}

var _ ports.VoiceCapture = (*CommandRecognizer)(nil)
