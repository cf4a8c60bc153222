package voice

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/doeshing/shai-voice/internal/domain"
	"github.com/doeshing/shai-voice/internal/pkg/logger"
	"github.com/doeshing/shai-voice/internal/ports"
)

func TestAskSpeaksShortResponseUnchanged(t *testing.T) {
	speaker := &stubSpeaker{}
	runner := &stubRunner{result: domain.ExecutionResult{Status: domain.StatusSuccess, Stdout: "a == b\nline two\n"}}
	svc := newTestService(runner, &stubCapture{}, speaker)

	outcome, err := svc.Ask(context.Background(), "compare")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if outcome.Summarized {
		t.Fatal("short response should not be summarized")
	}
	if want := "a equals equals b line two"; speaker.last() != want {
		t.Fatalf("spoken %q, want %q", speaker.last(), want)
	}
	if runner.prompt != "compare" || runner.timeout != 60*time.Second {
		t.Fatalf("runner called with %q / %s", runner.prompt, runner.timeout)
	}
}

func TestAskSummarizesLongResponse(t *testing.T) {
	var lines []string
	for i := 0; i < 60; i++ {
		lines = append(lines, "entry")
	}
	speaker := &stubSpeaker{}
	runner := &stubRunner{result: domain.ExecutionResult{Status: domain.StatusSuccess, Stdout: strings.Join(lines, "\n")}}
	svc := newTestService(runner, &stubCapture{}, speaker)

	outcome, err := svc.Ask(context.Background(), "list")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !outcome.Summarized || outcome.Category != domain.CategoryGeneric {
		t.Fatalf("outcome = %+v", outcome)
	}
	if !strings.Contains(speaker.last(), "and 50 more lines") {
		t.Fatalf("spoken %q", speaker.last())
	}
}

func TestAskSpeaksStatusMessages(t *testing.T) {
	tests := []struct {
		status  domain.ExecutionStatus
		message string
		want    string
		wantErr domain.FailureCode
	}{
		{status: domain.StatusAuthError, want: "not signed in"},
		{status: domain.StatusNetworkError, want: "internet connection"},
		{status: domain.StatusRateLimited, want: "rate limited"},
		{status: domain.StatusGeneralError, message: "boom", want: "reported an error: boom"},
		{status: domain.StatusTimeout, want: "took too long", wantErr: domain.FailureTimeout},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			speaker := &stubSpeaker{}
			runner := &stubRunner{result: domain.ExecutionResult{Status: tt.status, Message: tt.message, Stdout: "ignored output"}}
			svc := newTestService(runner, &stubCapture{}, speaker)

			outcome, err := svc.Ask(context.Background(), "hi")
			if tt.wantErr != "" {
				if !domain.IsFailure(err, tt.wantErr) {
					t.Fatalf("err = %v, want %s", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Ask() error = %v", err)
			}
			if !strings.Contains(speaker.last(), tt.want) {
				t.Fatalf("spoken %q, want it to contain %q", speaker.last(), tt.want)
			}
			if outcome.Category != "" {
				t.Fatal("failed results must not be classified")
			}
		})
	}
}

func TestAskLaunchFailure(t *testing.T) {
	speaker := &stubSpeaker{}
	runner := &stubRunner{err: domain.NewLaunchFailure("claude", errors.New("not found"))}
	svc := newTestService(runner, &stubCapture{}, speaker)

	_, err := svc.Ask(context.Background(), "hi")
	if domain.ExitCodeFor(err) != domain.ExitDependencyMissing {
		t.Fatalf("exit code = %d", domain.ExitCodeFor(err))
	}
	if speaker.count() != 0 {
		t.Fatal("nothing should be spoken after a launch failure")
	}
}

func TestTurnHandlesCaptureShapes(t *testing.T) {
	tests := []struct {
		name     string
		capture  domain.CaptureResult
		wantText string
		exit     bool
	}{
		{name: "timeout", capture: domain.CaptureTimedOut(), wantText: MessageNothingHeard},
		{name: "error", capture: domain.CaptureFailed("mic busy"), wantText: "Speech recognition failed."},
		{name: "blank", capture: domain.Recognized("   "), wantText: MessageNothingHeard},
		{name: "exit word", capture: domain.Recognized(" Goodbye! "), wantText: MessageGoodbye, exit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{}
			speaker := &stubSpeaker{}
			svc := newTestService(runner, &stubCapture{results: []domain.CaptureResult{tt.capture}}, speaker)

			outcome, err := svc.Turn(context.Background())
			if err != nil {
				t.Fatalf("Turn() error = %v", err)
			}
			if outcome.Exit != tt.exit {
				t.Fatalf("exit = %v", outcome.Exit)
			}
			if speaker.last() != tt.wantText {
				t.Fatalf("spoken %q, want %q", speaker.last(), tt.wantText)
			}
			if runner.calls != 0 {
				t.Fatal("runner must not be called")
			}
		})
	}
}

func TestSessionRunsUntilExitWord(t *testing.T) {
	capture := &stubCapture{results: []domain.CaptureResult{
		domain.Recognized("first question"),
		domain.CaptureTimedOut(),
		domain.Recognized("second question"),
		domain.Recognized("stop listening"),
		domain.Recognized("never asked"),
	}}
	runner := &stubRunner{result: domain.ExecutionResult{Status: domain.StatusSuccess, Stdout: "answer"}}
	svc := newTestService(runner, capture, &stubSpeaker{})

	if err := svc.Session(context.Background()); err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if runner.calls != 2 {
		t.Fatalf("runner calls = %d, want 2", runner.calls)
	}
}

func TestSessionEndsOnEOFAndContinuesAfterTimeout(t *testing.T) {
	capture := &stubCapture{results: []domain.CaptureResult{domain.Recognized("slow one")}}
	runner := &stubRunner{result: domain.ExecutionResult{Status: domain.StatusTimeout}}
	svc := newTestService(runner, capture, &stubSpeaker{})

	if err := svc.Session(context.Background()); err != nil {
		t.Fatalf("Session() error = %v", err)
	}
}

func TestSessionContinuesAfterUnexpectedCapture(t *testing.T) {
	capture := &stubCapture{
		results: []domain.CaptureResult{{}, domain.Recognized("quit")},
		errs:    []error{domain.NewUnexpectedCapture("garbage", nil), nil},
	}
	speaker := &stubSpeaker{}
	svc := newTestService(&stubRunner{}, capture, speaker)

	if err := svc.Session(context.Background()); err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	if speaker.count() != 2 || speaker.spoken[0] != MessageCaptureUnknown {
		t.Fatalf("spoken = %q", speaker.spoken)
	}
}

func TestInterruptStopsPlayback(t *testing.T) {
	speaker := &blockingSpeaker{started: make(chan struct{})}
	interrupts := &signalInterrupt{fire: speaker.started}
	runner := &stubRunner{result: domain.ExecutionResult{Status: domain.StatusSuccess, Stdout: "long answer"}}

	svc := newTestService(runner, &stubCapture{}, speaker)
	svc.Config.Speech.EnableInterruption = domain.BoolPtr(true)
	svc.Interrupts = interrupts

	done := make(chan struct{})
	var outcome domain.TurnOutcome
	var err error
	go func() {
		outcome, err = svc.Ask(context.Background(), "talk")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Ask did not return after interrupt")
	}
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !outcome.Interrupted {
		t.Fatal("outcome should be marked interrupted")
	}
	if !speaker.stopped.Load() {
		t.Fatal("playback must have returned before Ask")
	}
}

func TestPlaybackWithoutInterruptCompletes(t *testing.T) {
	speaker := &stubSpeaker{}
	svc := newTestService(&stubRunner{result: domain.ExecutionResult{Status: domain.StatusSuccess, Stdout: "done"}}, &stubCapture{}, speaker)
	svc.Config.Speech.EnableInterruption = domain.BoolPtr(true)
	svc.Interrupts = &signalInterrupt{}

	outcome, err := svc.Ask(context.Background(), "x")
	if err != nil || outcome.Interrupted {
		t.Fatalf("outcome = %+v, err = %v", outcome, err)
	}
}

func TestStatusMessageAndExitWords(t *testing.T) {
	if got := StatusMessage(domain.ExecutionResult{Status: domain.StatusGeneralError}); got != "The assistant reported an error." {
		t.Fatalf("StatusMessage() = %q", got)
	}
	for _, word := range []string{"exit", "QUIT", "stop  listening.", "q"} {
		if !IsExitWord(word) {
			t.Errorf("IsExitWord(%q) = false", word)
		}
	}
	if IsExitWord("exit the editor") {
		t.Error("exit words must be the whole utterance")
	}
}

func newTestService(runner *stubRunner, capture *stubCapture, speaker ports.SpeechOutput) *Service {
	return &Service{
		Runner:  runner,
		Capture: capture,
		Speaker: speaker,
		Logger:  logger.Nop(),
	}
}

type stubRunner struct {
	result  domain.ExecutionResult
	err     error
	calls   int
	prompt  string
	timeout time.Duration
}

func (s *stubRunner) Execute(_ context.Context, prompt string, timeout time.Duration) (domain.ExecutionResult, error) {
	s.calls++
	s.prompt = prompt
	s.timeout = timeout
	return s.result, s.err
}

type stubCapture struct {
	results []domain.CaptureResult
	errs    []error
	next    int
}

func (s *stubCapture) Listen(context.Context) (domain.CaptureResult, error) {
	if s.next >= len(s.results) {
		return domain.CaptureResult{}, io.EOF
	}
	i := s.next
	s.next++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return s.results[i], err
}

type stubSpeaker struct {
	mu     sync.Mutex
	spoken []string
}

func (s *stubSpeaker) Speak(_ context.Context, text string, _ domain.VoiceSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
	return nil
}

func (s *stubSpeaker) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.spoken) == 0 {
		return ""
	}
	return s.spoken[len(s.spoken)-1]
}

func (s *stubSpeaker) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.spoken)
}

// blockingSpeaker plays until its context is cancelled.
type blockingSpeaker struct {
	started chan struct{}
	stopped atomic.Bool
}

func (b *blockingSpeaker) Speak(ctx context.Context, _ string, _ domain.VoiceSettings) error {
	close(b.started)
	<-ctx.Done()
	b.stopped.Store(true)
	return ctx.Err()
}

// signalInterrupt fires once fire is closed; a nil fire never interrupts.
type signalInterrupt struct {
	fire chan struct{}
}

func (s *signalInterrupt) WaitInterrupt(ctx context.Context) bool {
	if s.fire == nil {
		<-ctx.Done()
		return false
	}
	select {
	case <-s.fire:
		return true
	case <-ctx.Done():
		return false
	}
}
