// Package voice runs the capture, execute, render and speak cycle.
package voice

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doeshing/shai-voice/internal/application/response"
	"github.com/doeshing/shai-voice/internal/domain"
	"github.com/doeshing/shai-voice/internal/observe"
	"github.com/doeshing/shai-voice/internal/ports"
)

// Service orchestrates voice turns. Stages of one turn never overlap; the only
// concurrency is interruptible playback.
type Service struct {
	Config     domain.Config
	Runner     ports.AssistantRunner
	Capture    ports.VoiceCapture
	Speaker    ports.SpeechOutput
	Interrupts ports.InterruptSource
	Logger     ports.Logger
	Metrics    *observe.Metrics

	// OnResponse, when set, sees each outcome before it is spoken.
	OnResponse func(domain.TurnOutcome)
}

func (s *Service) validate() error {
	if s.Runner == nil || s.Capture == nil || s.Speaker == nil || s.Logger == nil {
		return errors.New("voice.Service dependencies not satisfied")
	}
	return nil
}

// Session runs turns until an exit word, end of input or ctx cancellation.
// Recognizer glitches are spoken and the session continues; launch failures
// end it.
func (s *Service) Session(ctx context.Context) error {
	if err := s.validate(); err != nil {
		return err
	}
	for {
		outcome, err := s.Turn(ctx)
		switch {
		case err == nil:
			if outcome.Exit {
				return nil
			}
		case errors.Is(err, io.EOF), ctx.Err() != nil:
			return nil
		case domain.IsFailure(err, domain.FailureTimeout):
			// already spoken; the next turn may succeed
		case domain.IsFailure(err, domain.FailureUnexpectedCapture):
			s.Logger.Warn("unexpected capture result", map[string]interface{}{"error": err.Error()})
			if _, speakErr := s.speak(ctx, MessageCaptureUnknown); speakErr != nil && ctx.Err() == nil {
				return speakErr
			}
		default:
			return err
		}
	}
}

// Turn captures one utterance and answers it.
func (s *Service) Turn(ctx context.Context) (domain.TurnOutcome, error) {
	if err := s.validate(); err != nil {
		return domain.TurnOutcome{}, err
	}

	captured, err := s.Capture.Listen(ctx)
	if err != nil {
		return domain.TurnOutcome{}, err
	}

	switch captured.Kind {
	case domain.CaptureTimeout:
		return s.say(ctx, domain.TurnOutcome{}, MessageNothingHeard)
	case domain.CaptureError:
		s.Logger.Warn("speech recognition failed", map[string]interface{}{"message": captured.Message})
		return s.say(ctx, domain.TurnOutcome{}, MessageCaptureFailed+".")
	case domain.CaptureRecognized:
	default:
		return domain.TurnOutcome{}, domain.NewUnexpectedCapture("unknown capture kind "+string(captured.Kind), nil)
	}

	prompt, ok := captured.Prompt()
	if !ok {
		return s.say(ctx, domain.TurnOutcome{}, MessageNothingHeard)
	}
	if IsExitWord(prompt) {
		return s.say(ctx, domain.TurnOutcome{Prompt: prompt, Exit: true}, MessageGoodbye)
	}
	return s.Ask(ctx, prompt)
}

// Ask sends a prompt to the assistant and speaks the rendered answer.
func (s *Service) Ask(ctx context.Context, prompt string) (domain.TurnOutcome, error) {
	if err := s.validate(); err != nil {
		return domain.TurnOutcome{}, err
	}

	s.Logger.Info("sending prompt", map[string]interface{}{"chars": len(prompt)})
	result, err := s.Runner.Execute(ctx, prompt, s.Config.AssistantTimeout())
	if err != nil {
		return domain.TurnOutcome{Prompt: prompt}, err
	}

	outcome := domain.TurnOutcome{Prompt: prompt, Result: result}
	switch {
	case result.Status == domain.StatusCancelled:
		return outcome, ctx.Err()
	case !result.OK():
		s.Logger.Warn("assistant failed", map[string]interface{}{
			"status":  string(result.Status),
			"message": result.Message,
		})
		outcome.SpokenText = response.Normalize(StatusMessage(result))
	case response.WordCount(result.Stdout) == 0:
		outcome.SpokenText = MessageEmptyResponse
	default:
		rendered := response.Render(result.Stdout, response.OptionsFrom(s.Config))
		outcome.Category = rendered.Category
		outcome.Summarized = rendered.Summarized
		outcome.SpokenText = rendered.Text
		if s.Metrics != nil {
			s.Metrics.RecordResponse(ctx, rendered.Category, rendered.Summarized)
		}
	}

	if s.OnResponse != nil {
		s.OnResponse(outcome)
	}
	interrupted, err := s.speak(ctx, outcome.SpokenText)
	outcome.Interrupted = interrupted
	if err != nil {
		return outcome, err
	}
	if result.Status == domain.StatusTimeout {
		return outcome, domain.NewTimeout("assistant exceeded " + s.Config.AssistantTimeout().String())
	}
	return outcome, nil
}

func (s *Service) say(ctx context.Context, outcome domain.TurnOutcome, text string) (domain.TurnOutcome, error) {
	outcome.SpokenText = text
	if s.OnResponse != nil {
		s.OnResponse(outcome)
	}
	interrupted, err := s.speak(ctx, text)
	outcome.Interrupted = interrupted
	return outcome, err
}

// speak plays text. With interruption enabled, playback runs alongside a
// watcher on the interrupt source; whichever finishes first cancels the other
// and speak returns only after both have stopped.
func (s *Service) speak(ctx context.Context, text string) (bool, error) {
	if text == "" {
		return false, nil
	}
	voice := s.Config.Voice()
	start := time.Now()

	if !s.Config.InterruptionEnabled() || s.Interrupts == nil {
		err := s.Speaker.Speak(ctx, text, voice)
		s.recordSpeech(ctx, start, false)
		return false, err
	}

	playCtx, stop := context.WithCancel(ctx)
	defer stop()
	var interrupted atomic.Bool

	g, gctx := errgroup.WithContext(playCtx)
	g.Go(func() error {
		defer stop()
		err := s.Speaker.Speak(gctx, text, voice)
		if interrupted.Load() && errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if s.Interrupts.WaitInterrupt(gctx) {
			interrupted.Store(true)
			s.Logger.Debug("playback interrupted", nil)
			stop()
		}
		return nil
	})
	err := g.Wait()
	s.recordSpeech(ctx, start, interrupted.Load())
	return interrupted.Load(), err
}

func (s *Service) recordSpeech(ctx context.Context, start time.Time, interrupted bool) {
	if s.Metrics != nil {
		s.Metrics.RecordSpeech(context.WithoutCancel(ctx), time.Since(start), interrupted)
	}
}
