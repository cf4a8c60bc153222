package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/doeshing/shai-voice/internal/domain"
	"github.com/doeshing/shai-voice/internal/ports"
)

// Console reads lines from the terminal on a single goroutine so that typed
// prompts and playback interrupts can share one input stream.
type Console struct {
	in    io.Reader
	out   io.Writer
	lines chan string
	once  sync.Once
}

// NewConsole wraps in and out. Reading starts on first use.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out, lines: make(chan string)}
}

func (c *Console) start() {
	c.once.Do(func() {
		go func() {
			defer close(c.lines)
			scanner := bufio.NewScanner(c.in)
			for scanner.Scan() {
				c.lines <- scanner.Text()
			}
		}()
	})
}

// ReadLine returns the next line, io.EOF once input is exhausted, or the
// context error.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	c.start()
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// WaitInterrupt treats Enter during playback as a request to stop speaking.
func (c *Console) WaitInterrupt(ctx context.Context) bool {
	_, err := c.ReadLine(ctx)
	return err == nil
}

// TypedCapture takes prompts from the keyboard. When a recognizer is attached,
// an empty line hands over to it (push to talk) and any other line is used as
// typed text.
type TypedCapture struct {
	console    *Console
	prompt     string
	recognizer ports.VoiceCapture
}

// NewTypedCapture builds a keyboard capture. recognizer may be nil.
func NewTypedCapture(console *Console, prompt string, recognizer ports.VoiceCapture) *TypedCapture {
	return &TypedCapture{console: console, prompt: prompt, recognizer: recognizer}
}

// Listen implements ports.VoiceCapture.
func (t *TypedCapture) Listen(ctx context.Context) (domain.CaptureResult, error) {
	if t.prompt != "" && t.console.out != nil {
		fmt.Fprint(t.console.out, t.prompt)
	}
	line, err := t.console.ReadLine(ctx)
	if err != nil {
		return domain.CaptureResult{}, err
	}
	if strings.TrimSpace(line) == "" && t.recognizer != nil {
		if t.console.out != nil {
			fmt.Fprintln(t.console.out, "Listening...")
		}
		return t.recognizer.Listen(ctx)
	}
	return domain.Recognized(line), nil
}

// StaticCapture yields one fixed prompt, then io.EOF.
type StaticCapture struct {
	text string
	used bool
}

// NewStaticCapture backs the --text flag.
func NewStaticCapture(text string) *StaticCapture {
	return &StaticCapture{text: text}
}

// Listen implements ports.VoiceCapture.
func (s *StaticCapture) Listen(context.Context) (domain.CaptureResult, error) {
	if s.used {
		return domain.CaptureResult{}, io.EOF
	}
	s.used = true
	return domain.Recognized(s.text), nil
}

var (
	_ ports.VoiceCapture    = (*TypedCapture)(nil)
	_ ports.VoiceCapture    = (*StaticCapture)(nil)
	_ ports.InterruptSource = (*Console)(nil)
)
