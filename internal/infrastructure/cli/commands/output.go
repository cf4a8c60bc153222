package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/shai-voice/internal/app"
	"github.com/doeshing/shai-voice/internal/domain"
)

// ContainerFunc returns the container built once flags have been parsed.
type ContainerFunc func() *app.Container

// RenderOutcome prints a turn. The full response goes to the terminal even
// when only a summary is spoken.
func RenderOutcome(w io.Writer, outcome domain.TurnOutcome) {
	if outcome.Exit {
		fmt.Fprintln(w, outcome.SpokenText)
		return
	}
	if outcome.Prompt != "" {
		fmt.Fprintf(w, "You: %s\n", outcome.Prompt)
	}
	switch {
	case outcome.Result.OK() && strings.TrimSpace(outcome.Result.Stdout) != "":
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.TrimRight(outcome.Result.Stdout, "\n"))
		fmt.Fprintln(w)
		if outcome.Summarized {
			fmt.Fprintf(w, "(%s response, spoken as summary: %s)\n", outcome.Category, outcome.SpokenText)
		}
	default:
		fmt.Fprintln(w, outcome.SpokenText)
	}
}

func printBanner(w io.Writer, cfg domain.Config) {
	fmt.Fprintln(w, "shai-voice is listening.")
	if cfg.HasRecognizer() {
		fmt.Fprintln(w, "Press Enter to speak, or type a prompt.")
	} else {
		fmt.Fprintln(w, "Type a prompt and press Enter.")
	}
	if cfg.InterruptionEnabled() {
		fmt.Fprintln(w, "Press Enter while I'm talking to interrupt.")
	}
	fmt.Fprintln(w, "Say or type \"exit\" to quit.")
}
