package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/shai-voice/internal/domain"
)

// NewListenCommand creates the listen command
func NewListenCommand(container ContainerFunc, text *string) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Start an interactive voice session (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunListen(cmd, container, *text)
		},
	}
}

// RunListen runs a session until an exit word or end of input. A non-empty
// text answers that single prompt instead of listening.
func RunListen(cmd *cobra.Command, container ContainerFunc, text string) error {
	c := container()
	svc, err := c.VoiceService(text)
	if err != nil {
		return err
	}
	svc.OnResponse = func(outcome domain.TurnOutcome) {
		RenderOutcome(c.Stdout(), outcome)
	}
	if text == "" {
		printBanner(c.Stdout(), c.Config)
	}
	return svc.Session(cmd.Context())
}
