package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-voice/internal/domain"
)

// NewAskCommand creates the ask command
func NewAskCommand(container ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [prompt...]",
		Short: "Send one prompt and speak the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := container()
			svc, err := c.VoiceService("")
			if err != nil {
				return err
			}
			svc.OnResponse = func(outcome domain.TurnOutcome) {
				RenderOutcome(c.Stdout(), outcome)
			}
			_, err = svc.Ask(cmd.Context(), strings.Join(args, " "))
			return err
		},
	}
}
