package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-voice/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the assistant, speech and recognizer setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := container()
			if c.DoctorService == nil {
				return errors.New(ErrDoctorServiceUnavailable)
			}
			report, err := c.DoctorService.Run(cmd.Context())

			// Display report even if there were errors
			displayDoctorReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}

// displayDoctorReport displays the health check report
func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		marker := ""
		if check.Required && check.Status == domain.HealthError {
			marker = " (required)"
		}
		fmt.Fprintf(out, "[%s] %s - %s%s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details,
			marker)
	}
}
