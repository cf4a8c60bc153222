package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/shai-voice/internal/app"
	"github.com/doeshing/shai-voice/internal/infrastructure/cli/commands"
	"github.com/doeshing/shai-voice/internal/infrastructure/config"
)

const closeTimeout = 5 * time.Second

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// Execute runs the command line and releases the container afterwards, so
// exported metrics are flushed on every exit path.
func Execute(ctx context.Context, opts Options, args []string) error {
	root, state := newRoot(opts)
	if args != nil {
		root.SetArgs(args)
	}
	err := root.ExecuteContext(ctx)

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
	defer cancel()
	if closeErr := state.container.Close(closeCtx); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// NewRootCmd wires the cobra root command. The container is built after flag
// parsing so that flags take part in configuration precedence.
func NewRootCmd(opts Options) *cobra.Command {
	root, _ := newRoot(opts)
	return root
}

type rootState struct {
	container *app.Container
	text      string
	verbose   bool
}

func newRoot(opts Options) (*cobra.Command, *rootState) {
	state := &rootState{verbose: opts.Verbose}
	container := func() *app.Container { return state.container }

	root := &cobra.Command{
		Use:   "shai-voice",
		Short: "Talk to the Claude CLI",
		Long:  "shai-voice captures a spoken or typed prompt, runs the assistant CLI and reads the answer aloud.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.BuildContainer(cmd.Context(), app.Options{
				Flags:   cmd.Flags(),
				Verbose: state.verbose,
				Stdin:   cmd.InOrStdin(),
				Stdout:  cmd.OutOrStdout(),
				Stderr:  cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			if !state.verbose && isTerminal(c.Stderr()) {
				c.SetRunner(newSpinnerRunner(c.Runner, c.Stderr()))
			}
			state.container = c
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunListen(cmd, container, state.text)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	config.RegisterFlags(flags)
	flags.StringVar(&state.text, "text", "", "use this prompt instead of listening")
	flags.BoolVarP(&state.verbose, "verbose", "v", state.verbose, "debug logging")

	root.AddCommand(
		commands.NewListenCommand(container, &state.text),
		commands.NewAskCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewConfigCommand(container),
		commands.NewVersionCommand(),
	)
	return root, state
}

func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
