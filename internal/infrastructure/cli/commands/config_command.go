package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	configapp "github.com/doeshing/shai-voice/internal/application/config"
	"github.com/doeshing/shai-voice/internal/domain"
	configinfra "github.com/doeshing/shai-voice/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(container ContainerFunc) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), container)
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(container),
		newConfigGetCommand(container),
		newConfigValidateCommand(container),
		newConfigDiffCommand(container),
		newConfigInitCommand(container),
	)
	return configCmd
}

func newConfigShowCommand(container ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), container)
		},
	}
}

func newConfigGetCommand(container ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one effective value (e.g. speech.rate)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getConfigurationValue(cmd.OutOrStdout(), container().Config, args[0])
		},
	}
}

func newConfigValidateCommand(container ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Reload and validate every configuration layer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := container()
			if c.ConfigLoader == nil {
				return errors.New(ErrConfigLoaderUnavailable)
			}
			cfg, err := c.ConfigLoader.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := configapp.Validate(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

func newConfigDiffCommand(container ContainerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show how the effective configuration differs from the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd.OutOrStdout(), container().Config)
		},
	}
}

func newConfigInitCommand(container ContainerFunc) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := container()
			if c.ConfigLoader == nil {
				return errors.New(ErrConfigLoaderUnavailable)
			}
			path, err := c.ConfigLoader.WriteDefault(force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// showConfiguration prints the merged configuration and the file it came from
func showConfiguration(out io.Writer, container ContainerFunc) error {
	c := container()
	raw, err := configinfra.Marshal(c.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	fmt.Fprintf(out, "# source: %s\n%s", c.ConfigLoader.Path(), raw)
	return nil
}

// getConfigurationValue prints the value at a dotted key path
func getConfigurationValue(out io.Writer, cfg domain.Config, keyPath string) error {
	raw, err := configinfra.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	var value interface{} = tree
	for _, key := range strings.Split(keyPath, ".") {
		m, ok := value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("key %s not found in configuration", keyPath)
		}
		if value, ok = m[key]; !ok {
			return fmt.Errorf("key %s not found in configuration", keyPath)
		}
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

// showConfigurationDiff compares cfg with the bundled defaults
func showConfigurationDiff(out io.Writer, cfg domain.Config) error {
	defaults, err := configinfra.Defaults()
	if err != nil {
		return err
	}
	diff := cmp.Diff(defaults, cfg)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}
	fmt.Fprintln(out, diff)
	return nil
}
