// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"

	"github.com/kusari-oss/readmegen/internal/core/config"
	"github.com/kusari-oss/readmegen/internal/core/format"
	"github.com/kusari-oss/readmegen/internal/defaults"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command. loaded returns the configuration resolved by the root command.
func NewConfigCommand(loaded func() *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the readmegen configuration",
	}

	configCmd.AddCommand(newInitCommand())
	configCmd.AddCommand(newShowCommand(loaded))
	configCmd.AddCommand(newSaveCommand(loaded))

	return configCmd
}

// newInitCommand creates the init subcommand
func newInitCommand() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the starter configuration",
		Long:  `Write the starter configuration to path, or to ~/.readmegen/config.yaml when no path is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			path := ""
			if len(args) > 0 {
				path = config.ExpandPathWithTilde(args[0])
			} else {
				var err error
				path, err = config.GlobalConfigFilePath()
				if err != nil {
					return err
				}
			}

			written, err := defaults.WriteConfig(path, force)
			if err != nil {
				return err
			}
			if !written {
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration already exists at %s (use --force to overwrite)\n", path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Configuration written to %s\n", path)
			return nil
		},
	}

	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	return initCmd
}

// newShowCommand creates the show subcommand
func newShowCommand(loaded func() *config.Config) *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loaded()
			if cfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			asJSON, _ := cmd.Flags().GetBool("json")

			shown := *cfg
			shown.Defaults = cfg.Defaults.Redacted()

			out, err := format.FormatData(&shown, !asJSON)
			if err != nil {
				return err
			}

			source := cfg.Source
			if source == "" {
				source = "(built-in defaults)"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "# source: %s\n", source)
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	showCmd.Flags().Bool("json", false, "Print JSON instead of YAML")
	return showCmd
}

// newSaveCommand creates the save subcommand
func newSaveCommand(loaded func() *config.Config) *cobra.Command {
	saveCmd := &cobra.Command{
		Use:   "save [path]",
		Short: "Write the effective configuration to a file",
		Long: `Write the effective configuration, with flags and environment applied, to path
or to ~/.readmegen/config.yaml when no path is given. API keys are never written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loaded()
			if cfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			force, _ := cmd.Flags().GetBool("force")

			var path string
			if len(args) > 0 {
				path = config.ExpandPathWithTilde(args[0])
			} else {
				var err error
				path, err = config.GlobalConfigFilePath()
				if err != nil {
					return err
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", path)
			}

			if len(args) > 0 {
				if err := config.SaveConfig(cfg, path); err != nil {
					return err
				}
			} else if err := config.SaveGlobalConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Configuration saved to %s\n", path)
			return nil
		},
	}

	saveCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	return saveCmd
}
