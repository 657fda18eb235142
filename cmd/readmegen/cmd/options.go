// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/kusari-oss/readmegen/internal/core/format"
	"github.com/kusari-oss/readmegen/internal/defaults"
	"github.com/kusari-oss/readmegen/internal/generator"
	"github.com/spf13/cobra"
)

func newOptionsCommand(ro *rootOptions) *cobra.Command {
	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "Inspect generation options",
	}

	optionsCmd.AddCommand(newOptionsDefaultsCommand(ro))
	optionsCmd.AddCommand(newOptionsSchemaCommand())
	optionsCmd.AddCommand(newOptionsCommandCommand(ro))

	return optionsCmd
}

func newOptionsDefaultsCommand(ro *rootOptions) *cobra.Command {
	defaultsCmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default generation options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			out, err := format.FormatData(ro.cfg.Defaults.Redacted(), !asJSON)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	defaultsCmd.Flags().Bool("json", false, "Print JSON instead of YAML")
	return defaultsCmd
}

func newOptionsSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema generation options are validated against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), string(defaults.OptionsSchema()))
			return nil
		},
	}
}

func newOptionsCommandCommand(ro *rootOptions) *cobra.Command {
	commandCmd := &cobra.Command{
		Use:   "command",
		Short: "Print the generator command line for the given options",
		Long: `Print the readmeai command line that 'generate' would run with the same flags.
The options are validated but nothing is executed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := optionsFromFlags(cmd, ro.cfg.Defaults)
			if err != nil {
				return err
			}
			if opts.Output == "" {
				opts.Output = "README.md"
			}

			service, err := newService(cmd, ro)
			if err != nil {
				return err
			}
			if err := service.Validate(opts); err != nil {
				return err
			}

			toolPath := ro.cfg.ToolPath
			if cmd.Flags().Changed("tool") {
				toolPath, _ = cmd.Flags().GetString("tool")
			}
			backend := generator.NewSubprocessBackend(generator.BackendConfig{ToolPath: toolPath})
			fmt.Fprintln(cmd.OutOrStdout(), backend.Command(opts).String())
			return nil
		},
	}
	addOptionFlags(commandCmd)
	commandCmd.Flags().String("tool", "", "Path to the readmeai executable (overrides tool_path)")
	return commandCmd
}
