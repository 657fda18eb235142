// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	configcmd "github.com/kusari-oss/readmegen/cmd/readmegen/cmd/config"
	"github.com/kusari-oss/readmegen/internal/core/config"
	"github.com/kusari-oss/readmegen/internal/logger"
	"github.com/kusari-oss/readmegen/internal/version"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags and the configuration they resolve to
type rootOptions struct {
	// Configuration path
	configFile string

	verbose   bool
	logLevel  string
	logFormat string

	// Loaded configuration
	cfg *config.Config
}

// NewRootCommand builds the readmegen command tree
func NewRootCommand() *cobra.Command {
	ro := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "readmegen",
		Short: "README generation front end for readmeai",
		Long: `readmegen collects repository and formatting options, runs the readmeai
generator as a child process while streaming its progress, and hands back
the generated Markdown on the command line or over HTTP.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version.Version, version.Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(ro.configFile)
			if err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}
			ro.cfg = cfg

			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = ro.logLevel
			}
			if ro.verbose {
				level = "debug"
			}
			format := cfg.LogFormat
			if cmd.Flags().Changed("log-format") {
				format = ro.logFormat
			}
			logger.Init(level, format, os.Stderr)

			if cfg.Source != "" {
				logger.Default().Debug("configuration loaded", "path", cfg.Source)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&ro.configFile, "config", "", "config file (default is ~/.readmegen/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&ro.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&ro.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&ro.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(newGenerateCommand(ro))
	rootCmd.AddCommand(newServeCommand(ro))
	rootCmd.AddCommand(newOptionsCommand(ro))
	rootCmd.AddCommand(configcmd.NewConfigCommand(func() *config.Config { return ro.cfg }))

	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}
