// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kusari-oss/readmegen/internal/core/config"
	"github.com/kusari-oss/readmegen/internal/core/policy"
	"github.com/kusari-oss/readmegen/internal/core/schema"
	"github.com/kusari-oss/readmegen/internal/core/template"
	"github.com/kusari-oss/readmegen/internal/generator"
	"github.com/kusari-oss/readmegen/internal/session"
	"github.com/spf13/cobra"
)

func newGenerateCommand(ro *rootOptions) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a README for a repository",
		Long: `Generate a README by running the readmeai generator with the given options.
Options are taken from the configuration defaults, then --options-file, then flags.
The generator's progress is streamed to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ro)
		},
	}

	addOptionFlags(generateCmd)
	generateCmd.Flags().String("tool", "", "Path to the readmeai executable (overrides tool_path)")
	generateCmd.Flags().Duration("timeout", 0, "Abort the generation after this long (0 means no limit)")
	generateCmd.Flags().Bool("stdout", false, "Print the generated Markdown to stdout")
	generateCmd.Flags().Bool("from-stdout", false, "Read the README from the generator's standard output")

	return generateCmd
}

func runGenerate(cmd *cobra.Command, ro *rootOptions) error {
	cfg := ro.cfg
	opts, err := optionsFromFlags(cmd, cfg.Defaults)
	if err != nil {
		return err
	}

	printContent, _ := cmd.Flags().GetBool("stdout")
	if opts.Output == "" && !printContent {
		opts.Output, err = template.DownloadName(cfg.DownloadName, opts)
		if err != nil {
			return fmt.Errorf("error rendering output name: %w", err)
		}
	}

	service, err := newService(cmd, ro)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "🚀 %s\n", template.ProgressMessage(opts))

	sess := session.New()
	err = service.Generate(ctx, sess, opts, generator.StreamWriter(stderr))
	if err != nil {
		var invalid *generator.InvalidOptionsError
		if errors.As(err, &invalid) {
			return err
		}
		fmt.Fprintf(stderr, "❌ %s\n", generator.FailureMessage)
		return err
	}

	fmt.Fprintln(stderr, "✅ README file generated successfully!")
	if printContent {
		fmt.Fprint(cmd.OutOrStdout(), sess.Content)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "README written to %s\n", opts.Output)
	return nil
}

// newService wires the backend, schema and policy for the loaded configuration
func newService(cmd *cobra.Command, ro *rootOptions, extra ...generator.ServiceOption) (*generator.Service, error) {
	cfg := ro.cfg

	toolPath := cfg.ToolPath
	if cmd.Flags().Changed("tool") {
		toolPath, _ = cmd.Flags().GetString("tool")
		toolPath = config.ExpandPathWithTilde(toolPath)
	}
	timeout := cfg.Timeout
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	fromStdout, _ := cmd.Flags().GetBool("from-stdout")

	backend := generator.NewSubprocessBackend(generator.BackendConfig{
		ToolPath:       toolPath,
		Timeout:        timeout,
		Verbose:        ro.verbose,
		StdoutToOutput: fromStdout,
	})

	validator, err := schema.NewOptionsValidator()
	if err != nil {
		return nil, err
	}
	evaluator, err := policy.NewEvaluator(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("error compiling rules: %w", err)
	}

	serviceOpts := []generator.ServiceOption{
		generator.WithValidator(validator),
		generator.WithPolicy(evaluator),
		generator.WithOutputDir(cfg.OutputDir),
	}
	return generator.NewService(backend, append(serviceOpts, extra...)...), nil
}
