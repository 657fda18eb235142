// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kusari-oss/readmegen/internal/generator"
	"github.com/kusari-oss/readmegen/internal/session"
	"github.com/kusari-oss/readmegen/internal/web"
	"github.com/spf13/cobra"
)

func newServeCommand(ro *rootOptions) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator over HTTP",
		Long: `Start the HTTP API. POST /api/v1/generate streams generation progress as
server-sent events; the result can be fetched or downloaded per session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ro.cfg

			listen := cfg.ListenAddr
			if cmd.Flags().Changed("listen") {
				listen, _ = cmd.Flags().GetString("listen")
			}

			store := session.NewMemoryStore()
			service, err := newService(cmd, ro, generator.WithStore(store))
			if err != nil {
				return err
			}

			server := web.NewServer(web.Config{
				ListenAddr:   listen,
				DownloadName: cfg.DownloadName,
				Defaults:     cfg.Defaults,
				Debug:        ro.verbose,
			}, service, store)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "🌐 Serving on http://%s\n", listen)
			return server.Run(ctx)
		},
	}

	serveCmd.Flags().StringP("listen", "l", "", "Address to listen on (overrides listen_addr)")
	serveCmd.Flags().String("tool", "", "Path to the readmeai executable (overrides tool_path)")
	serveCmd.Flags().Duration("timeout", 0, "Abort each generation after this long (0 means no limit)")

	return serveCmd
}
