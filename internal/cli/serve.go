package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nag-cli/internal/logging"
	"nag-cli/internal/web"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr        string
		version     float64
		versionFile string
		poll        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve version.json, the help document and the agent push feed",
		Long: strings.TrimSpace(`
Run the deployment origin clients check for updates.

Endpoints:
- GET /version.json  the deployed version descriptor
- GET /help.md       the help document (?lang=hu)
- GET /help          the help document as HTML
- GET /agent         WebSocket; sends {"event":"updateFound",...} when the version changes

With --version-file the descriptor is re-read on every request and polled for changes,
so bumping the number in the file notifies every connected client.
`),
		Example: strings.TrimSpace(`
nag serve --addr 127.0.0.1:3335 --version 1
echo '{"version":2}' > version.json && nag serve --version-file version.json
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(envOr("NAG_LOG_LEVEL", "info"))
			if cmd.Flags().Changed("log-level") {
				level, err = logging.ParseLevel(app.LogLevel)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			log := logging.NewJSON(cmd.ErrOrStderr(), level)

			srv, err := web.NewServer(web.ServerConfig{
				Addr:         addr,
				Version:      version,
				VersionFile:  strings.TrimSpace(versionFile),
				PollInterval: poll,
				CORSOrigins:  splitList(envOr("NAG_CORS_ORIGINS", "*")),
				Logger:       log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ListenAndServe(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("NAG_ADDR", "127.0.0.1:3335"), "Listen address")
	cmd.Flags().Float64Var(&version, "version", 0, "Deployed version number (ignored with --version-file)")
	cmd.Flags().StringVar(&versionFile, "version-file", "", "JSON version descriptor to serve and watch")
	cmd.Flags().DurationVar(&poll, "poll", 2*time.Second, "How often to check the version source for changes")
	return cmd
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
