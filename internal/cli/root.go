package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nag-cli/internal/agent"
	"nag-cli/internal/format"
	"nag-cli/internal/journal"
	"nag-cli/internal/logging"
	"nag-cli/internal/model"
	"nag-cli/internal/share"
	"nag-cli/internal/store"
	"nag-cli/internal/tui"
	"nag-cli/internal/update"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	ServerURL  string
	Locale     string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg *store.GlobalConfig
	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "nag",
		Short:        "Thought record journal (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the journal
  nag

  # Scriptable commands
  nag records list --format text
  nag export --out thought-records.json

  # Serve version.json and the agent feed for clients
  nag serve --addr 127.0.0.1:3335 --version-file ./version.json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("NAG_DIR", ""), "Data directory (default: <config>/data)")
	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("NAG_SERVER_URL", ""), "Deployment origin serving /version.json (default: config serverUrl)")
	cmd.PersistentFlags().StringVar(&app.Locale, "locale", envOr("NAG_LOCALE", ""), "Prompt language (en|hu; default: config locale, then LANG)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("NAG_FORMAT", "json"), "Output format (json|text)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("NAG_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newRecordsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newUpdateCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// init resolves config-file defaults under the flags and sets up stderr logging.
func (app *App) init(cmd *cobra.Command) error {
	level, err := logging.ParseLevel(app.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = logging.New(cmd.ErrOrStderr(), level)

	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	if strings.TrimSpace(app.ServerURL) == "" {
		app.ServerURL = cfg.ServerURL
	}
	if strings.TrimSpace(app.Locale) == "" {
		app.Locale = cfg.Locale
	}
	return nil
}

func (app *App) config() *store.GlobalConfig {
	if app.cfg == nil {
		return &store.GlobalConfig{}
	}
	return app.cfg
}

func (app *App) logger() *slog.Logger {
	if app.log == nil {
		return logging.Discard()
	}
	return app.log
}

func (app *App) store() (store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DataDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
	}
	return store.Store{Dir: dir}, nil
}

func (app *App) catalog() *model.Catalog {
	if strings.TrimSpace(app.Locale) != "" {
		return model.CatalogFor(app.Locale)
	}
	return model.CatalogFor(model.LocaleFromEnv())
}

// sharer is the configured export target.
func (app *App) sharer() (share.Sharer, error) {
	cfg := app.config()
	switch cfg.Share {
	case store.ShareNone:
		return share.None{}, nil
	case store.ShareFile:
		dir, err := cfg.ExportDirOrDefault()
		if err != nil {
			return nil, err
		}
		return share.File{Dir: dir}, nil
	default:
		return share.Clipboard{}, nil
	}
}

// navigator loads the journal and wires saves back to the store.
func (app *App) navigator(ctx context.Context) (*journal.Navigator, store.Store, error) {
	st, err := app.store()
	if err != nil {
		return nil, st, err
	}
	records, err := st.LoadRecords(ctx)
	if err != nil {
		return nil, st, err
	}
	saver := journal.SaverFunc(func(r []model.ThoughtRecord) error {
		return st.SaveRecords(ctx, r)
	})
	return journal.New(records, saver, journal.WithCatalog(app.catalog())), st, nil
}

// notifier needs a server; logs go to log.
func (app *App) notifier(st store.Store, rt http.RoundTripper, log *slog.Logger) (*update.Notifier, error) {
	base := strings.TrimSpace(app.ServerURL)
	if base == "" {
		return nil, errNoServer
	}
	return update.NewNotifier(update.NewHTTPFetcher(base, rt), st, update.NewFlag(), log), nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := commandContext(cmd)
	st, err := app.store()
	if err != nil {
		return writeErr(cmd, err)
	}

	log := app.logger()
	if f, err := openTUILog(); err == nil {
		defer f.Close()
		level, _ := logging.ParseLevel(app.LogLevel)
		if level > slog.LevelInfo {
			level = slog.LevelInfo
		}
		log = logging.NewFile(f, level)
	}

	base := strings.TrimSpace(app.ServerURL)
	catalog := app.catalog()
	lang, _ := catalog.Tag.Base()
	ag := agent.New(agent.Config{BaseURL: base, Assets: agent.Assets(lang.String()), Logger: log}, st)
	opts := tui.Options{
		Load: st.LoadRecords,
		Saver: journal.SaverFunc(func(r []model.ThoughtRecord) error {
			return st.SaveRecords(ctx, r)
		}),
		Catalog: catalog,
		Agent:   ag,
		Logger:  log,
	}
	if sh, err := app.sharer(); err == nil {
		opts.Sharer = sh
	}
	if tc := app.config().TUI; tc != nil {
		opts.Theme = tc.Theme
	}
	if base != "" {
		n, err := app.notifier(st, ag.Transport(), log)
		if err != nil {
			return writeErr(cmd, err)
		}
		opts.Notifier = n
		opts.HelpURL = strings.TrimRight(base, "/") + "/help.md"
		opts.HTTPClient = &http.Client{Transport: ag.Transport(), Timeout: 10 * time.Second}
	}
	return tui.Run(ctx, opts)
}

// openTUILog keeps the TUI's logs off the terminal.
func openTUILog() (*os.File, error) {
	dir, err := store.ConfigDir()
	if err != nil {
		return nil, err
	}
	return logging.SetupLogFile(filepath.Join(dir, "logs"), logging.KeepFiles, time.Now())
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
