package cli

import (
	"fmt"
	"strings"

	"nag-cli/internal/store"

	"github.com/spf13/cobra"
)

var configKeys = []string{"locale", "server", "share", "exportDir", "theme"}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the global config (<config>/config.json)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the global config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"path":   path,
				"config": app.config(),
			}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one config key (" + strings.Join(configKeys, "|") + "); an empty value clears it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.config()
			if err := setConfigKey(&cfg, args[0], strings.TrimSpace(args[1])); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(&cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.cfg = &cfg
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"config": &cfg}})
		},
	})
	return cmd
}

func setConfigKey(cfg *store.GlobalConfig, key, value string) error {
	switch key {
	case "locale":
		cfg.Locale = value
	case "server", "serverUrl":
		cfg.ServerURL = value
	case "share":
		cfg.Share = value
	case "exportDir":
		cfg.ExportDir = value
	case "theme":
		if value == "" {
			cfg.TUI = nil
			return nil
		}
		tc := store.TUIConfig{}
		if cfg.TUI != nil {
			tc = *cfg.TUI
		}
		tc.Theme = value
		cfg.TUI = &tc
	default:
		return fmt.Errorf("unknown config key %q (want %s)", key, strings.Join(configKeys, "|"))
	}
	return nil
}
