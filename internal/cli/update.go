package cli

import (
	"github.com/spf13/cobra"
)

func newUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for and accept new deployed versions",
	}
	cmd.AddCommand(newUpdateCheckCmd(app))
	cmd.AddCommand(newUpdateAcceptCmd(app))
	return cmd
}

func newUpdateCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare the deployed version with the last accepted one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := app.notifier(st, nil, app.logger())
			if err != nil {
				return writeErr(cmd, err)
			}
			found, err := n.Check(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			seen, err := st.LoadVersion(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"updateAvailable": found,
				"lastSeen":        seen.Version,
				"server":          app.ServerURL,
			}})
		},
	}
}

func newUpdateAcceptCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "accept",
		Short: "Record the deployed version as seen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := app.notifier(st, nil, app.logger())
			if err != nil {
				return writeErr(cmd, err)
			}
			// Nothing to lose outside the TUI, so no guard.
			if _, err := n.Refresh(ctx, nil); err != nil {
				return writeErr(cmd, err)
			}
			seen, err := st.LoadVersion(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"accepted": seen.Version}})
		},
	}
}
