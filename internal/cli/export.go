package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"nag-cli/internal/journal"
	"nag-cli/internal/share"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string
	var useShare bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every record as formatted JSON",
		Long: strings.TrimSpace(`
Print the journal as indented JSON (the same document the TUI shares).

--out writes it to a file instead; --share hands it to the configured share target
(clipboard, file or none; see ` + "`nag config`" + `).
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			nav, _, err := app.navigator(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}

			if useShare {
				sharer, err := app.sharer()
				if err != nil {
					return writeErr(cmd, err)
				}
				res, err := nav.Export(ctx, sharer)
				if errors.Is(err, share.ErrUnsupported) {
					return writeErr(cmd, errors.New(nav.Catalog().Messages.ShareUnsupported))
				}
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"target":  res.Target,
					"url":     res.URL,
					"records": nav.Len(),
				}})
			}

			b, err := journal.MarshalExport(nav.Records())
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(out) == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			}
			if err := os.WriteFile(out, b, 0o600); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": out, "records": nav.Len()}})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the export to this file")
	cmd.Flags().BoolVar(&useShare, "share", false, "Hand the export to the configured share target")
	return cmd
}
