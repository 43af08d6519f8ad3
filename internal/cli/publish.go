package cli

import (
	"nag-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var (
		to           string
		overwrite    bool
		includeEmpty bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the journal as Markdown pages (index.md + records/NNN.md)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, _, err := app.navigator(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteJournal(nav.Records(), nav.Catalog(), to, publish.WriteOptions{
				IncludeEmpty: includeEmpty,
				Overwrite:    overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output directory (required)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&includeEmpty, "include-empty", false, "Keep sections for unanswered questions")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
