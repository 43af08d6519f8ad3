package cli

import (
	"strconv"
	"strings"

	"nag-cli/internal/model"

	"github.com/spf13/cobra"
)

type recordRow struct {
	Index        int    `json:"index"`
	Title        string `json:"title"`
	LastModified string `json:"lastModified"`
}

type recordRows []recordRow

func (r recordRows) Header() []string { return []string{"INDEX", "TITLE", "LAST MODIFIED"} }

func (r recordRows) Rows() [][]string {
	out := make([][]string, 0, len(r))
	for _, row := range r {
		out = append(out, []string{strconv.Itoa(row.Index), row.Title, row.LastModified})
	}
	return out
}

func newRecordsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"record", "r"},
		Short:   "List, show, add and delete thought records",
	}
	cmd.AddCommand(newRecordsListCmd(app))
	cmd.AddCommand(newRecordsShowCmd(app))
	cmd.AddCommand(newRecordsAddCmd(app))
	cmd.AddCommand(newRecordsDeleteCmd(app))
	return cmd
}

func newRecordsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List records in journal order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, _, err := app.navigator(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := make(recordRows, 0, nav.Len())
			for i := 0; i < nav.Len(); i++ {
				rows = append(rows, recordRow{Index: i, Title: nav.Title(i), LastModified: nav.LastModified(i)})
			}
			if app.Format == "text" {
				return writeOut(cmd, app, rows)
			}
			return writeOut(cmd, app, map[string]any{"data": rows})
		},
	}
}

func newRecordsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <index>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, _, err := app.navigator(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			i, err := parseIndex(args[0], nav.Len())
			if err != nil {
				return writeErr(cmd, err)
			}
			rec, _ := nav.Record(i)
			return writeOut(cmd, app, map[string]any{"data": rec})
		},
	}
}

func newRecordsAddCmd(app *App) *cobra.Command {
	answers := map[model.QuestionID]*string{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record without opening the TUI",
		Example: strings.TrimSpace(`
nag records add --situation "Meeting ran late" --emotion "anxious 70%" --automatic-thought "I always mess up"
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, _, err := app.navigator(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			nav.GoToAdd()
			for {
				id := nav.Question().ID
				if cmd.Flags().Changed(flagForQuestion(id)) {
					nav.SetAnswer(*answers[id])
				}
				if nav.IsLastQuestion() {
					break
				}
				nav.NextQuestion()
			}
			if !nav.HasChanges() {
				return writeErr(cmd, errEmptyRecord)
			}
			if err := nav.Save(); err != nil {
				return writeErr(cmd, err)
			}
			i := nav.Len() - 1
			rec, _ := nav.Record(i)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"index": i, "record": rec}})
		},
	}
	for _, q := range model.English.Questions() {
		v := new(string)
		answers[q.ID] = v
		cmd.Flags().StringVar(v, flagForQuestion(q.ID), "", q.Title)
	}
	return cmd
}

func flagForQuestion(id model.QuestionID) string {
	switch id {
	case model.QuestionSituation:
		return "situation"
	case model.QuestionEmotion:
		return "emotion"
	case model.QuestionAutomaticThought:
		return "automatic-thought"
	case model.QuestionEvidenceSupporting:
		return "evidence-supporting"
	case model.QuestionEvidenceAgainst:
		return "evidence-against"
	case model.QuestionAlternativeThought:
		return "alternative-thought"
	case model.QuestionOutcome:
		return "outcome"
	case model.QuestionTitle:
		return "title"
	default:
		return ""
	}
}

func newRecordsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <index>",
		Aliases: []string{"rm"},
		Short:   "Delete a record; later records shift down by one",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, _, err := app.navigator(commandContext(cmd))
			if err != nil {
				return writeErr(cmd, err)
			}
			i, err := parseIndex(args[0], nav.Len())
			if err != nil {
				return writeErr(cmd, err)
			}
			title := nav.Title(i)
			if err := nav.Delete(i); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"deleted":   i,
				"title":     title,
				"remaining": nav.Len(),
			}})
		},
	}
}

func parseIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || i < 0 || i >= n {
		return 0, errIndex(arg, n)
	}
	return i, nil
}
