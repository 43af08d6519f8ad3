// Package tui is the terminal front end: a list of thought records, the guided
// question editor and the help screen.
package tui

import (
	"context"
	"log/slog"
	"net/http"

	"nag-cli/internal/agent"
	"nag-cli/internal/journal"
	"nag-cli/internal/model"
	"nag-cli/internal/share"
	"nag-cli/internal/update"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	// Load reads the journal from storage. It is called at startup and on every
	// update reload.
	Load  func(ctx context.Context) ([]model.ThoughtRecord, error)
	Saver journal.RecordSaver

	Catalog  *model.Catalog
	Notifier *update.Notifier
	Agent    *agent.Agent
	Sharer   share.Sharer

	// HelpURL is the remote help document. Empty uses the embedded copy.
	HelpURL    string
	HTTPClient *http.Client

	// Theme is the configured palette: light|dark|auto.
	Theme  string
	Logger *slog.Logger
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m, err := newAppModel(ctx, opts)
	if err != nil {
		return err
	}
	defer m.close()

	// Register after subscribing so this view receives activate.
	if opts.Agent != nil {
		opts.Agent.Register(ctx)
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
