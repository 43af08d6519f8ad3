package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"nag-cli/internal/agent"
	"nag-cli/internal/docs"
	"nag-cli/internal/journal"
	"nag-cli/internal/model"
	"nag-cli/internal/share"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type appModel struct {
	ctx     context.Context
	opts    Options
	log     *slog.Logger
	catalog *model.Catalog

	nav *journal.Navigator

	width  int
	height int

	list  list.Model
	input textarea.Model
	help  viewport.Model

	helpDoc string

	modal         modalKind
	modalFocus    confirmModalFocus
	pendingDelete int

	updateAvailable bool
	refreshFrom     model.ThoughtRecord
	agentC          <-chan agent.Message
	agentCancel     func()
	flagC           <-chan bool
	flagCancel      func()

	flash    string
	flashErr bool

	externalEditorPath   string
	externalEditorBefore string
}

func newAppModel(ctx context.Context, opts Options) (appModel, error) {
	if opts.Catalog == nil {
		opts.Catalog = model.English
	}
	if opts.Sharer == nil {
		opts.Sharer = share.None{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	var records []model.ThoughtRecord
	if opts.Load != nil {
		r, err := opts.Load(ctx)
		if err != nil {
			return appModel{}, fmt.Errorf("load records: %w", err)
		}
		records = r
	}

	m := appModel{
		ctx:     ctx,
		opts:    opts,
		log:     opts.Logger.With("component", "tui"),
		catalog: opts.Catalog,
		nav:     journal.New(records, opts.Saver, journal.WithCatalog(opts.Catalog)),
		list:    newList(),
		input:   newTextarea(),
		help:    viewport.New(0, 0),
		width:   80,
		height:  24,
	}
	m.helpDoc = docs.Help(m.helpLang())

	if opts.Notifier != nil {
		m.flagC, m.flagCancel = opts.Notifier.Flag().Subscribe()
		m.updateAvailable = opts.Notifier.Flag().IsSet()
	}
	if opts.Agent != nil {
		c, cancel := opts.Agent.Subscribe()
		m.agentC, m.agentCancel = c.C, cancel
	}
	m.refreshList()
	m.resize()
	return m, nil
}

func (m appModel) close() {
	if m.agentCancel != nil {
		m.agentCancel()
	}
	if m.flagCancel != nil {
		m.flagCancel()
	}
}

func (m appModel) helpLang() string {
	base, _ := m.catalog.Tag.Base()
	return base.String()
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.checkCmd(), waitAgent(m.agentC), waitFlag(m.flagC), m.loadHelpCmd())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case updateCheckedMsg:
		if msg.err != nil {
			m.log.Debug("startup update check failed", "err", msg.err)
		}
		return m, nil

	case agentMsg:
		if msg.closed {
			m.agentC = nil
			return m, nil
		}
		return m, tea.Batch(m.handleAgentCmd(msg.msg), waitAgent(m.agentC))

	case agentHandledMsg:
		return m, nil

	case flagMsg:
		if msg.closed {
			m.flagC = nil
			return m, nil
		}
		m.updateAvailable = msg.set
		return m, waitFlag(m.flagC)

	case refreshedMsg:
		if msg.err != nil {
			m.showError("Update failed: " + msg.err.Error())
			return m, nil
		}
		if !msg.reload {
			return m, nil
		}
		if m.nav.HasChanges() && m.nav.Draft() != m.refreshFrom {
			m.openModal(modalReload)
			return m, nil
		}
		cmd := m.reload()
		return m, cmd

	case helpLoadedMsg:
		m.helpDoc = msg.markdown
		if m.nav.View() == journal.ViewHelp {
			m.syncHelp()
		}
		return m, nil

	case exportedMsg:
		switch {
		case errors.Is(msg.err, share.ErrUnsupported):
			m.showFlash(m.catalog.Messages.ShareUnsupported)
		case msg.err != nil:
			m.showError("Export failed: " + msg.err.Error())
		default:
			where := msg.result.URL
			if where == "" {
				where = msg.result.Target
			}
			m.showFlash(m.catalog.Messages.Exported + " " + where)
		}
		return m, nil

	case externalEditorDoneMsg:
		m.applyExternalEditorResult(msg)
		return m, nil

	case tea.KeyMsg:
		m.flash = ""
		m.flashErr = false
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		switch m.nav.View() {
		case journal.ViewList:
			return m.updateList(msg)
		case journal.ViewEdit:
			return m.updateEdit(msg)
		case journal.ViewHelp:
			return m.updateHelp(msg)
		}
	}

	// Cursor blink and other component messages.
	if m.nav.View() == journal.ViewEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "a", "n":
		m.nav.GoToAdd()
		cmd := m.enterEdit()
		return m, cmd
	case "enter", "e":
		if m.nav.Len() == 0 {
			return m, nil
		}
		if err := m.nav.GoToEdit(m.list.Index()); err != nil {
			m.showError(err.Error())
			return m, nil
		}
		cmd := m.enterEdit()
		return m, cmd
	case "d", "delete":
		if m.nav.Len() == 0 {
			return m, nil
		}
		m.pendingDelete = m.list.Index()
		m.openModal(modalDelete)
		return m, nil
	case "x":
		return m, m.exportCmd()
	case "u", "ctrl+r":
		return m.requestRefresh()
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if !m.nav.ConfirmNavigation(nil) {
			m.openModal(modalQuit)
			return m, nil
		}
		return m, tea.Quit
	case "esc":
		if m.nav.GoToList(nil) {
			m.leftEdit()
			return m, nil
		}
		m.openModal(modalDiscard)
		return m, nil
	case "ctrl+s":
		return m.save()
	case "tab":
		m.nav.NextQuestion()
		m.loadQuestion()
		return m, nil
	case "shift+tab":
		m.nav.PreviousQuestion()
		m.loadQuestion()
		return m, nil
	case "f1":
		m.nav.GoToHelp()
		m.input.Blur()
		m.help.GotoTop()
		m.syncHelp()
		return m, nil
	case "ctrl+e":
		cmd, err := m.openExternalEditorForInput()
		if err != nil {
			m.showError("Editor failed: " + err.Error())
			return m, nil
		}
		return m, cmd
	case "ctrl+r":
		return m.requestRefresh()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncAnswer()
	return m, cmd
}

func (m appModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if !m.nav.ConfirmNavigation(nil) {
			m.openModal(modalQuit)
			return m, nil
		}
		return m, tea.Quit
	case "esc", "f1", "q":
		m.nav.BackToEdit()
		cmd := m.input.Focus()
		return m, cmd
	case "ctrl+r":
		return m.requestRefresh()
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return m, cmd
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.modalFocus == confirmFocusConfirm {
			m.modalFocus = confirmFocusCancel
		} else {
			m.modalFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m.confirmModal()
	case "n", "esc", "ctrl+g":
		m.modal = modalNone
		return m, nil
	case "enter":
		if m.modalFocus == confirmFocusConfirm {
			return m.confirmModal()
		}
		m.modal = modalNone
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) confirmModal() (tea.Model, tea.Cmd) {
	kind := m.modal
	m.modal = modalNone
	switch kind {
	case modalDiscard:
		m.nav.GoToList(journal.Accept)
		m.leftEdit()
	case modalQuit:
		return m, tea.Quit
	case modalDelete:
		if err := m.nav.Delete(m.pendingDelete); err != nil {
			m.showError("Delete failed: " + err.Error())
			return m, nil
		}
		m.refreshList()
	case modalRefresh:
		cmd := m.startRefresh()
		return m, cmd
	case modalReload:
		cmd := m.reload()
		return m, cmd
	}
	return m, nil
}

func (m *appModel) openModal(kind modalKind) {
	m.modal = kind
	m.modalFocus = confirmFocusConfirm
	if kind == modalDelete {
		m.modalFocus = confirmFocusCancel
	}
}

func (m *appModel) enterEdit() tea.Cmd {
	m.loadQuestion()
	return m.input.Focus()
}

func (m *appModel) leftEdit() {
	m.input.Blur()
	m.input.SetValue("")
	m.refreshList()
}

// loadQuestion shows the answer bound to the question under the cursor.
func (m *appModel) loadQuestion() {
	m.input.SetValue(m.nav.Answer())
	m.input.CursorEnd()
}

// syncAnswer copies the input into the draft when it actually changed, so that moving
// the cursor does not mark the draft dirty.
func (m *appModel) syncAnswer() {
	if v := m.input.Value(); v != m.nav.Answer() {
		m.nav.SetAnswer(v)
	}
}

func (m appModel) save() (tea.Model, tea.Cmd) {
	m.syncAnswer()
	i, editing := m.nav.CurrentIndex()
	if err := m.nav.Save(); err != nil {
		m.showError("Save failed: " + err.Error())
		return m, nil
	}
	m.leftEdit()
	if !editing {
		i = m.nav.Len() - 1
	}
	m.list.Select(i)
	return m, nil
}

func (m appModel) requestRefresh() (tea.Model, tea.Cmd) {
	if m.opts.Notifier == nil || !m.updateAvailable {
		return m, nil
	}
	if !m.nav.ConfirmNavigation(nil) {
		m.openModal(modalRefresh)
		return m, nil
	}
	cmd := m.startRefresh()
	return m, cmd
}

// startRefresh remembers the draft the guard approved; edits made while the fetch is in
// flight are guarded again before reloading.
func (m *appModel) startRefresh() tea.Cmd {
	m.refreshFrom = m.nav.Draft()
	return m.refreshCmd()
}

// reload starts over as if the app had just been opened.
func (m *appModel) reload() tea.Cmd {
	records := []model.ThoughtRecord{}
	if m.opts.Load != nil {
		r, err := m.opts.Load(m.ctx)
		if err != nil {
			m.showError("Reload failed: " + err.Error())
			return nil
		}
		records = r
	}
	m.nav = journal.New(records, m.opts.Saver, journal.WithCatalog(m.catalog))
	m.modal = modalNone
	m.input.Blur()
	m.input.SetValue("")
	if m.opts.Notifier != nil {
		m.opts.Notifier.Flag().Clear()
	}
	m.updateAvailable = false
	m.refreshList()
	m.list.Select(0)
	m.log.Info("reloaded after update")
	return tea.Batch(m.checkCmd(), m.loadHelpCmd())
}

func (m *appModel) showFlash(s string) {
	m.flash = s
	m.flashErr = false
}

func (m *appModel) showError(s string) {
	m.log.Warn(s)
	m.flash = s
	m.flashErr = true
}

// Commands.

func (m appModel) checkCmd() tea.Cmd {
	n := m.opts.Notifier
	if n == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		found, err := n.Check(ctx)
		return updateCheckedMsg{found: found, err: err}
	}
}

func (m appModel) handleAgentCmd(msg agent.Message) tea.Cmd {
	n := m.opts.Notifier
	if n == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		n.HandleMessage(ctx, msg)
		return agentHandledMsg{}
	}
}

func (m appModel) refreshCmd() tea.Cmd {
	n := m.opts.Notifier
	if n == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		// The unsaved-changes guard already ran on the event loop.
		ok, err := n.Refresh(ctx, func() bool { return true })
		return refreshedMsg{reload: ok, err: err}
	}
}

func (m appModel) exportCmd() tea.Cmd {
	p, err := m.nav.ExportPayload()
	if err != nil {
		return func() tea.Msg { return exportedMsg{err: err} }
	}
	sharer, ctx := m.opts.Sharer, m.ctx
	return func() tea.Msg {
		res, err := sharer.Share(ctx, p)
		return exportedMsg{result: res, err: err}
	}
}

func waitAgent(c <-chan agent.Message) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-c
		return agentMsg{msg: msg, closed: !ok}
	}
}

func waitFlag(c <-chan bool) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		v, ok := <-c
		return flagMsg{set: v, closed: !ok}
	}
}

// helpURL is the remote help document for the catalog's language, spelled exactly as
// the agent precaches it.
func (m appModel) helpURL() string {
	base := strings.TrimSpace(m.opts.HelpURL)
	if base == "" {
		return ""
	}
	return strings.TrimSuffix(strings.TrimRight(base, "/"), "/help.md") + agent.HelpAsset(m.helpLang())
}

func (m appModel) loadHelpCmd() tea.Cmd {
	u := m.helpURL()
	if u == "" {
		return nil
	}

	client := m.opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	ctx, log := m.ctx, m.log
	return func() tea.Msg {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil
		}
		resp, err := client.Do(req)
		if err != nil {
			log.Debug("help fetch failed", "err", err)
			return nil
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil
		}
		b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil || strings.TrimSpace(string(b)) == "" {
			return nil
		}
		return helpLoadedMsg{markdown: string(b)}
	}
}

// Layout.

const (
	headerLines = 2
	footerLines = 2
)

func (m appModel) bodyHeight() int {
	h := m.height - headerLines - footerLines
	if h < 3 {
		h = 3
	}
	return h
}

func (m *appModel) resize() {
	w := m.width
	if w < 20 {
		w = 20
	}
	h := m.bodyHeight()
	m.list.SetSize(w, h)
	m.input.SetWidth(w - 2)
	// Question title and description sit above the input.
	inputH := h - 4
	if inputH < 3 {
		inputH = 3
	}
	m.input.SetHeight(inputH)
	m.help.Width = w
	m.help.Height = h
	if m.nav.View() == journal.ViewHelp {
		m.syncHelp()
	}
}

func (m *appModel) syncHelp() {
	q := m.nav.Question()
	md := "## " + q.Title + "\n\n" + q.Description + "\n\n---\n\n" + m.helpDoc
	m.help.SetContent(renderMarkdown(md, m.help.Width-2))
}

func (m appModel) View() string {
	w := m.width
	if w < 20 {
		w = 20
	}
	h := m.bodyHeight()

	var body string
	if m.modal != modalNone {
		body = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.viewModal(w))
	} else {
		switch m.nav.View() {
		case journal.ViewList:
			body = m.viewList()
		case journal.ViewEdit:
			body = m.viewEdit(w)
		case journal.ViewHelp:
			body = m.help.View()
		}
	}

	return strings.Join([]string{
		normalizePane(m.viewHeader(w), w, headerLines),
		normalizePane(body, w, h),
		normalizePane(m.viewFooter(w), w, footerLines),
	}, "\n")
}

func (m appModel) viewHeader(w int) string {
	title := "nag"
	switch m.nav.View() {
	case journal.ViewEdit, journal.ViewHelp:
		if i, ok := m.nav.CurrentIndex(); ok {
			title += "  " + m.nav.Title(i)
		}
		title += fmt.Sprintf("  %d/%d", m.nav.QuestionIndex()+1, m.catalog.Len())
		if m.nav.HasChanges() {
			title += " *"
		}
	}
	lines := []string{styleHeader().Render(truncate(title, w))}
	if m.updateAvailable {
		lines = append(lines, styleBanner().Render(m.catalog.Messages.UpdateAvailable+"  ctrl+r: refresh"))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewList() string {
	if m.nav.Len() == 0 {
		return styleMuted().Render("No thought records yet. Press a to add one.")
	}
	return m.list.View()
}

func (m appModel) viewEdit(w int) string {
	q := m.nav.Question()
	desc := styleMuted().Width(w - 2).Render(q.Description)
	return strings.Join([]string{
		styleQuestionTitle().Render(q.Title),
		desc,
		"",
		m.input.View(),
	}, "\n")
}

func (m appModel) viewFooter(w int) string {
	var keys string
	if m.modal != modalNone {
		keys = "y: yes   n/esc: no   tab: focus   enter: select"
	} else {
		switch m.nav.View() {
		case journal.ViewList:
			keys = "a: add   enter: edit   d: delete   x: export   q: quit"
		case journal.ViewEdit:
			keys = "tab/shift+tab: question   ctrl+s: save   esc: back   f1: help   ctrl+e: editor"
		case journal.ViewHelp:
			keys = "↑/↓: scroll   esc: back"
		}
	}
	flash := ""
	if m.flash != "" {
		if m.flashErr {
			flash = styleError().Render(truncate(m.flash, w))
		} else {
			flash = truncate(m.flash, w)
		}
	}
	return flash + "\n" + styleMuted().Render(truncate(keys, w))
}

func (m appModel) viewModal(w int) string {
	msgs := m.catalog.Messages
	var title, body string
	switch m.modal {
	case modalDiscard, modalQuit, modalRefresh, modalReload:
		title, body = "Unsaved changes", msgs.DiscardChanges
		if m.modal == modalRefresh || m.modal == modalReload {
			title = msgs.UpdateAvailable
		}
	case modalDelete:
		title, body = "Delete", msgs.DeleteRecord
		if t := m.nav.Title(m.pendingDelete); t != "" {
			body += "\n\n" + t
		}
	}
	return renderConfirmModal(w, title, body, msgs.Yes, msgs.No, m.modalFocus)
}
