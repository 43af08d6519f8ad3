package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nag-cli/internal/agent"
	"nag-cli/internal/journal"
	"nag-cli/internal/model"
	"nag-cli/internal/share"
	"nag-cli/internal/update"

	tea "github.com/charmbracelet/bubbletea"
)

type memJournal struct {
	records []model.ThoughtRecord
	saves   int
	err     error
}

func (j *memJournal) SaveRecords(r []model.ThoughtRecord) error {
	if j.err != nil {
		return j.err
	}
	j.records = append([]model.ThoughtRecord{}, r...)
	j.saves++
	return nil
}

func (j *memJournal) Load(context.Context) ([]model.ThoughtRecord, error) {
	return append([]model.ThoughtRecord{}, j.records...), nil
}

type fixedFetcher struct{ v model.Version }

func (f fixedFetcher) FetchVersion(context.Context) (model.Version, error) { return f.v, nil }

type memVersions struct{ v model.Version }

func (m *memVersions) LoadVersion(context.Context) (model.Version, error) { return m.v, nil }
func (m *memVersions) SaveVersion(_ context.Context, v model.Version) error {
	m.v = v
	return nil
}

func newTestModel(t *testing.T, j *memJournal, opts Options) appModel {
	t.Helper()
	opts.Load = j.Load
	opts.Saver = j
	m, err := newAppModel(context.Background(), opts)
	if err != nil {
		t.Fatalf("newAppModel: %v", err)
	}
	t.Cleanup(m.close)
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func send(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(appModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am, cmd
}

func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		m, _ = send(t, m, keyMsg(k))
	}
	return m
}

func TestAddAnswerAndSave(t *testing.T) {
	j := &memJournal{}
	m := newTestModel(t, j, Options{})

	m = press(t, m, "a")
	if m.nav.View() != journal.ViewEdit {
		t.Fatalf("expected edit view, got %v", m.nav.View())
	}
	m = press(t, m, "Missed the bus")
	if !m.nav.HasChanges() {
		t.Fatalf("expected typing to mark the draft dirty")
	}
	m = press(t, m, "ctrl+s")

	if m.nav.View() != journal.ViewList {
		t.Fatalf("expected list after save, got %v", m.nav.View())
	}
	if j.saves != 1 || len(j.records) != 1 {
		t.Fatalf("expected one persisted record, saves=%d records=%d", j.saves, len(j.records))
	}
	if got := j.records[0].Situation; got != "Missed the bus" {
		t.Fatalf("situation = %q", got)
	}
	if !strings.Contains(m.View(), "Missed the bus") {
		t.Fatalf("expected list to show the new record:\n%s", m.View())
	}
}

func TestEditSavesInPlace(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	j := &memJournal{records: []model.ThoughtRecord{
		{Title: "one", Created: now, Modified: now},
		{Title: "two", Created: now, Modified: now},
	}}
	m := newTestModel(t, j, Options{})

	m = press(t, m, "j", "enter")
	if i, ok := m.nav.CurrentIndex(); !ok || i != 1 {
		t.Fatalf("expected to edit record 1, got %d %v", i, ok)
	}
	m = press(t, m, "x", "ctrl+s")
	if len(j.records) != 2 {
		t.Fatalf("edit must not change the count, got %d", len(j.records))
	}
	if j.records[1].Situation != "x" || j.records[0].Situation != "" {
		t.Fatalf("unexpected records after edit: %+v", j.records)
	}
	if m.list.Index() != 1 {
		t.Fatalf("expected cursor to stay on the edited record, got %d", m.list.Index())
	}
}

func TestEscGuardsUnsavedChanges(t *testing.T) {
	j := &memJournal{}
	m := newTestModel(t, j, Options{})

	m = press(t, m, "a", "draft", "esc")
	if m.modal != modalDiscard {
		t.Fatalf("expected discard modal, got %v", m.modal)
	}
	if !strings.Contains(m.View(), model.English.Messages.DiscardChanges) {
		t.Fatalf("expected the discard prompt in the view")
	}

	m = press(t, m, "n")
	if m.modal != modalNone || m.nav.View() != journal.ViewEdit {
		t.Fatalf("declining must keep editing, modal=%v view=%v", m.modal, m.nav.View())
	}
	if m.nav.Answer() != "draft" {
		t.Fatalf("declining must keep the draft, got %q", m.nav.Answer())
	}

	m = press(t, m, "esc", "y")
	if m.nav.View() != journal.ViewList {
		t.Fatalf("expected list after confirming, got %v", m.nav.View())
	}
	if j.saves != 0 || m.nav.Len() != 0 {
		t.Fatalf("discarding must not save, saves=%d len=%d", j.saves, m.nav.Len())
	}
}

func TestEscWithoutChangesLeavesImmediately(t *testing.T) {
	m := newTestModel(t, &memJournal{}, Options{})
	m = press(t, m, "a", "esc")
	if m.modal != modalNone || m.nav.View() != journal.ViewList {
		t.Fatalf("expected list without a prompt, modal=%v view=%v", m.modal, m.nav.View())
	}
}

func TestQuestionNavigationKeepsAnswers(t *testing.T) {
	m := newTestModel(t, &memJournal{}, Options{})
	m = press(t, m, "a", "first", "tab", "second")
	if m.nav.QuestionIndex() != 1 {
		t.Fatalf("expected question 1, got %d", m.nav.QuestionIndex())
	}
	m = press(t, m, "shift+tab")
	if got := m.input.Value(); got != "first" {
		t.Fatalf("expected the first answer back in the input, got %q", got)
	}
	d := m.nav.Draft()
	if d.Situation != "first" || d.Emotion != "second" {
		t.Fatalf("unexpected draft: %+v", d)
	}

	m = press(t, m, "shift+tab")
	if m.nav.QuestionIndex() != 0 {
		t.Fatalf("cursor must clamp at 0, got %d", m.nav.QuestionIndex())
	}
	for i := 0; i < 12; i++ {
		m = press(t, m, "tab")
	}
	if m.nav.QuestionIndex() != model.QuestionCount-1 {
		t.Fatalf("cursor must clamp at the last question, got %d", m.nav.QuestionIndex())
	}
}

func TestMovingBetweenQuestionsDoesNotDirtyDraft(t *testing.T) {
	m := newTestModel(t, &memJournal{records: []model.ThoughtRecord{{Situation: "s"}}}, Options{})
	m = press(t, m, "enter", "tab", "tab", "shift+tab", "esc")
	if m.modal != modalNone || m.nav.View() != journal.ViewList {
		t.Fatalf("browsing answers must not trigger the guard, modal=%v", m.modal)
	}
}

func TestHelpRoundTrip(t *testing.T) {
	m := newTestModel(t, &memJournal{}, Options{})
	m = press(t, m, "a", "tab", "note", "f1")
	if m.nav.View() != journal.ViewHelp {
		t.Fatalf("expected help view, got %v", m.nav.View())
	}
	if !strings.Contains(m.View(), model.English.At(1).Title) {
		t.Fatalf("help should describe the current question:\n%s", m.View())
	}
	m = press(t, m, "esc")
	if m.nav.View() != journal.ViewEdit || m.nav.QuestionIndex() != 1 || m.nav.Answer() != "note" {
		t.Fatalf("help must keep the draft and the cursor, view=%v q=%d answer=%q",
			m.nav.View(), m.nav.QuestionIndex(), m.nav.Answer())
	}
}

func TestDeleteAsksFirst(t *testing.T) {
	j := &memJournal{records: []model.ThoughtRecord{{Title: "a"}, {Title: "b"}, {Title: "c"}}}
	m := newTestModel(t, j, Options{})

	m = press(t, m, "j", "d")
	if m.modal != modalDelete {
		t.Fatalf("expected delete modal, got %v", m.modal)
	}
	m = press(t, m, "enter")
	if m.modal != modalNone || len(j.records) != 3 {
		t.Fatalf("enter on the default button must cancel, records=%d", len(j.records))
	}

	m = press(t, m, "d", "y")
	if len(j.records) != 2 || j.records[1].Title != "c" {
		t.Fatalf("expected b removed and c shifted down, got %+v", j.records)
	}
	if m.nav.Len() != 2 {
		t.Fatalf("navigator out of sync: %d", m.nav.Len())
	}
}

func TestFailedSaveStaysInEdit(t *testing.T) {
	j := &memJournal{err: errors.New("disk full")}
	m := newTestModel(t, j, Options{})
	m = press(t, m, "a", "text", "ctrl+s")
	if m.nav.View() != journal.ViewEdit || !m.flashErr {
		t.Fatalf("expected to stay in edit with an error, view=%v flash=%q", m.nav.View(), m.flash)
	}
	if m.nav.Len() != 0 {
		t.Fatalf("failed save must not change the journal")
	}
}

func TestExportUnsupported(t *testing.T) {
	m := newTestModel(t, &memJournal{records: []model.ThoughtRecord{{Title: "a"}}}, Options{Sharer: share.None{}})
	m, cmd := send(t, m, keyMsg("x"))
	if cmd == nil {
		t.Fatalf("expected an export command")
	}
	m, _ = send(t, m, cmd())
	if m.flash != model.English.Messages.ShareUnsupported {
		t.Fatalf("expected unsupported notice, got %q", m.flash)
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	m := newTestModel(t, &memJournal{records: []model.ThoughtRecord{{Title: "a"}}}, Options{Sharer: share.File{Dir: dir}})
	m, cmd := send(t, m, keyMsg("x"))
	m, _ = send(t, m, cmd())
	if !strings.HasPrefix(m.flash, model.English.Messages.Exported) || m.flashErr {
		t.Fatalf("expected exported notice, got %q", m.flash)
	}
	files, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	if len(files) != 1 {
		t.Fatalf("expected one export file, got %v", files)
	}
}

func TestUpdateBannerAndRefresh(t *testing.T) {
	versions := &memVersions{}
	n := update.NewNotifier(fixedFetcher{v: model.Version{Version: 1}}, versions, nil, nil)
	j := &memJournal{records: []model.ThoughtRecord{{Title: "kept"}}}
	m := newTestModel(t, j, Options{Notifier: n})

	if strings.Contains(m.View(), model.English.Messages.UpdateAvailable) {
		t.Fatalf("banner must be hidden before an update is found")
	}
	n.Flag().Raise()
	m, _ = send(t, m, flagMsg{set: true})
	if !strings.Contains(m.View(), model.English.Messages.UpdateAvailable) {
		t.Fatalf("expected the update banner:\n%s", m.View())
	}

	m, cmd := send(t, m, keyMsg("ctrl+r"))
	if cmd == nil {
		t.Fatalf("expected a refresh command")
	}
	m, _ = send(t, m, cmd())
	if versions.v.Version != 1 {
		t.Fatalf("refresh must record the accepted version, got %v", versions.v.Version)
	}
	if m.updateAvailable || n.Flag().IsSet() {
		t.Fatalf("reload must clear the update flag")
	}
	if m.nav.View() != journal.ViewList || m.nav.Len() != 1 {
		t.Fatalf("reload must start over from storage, view=%v len=%d", m.nav.View(), m.nav.Len())
	}
}

func TestRefreshGuardsUnsavedChanges(t *testing.T) {
	n := update.NewNotifier(fixedFetcher{v: model.Version{Version: 1}}, &memVersions{}, nil, nil)
	m := newTestModel(t, &memJournal{}, Options{Notifier: n})
	m, _ = send(t, m, flagMsg{set: true})

	m = press(t, m, "a", "unsaved", "ctrl+r")
	if m.modal != modalRefresh {
		t.Fatalf("expected refresh guard, got %v", m.modal)
	}
	m = press(t, m, "n")
	if m.nav.View() != journal.ViewEdit || m.nav.Answer() != "unsaved" {
		t.Fatalf("declined refresh must keep the session")
	}
}

func TestRefreshAsksAgainForEditsMadeWhileFetching(t *testing.T) {
	versions := &memVersions{}
	n := update.NewNotifier(fixedFetcher{v: model.Version{Version: 1}}, versions, nil, nil)
	j := &memJournal{records: []model.ThoughtRecord{{Title: "kept"}}}
	m := newTestModel(t, j, Options{Notifier: n})
	n.Flag().Raise()
	m, _ = send(t, m, flagMsg{set: true})

	m = press(t, m, "a")
	m, cmd := send(t, m, keyMsg("ctrl+r"))
	if cmd == nil || m.modal != modalNone {
		t.Fatalf("a clean draft refreshes without asking, modal=%v", m.modal)
	}

	// Typed before the fetch result arrives.
	m = press(t, m, "late")
	m, _ = send(t, m, cmd())
	if m.modal != modalReload {
		t.Fatalf("expected the reload guard, got %v", m.modal)
	}

	m = press(t, m, "n")
	if m.nav.View() != journal.ViewEdit || m.nav.Answer() != "late" {
		t.Fatalf("declined reload must keep the draft, view=%v answer=%q", m.nav.View(), m.nav.Answer())
	}
	if !m.updateAvailable || !n.Flag().IsSet() {
		t.Fatalf("declined reload keeps the update banner")
	}

	m = press(t, m, "ctrl+r")
	if m.modal != modalRefresh {
		t.Fatalf("expected refresh guard, got %v", m.modal)
	}
	m, cmd = send(t, m, keyMsg("y"))
	if cmd == nil {
		t.Fatalf("expected a refresh command")
	}
	m, _ = send(t, m, cmd())
	if m.modal != modalNone || m.nav.View() != journal.ViewList || m.nav.Len() != 1 {
		t.Fatalf("an approved draft reloads without asking twice, modal=%v view=%v", m.modal, m.nav.View())
	}
	if m.updateAvailable {
		t.Fatalf("reload must clear the banner")
	}
}

func TestRemoteHelpURLMatchesPrecachedAsset(t *testing.T) {
	m := newTestModel(t, &memJournal{}, Options{Catalog: model.Hungarian, HelpURL: "http://127.0.0.1:3335/help.md"})
	if got, want := m.helpURL(), "http://127.0.0.1:3335"+agent.HelpAsset("hu"); got != want {
		t.Fatalf("helpURL = %q, want %q", got, want)
	}
	if m.loadHelpCmd() == nil {
		t.Fatalf("expected a help fetch")
	}

	m = newTestModel(t, &memJournal{}, Options{})
	if m.helpURL() != "" || m.loadHelpCmd() != nil {
		t.Fatalf("no origin means the embedded help only")
	}
}

func TestRefreshIgnoredWithoutUpdate(t *testing.T) {
	n := update.NewNotifier(fixedFetcher{}, &memVersions{}, nil, nil)
	m := newTestModel(t, &memJournal{}, Options{Notifier: n})
	_, cmd := send(t, m, keyMsg("u"))
	if cmd != nil {
		t.Fatalf("refresh without an available update must do nothing")
	}
}

func TestCtrlCInEditAsksWhenDirty(t *testing.T) {
	m := newTestModel(t, &memJournal{}, Options{})
	m = press(t, m, "a", "x")
	m, cmd := send(t, m, keyMsg("ctrl+c"))
	if cmd != nil || m.modal != modalQuit {
		t.Fatalf("expected quit guard, modal=%v", m.modal)
	}
	_, cmd = send(t, m, keyMsg("y"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestHungarianCatalog(t *testing.T) {
	m := newTestModel(t, &memJournal{}, Options{Catalog: model.Hungarian})
	m = press(t, m, "a")
	if !strings.Contains(m.View(), model.Hungarian.At(0).Title) {
		t.Fatalf("expected the Hungarian prompt:\n%s", m.View())
	}
	m = press(t, m, "x", "esc")
	if !strings.Contains(m.View(), model.Hungarian.Messages.DiscardChanges) {
		t.Fatalf("expected the Hungarian discard prompt")
	}
}

func TestApplyExternalEditorResult(t *testing.T) {
	m := newTestModel(t, &memJournal{}, Options{})
	m = press(t, m, "a", "before")

	path := filepath.Join(t.TempDir(), "answer.txt")
	if err := os.WriteFile(path, []byte("after\n"), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	m.externalEditorPath = path
	m.externalEditorBefore = "before"
	m.applyExternalEditorResult(externalEditorDoneMsg{})

	if got := m.nav.Answer(); got != "after" {
		t.Fatalf("expected the draft to take the edited answer, got %q", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be removed, stat err=%v", err)
	}
}
