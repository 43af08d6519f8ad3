package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func externalEditorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// openExternalEditorForInput hands the current answer to $VISUAL/$EDITOR. The program is
// suspended until the editor exits.
func (m *appModel) openExternalEditorForInput() (tea.Cmd, error) {
	args := splitShellWords(externalEditorName())
	if len(args) == 0 {
		args = []string{"vi"}
	}

	f, err := os.CreateTemp("", "nag-answer-*.txt")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if _, err := f.WriteString(m.input.Value()); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	_ = f.Close()

	m.externalEditorPath = path
	m.externalEditorBefore = m.input.Value()

	cmd := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalEditorDoneMsg{err: err}
	}), nil
}

func (m *appModel) applyExternalEditorResult(msg externalEditorDoneMsg) {
	path := m.externalEditorPath
	before := m.externalEditorBefore
	m.externalEditorPath = ""
	m.externalEditorBefore = ""
	if strings.TrimSpace(path) == "" {
		return
	}
	defer func() { _ = os.Remove(path) }()

	if msg.err != nil {
		m.showError("Editor failed: " + msg.err.Error())
		return
	}
	b, err := os.ReadFile(path)
	if err != nil {
		m.showError("Editor read failed: " + err.Error())
		return
	}
	// Most editors append a final newline.
	after := strings.TrimSuffix(string(b), "\n")
	if after == before {
		m.showFlash(fmt.Sprintf("No changes from %s", externalEditorName()))
		return
	}
	m.input.SetValue(after)
	m.syncAnswer()
	m.showFlash(fmt.Sprintf("Updated from %s (ctrl+s to save)", externalEditorName()))
}
