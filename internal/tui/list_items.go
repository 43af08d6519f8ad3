package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

type recordItem struct {
	index    int
	title    string
	modified string
}

func (i recordItem) FilterValue() string { return i.title }
func (i recordItem) Title() string       { return i.title }
func (i recordItem) Description() string { return "#" + strconv.Itoa(i.index+1) + "  " + i.modified }

func newList() list.Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(colorSelectedFg).
		BorderForeground(colorAccent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(colorMuted).
		BorderForeground(colorAccent)
	d.Styles.NormalDesc = faintIfDark(d.Styles.NormalDesc.Foreground(colorMuted))

	l := list.New([]list.Item{}, d, 0, 0)
	l.Title = "Thought records"
	// The app draws its own header and footer.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	// Single-letter actions would end up in the filter.
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("record", "records")
	l.KeyMap.Quit.SetKeys()
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	l.Styles.NoItems = lipgloss.NewStyle().Foreground(colorMuted)
	return l
}

// refreshList rebuilds the rows from the navigator, keeping the cursor in range.
func (m *appModel) refreshList() {
	cur := m.list.Index()
	items := make([]list.Item, 0, m.nav.Len())
	for i := 0; i < m.nav.Len(); i++ {
		items = append(items, recordItem{index: i, title: m.nav.Title(i), modified: m.nav.LastModified(i)})
	}
	m.list.SetItems(items)
	if cur >= len(items) {
		cur = len(items) - 1
	}
	if cur < 0 {
		cur = 0
	}
	m.list.Select(cur)
}
