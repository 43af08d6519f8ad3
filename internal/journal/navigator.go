package journal

import (
	"errors"
	"fmt"
	"time"

	"nag-cli/internal/model"
)

// View is the screen the navigator is on.
type View int

const (
	ViewList View = iota
	ViewEdit
	ViewHelp
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewEdit:
		return "edit"
	case ViewHelp:
		return "help"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

var ErrIndexOutOfRange = errors.New("journal: record index out of range")

// RecordSaver persists the full journal as one value.
type RecordSaver interface {
	SaveRecords(records []model.ThoughtRecord) error
}

// SaverFunc adapts a function to RecordSaver.
type SaverFunc func(records []model.ThoughtRecord) error

func (f SaverFunc) SaveRecords(records []model.ThoughtRecord) error { return f(records) }

// Confirm asks the user a yes/no question. Returning false aborts the guarded action.
type Confirm func(prompt string) bool

// Accept is a Confirm that always proceeds. Front ends that ask asynchronously pass it
// once the user has already agreed.
func Accept(string) bool { return true }

// Navigator owns the editing session: the record list, the detached draft, the question
// cursor and the dirty flag. It is not safe for concurrent use; front ends drive it from a
// single event loop.
type Navigator struct {
	saver   RecordSaver
	catalog *model.Catalog
	now     func() time.Time

	records    []model.ThoughtRecord
	draft      model.ThoughtRecord
	index      int
	hasIndex   bool
	question   int
	view       View
	hasChanges bool
}

type Option func(*Navigator)

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(n *Navigator) { n.now = now }
}

// WithCatalog selects the prompt catalog; English by default.
func WithCatalog(c *model.Catalog) Option {
	return func(n *Navigator) {
		if c != nil {
			n.catalog = c
		}
	}
}

// New starts a session over records, which were loaded once from storage. The slice is
// copied.
func New(records []model.ThoughtRecord, saver RecordSaver, opts ...Option) *Navigator {
	n := &Navigator{
		saver:   saver,
		catalog: model.English,
		now:     time.Now,
		records: append([]model.ThoughtRecord{}, records...),
		view:    ViewList,
	}
	for _, o := range opts {
		o(n)
	}
	n.resetDraft()
	return n
}

func (n *Navigator) View() View                 { return n.view }
func (n *Navigator) HasChanges() bool           { return n.hasChanges }
func (n *Navigator) Catalog() *model.Catalog    { return n.catalog }
func (n *Navigator) Draft() model.ThoughtRecord { return n.draft }
func (n *Navigator) Len() int                   { return len(n.records) }

// Records returns a copy of the journal in insertion order.
func (n *Navigator) Records() []model.ThoughtRecord {
	return append([]model.ThoughtRecord{}, n.records...)
}

// Record returns a copy of record i.
func (n *Navigator) Record(i int) (model.ThoughtRecord, error) {
	if i < 0 || i >= len(n.records) {
		return model.ThoughtRecord{}, ErrIndexOutOfRange
	}
	return n.records[i], nil
}

// CurrentIndex is the position being edited; ok is false for a new record.
func (n *Navigator) CurrentIndex() (i int, ok bool) {
	return n.index, n.hasIndex
}

// QuestionIndex is the cursor position in [0, QuestionCount).
func (n *Navigator) QuestionIndex() int { return n.question }

func (n *Navigator) Question() model.Question {
	return n.catalog.At(n.question)
}

func (n *Navigator) IsFirstQuestion() bool { return n.question == 0 }
func (n *Navigator) IsLastQuestion() bool  { return n.question == n.catalog.Len()-1 }

func (n *Navigator) resetDraft() {
	n.draft = model.NewRecord(n.now())
	n.index = 0
	n.hasIndex = false
	n.question = 0
	n.hasChanges = false
}

// GoToAdd opens a fresh draft.
func (n *Navigator) GoToAdd() {
	n.resetDraft()
	n.view = ViewEdit
}

// GoToEdit opens a copy of record i. Edits stay in the copy until Save.
func (n *Navigator) GoToEdit(i int) error {
	if i < 0 || i >= len(n.records) {
		return ErrIndexOutOfRange
	}
	n.draft = n.records[i]
	n.index = i
	n.hasIndex = true
	n.question = 0
	n.hasChanges = false
	n.view = ViewEdit
	return nil
}

// GoToHelp shows the help screen; the draft and cursor are kept.
func (n *Navigator) GoToHelp() {
	if n.view != ViewEdit {
		return
	}
	n.view = ViewHelp
}

// BackToEdit leaves the help screen.
func (n *Navigator) BackToEdit() {
	if n.view != ViewHelp {
		return
	}
	n.view = ViewEdit
}

// ConfirmNavigation is the unsaved-changes guard. With no pending changes it proceeds
// without asking.
func (n *Navigator) ConfirmNavigation(confirm Confirm) bool {
	if !n.hasChanges {
		return true
	}
	if confirm == nil {
		return false
	}
	return confirm(n.catalog.Messages.DiscardChanges)
}

// GoToList discards the draft and returns to the list, asking first if there are unsaved
// changes. A declined prompt leaves the session untouched and returns false.
func (n *Navigator) GoToList(confirm Confirm) bool {
	if !n.ConfirmNavigation(confirm) {
		return false
	}
	n.resetDraft()
	n.view = ViewList
	return true
}

func (n *Navigator) NextQuestion() {
	if n.question < n.catalog.Len()-1 {
		n.question++
	}
}

func (n *Navigator) PreviousQuestion() {
	if n.question > 0 {
		n.question--
	}
}

// Answer returns the draft field bound to the question under the cursor.
func (n *Navigator) Answer() string {
	return n.Question().Field().Get(&n.draft)
}

// SetAnswer writes the draft field bound to the question under the cursor.
func (n *Navigator) SetAnswer(v string) {
	n.Question().Field().Set(&n.draft, v)
	n.hasChanges = true
}

// Save stamps the draft, writes it into the journal (in place when editing, appended
// otherwise), persists the whole journal and returns to the list. If persisting fails the
// journal and the draft are left as they were.
func (n *Navigator) Save() error {
	rec := n.draft
	rec.Touch(n.now())

	next := append([]model.ThoughtRecord{}, n.records...)
	if n.hasIndex {
		if n.index < 0 || n.index >= len(next) {
			return ErrIndexOutOfRange
		}
		next[n.index] = rec
	} else {
		next = append(next, rec)
	}

	if err := n.persist(next); err != nil {
		return err
	}
	n.records = next
	n.hasChanges = false
	n.GoToList(nil)
	return nil
}

// Delete removes record i and persists immediately. Later records shift down by one.
func (n *Navigator) Delete(i int) error {
	if i < 0 || i >= len(n.records) {
		return ErrIndexOutOfRange
	}
	next := make([]model.ThoughtRecord, 0, len(n.records)-1)
	next = append(next, n.records[:i]...)
	next = append(next, n.records[i+1:]...)
	if err := n.persist(next); err != nil {
		return err
	}
	n.records = next
	return nil
}

func (n *Navigator) persist(records []model.ThoughtRecord) error {
	if n.saver == nil {
		return nil
	}
	if err := n.saver.SaveRecords(records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}

// Title is the list label of record i.
func (n *Navigator) Title(i int) string {
	if i < 0 || i >= len(n.records) {
		return ""
	}
	return model.DisplayTitle(n.records[i])
}

// LastModified is the formatted last change of record i.
func (n *Navigator) LastModified(i int) string {
	if i < 0 || i >= len(n.records) {
		return ""
	}
	return model.DisplayModified(n.records[i], n.catalog.Messages.DateLayout, time.Local)
}
