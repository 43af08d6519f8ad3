package model

import (
	"time"
)

const (
	titlePreviewRunes = 20
	truncationMarker  = " ..."
)

// DisplayTitle is the list label for a record: its own title, or the start of the situation.
// It is derived on every call and never stored.
func DisplayTitle(r ThoughtRecord) string {
	if r.Title != "" {
		return r.Title
	}
	s := []rune(r.Situation)
	if len(s) > titlePreviewRunes {
		s = s[:titlePreviewRunes]
	}
	return string(s) + truncationMarker
}

// DisplayModified formats the last change of a record in local time. Records without a
// modified stamp show their created time with the same layout.
func DisplayModified(r ThoughtRecord, layout string, loc *time.Location) string {
	t := r.Modified
	if !r.HasModified() {
		t = r.Created
	}
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = English.Messages.DateLayout
	}
	return t.In(loc).Format(layout)
}
