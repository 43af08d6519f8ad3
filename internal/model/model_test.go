package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDisplayTitle_PrefersTitle(t *testing.T) {
	r := ThoughtRecord{Title: "Foo", Situation: "something else entirely"}
	if got := DisplayTitle(r); got != "Foo" {
		t.Fatalf("expected %q, got %q", "Foo", got)
	}
}

func TestDisplayTitle_TruncatesSituation(t *testing.T) {
	r := ThoughtRecord{Situation: "I felt anxious at the meeting today about..."}
	want := "I felt anxious at th ..."
	if got := DisplayTitle(r); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDisplayTitle_CountsRunesNotBytes(t *testing.T) {
	r := ThoughtRecord{Situation: "Éreztem, hogy szorongok a megbeszélésen"}
	want := "Éreztem, hogy szoron ..."
	if got := DisplayTitle(r); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDisplayTitle_ShortSituationStillMarked(t *testing.T) {
	r := ThoughtRecord{Situation: "short"}
	if got := DisplayTitle(r); got != "short ..." {
		t.Fatalf("expected marker appended, got %q", got)
	}
}

func TestDisplayModified_FallsBackToCreatedFormatted(t *testing.T) {
	created := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	r := ThoughtRecord{Created: created}
	got := DisplayModified(r, "2006-01-02 15:04:05", time.UTC)
	if got != "2024-03-05 14:07:09" {
		t.Fatalf("expected formatted created, got %q", got)
	}

	r.Modified = created.Add(time.Hour)
	got = DisplayModified(r, "2006-01-02 15:04:05", time.UTC)
	if got != "2024-03-05 15:07:09" {
		t.Fatalf("expected formatted modified, got %q", got)
	}
}

func TestTouch_NeverMovesBackwards(t *testing.T) {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := ThoughtRecord{Created: created, Modified: created.Add(time.Hour)}

	r.Touch(created.Add(-time.Hour))
	if !r.Modified.Equal(created.Add(time.Hour)) {
		t.Fatalf("modified moved backwards: %v", r.Modified)
	}

	later := created.Add(2 * time.Hour)
	r.Touch(later)
	if !r.Modified.Equal(later) {
		t.Fatalf("expected %v, got %v", later, r.Modified)
	}
}

func TestThoughtRecord_DecodesBrowserExport(t *testing.T) {
	raw := `{"title":"","created":"2024-02-10T08:15:30.123Z","situation":"s","emotion":"e",
		"automaticThought":"a","evidenceSupporting":"es","evidenceAgainst":"ea",
		"alternativeThought":"alt","outcome":"o"}`
	var r ThoughtRecord
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.HasModified() {
		t.Fatalf("expected missing modified")
	}
	if r.Created.Year() != 2024 || r.AlternativeThought != "alt" {
		t.Fatalf("unexpected record: %+v", r)
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if _, ok := m["modified"]; ok {
		t.Fatalf("zero modified should be omitted: %s", b)
	}
}

func TestQuestions_BindEveryField(t *testing.T) {
	for _, cat := range []*Catalog{English, Hungarian} {
		if cat.Len() != QuestionCount {
			t.Fatalf("%v: expected %d questions, got %d", cat.Tag, QuestionCount, cat.Len())
		}
		seen := map[string]bool{}
		for i := 0; i < cat.Len(); i++ {
			q := cat.At(i)
			if int(q.ID) != i {
				t.Fatalf("%v: question %d has id %d", cat.Tag, i, q.ID)
			}
			var r ThoughtRecord
			q.Field().Set(&r, "v")
			if q.Field().Get(&r) != "v" {
				t.Fatalf("%v: accessor for %s does not round trip", cat.Tag, q.Field().Name)
			}
			seen[q.Field().Name] = true
		}
		if len(seen) != QuestionCount {
			t.Fatalf("%v: expected %d distinct fields, got %d", cat.Tag, QuestionCount, len(seen))
		}
	}
	if English.At(QuestionCount-1).ID != QuestionTitle {
		t.Fatalf("title must be the last prompt")
	}
}

func TestCatalogFor(t *testing.T) {
	cases := map[string]*Catalog{
		"":            English,
		"C":           English,
		"hu":          Hungarian,
		"hu_HU.UTF-8": Hungarian,
		"en-GB":       English,
		"de_DE":       English,
	}
	for in, want := range cases {
		if got := CatalogFor(in); got != want {
			t.Fatalf("CatalogFor(%q) = %v, want %v", in, got.Tag, want.Tag)
		}
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion([]byte(`{"version":3,"builtAt":"2024-01-01"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v.Version != 3 {
		t.Fatalf("expected 3, got %v", v.Version)
	}
	if _, err := ParseVersion([]byte(`{"version":-1}`)); err == nil {
		t.Fatalf("expected validation error for negative version")
	}
	if _, err := ParseVersion([]byte(`nope`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestParseVersion_AnyNumber(t *testing.T) {
	for in, want := range map[string]float64{
		`{"version":2.5}`: 2.5,
		`{"version":1e3}`: 1000,
		`{"version":0}`:   0,
	} {
		v, err := ParseVersion([]byte(in))
		if err != nil {
			t.Fatalf("ParseVersion(%s): %v", in, err)
		}
		if v.Version != want {
			t.Fatalf("ParseVersion(%s) = %v, want %v", in, v.Version, want)
		}
	}
}
