package model

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// QuestionID identifies one prompt of the thought record and, through it, the record field
// the prompt fills in.
type QuestionID int

const (
	QuestionSituation QuestionID = iota
	QuestionEmotion
	QuestionAutomaticThought
	QuestionEvidenceSupporting
	QuestionEvidenceAgainst
	QuestionAlternativeThought
	QuestionOutcome
	QuestionTitle
)

// QuestionCount is the number of prompts in a thought record.
const QuestionCount = 8

// Field is a typed accessor pair for one record field.
type Field struct {
	Name string
	Get  func(r *ThoughtRecord) string
	Set  func(r *ThoughtRecord, v string)
}

var fields = [QuestionCount]Field{
	QuestionSituation: {
		Name: "situation",
		Get:  func(r *ThoughtRecord) string { return r.Situation },
		Set:  func(r *ThoughtRecord, v string) { r.Situation = v },
	},
	QuestionEmotion: {
		Name: "emotion",
		Get:  func(r *ThoughtRecord) string { return r.Emotion },
		Set:  func(r *ThoughtRecord, v string) { r.Emotion = v },
	},
	QuestionAutomaticThought: {
		Name: "automaticThought",
		Get:  func(r *ThoughtRecord) string { return r.AutomaticThought },
		Set:  func(r *ThoughtRecord, v string) { r.AutomaticThought = v },
	},
	QuestionEvidenceSupporting: {
		Name: "evidenceSupporting",
		Get:  func(r *ThoughtRecord) string { return r.EvidenceSupporting },
		Set:  func(r *ThoughtRecord, v string) { r.EvidenceSupporting = v },
	},
	QuestionEvidenceAgainst: {
		Name: "evidenceAgainst",
		Get:  func(r *ThoughtRecord) string { return r.EvidenceAgainst },
		Set:  func(r *ThoughtRecord, v string) { r.EvidenceAgainst = v },
	},
	QuestionAlternativeThought: {
		Name: "alternativeThought",
		Get:  func(r *ThoughtRecord) string { return r.AlternativeThought },
		Set:  func(r *ThoughtRecord, v string) { r.AlternativeThought = v },
	},
	QuestionOutcome: {
		Name: "outcome",
		Get:  func(r *ThoughtRecord) string { return r.Outcome },
		Set:  func(r *ThoughtRecord, v string) { r.Outcome = v },
	},
	QuestionTitle: {
		Name: "title",
		Get:  func(r *ThoughtRecord) string { return r.Title },
		Set:  func(r *ThoughtRecord, v string) { r.Title = v },
	},
}

// Field returns the accessor the question binds to.
func (id QuestionID) Field() Field {
	return fields[id]
}

func (id QuestionID) Valid() bool {
	return id >= 0 && int(id) < QuestionCount
}

// Question is one guided prompt.
type Question struct {
	ID          QuestionID
	Title       string
	Description string
}

// Field returns the accessor for the record field this question fills in.
func (q Question) Field() Field {
	return q.ID.Field()
}

// Catalog is the ordered, immutable list of prompts for one locale.
type Catalog struct {
	Tag       language.Tag
	Messages  Messages
	questions [QuestionCount]Question
}

// Len is always QuestionCount.
func (c *Catalog) Len() int { return len(c.questions) }

// At returns the question at position i. Callers keep i within [0, Len()).
func (c *Catalog) At(i int) Question { return c.questions[i] }

// Questions returns a copy of the ordered prompts.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions[:])
	return out
}

var English = &Catalog{
	Tag: language.English,
	Messages: Messages{
		DiscardChanges:   "Your changes will not be saved. Continue?",
		ExportTitle:      "Thought Records Export",
		ExportText:       "Here are the exported thought records.",
		ShareUnsupported: "Sharing is not supported on this device.",
		UpdateAvailable:  "A new version is available.",
		DeleteRecord:     "Delete this thought record?",
		Exported:         "Exported to",
		Yes:              "Yes",
		No:               "No",
		DateLayout:       "1/2/2006 3:04:05 PM",
	},
	questions: [QuestionCount]Question{
		{QuestionSituation, "Situation", "What happened? What was I doing? Who was I with, and where?"},
		{QuestionEmotion, "Emotion, mood", "What did I feel? How strong was the emotion or mood (%)?"},
		{QuestionAutomaticThought, "Negative automatic thoughts", "What went through my mind just before I started feeling bad? How strongly did I believe it (%)?"},
		{QuestionEvidenceSupporting, "Evidence that the thought is true", "What facts support the automatic thought?"},
		{QuestionEvidenceAgainst, "Evidence that the thought is NOT true", "What speaks against the automatic thought? What shows it is not true?"},
		{QuestionAlternativeThought, "A more balanced, realistic thought", "How would I answer the automatic thought? How could I see the situation more realistically?"},
		{QuestionOutcome, "New feeling, or the old one re-rated", "What do I feel now? How did the feeling change (%)?"},
		{QuestionTitle, "Title (optional)", "Give this entry a title. Without one it is listed by the start of the situation and its date."},
	},
}

var Hungarian = &Catalog{
	Tag: language.Hungarian,
	Messages: Messages{
		DiscardChanges:   "A változások nem lesznek mentve. Biztosan folytatod?",
		ExportTitle:      "Gondolatnapló export",
		ExportText:       "Az exportált gondolatnapló bejegyzések.",
		ShareUnsupported: "A megosztás ezen az eszközön nem támogatott.",
		UpdateAvailable:  "Új verzió érhető el.",
		DeleteRecord:     "Biztosan törlöd ezt a bejegyzést?",
		Exported:         "Exportálva ide:",
		Yes:              "Igen",
		No:               "Nem",
		DateLayout:       "2006. 01. 02. 15:04:05",
	},
	questions: [QuestionCount]Question{
		{QuestionSituation, "Helyzet", "Mi történt? Mit csináltam? Kivel, milyen helyzetben voltam?"},
		{QuestionEmotion, "Érzelem, hangulat", "Mit éreztem? Érzelem, hangulat erőssége (%)?"},
		{QuestionAutomaticThought, "Negatív automatikus gondolatok (NAG)", "Milyen gondolat futott át a fejemen, mielőtt rosszul kezdtem érezni magam? Mennyire voltam meggyőződve róluk? (%)"},
		{QuestionEvidenceSupporting, "Érvek, tények, hogy a NAG igaz", "Mi bizonyítja, hogy igaz a NAG?"},
		{QuestionEvidenceAgainst, "Érvek, tények, hogy a NAG NEM igaz", "Mi szól a NAG ellen? Mi bizonyítja, hogy a NAG nem igaz?"},
		{QuestionAlternativeThought, "Kiegyensúlyozottabb, reálisabb gondolat", "Hogyan válaszolom meg a negatív automatikus gondolatot? Hogyan lehet reálisabban értékelni a helyzetet?"},
		{QuestionOutcome, "Új érzés vagy régi érzés újraértékelése", "Mit érzek most? Hogyan változott meg az érzésem (%)?"},
		{QuestionTitle, "Cím (opcionális)", "Itt adhatsz egy címet a bejegyzésednek (ha nem adsz, akkor a dátum alapján tudod később megtalálni)."},
	},
}

var catalogs = []*Catalog{English, Hungarian}

var matcher = language.NewMatcher([]language.Tag{English.Tag, Hungarian.Tag})

// CatalogFor picks the best catalog for a locale string such as "hu", "hu_HU.UTF-8" or
// "en-GB". Unknown or empty input falls back to English.
func CatalogFor(locale string) *Catalog {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || strings.EqualFold(locale, "C") || strings.EqualFold(locale, "POSIX") {
		return English
	}
	_, idx, conf := matcher.Match(language.Make(locale))
	if conf == language.No {
		return English
	}
	return catalogs[idx]
}

// LocaleFromEnv returns the first non-empty of LC_ALL, LC_MESSAGES, LANG.
func LocaleFromEnv() string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
