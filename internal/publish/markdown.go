package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"nag-cli/internal/model"
)

type RenderOptions struct {
	// IncludeEmpty keeps sections for unanswered questions.
	IncludeEmpty bool
}

// RenderRecordMarkdown renders one record as a standalone page. Section headings are the
// catalog's question titles, so a Hungarian catalog yields a Hungarian page.
func RenderRecordMarkdown(rec model.ThoughtRecord, catalog *model.Catalog, opt RenderOptions) string {
	if catalog == nil {
		catalog = model.English
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(model.DisplayTitle(rec)))
	writeLn("")
	writeLn("- Created: " + rec.Created.UTC().Format(time.RFC3339))
	if rec.HasModified() {
		writeLn("- Modified: " + rec.Modified.UTC().Format(time.RFC3339))
	}

	for _, q := range catalog.Questions() {
		if q.ID == model.QuestionTitle {
			continue
		}
		answer := strings.TrimSpace(q.Field().Get(&rec))
		if answer == "" {
			if !opt.IncludeEmpty {
				continue
			}
			answer = "(empty)"
		}
		writeLn("")
		writeLn("## " + q.Title)
		writeLn("")
		writeLn(answer)
	}

	return buf.String()
}

// RenderIndexMarkdown lists every record in journal order, linking to its page.
func RenderIndexMarkdown(records []model.ThoughtRecord, catalog *model.Catalog) string {
	if catalog == nil {
		catalog = model.English
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + catalog.Messages.ExportTitle)
	writeLn("")
	if len(records) == 0 {
		writeLn("(no records)")
		return buf.String()
	}
	for i, rec := range records {
		modified := model.DisplayModified(rec, catalog.Messages.DateLayout, time.UTC)
		writeLn(fmt.Sprintf("- [%s](%s) (%s)", escapeLinkText(model.DisplayTitle(rec)), recordPage(i), modified))
	}
	return buf.String()
}

func recordPage(i int) string {
	return fmt.Sprintf("records/%03d.md", i)
}

func escapeLinkText(s string) string {
	r := strings.NewReplacer("[", `\[`, "]", `\]`)
	return r.Replace(strings.TrimSpace(s))
}
