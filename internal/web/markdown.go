package web

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"nag-cli/internal/docs"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in help documents is not passed through.
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

var helpPage = template.Must(template.New("help").Parse(`<!doctype html>
<html lang="{{.Lang}}">
<head><meta charset="utf-8"><title>nag</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
<main>{{.Body}}</main>
</body>
</html>
`))

// handleHelpHTML serves the help document rendered for browsers.
func (s *Server) handleHelpHTML(w http.ResponseWriter, r *http.Request) {
	lang := strings.TrimSpace(r.URL.Query().Get("lang"))
	if lang == "" {
		lang = "en"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := helpPage.Execute(w, struct {
		Lang string
		Body template.HTML
	}{Lang: lang, Body: renderMarkdownHTML(docs.Help(lang))})
	if err != nil {
		s.log.Error("render help", "err", err)
	}
}
