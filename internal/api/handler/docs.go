package handler

import (
	"fmt"
	"html/template"
	"net/http"
)

// DefaultDocsBaseURL points at the locally served API documentation.
const DefaultDocsBaseURL = "http://localhost:3001/api-docs"

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>SmartAirCity API Documentation</title>
  <style>
    html, body { margin: 0; height: 100%; }
    iframe { border: 0; width: 100%; height: 100%; }
  </style>
</head>
<body>
  <iframe src="{{.DocsURL}}" title="API documentation"></iframe>
</body>
</html>
`))

// DocsHandler serves the embedded documentation viewer page.
type DocsHandler struct {
	docsURL string
}

// NewDocsHandler creates a DocsHandler pointing at the given
// documentation URL. An empty URL uses the local default.
func NewDocsHandler(docsURL string) *DocsHandler {
	if docsURL == "" {
		docsURL = DefaultDocsBaseURL
	}
	return &DocsHandler{docsURL: docsURL}
}

// ServeDocs handles GET /docs - renders the documentation viewer.
func (h *DocsHandler) ServeDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := docsPage.Execute(w, struct{ DocsURL string }{DocsURL: h.docsURL}); err != nil {
		fmt.Fprint(w, "failed to render documentation page")
	}
}

// RedirectDocs handles GET /docs/raw - redirects to the documentation
// source for clients that want it full-page.
func (h *DocsHandler) RedirectDocs(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.docsURL, http.StatusTemporaryRedirect)
}
