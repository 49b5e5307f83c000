// internal/view/render.go
//
// Central view engine: page lookup, func-map injection, and one parsed
// *template.Template* set per page.
//
// Public helpers
// --------------
//   - Render         – buffer a page and write it to an http.ResponseWriter.
//   - RenderToString – return template.HTML (tests, error bodies).
//
// Layout
// ------
//   templates/layout.html       – defines "layout", calls {{ template "content" . }}
//   templates/partials/*.html   – shared blocks (sidebar, alert, …)
//   templates/pages/<name>.html – defines "content" (and optionally "head")
//
// Every page is parsed once at startup together with the layout and the
// partials, so a broken template fails boot instead of a request.
//
// Notes
// -----
// • Rendering is buffered; a template error never leaves a half-written
//   200 on the wire.

package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"
)

const (
	layoutFile   = "templates/layout.html"
	partialsGlob = "templates/partials/*.html"
	pagesGlob    = "templates/pages/*.html"
)

// Renderer holds the parsed page sets.  Safe for concurrent use.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page under fsys.  Page names are file names without
// ".html" (e.g. "login", "dashboard").
func New(fsys fs.FS) (*Renderer, error) {
	files, err := fs.Glob(fsys, pagesGlob)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("view: no pages match %s", pagesGlob)
	}
	partials, err := fs.Glob(fsys, partialsGlob)
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		patterns := append([]string{layoutFile}, partials...)
		patterns = append(patterns, f)

		t, err := template.New("layout").Funcs(funcMap()).ParseFS(fsys, patterns...)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Pages lists the parsed page names, sorted.
func (r *Renderer) Pages() []string {
	out := make([]string, 0, len(r.pages))
	for n := range r.pages {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Render executes page name with p and writes it with status.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p *Page) error {
	html, err := r.RenderToString(name, p)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err = w.Write([]byte(html))
	return err
}

// RenderToString mirrors Render but returns the markup.
func (r *Renderer) RenderToString(name string, p *Page) (template.HTML, error) {
	t, ok := r.pages[name]
	if !ok {
		return "", fmt.Errorf("view: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return "", fmt.Errorf("view: render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
