package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/rogerio-castellano/capri-storefront/internal/models"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

type views struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"money": money,
	"add":   func(a, b int) int { return a + b },
	"sub":   func(a, b int) int { return a - b },
}

// money formats a price as shown on cards, tolerating the optional previous price.
func money(v any) string {
	switch d := v.(type) {
	case decimal.Decimal:
		return "$" + d.StringFixed(2)
	case *decimal.Decimal:
		if d == nil {
			return ""
		}
		return "$" + d.StringFixed(2)
	default:
		return fmt.Sprint(v)
	}
}

// loadViews parses every page together with the shared layout.
func loadViews() (*views, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	v := &views{pages: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		t, err := template.New(path.Base(file)).Funcs(templateFuncs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		v.pages[path.Base(file)] = t
	}
	return v, nil
}

// viewBase is embedded by every page model; the layout reads it.
type viewBase struct {
	Title   string
	User    *models.Identity
	Error   string
	Success string
	Refresh *metaRefresh
}

type metaRefresh struct {
	Seconds int
	URL     string
}

func (s *Server) base(r *http.Request, title string) viewBase {
	b := viewBase{Title: title}
	if id, ok := s.currentUser(r); ok {
		b.User = &id
	}
	return b
}

// render executes a page into a buffer first so a template error never leaves a
// half-written response.
func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := s.views.pages[page]
	if !ok {
		s.log.Errorf("unknown template %s", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.WithError(err).Errorf("failed to render %s", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.WithError(err).Debug("failed to write response")
	}
}

type errorPage struct {
	viewBase
	Status int
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	data := errorPage{viewBase: s.base(r, "Error"), Status: status}
	data.Error = msg
	s.render(w, status, "error.html", data)
}
