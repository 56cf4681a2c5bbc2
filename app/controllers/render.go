package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"newsboard/app/middleware"
	"newsboard/app/urls"

	"go.uber.org/zap"
)

// Context is the data handed to a page: template data for HTML, the
// response body for JSON.
type Context map[string]any

// pages maps a page name to the template files it is built from.
var pages = map[string][]string{
	"home":           {"layout.html", "news/home.html"},
	"detail":         {"layout.html", "news/detail.html", "comments/field.html"},
	"comment_edit":   {"layout.html", "comments/edit.html", "comments/field.html"},
	"comment_delete": {"layout.html", "comments/delete.html"},
	"login":          {"layout.html", "auth/login.html"},
	"logout":         {"layout.html", "auth/logout.html"},
	"signup":         {"layout.html", "auth/signup.html"},
	"error":          {"layout.html", "error.html"},
}

var templateFuncs = template.FuncMap{
	"homeURL":     func() string { return urls.Home },
	"loginURL":    func() string { return urls.Login },
	"logoutURL":   func() string { return urls.Logout },
	"signupURL":   func() string { return urls.Signup },
	"newsURL":     urls.NewsDetail,
	"commentsURL": urls.NewsComments,
	"editURL":     urls.CommentEdit,
	"deleteURL":   urls.CommentDelete,
	"pageURL":     pageURL,
	"inc":         func(i int) int { return i + 1 },
	"dec":         func(i int) int { return i - 1 },
	"date":        func(t time.Time) string { return t.Format("02.01.2006") },
	"isoDate":     func(t time.Time) string { return t.Format("2006-01-02") },
	"datetime":    func(t time.Time) string { return t.Local().Format("02.01.2006 15:04") },
	"truncate":    truncate,
}

func pageURL(page int) string {
	if page <= 1 {
		return urls.Home
	}
	return urls.Home + "?page=" + strconv.Itoa(page)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

// loadTemplates parses every page from fsys.
func loadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, files := range pages {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s templates: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// Renderer writes pages as HTML or JSON depending on the request.
type Renderer struct {
	templates map[string]*template.Template
	logger    *zap.Logger
}

// NewRenderer parses the templates in fsys.
func NewRenderer(fsys fs.FS, logger *zap.Logger) (*Renderer, error) {
	templates, err := loadTemplates(fsys)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{templates: templates, logger: logger}, nil
}

// wantsJSON reports whether the client asked for JSON rather than HTML.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api"
}

// Render writes page with ctx. The signed-in user is available to
// templates as "user" and appears in JSON only when present.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, page string, status int, ctx Context) {
	user := middleware.UserFromContext(r.Context())

	if wantsJSON(r) {
		if user != nil {
			ctx["user"] = user
		}
		rd.sendJSON(w, status, ctx)
		return
	}

	tmpl, ok := rd.templates[page]
	if !ok {
		rd.ServerError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}

	data := make(map[string]any, len(ctx)+1)
	for k, v := range ctx {
		data[k] = v
	}
	data["user"] = user

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		rd.ServerError(w, r, fmt.Errorf("template %s: %w", page, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Redirect sends a 302 to location.
func (rd *Renderer) Redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusFound)
}

// Error writes an error page, or {"error": message} for JSON clients.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	if wantsJSON(r) {
		rd.sendJSON(w, status, map[string]string{"error": message})
		return
	}

	var buf bytes.Buffer
	data := map[string]any{
		"status": status,
		"error":  message,
		"user":   middleware.UserFromContext(r.Context()),
	}
	if err := rd.templates["error"].ExecuteTemplate(&buf, "layout", data); err != nil {
		rd.logger.Error("failed to render error page", zap.Error(err))
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NotFound writes a 404 page.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Error(w, r, http.StatusNotFound, "Not found")
}

// ServerError logs err against the request and writes a 500 page.
func (rd *Renderer) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	middleware.RecordError(r.Context(), err)
	rd.logger.Error("request failed",
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
		zap.Error(err),
	)
	rd.Error(w, r, http.StatusInternalServerError, "Internal Server Error")
}

func (rd *Renderer) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rd.logger.Warn("failed to encode response", zap.Error(err))
	}
}
