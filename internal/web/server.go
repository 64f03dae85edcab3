// Package web serves the browser UI: login and registration pages plus the
// protected calendar page, all server-rendered. It runs on a local HTTP
// server over the same store as the CLI and TUI.
package web

import (
	"embed"
	"encoding/base64"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskcal/internal/app"
	"taskcal/internal/calendar"
	"taskcal/internal/store"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const (
	sessionCookieName = "taskcal_web_session"
	noticeCookieName  = "taskcal_notice"
	sessionTTL        = 30 * 24 * time.Hour
)

type ServerConfig struct {
	Addr string
	Dir  string
}

type Server struct {
	mu   sync.RWMutex
	cfg  ServerConfig
	tmpl *template.Template
	log  *slog.Logger
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Dir == "" {
		return nil, errors.New("web: dir is empty")
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim":     strings.TrimSpace,
		"markdown": renderMarkdownHTML,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:  cfg,
		tmpl: tmpl,
		log:  slog.Default().With("component", "web"),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) dir() string {
	s.mu.RLock()
	d := s.cfg.Dir
	s.mu.RUnlock()
	return d
}

func (s *Server) store() store.Store {
	return store.Store{Dir: s.dir()}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /login", s.handleLoginGet)
	mux.HandleFunc("POST /login", s.handleLoginPost)
	mux.HandleFunc("GET /register", s.handleRegisterGet)
	mux.HandleFunc("POST /register", s.handleRegisterPost)
	mux.HandleFunc("POST /logout", s.handleLogoutPost)
	mux.HandleFunc("GET /{$}", s.handleMain)
	mux.HandleFunc("POST /tasks", s.handleTaskAdd)
	mux.HandleFunc("POST /tasks/{taskId}/toggle", s.handleTaskToggle)
	mux.HandleFunc("POST /tasks/{taskId}/edit", s.handleTaskEdit)
	mux.HandleFunc("POST /tasks/{taskId}/delete", s.handleTaskDelete)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// userForRequest returns the session username, or "" when logged out.
func (s *Server) userForRequest(r *http.Request) string {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	secret, err := loadOrInitSecretKey(s.dir())
	if err != nil {
		return ""
	}
	sp, err := verifyToken(secret, c.Value)
	if err != nil || sp.Typ != "session" {
		return ""
	}
	return strings.TrimSpace(sp.Sub)
}

// setNotice stores a transient message for the next page render. Writing a
// new notice replaces the previous cookie wholesale, so overlapping errors
// cannot clear each other early.
func setNotice(w http.ResponseWriter, text string) {
	v := strconv.FormatInt(time.Now().UnixMilli(), 10) + "|" + text
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(v)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeNotice reads and clears the pending notice, returning it only while it
// is still inside its display window.
func takeNotice(w http.ResponseWriter, r *http.Request) app.Notice {
	c, err := r.Cookie(noticeCookieName)
	if err != nil {
		return app.Notice{}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return app.Notice{}
	}
	ms, text, ok := strings.Cut(string(raw), "|")
	if !ok {
		return app.Notice{}
	}
	setAt, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return app.Notice{}
	}
	n := app.NewNotice(text, time.UnixMilli(setAt))
	if !n.Active(time.Now()) {
		return app.Notice{}
	}
	return n
}

type loginVM struct {
	Now    string
	Error  string
	Info   string
	Values url.Values
}

func (s *Server) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	vm := loginVM{Now: time.Now().Format(time.RFC3339)}
	if n := takeNotice(w, r); n.Text != "" {
		vm.Error = n.Text
	}
	if r.URL.Query().Get("registered") == "1" {
		vm.Info = "Account created successfully! You can now log in."
	}
	s.writeHTMLTemplate(w, "login.html", vm)
}

func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.Form.Get("username"))
	password := strings.TrimSpace(r.Form.Get("password"))

	_, ok, err := s.store().Authenticate(r.Context(), username, password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		setNotice(w, "Invalid username or password.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	secret, err := loadOrInitSecretKey(s.dir())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sess, err := newSessionToken(secret, username, sessionTTL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.Info("login", "user", username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRegisterGet(w http.ResponseWriter, r *http.Request) {
	vm := loginVM{Now: time.Now().Format(time.RFC3339)}
	if n := takeNotice(w, r); n.Text != "" {
		vm.Error = n.Text
	}
	s.writeHTMLTemplate(w, "register.html", vm)
}

func (s *Server) handleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.Form.Get("username"))
	password := strings.TrimSpace(r.Form.Get("password"))

	err := s.store().Register(r.Context(), username, password)
	switch {
	case errors.Is(err, store.ErrEmptyCredential):
		setNotice(w, "Please fill all fields.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	case errors.Is(err, store.ErrUsernameTaken):
		setNotice(w, "Username already exists.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("register", "user", username)
	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

func (s *Server) handleLogoutPost(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type panelRowVM struct {
	app.PanelRow
	NoteHTML template.HTML
}

type mainVM struct {
	Now          string
	Username     string
	MonthLabel   string
	Weekdays     []string
	Cells        []app.GridCell
	SelectedDate string
	PanelLabel   string
	Rows         []panelRowVM
	PanelEmpty   bool
	Notice       string
}

// selectedDateFromRequest reads the explicit selection from the query
// string. Anything that is not a valid date key means no selection.
func selectedDateFromRequest(r *http.Request) string {
	d := strings.TrimSpace(r.URL.Query().Get("date"))
	if d == "" {
		return ""
	}
	if _, err := calendar.ParseKey(d); err != nil {
		return ""
	}
	return d
}

func (s *Server) handleMain(w http.ResponseWriter, r *http.Request) {
	username := s.userForRequest(r)
	if username == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	tasks, err := s.store().LoadTasks(r.Context(), username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	now := time.Now()
	panel := app.BuildPanel(tasks, selectedDateFromRequest(r), now)

	vm := mainVM{
		Now:          now.Format(time.RFC3339),
		Username:     username,
		MonthLabel:   calendar.MonthLabel(now),
		Weekdays:     calendar.Weekdays(),
		Cells:        app.DecorateGrid(calendar.Build(now), tasks),
		SelectedDate: panel.SelectedDate,
		PanelLabel:   panel.Label,
		PanelEmpty:   panel.Empty,
	}
	for _, row := range panel.Rows {
		vm.Rows = append(vm.Rows, panelRowVM{PanelRow: row, NoteHTML: renderMarkdownHTML(row.Task.Note)})
	}
	if n := takeNotice(w, r); n.Text != "" {
		vm.Notice = n.Text
	}
	s.writeHTMLTemplate(w, "index.html", vm)
}

// redirectToMain returns to the calendar page, keeping the explicit selected
// date in the URL so the detail panel re-renders for the same day.
func redirectToMain(w http.ResponseWriter, r *http.Request, selectedDate string) {
	target := "/"
	if selectedDate != "" {
		target = "/?date=" + url.QueryEscape(selectedDate)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleTaskAdd(w http.ResponseWriter, r *http.Request) {
	username := s.userForRequest(r)
	if username == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	title := r.Form.Get("title")
	note := r.Form.Get("note")
	dueDate := strings.TrimSpace(r.Form.Get("dueDate"))
	selected := strings.TrimSpace(r.Form.Get("selected"))

	_, err := s.store().AddTask(r.Context(), username, title, note, dueDate)
	switch {
	case errors.Is(err, store.ErrEmptyTitle):
		setNotice(w, "Please enter a task!")
	case errors.Is(err, store.ErrEmptyDueDate), errors.Is(err, store.ErrBadDueDate):
		setNotice(w, "Please set a due date!")
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	default:
		// Show the day the task landed on.
		selected = dueDate
	}
	redirectToMain(w, r, selected)
}

func (s *Server) handleTaskToggle(w http.ResponseWriter, r *http.Request) {
	s.mutateTask(w, r, func(username, taskID string) error {
		return s.store().ToggleComplete(r.Context(), username, taskID)
	})
}

func (s *Server) handleTaskEdit(w http.ResponseWriter, r *http.Request) {
	s.mutateTask(w, r, func(username, taskID string) error {
		return s.store().EditTitle(r.Context(), username, taskID, r.Form.Get("title"))
	})
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	s.mutateTask(w, r, func(username, taskID string) error {
		return s.store().DeleteTask(r.Context(), username, taskID)
	})
}

// mutateTask wraps the per-task POST handlers: session check, form parse,
// mutation, then a redirect that preserves the selected date. Unknown task
// ids are silent no-ops at the store layer, so they fall through to the
// redirect with nothing changed.
func (s *Server) mutateTask(w http.ResponseWriter, r *http.Request, fn func(username, taskID string) error) {
	username := s.userForRequest(r)
	if username == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	taskID := strings.TrimSpace(r.PathValue("taskId"))
	if err := fn(username, taskID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirectToMain(w, r, strings.TrimSpace(r.Form.Get("selected")))
}
