package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/mux"

	models "github.com/Lancesatorre/Movie-Booking-System-sub001/auth/models"
	"github.com/Lancesatorre/Movie-Booking-System-sub001/views"
)

// App carries what the handlers need. One App serves every visitor.
type App struct {
	Sessions        *Sessions
	Checker         *Checker
	Submitter       Submitter
	DemoEmail       string
	HomePath        string
	TransitionDelay time.Duration
	Logger          *log.Logger
}

// redirectRecorder captures a navigation so the HTTP layer can turn it
// into a redirect.
type redirectRecorder struct {
	mu   sync.Mutex
	path string
}

func (r *redirectRecorder) Navigate(path string) {
	r.mu.Lock()
	r.path = path
	r.mu.Unlock()
}

func (r *redirectRecorder) take() string {
	if r == nil {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.path
	r.path = ""
	return p
}

func (a *App) logger() *log.Logger {
	if a.Logger == nil {
		return log.Default()
	}
	return a.Logger
}

func (a *App) newController(nav Navigator) *Controller {
	return NewController(Options{
		DemoEmail: a.DemoEmail,
		HomePath:  a.HomePath,
		Submitter: a.Submitter,
		Navigator: nav,
		Checker:   a.Checker,
		Logger:    a.Logger,
	})
}

// NewView builds a freshly mounted view; Sessions calls it on first visit.
func (a *App) NewView(id string) *View {
	rec := &redirectRecorder{}
	return &View{
		ID:         id,
		Controller: a.newController(rec),
		Transition: &views.Transition{Delay: a.TransitionDelay},
		nav:        rec,
	}
}

func Landing(app *App, w http.ResponseWriter, r *http.Request) {
	if err := views.Landing(w, http.StatusOK); err != nil {
		app.logger().Printf("[http] render landing: %v", err)
	}
}

func Home(app *App, w http.ResponseWriter, r *http.Request) {
	if err := views.Home(w, http.StatusOK); err != nil {
		app.logger().Printf("[http] render home: %v", err)
	}
}

// Page renders the visitor's login/signup view, mounting it on first visit.
func Page(app *App, w http.ResponseWriter, r *http.Request) {
	v := app.Sessions.Mount(w, r, time.Now())
	renderView(app, w, v, http.StatusOK, nil)
}

func Login(app *App, w http.ResponseWriter, r *http.Request) {
	submit(app, w, r, models.ModeLogin, func(c *Controller, ctx context.Context) error { return c.SubmitLogin(ctx) })
}

func Signup(app *App, w http.ResponseWriter, r *http.Request) {
	submit(app, w, r, models.ModeSignup, func(c *Controller, ctx context.Context) error { return c.SubmitSignup(ctx) })
}

// submit applies the posted fields and runs the submit for mode. A view
// that is busy or in the other mode rejects the post without touching the form.
func submit(app *App, w http.ResponseWriter, r *http.Request, mode models.Mode, run func(*Controller, context.Context) error) {
	v := app.Sessions.Mount(w, r, time.Now())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	err := v.Controller.UpdateFieldsFor(mode, postedFields(r.PostForm))
	if err == nil {
		err = run(v.Controller, r.Context())
	}
	switch {
	case err == nil:
		if dest := v.nav.take(); dest != "" {
			http.Redirect(w, r, dest, http.StatusSeeOther)
			return
		}
		st := v.Controller.Snapshot()
		renderView(app, w, v, http.StatusOK, &views.Notice{Kind: "Success", Text: st.Notice, Success: true})
	case errors.Is(err, context.Canceled) && r.Context().Err() != nil:
		// client went away
	default:
		renderView(app, w, v, statusFor(err), noticeFor(err))
	}
}

// SwitchMode runs the two-phase transition to the mode named in the path.
func SwitchMode(app *App, w http.ResponseWriter, r *http.Request) {
	v := app.Sessions.Mount(w, r, time.Now())

	var flip func() error
	switch models.Mode(mux.Vars(r)["mode"]) {
	case models.ModeLogin:
		flip = v.Controller.SwitchToLogin
	case models.ModeSignup:
		flip = v.Controller.SwitchToSignup
	default:
		http.NotFound(w, r)
		return
	}

	if err := v.Transition.Run(r.Context(), flip); err != nil {
		if r.Context().Err() != nil {
			return
		}
		renderView(app, w, v, statusFor(err), noticeFor(err))
		return
	}
	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}

// Leave unmounts the visitor's view.
func Leave(app *App, w http.ResponseWriter, r *http.Request) {
	if v, ok := app.Sessions.Lookup(r, time.Now()); ok {
		app.Sessions.Unmount(v.ID)
	}
	app.Sessions.clearCookie(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func APILogin(app *App, w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "InvalidJSON", "", "Invalid JSON format")
		return
	}
	apiSubmit(app, w, r, req.Form(), models.ModeLogin)
}

func APISignup(app *App, w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "InvalidJSON", "", "Invalid JSON format")
		return
	}
	apiSubmit(app, w, r, req.Form(), models.ModeSignup)
}

// apiSubmit drives a throwaway controller. Values are taken verbatim: the
// phone normalizer belongs to the interactive signup form only.
func apiSubmit(app *App, w http.ResponseWriter, r *http.Request, form models.CredentialForm, mode models.Mode) {
	rec := &redirectRecorder{}
	c := app.newController(rec)
	defer c.Close()

	for _, name := range models.FieldNames {
		c.UpdateField(name, form.Get(name))
	}

	var err error
	if mode == models.ModeSignup {
		if err = c.SwitchToSignup(); err == nil {
			err = c.SubmitSignup(r.Context())
		}
	} else {
		err = c.SubmitLogin(r.Context())
	}
	if err != nil {
		if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
			return
		}
		writeErr(w, statusFor(err), Kind(err), fieldOf(err), Message(err))
		return
	}

	out := map[string]any{"ok": true}
	if dest := rec.take(); dest != "" {
		out["redirect"] = dest
	} else {
		out["message"] = c.Snapshot().Notice
	}
	writeJSON(w, http.StatusOK, out)
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func postedFields(values url.Values) map[string]string {
	fields := make(map[string]string)
	for _, name := range models.FieldNames {
		if _, ok := values[name]; ok {
			fields[name] = values.Get(name)
		}
	}
	return fields
}

func renderView(app *App, w http.ResponseWriter, v *View, status int, notice *views.Notice) {
	st := v.Controller.Snapshot()
	page := views.AuthPage{
		Mode:      st.Mode,
		Form:      st.Form,
		Loading:   st.Loading,
		Animating: v.Transition.Animating(),
		Notice:    notice,
	}
	if err := views.Auth(w, status, page); err != nil {
		app.logger().Printf("[http] render auth: %v", err)
	}
}

func statusFor(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrSubmitInFlight), errors.Is(err, ErrWrongMode):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, ErrClosed):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

func noticeFor(err error) *views.Notice {
	return &views.Notice{Kind: Kind(err), Text: Message(err), Field: fieldOf(err)}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, kind, field, msg string) {
	body := map[string]any{"error": kind, "message": msg}
	if field != "" {
		body["field"] = field
	}
	writeJSON(w, code, body)
}
