package views

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	models "github.com/Lancesatorre/Movie-Booking-System-sub001/auth/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.New("pages").ParseFS(templatesFS, "templates/*.html"))

// Notice is the banner shown above the form after a submit.
type Notice struct {
	Kind    string
	Text    string
	Field   string
	Success bool
}

// AuthPage is the view model of the login/signup page.
type AuthPage struct {
	Mode      models.Mode
	Form      models.CredentialForm
	Loading   bool
	Animating bool
	Notice    *Notice
}

type InputView struct {
	Name    string
	Label   string
	Type    string
	Value   string
	Invalid bool
}

func (p AuthPage) Title() string {
	if p.IsSignup() {
		return "Create your account"
	}
	return "Log in"
}

func (p AuthPage) IsSignup() bool { return p.Mode == models.ModeSignup }

// Input builds the view of one form field. Passwords are never echoed back.
func (p AuthPage) Input(name, label, typ string) InputView {
	in := InputView{Name: name, Label: label, Type: typ}
	if typ != "password" {
		in.Value = p.Form.Get(name)
	}
	if p.Notice != nil && !p.Notice.Success && p.Notice.Field == name {
		in.Invalid = true
	}
	return in
}

func Landing(w http.ResponseWriter, status int) error {
	return render(w, status, "landing.html", nil)
}

func Auth(w http.ResponseWriter, status int, page AuthPage) error {
	return render(w, status, "auth.html", page)
}

func Home(w http.ResponseWriter, status int) error {
	return render(w, status, "home.html", nil)
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
