package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/Lancesatorre/Movie-Booking-System-sub001/auth/models"
)

// visit mounts a view and returns its cookie for follow-up requests.
func visit(t *testing.T, app *App) (*View, *http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	Page(app, rec, httptest.NewRequest(http.MethodGet, "/auth", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	v, ok := app.Sessions.Lookup(withCookie(httptest.NewRequest(http.MethodGet, "/auth", nil), cookies[0]), time.Now())
	require.True(t, ok)
	return v, cookies[0]
}

func withCookie(r *http.Request, c *http.Cookie) *http.Request {
	r.AddCookie(c)
	return r
}

func postForm(path string, values url.Values, c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func TestPage_RendersLoginWithDemoEmail(t *testing.T) {
	app := newTestApp(t, nil)
	rec := httptest.NewRecorder()

	Page(app, rec, httptest.NewRequest(http.MethodGet, "/auth", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `action="/auth/login"`)
	assert.Contains(t, body, `value="demo@cinebook.com"`)
	assert.NotContains(t, body, `name="phone"`)
}

func TestLogin_RedirectsHome(t *testing.T) {
	app := newTestApp(t, nil)
	_, cookie := visit(t, app)

	rec := httptest.NewRecorder()
	Login(app, rec, postForm("/auth/login", url.Values{"email": {"a@b.com"}, "password": {"secret"}}, cookie))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))
}

func TestLogin_MissingFieldRendersNotice(t *testing.T) {
	app := newTestApp(t, nil)
	_, cookie := visit(t, app)

	rec := httptest.NewRecorder()
	Login(app, rec, postForm("/auth/login", url.Values{"email": {"a@b.com"}, "password": {""}}, cookie))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-kind="MissingField"`)
	assert.Contains(t, rec.Body.String(), `value="a@b.com"`)
}

func TestSwitchMode_ThenSignup(t *testing.T) {
	app := newTestApp(t, nil)
	v, cookie := visit(t, app)

	rec := httptest.NewRecorder()
	req := mux.SetURLVars(postForm("/auth/mode/signup", nil, cookie), map[string]string{"mode": "signup"})
	SwitchMode(app, rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.ModeSignup, v.Controller.Mode())

	form := url.Values{
		"firstName":       {"Ada"},
		"lastName":        {"Lovelace"},
		"email":           {"ada@example.com"},
		"phone":           {"12345"},
		"password":        {"secret"},
		"confirmPassword": {"secret"},
	}
	rec = httptest.NewRecorder()
	Signup(app, rec, postForm("/auth/signup", form, cookie))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-kind="InvalidPhoneFormat"`)
	assert.Contains(t, rec.Body.String(), `class="field invalid"`)
	assert.NotContains(t, rec.Body.String(), `value="secret"`)

	form.Set("phone", "0917-123-4567")
	rec = httptest.NewRecorder()
	Signup(app, rec, postForm("/auth/signup", form, cookie))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), signupSuccessText)
	assert.Contains(t, rec.Body.String(), `action="/auth/login"`)
	assert.Equal(t, models.CredentialForm{}, v.Controller.Snapshot().Form)
}

func TestSwitchMode_UnknownMode(t *testing.T) {
	app := newTestApp(t, nil)
	rec := httptest.NewRecorder()
	req := mux.SetURLVars(postForm("/auth/mode/checkout", nil, nil), map[string]string{"mode": "checkout"})

	SwitchMode(app, rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin_NetworkError(t *testing.T) {
	app := newTestApp(t, SubmitterFunc(func(ctx context.Context, s Submission) error {
		return errors.New("upstream down")
	}))
	_, cookie := visit(t, app)

	rec := httptest.NewRecorder()
	Login(app, rec, postForm("/auth/login", url.Values{"password": {"secret"}}, cookie))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-kind="NetworkError"`)
}

func TestLeave_UnmountsView(t *testing.T) {
	app := newTestApp(t, nil)
	v, cookie := visit(t, app)

	rec := httptest.NewRecorder()
	Leave(app, rec, postForm("/auth/leave", nil, cookie))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, v.Controller.Closed())
	assert.Zero(t, app.Sessions.Len())
}

func TestAPI(t *testing.T) {
	app := newTestApp(t, nil)

	cases := []struct {
		name    string
		handler func(*App, http.ResponseWriter, *http.Request)
		body    string
		status  int
		want    map[string]any
	}{
		{"login ok", APILogin, `{"email":"a@b.com","password":"secret"}`, http.StatusOK,
			map[string]any{"ok": true, "redirect": "/home"}},
		{"login missing", APILogin, `{"email":"a@b.com"}`, http.StatusUnprocessableEntity,
			map[string]any{"error": "MissingField", "field": "password"}},
		{"signup mismatch", APISignup,
			`{"firstName":"A","lastName":"B","email":"a@b.com","phone":"09171234567","password":"secret","confirmPassword":"secreT"}`,
			http.StatusUnprocessableEntity, map[string]any{"error": "PasswordMismatch"}},
		{"signup phone taken verbatim", APISignup,
			`{"firstName":"A","lastName":"B","email":"a@b.com","phone":"0917-123-4567","password":"secret","confirmPassword":"secret"}`,
			http.StatusUnprocessableEntity, map[string]any{"error": "InvalidPhoneFormat"}},
		{"signup ok", APISignup,
			`{"firstName":"A","lastName":"B","email":"a@b.com","phone":"09171234567","password":"secret","confirmPassword":"secret"}`,
			http.StatusOK, map[string]any{"ok": true, "message": signupSuccessText}},
		{"bad json", APILogin, `{`, http.StatusBadRequest, map[string]any{"error": "InvalidJSON"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.handler(app, rec, httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(tc.body)))

			require.Equal(t, tc.status, rec.Code)
			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			for k, v := range tc.want {
				assert.Equal(t, v, got[k], k)
			}
		})
	}
}

func TestSignup_WhileInLoginModeConflicts(t *testing.T) {
	app := newTestApp(t, nil)
	v, cookie := visit(t, app)

	rec := httptest.NewRecorder()
	Signup(app, rec, postForm("/auth/signup", url.Values{
		"firstName":       {"Ada"},
		"lastName":        {"Lovelace"},
		"email":           {"ada@example.com"},
		"phone":           {"09171234567"},
		"password":        {"secret"},
		"confirmPassword": {"secret"},
	}, cookie))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-kind="WrongMode"`)
	assert.Equal(t, models.ModeLogin, v.Controller.Mode())
	assert.Equal(t, models.CredentialForm{Email: "demo@cinebook.com"}, v.Controller.Snapshot().Form)
}

func TestLogin_SecondPostWhileBusyKeepsForm(t *testing.T) {
	gate := newGateSubmitter()
	app := newTestApp(t, gate)
	v, cookie := visit(t, app)

	first := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		Login(app, first, postForm("/auth/login", url.Values{"email": {"a@b.com"}, "password": {"secret"}}, cookie))
	}()
	<-gate.started

	rec := httptest.NewRecorder()
	Login(app, rec, postForm("/auth/login", url.Values{"email": {"late@b.com"}, "password": {"other"}}, cookie))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-kind="SubmitInFlight"`)
	assert.Equal(t, "a@b.com", v.Controller.Snapshot().Form.Email)
	assert.Equal(t, "secret", v.Controller.Snapshot().Form.Password)

	close(gate.release)
	<-done
	assert.Equal(t, http.StatusSeeOther, first.Code)
	assert.Equal(t, int32(1), gate.calls.Load())
}

func TestLogin_RequestDeadlineRendersTimeout(t *testing.T) {
	app := newTestApp(t, SimulatedSubmitter{Delay: time.Hour})
	_, cookie := visit(t, app)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := postForm("/auth/login", url.Values{"email": {"a@b.com"}, "password": {"secret"}}, cookie).WithContext(ctx)

	rec := httptest.NewRecorder()
	Login(app, rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-kind="Timeout"`)
	assert.Contains(t, rec.Body.String(), `value="a@b.com"`)
}
