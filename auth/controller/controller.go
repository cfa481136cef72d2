package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	models "github.com/Lancesatorre/Movie-Booking-System-sub001/auth/models"
)

const signupSuccessText = "Account created successfully! Please log in."

// State is a point-in-time copy of what the view renders.
type State struct {
	Mode    models.Mode
	Form    models.CredentialForm
	Loading bool
	Notice  string
}

type Options struct {
	DemoEmail string
	HomePath  string
	Submitter Submitter
	Navigator Navigator
	Checker   *Checker
	Logger    *log.Logger
}

// Controller owns one login/signup view: its mode, its form record and its
// loading flag. A Controller lives until Close is called.
type Controller struct {
	mu      sync.Mutex
	mode    models.Mode
	form    models.CredentialForm
	loading bool
	notice  string

	homePath  string
	submitter Submitter
	nav       Navigator
	checker   *Checker
	logger    *log.Logger

	life   context.Context
	cancel context.CancelFunc
}

func NewController(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Checker == nil {
		opts.Checker = NewChecker()
	}
	if opts.Submitter == nil {
		opts.Submitter = SimulatedSubmitter{}
	}
	if opts.Navigator == nil {
		opts.Navigator = NavigatorFunc(func(string) {})
	}
	if opts.HomePath == "" {
		opts.HomePath = "/home"
	}
	life, cancel := context.WithCancel(context.Background())
	return &Controller{
		mode:      models.ModeLogin,
		form:      models.NewCredentialForm(opts.DemoEmail),
		homePath:  opts.HomePath,
		submitter: opts.Submitter,
		nav:       opts.Navigator,
		checker:   opts.Checker,
		logger:    opts.Logger,
		life:      life,
		cancel:    cancel,
	}
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Mode: c.mode, Form: c.form, Loading: c.loading, Notice: c.notice}
}

func (c *Controller) Mode() models.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// UpdateField merges one value into the form. Unknown keys are ignored.
// In signup mode the phone value is normalized first.
func (c *Controller) UpdateField(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == models.FieldPhone && c.mode == models.ModeSignup {
		value = NormalizePhoneInput(value)
	}
	c.form = c.form.With(name, value)
}

// UpdateFieldsFor merges several values at once, but only while the view is
// idle and in mode. On error nothing is changed.
func (c *Controller) UpdateFieldsFor(mode models.Mode, fields map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(mode); err != nil {
		return err
	}
	for name, value := range fields {
		if name == models.FieldPhone && c.mode == models.ModeSignup {
			value = NormalizePhoneInput(value)
		}
		c.form = c.form.With(name, value)
	}
	return nil
}

func (c *Controller) SwitchToSignup() error { return c.setMode(models.ModeSignup) }

func (c *Controller) SwitchToLogin() error { return c.setMode(models.ModeLogin) }

func (c *Controller) setMode(m models.Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.life.Err() != nil {
		return ErrClosed
	}
	if c.loading {
		return ErrSubmitInFlight
	}
	c.mode = m
	c.notice = ""
	return nil
}

// SubmitLogin checks email and password, waits on the submitter and then
// navigates to the home path.
func (c *Controller) SubmitLogin(ctx context.Context) error {
	form, err := c.begin(models.ModeLogin, c.checker.CheckLogin)
	if err != nil {
		return err
	}
	defer c.finish()

	if err := c.remote(ctx, Submission{Mode: models.ModeLogin, Form: form}, form); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.life.Err() != nil {
		return ErrClosed
	}
	c.logger.Printf("[auth] login accepted for %s", form.Email)
	c.nav.Navigate(c.homePath)
	return nil
}

// SubmitSignup runs the signup rules, waits on the submitter, then returns
// the view to login mode with an empty form.
func (c *Controller) SubmitSignup(ctx context.Context) error {
	form, err := c.begin(models.ModeSignup, c.checker.CheckSignup)
	if err != nil {
		return err
	}
	defer c.finish()

	if err := c.remote(ctx, Submission{Mode: models.ModeSignup, Form: form}, form); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.life.Err() != nil {
		return ErrClosed
	}
	c.logger.Printf("[auth] signup accepted for %s", form.Email)
	c.mode = models.ModeLogin
	c.form = models.CredentialForm{}
	c.notice = signupSuccessText
	return nil
}

// ready reports why the view cannot take a submit in mode right now.
// Callers hold c.mu.
func (c *Controller) ready(mode models.Mode) error {
	if c.life.Err() != nil {
		return ErrClosed
	}
	if c.loading {
		return ErrSubmitInFlight
	}
	if c.mode != mode {
		return ErrWrongMode
	}
	return nil
}

// begin validates the current form and raises the loading flag. On error
// nothing is changed.
func (c *Controller) begin(mode models.Mode, check func(models.CredentialForm) error) (models.CredentialForm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ready(mode); err != nil {
		return models.CredentialForm{}, err
	}
	c.notice = ""
	form := c.form
	if err := check(form); err != nil {
		c.logger.Printf("[auth] %s rejected: %v", mode, err)
		return models.CredentialForm{}, err
	}
	c.loading = true
	return form, nil
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

// remote runs the submitter bound to both ctx and the controller lifetime.
// On failure of a live view the form is put back to what was submitted.
func (c *Controller) remote(ctx context.Context, s Submission, saved models.CredentialForm) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.life, cancel)
	defer stop()

	err := c.submitter.Submit(ctx, s)
	if err == nil {
		return nil
	}

	c.mu.Lock()
	if c.life.Err() != nil {
		c.mu.Unlock()
		return ErrClosed
	}
	c.form = saved
	c.mu.Unlock()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	c.logger.Printf("[auth] %s submit failed: %v", s.Mode, err)
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// Close ends the view. In-flight submits are cancelled and will not navigate
// or reset the form.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
}

func (c *Controller) Closed() bool {
	return c.life.Err() != nil
}
