package auth

import (
	"context"
	"time"

	models "github.com/Lancesatorre/Movie-Booking-System-sub001/auth/models"
)

// Submission is what a view hands to the remote side once local checks pass.
type Submission struct {
	Mode models.Mode
	Form models.CredentialForm
}

// Submitter stands in for the network call behind login and signup.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// SubmitterFunc adapts a plain function to Submitter.
type SubmitterFunc func(ctx context.Context, s Submission) error

func (f SubmitterFunc) Submit(ctx context.Context, s Submission) error { return f(ctx, s) }

// SimulatedSubmitter always succeeds after Delay unless ctx ends first.
type SimulatedSubmitter struct {
	Delay time.Duration
}

func (s SimulatedSubmitter) Submit(ctx context.Context, _ Submission) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Navigator performs the one-way route change after a successful login.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }
