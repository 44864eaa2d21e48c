package verify

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitalis-health/vitalis-go/internal/api"
)

// RegistrationState is a step in the registration flow.
type RegistrationState int

const (
	RegStateForm RegistrationState = iota
	RegStateSubmitting
	RegStateAwaitingCode
	RegStateVerifying
	RegStateVerified
)

// String returns the state name.
func (s RegistrationState) String() string {
	switch s {
	case RegStateForm:
		return "form"
	case RegStateSubmitting:
		return "submitting"
	case RegStateAwaitingCode:
		return "awaiting-code"
	case RegStateVerifying:
		return "verifying"
	case RegStateVerified:
		return "verified"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Registrar is the service surface the registration flow needs.
// *api.Client satisfies it.
type Registrar interface {
	Register(ctx context.Context, username, email, password string) error
	VerifyOTP(ctx context.Context, email, otp string) error
}

// Registration drives the register → verify-code flow:
//
//	Form -> Submitting -> AwaitingCode -> Verifying -> Verified
//
// Failed transitions fall back to their origin state carrying the error
// message. Verified is terminal and does not authenticate: the user logs
// in separately afterwards.
type Registration struct {
	client  Registrar
	state   RegistrationState
	pending *Pending
	errMsg  string
}

// NewRegistration starts a flow at the form.
func NewRegistration(client Registrar) *Registration {
	return &Registration{client: client, state: RegStateForm}
}

// ResumeAwaitingCode enters the code step directly for an email whose
// registration already succeeded (e.g. the user re-runs verification
// after closing the client). The email guard still applies.
func ResumeAwaitingCode(client Registrar, email string) (*Registration, error) {
	if email == "" {
		return nil, ErrNoPending
	}
	return &Registration{
		client:  client,
		state:   RegStateAwaitingCode,
		pending: &Pending{Email: email, Purpose: PurposeRegistrationOTP},
	}, nil
}

// State returns the current flow state.
func (r *Registration) State() RegistrationState {
	return r.state
}

// Err returns the message from the last failed transition, if any.
func (r *Registration) Err() string {
	return r.errMsg
}

// Email returns the pending email, or "" before submission.
func (r *Registration) Email() string {
	if r.pending == nil {
		return ""
	}
	return r.pending.Email
}

// Submit sends the registration form. On success the flow holds a pending
// record for the supplied email and awaits the mailed code.
func (r *Registration) Submit(ctx context.Context, username, email, password string) error {
	if r.state != RegStateForm {
		return fmt.Errorf("verify: cannot submit registration in state %s", r.state)
	}

	r.state = RegStateSubmitting
	r.errMsg = ""

	if err := r.client.Register(ctx, username, email, password); err != nil {
		r.state = RegStateForm
		r.errMsg = registrationMessage(err)
		return err
	}

	r.pending = &Pending{Email: email, Purpose: PurposeRegistrationOTP}
	r.state = RegStateAwaitingCode
	return nil
}

// VerifyCode redeems the one-time code. The code step is unreachable
// without a pending email; entering it anyway is a misuse error mapped to
// restarting the flow.
func (r *Registration) VerifyCode(ctx context.Context, code string) error {
	if r.state != RegStateAwaitingCode {
		return fmt.Errorf("verify: cannot verify code in state %s", r.state)
	}
	if r.pending == nil || r.pending.Email == "" {
		return ErrNoPending
	}

	r.state = RegStateVerifying
	r.errMsg = ""

	if err := r.client.VerifyOTP(ctx, r.pending.Email, code); err != nil {
		r.state = RegStateAwaitingCode
		r.errMsg = api.UserMessage(err)
		return err
	}

	r.state = RegStateVerified
	r.pending = nil
	return nil
}

// registrationMessage prefers field-level errors, matching what the
// registration endpoint returns for taken usernames or emails.
func registrationMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		for _, field := range []string{"username", "email"} {
			if msg := apiErr.FieldError(field); msg != "" {
				return msg
			}
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Registration failed. A user with that username or email may already exist."
	}
	return api.UserMessage(err)
}
