package verify

import (
	"context"
	"fmt"

	"github.com/vitalis-health/vitalis-go/internal/api"
)

// ResetRequestState is a step in the reset-request flow.
type ResetRequestState int

const (
	ResetRequestForm ResetRequestState = iota
	ResetRequestSubmitting
	ResetRequestSubmitted
)

// ResetConfirmState is a step in the reset-confirmation flow.
type ResetConfirmState int

const (
	ResetConfirmForm ResetConfirmState = iota
	ResetConfirmSubmitting
	ResetConfirmCompleted
)

// ResetConfirmationMessage is shown after any reset request. It is
// identical whether or not the email matched an account, so the flow
// leaks nothing about which addresses are registered.
const ResetConfirmationMessage = "If an account with that email exists, a password reset link has been sent. Please check your email."

// ResetRequester is the service surface for requesting a reset link.
type ResetRequester interface {
	RequestPasswordReset(ctx context.Context, email string) error
}

// ResetConfirmer is the service surface for redeeming a reset link.
type ResetConfirmer interface {
	ConfirmPasswordReset(ctx context.Context, userRef, token, password string) error
}

// ResetRequest drives the forgot-password request:
//
//	RequestForm -> Submitting -> RequestSubmitted
//
// RequestSubmitted is a terminal, static confirmation.
type ResetRequest struct {
	client ResetRequester
	state  ResetRequestState
	errMsg string
}

// NewResetRequest starts a flow at the form.
func NewResetRequest(client ResetRequester) *ResetRequest {
	return &ResetRequest{client: client, state: ResetRequestForm}
}

// State returns the current flow state.
func (r *ResetRequest) State() ResetRequestState {
	return r.state
}

// Err returns the message from the last failed transition, if any.
func (r *ResetRequest) Err() string {
	return r.errMsg
}

// Submit requests a reset link for email. The endpoint answers 2xx for
// any address; only transport-level failures keep the flow at the form.
func (r *ResetRequest) Submit(ctx context.Context, email string) error {
	if r.state != ResetRequestForm {
		return fmt.Errorf("verify: cannot request reset in state %d", r.state)
	}

	r.state = ResetRequestSubmitting
	r.errMsg = ""

	if err := r.client.RequestPasswordReset(ctx, email); err != nil {
		r.state = ResetRequestForm
		r.errMsg = api.UserMessage(err)
		return err
	}

	r.state = ResetRequestSubmitted
	return nil
}

// ResetConfirm drives the reset-confirmation flow:
//
//	ResetForm -> Submitting -> Completed
//
// It is a separate entry point from ResetRequest, reachable only through
// a mailed link carrying the (userRef, token) pair in its path.
type ResetConfirm struct {
	client  ResetConfirmer
	state   ResetConfirmState
	pending *Pending
	errMsg  string
}

// NewResetConfirm enters the confirmation form with an already-extracted
// token pair. Both halves are required; the form is unreachable without
// them.
func NewResetConfirm(client ResetConfirmer, userRef, token string) (*ResetConfirm, error) {
	if userRef == "" || token == "" {
		return nil, ErrNoPending
	}
	return &ResetConfirm{
		client: client,
		state:  ResetConfirmForm,
		pending: &Pending{
			Purpose:      PurposePasswordReset,
			ResetUserRef: userRef,
			ResetToken:   token,
		},
	}, nil
}

// ResetConfirmFromLink parses a mailed reset link and enters the form.
func ResetConfirmFromLink(client ResetConfirmer, link string) (*ResetConfirm, error) {
	userRef, token, err := ParseResetLink(link)
	if err != nil {
		return nil, err
	}
	return NewResetConfirm(client, userRef, token)
}

// State returns the current flow state.
func (r *ResetConfirm) State() ResetConfirmState {
	return r.state
}

// Err returns the message from the last failed transition, if any.
func (r *ResetConfirm) Err() string {
	return r.errMsg
}

// Submit sets the new password. Password and confirmation must match
// byte-for-byte before any request is sent; a mismatch is a purely local
// failure with no state change.
func (r *ResetConfirm) Submit(ctx context.Context, password, confirm string) error {
	if r.state != ResetConfirmForm {
		return fmt.Errorf("verify: cannot confirm reset in state %d", r.state)
	}

	if password != confirm {
		r.errMsg = "Passwords do not match."
		return ErrPasswordMismatch
	}

	r.state = ResetConfirmSubmitting
	r.errMsg = ""

	if err := r.client.ConfirmPasswordReset(ctx, r.pending.ResetUserRef, r.pending.ResetToken, password); err != nil {
		r.state = ResetConfirmForm
		r.errMsg = api.UserMessage(err)
		return err
	}

	r.state = ResetConfirmCompleted
	r.pending = nil
	return nil
}
