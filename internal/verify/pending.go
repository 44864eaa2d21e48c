package verify

import (
	"errors"
	"net/url"
	"strings"
)

// Purpose identifies which flow a pending record belongs to.
type Purpose int

const (
	PurposeRegistrationOTP Purpose = iota
	PurposePasswordReset
)

// Pending is the ephemeral context carried between requesting and
// redeeming a verification. It is never persisted: a reload or process
// restart discards it and the flow restarts from the beginning.
type Pending struct {
	Email   string
	Purpose Purpose

	// ResetUserRef and ResetToken are set only for PurposePasswordReset,
	// extracted from the reset link's path segments.
	ResetUserRef string
	ResetToken   string
}

// Flow misuse errors.
var (
	// ErrNoPending marks an attempt to enter a verification step without
	// the pending context it requires. Callers redirect to the start of
	// the flow rather than failing hard.
	ErrNoPending = errors.New("verify: no pending verification")

	// ErrPasswordMismatch is the local precondition failure on reset
	// confirmation. No request is sent when it fires.
	ErrPasswordMismatch = errors.New("verify: passwords do not match")

	// ErrBadResetLink marks a reset link whose path lacks the expected
	// user-ref and token segments.
	ErrBadResetLink = errors.New("verify: reset link is missing its token segments")
)

// ParseResetLink extracts the (userRef, token) pair from a reset link.
// Links look like https://host/reset-password/{userRef}/{token}/; a bare
// path is accepted too.
func ParseResetLink(link string) (userRef, token string, err error) {
	u, parseErr := url.Parse(strings.TrimSpace(link))
	if parseErr != nil {
		return "", "", ErrBadResetLink
	}

	var segments []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	// Prefer the two segments following "reset-password"; a link naming
	// that view with fewer segments is malformed. Bare segment pairs are
	// accepted as a fallback for hand-trimmed links.
	for i, seg := range segments {
		if seg == "reset-password" {
			if len(segments) > i+2 {
				return segments[i+1], segments[i+2], nil
			}
			return "", "", ErrBadResetLink
		}
	}
	if len(segments) == 2 {
		return segments[0], segments[1], nil
	}
	return "", "", ErrBadResetLink
}
