package api

import (
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"
)

// TokenSource supplies the current access token. Implementations must
// reflect the live session state: the authenticator consults the source on
// every dispatch, so a login or logout between two requests changes what
// the second request carries.
type TokenSource interface {
	// AccessToken returns the current access token and whether one is held.
	AccessToken() (string, bool)
}

// Middleware wraps an http.RoundTripper with additional functionality.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain chains multiple middlewares together. The first middleware is the
// outermost.
func Chain(rt http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	for i := len(middlewares) - 1; i >= 0; i-- {
		rt = middlewares[i](rt)
	}
	return rt
}

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// RequestID tags each outbound request with a unique X-Request-ID, unless
// the caller already set one.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("X-Request-ID") == "" {
				req = cloneRequest(req)
				req.Header.Set("X-Request-ID", "req-"+ulid.Make().String())
			}
			return next.RoundTrip(req)
		})
	}
}

// Authenticate attaches the current access token as a bearer credential.
// The token source is read per request, not cached: requests dispatched
// after a logout go out unauthenticated, and requests dispatched after a
// login carry the fresh token. Requests already in flight when credentials
// change are not re-signed.
func Authenticate(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if tokens != nil {
				if token, ok := tokens.AccessToken(); ok {
					req = cloneRequest(req)
					req.Header.Set("Authorization", "Bearer "+token)
				}
			}
			return next.RoundTrip(req)
		})
	}
}

// Throttle paces request dispatch with the given limiter. A nil limiter
// disables throttling.
func Throttle(limiter *rate.Limiter) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if limiter != nil {
				if err := limiter.Wait(req.Context()); err != nil {
					return nil, err
				}
			}
			return next.RoundTrip(req)
		})
	}
}

// InterceptUnauthorized invokes hook when an authenticated request comes
// back 401. The response still propagates to the caller, so feature-level
// error handling runs as usual; the hook only handles the cross-cutting
// session teardown.
//
// A 401 on a request that carried no bearer credential (the login call
// itself, registration, verification) never fires the hook: those failures
// belong to the calling form, and routing them through a global teardown
// would loop the user back onto the login view they are already on.
//
// This stage must sit inside Authenticate in the chain so that it observes
// the Authorization header actually sent.
func InterceptUnauthorized(hook func()) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil || resp == nil {
				return resp, err
			}
			if resp.StatusCode == http.StatusUnauthorized && hook != nil &&
				strings.HasPrefix(req.Header.Get("Authorization"), "Bearer ") {
				hook()
			}
			return resp, err
		})
	}
}

// cloneRequest returns a shallow copy of req with a deep-copied header,
// per the RoundTripper contract that requests must not be mutated.
func cloneRequest(req *http.Request) *http.Request {
	clone := req.Clone(req.Context())
	return clone
}
