package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vitalis-health/vitalis-go/internal/api"
)

// State is the derived session state.
type State int

const (
	Anonymous State = iota
	Authenticated
)

// String returns the state name.
func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// SessionExpiredNotice is surfaced when a 401 forces teardown.
const SessionExpiredNotice = "Your session has expired. Please log in again."

// TokenIssuer obtains a credential pair from the service. *api.Client
// satisfies it.
type TokenIssuer interface {
	ObtainToken(ctx context.Context, username, password string) (api.TokenPair, error)
}

// Controller orchestrates login, logout and teardown. It is the only
// writer of the credential store, and it implements api.TokenSource so
// the request pipeline always sees the live session state.
//
// All writers execute under one mutex, so two concurrent 401s tear down
// once each with identical end state: clearing an already-empty store and
// navigating to a view already reached are both no-ops.
type Controller struct {
	mu     sync.Mutex
	creds  Credentials
	store  Store
	issuer TokenIssuer
	nav    Navigator
	logger *slog.Logger
}

// NewController derives the initial state from the store: a stored pair
// means Authenticated, optimistically. Store read errors degrade to
// Anonymous rather than failing startup; a corrupt credential file should
// cost a re-login, not the whole client.
func NewController(store Store, issuer TokenIssuer, nav Navigator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		store:  store,
		issuer: issuer,
		nav:    nav,
		logger: logger,
	}

	creds, ok, err := store.Load()
	if err != nil {
		logger.Warn("credential store unreadable, starting anonymous", "err", err)
	} else if ok {
		c.creds = creds
	}
	return c
}

// State returns the session state derived from credential presence.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creds.Valid() {
		return Authenticated
	}
	return Anonymous
}

// AccessToken implements api.TokenSource.
func (c *Controller) AccessToken() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.creds.Valid() {
		return "", false
	}
	return c.creds.Access, true
}

// Login exchanges the credentials for a token pair. On success the pair
// is persisted and the client moves to the dashboard. On failure nothing
// is written and the returned error carries the reason for display; a 401
// here never reaches the global teardown path.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	pair, err := c.issuer.ObtainToken(ctx, username, password)
	if err != nil {
		c.logger.Debug("login rejected", "username", username, "err", err)
		return err
	}

	creds := Credentials{Access: pair.Access, Refresh: pair.Refresh}
	if !creds.Valid() {
		return fmt.Errorf("service issued an incomplete token pair")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Save(creds); err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	c.creds = creds

	c.logger.Info("logged in", "username", username)
	c.nav.NavigateTo(ViewDashboard, "")
	return nil
}

// Logout clears the session on explicit user intent and returns to the
// login view. Calling it while already logged out reaches the same end
// state; it is never an error.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.clearLocked()
	c.mu.Unlock()

	c.nav.NavigateTo(ViewLogin, "")
}

// Teardown clears the session after a detected expiry. Unlike Logout it
// leaves the caller's notice to explain the move, and skips navigation
// when the client is already at the login view.
func (c *Controller) Teardown(notice string) {
	c.mu.Lock()
	c.clearLocked()
	c.mu.Unlock()

	if c.nav.Current() != ViewLogin {
		c.nav.NavigateTo(ViewLogin, notice)
	}
}

// HandleUnauthorized is the hook wired into the request pipeline.
func (c *Controller) HandleUnauthorized() {
	c.logger.Info("authenticated call returned 401, tearing down session")
	c.Teardown(SessionExpiredNotice)
}

// clearLocked wipes the in-memory pair and the store. Callers hold c.mu.
func (c *Controller) clearLocked() {
	c.creds = Credentials{}
	if err := c.store.Clear(); err != nil {
		// The in-memory state is already anonymous; a failed file removal
		// only delays cleanup until the next clear.
		c.logger.Warn("clear credential store", "err", err)
	}
}
