package session

import "sync"

// View names a navigable destination in the client. The set mirrors the
// service's page structure: authentication entry points plus the
// authenticated area.
type View string

const (
	ViewLogin          View = "login"
	ViewRegister       View = "register"
	ViewVerifyOTP      View = "verify-otp"
	ViewForgotPassword View = "forgot-password"
	ViewResetPassword  View = "reset-password"
	ViewDashboard      View = "dashboard"
	ViewHistory        View = "history"
	ViewAbout          View = "about"
)

// Protected reports whether the view requires an authenticated session.
// Authentication views are deliberately not restricted to anonymous
// users: a logged-in user may re-login to switch accounts.
func (v View) Protected() bool {
	switch v {
	case ViewDashboard, ViewHistory, ViewAbout:
		return true
	default:
		return false
	}
}

// Navigator moves the client between views. Implementations surface the
// notice to the user when one is supplied.
type Navigator interface {
	// NavigateTo makes view current. notice, when non-empty, explains the
	// move (e.g. a session-expired message).
	NavigateTo(view View, notice string)

	// Current returns the view the client is on.
	Current() View
}

// MemoryNavigator is a Navigator that only tracks state. It backs tests
// and serves as the core of interactive navigators. Safe for concurrent
// use: teardowns triggered by concurrent in-flight requests may navigate
// from multiple goroutines.
type MemoryNavigator struct {
	mu     sync.Mutex
	view   View
	notice string
}

// NewMemoryNavigator starts at the given view.
func NewMemoryNavigator(start View) *MemoryNavigator {
	return &MemoryNavigator{view: start}
}

// NavigateTo implements Navigator.
func (n *MemoryNavigator) NavigateTo(view View, notice string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.view = view
	n.notice = notice
}

// Current implements Navigator.
func (n *MemoryNavigator) Current() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// LastNotice returns the notice from the most recent navigation.
func (n *MemoryNavigator) LastNotice() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.notice
}
