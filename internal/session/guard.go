package session

// StateSource exposes the current derived session state. *Controller
// satisfies it.
type StateSource interface {
	State() State
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed bool
	// RedirectTo is the view to land on instead when not allowed.
	RedirectTo View
	// Notice explains the redirect to the user.
	Notice string
}

// Guard gates navigation on session state. It holds no state of its own:
// every check reads the controller's current derived state, so a login or
// teardown between two navigations changes the answer.
type Guard struct {
	sessions StateSource
}

// NewGuard creates a guard over the given state source.
func NewGuard(sessions StateSource) *Guard {
	return &Guard{sessions: sessions}
}

// Check evaluates a navigation attempt to dest.
func (g *Guard) Check(dest View) Decision {
	if dest.Protected() && g.sessions.State() != Authenticated {
		return Decision{
			RedirectTo: ViewLogin,
			Notice:     "Please log in to continue.",
		}
	}
	return Decision{Allowed: true}
}
