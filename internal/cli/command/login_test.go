package command

import (
	"strings"
	"testing"

	"github.com/vitalis-health/vitalis-go/internal/session"
)

func TestLoginCommand(t *testing.T) {
	server := newMockServer(t)
	handleToken(server, "correct")
	f := newFixture(t, server, "")

	if err := f.run(t, "login", "--username", "alice", "--password", "correct"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if !strings.Contains(f.out.String(), "Logged in as alice.") {
		t.Errorf("output = %q", f.out.String())
	}
	if f.env.Sessions.State() != session.Authenticated {
		t.Error("session not authenticated after login")
	}
	if f.env.Nav.Current() != session.ViewDashboard {
		t.Errorf("view = %s, want dashboard", f.env.Nav.Current())
	}
}

func TestLoginCommandPromptsForCredentials(t *testing.T) {
	server := newMockServer(t)
	handleToken(server, "typed-in")
	f := newFixture(t, server, "alice\ntyped-in\n")

	if err := f.run(t, "login"); err != nil {
		t.Fatalf("login with prompts: %v", err)
	}
	if f.env.Sessions.State() != session.Authenticated {
		t.Error("session not authenticated")
	}
}

func TestLoginCommandRejected(t *testing.T) {
	server := newMockServer(t)
	handleToken(server, "correct")
	f := newFixture(t, server, "")

	err := f.run(t, "login", "--username", "alice", "--password", "wrong")
	if err == nil {
		t.Fatal("login with bad password succeeded")
	}
	if !strings.Contains(err.Error(), "No active account") {
		t.Errorf("err = %v, want service message", err)
	}
	if f.env.Sessions.State() != session.Anonymous {
		t.Error("session authenticated after rejected login")
	}
}

func TestLogoutCommand(t *testing.T) {
	server := newMockServer(t)
	handleToken(server, "correct")
	f := newFixture(t, server, "")
	f.login(t)

	if err := f.run(t, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if f.env.Sessions.State() != session.Anonymous {
		t.Error("still authenticated after logout")
	}
	if f.env.Nav.Current() != session.ViewLogin {
		t.Errorf("view = %s, want login", f.env.Nav.Current())
	}
}

func TestStatusCommand(t *testing.T) {
	server := newMockServer(t)
	f := newFixture(t, server, "")

	if err := f.run(t, "status"); err != nil {
		t.Fatalf("status: %v", err)
	}

	out := f.out.String()
	if !strings.Contains(out, "anonymous") {
		t.Errorf("state missing from %q", out)
	}
	if !strings.Contains(out, server.URL) {
		t.Errorf("server missing from %q", out)
	}
}
