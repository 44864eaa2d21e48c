package command

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vitalis-health/vitalis-go/internal/cli/config"
)

// mockServer fakes the analysis service with per-path handlers.
type mockServer struct {
	*httptest.Server
	mux *http.ServeMux
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &mockServer{Server: server, mux: mux}
}

func (m *mockServer) handle(pattern string, handler http.HandlerFunc) {
	m.mux.HandleFunc(pattern, handler)
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// fixture is a wired Env plus captured output for driving commands.
type fixture struct {
	env *Env
	out *bytes.Buffer
}

// newFixture builds an Env against the mock server. stdin scripts the
// interactive prompts.
func newFixture(t *testing.T, server *mockServer, stdin string) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Server = server.URL
	cfg.DataDir = t.TempDir()
	cfg.Timeout = 5 * time.Second
	cfg.RequestsPerSecond = 0

	out := &bytes.Buffer{}
	env, err := NewEnv(cfg, strings.NewReader(stdin), out, io.Discard)
	if err != nil {
		t.Fatalf("NewEnv: %v", err)
	}
	t.Cleanup(func() { env.Close() })

	return &fixture{env: env, out: out}
}

// run executes a CLI invocation against the fixture's environment.
func (f *fixture) run(t *testing.T, args ...string) error {
	t.Helper()

	app := &cli.App{
		Name:     "vitalis-cli",
		Flags:    globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			StatusCommand(),
			RegisterCommand(),
			VerifyCommand(),
			PasswordCommand(),
			ReportCommand(),
			ChatCommand(),
			ConfigCommand(),
		},
		Metadata: map[string]any{envKey: f.env},
		Writer:   f.out,
	}

	return app.Run(append([]string{"vitalis-cli"}, args...))
}

// login drives a successful login against a token handler already
// registered on the server.
func (f *fixture) login(t *testing.T) {
	t.Helper()
	if err := f.run(t, "login", "--username", "alice", "--password", "correct"); err != nil {
		t.Fatalf("login: %v", err)
	}
	f.out.Reset()
}

// handleToken registers a token endpoint accepting one password.
func handleToken(server *mockServer, password string) {
	server.handle("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Password != password {
			jsonResponse(w, http.StatusUnauthorized, map[string]string{
				"detail": "No active account found with the given credentials",
			})
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{
			"access":  "access-token",
			"refresh": "refresh-token",
		})
	})
}
