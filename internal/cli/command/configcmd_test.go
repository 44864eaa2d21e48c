package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigShow(t *testing.T) {
	server := newMockServer(t)
	f := newFixture(t, server, "")

	if err := f.run(t, "--output", "yaml", "config", "show"); err != nil {
		t.Fatalf("config show: %v", err)
	}

	out := f.out.String()
	if !strings.Contains(out, "server: "+server.URL) {
		t.Errorf("server missing from %q", out)
	}
	if !strings.Contains(out, "output: table") {
		t.Errorf("output format missing from %q", out)
	}
}

func TestConfigInitWritesFile(t *testing.T) {
	server := newMockServer(t)
	f := newFixture(t, server, "")

	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := f.run(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	if !strings.Contains(string(data), "server:") {
		t.Errorf("written config = %q", data)
	}
}

func TestConfigPath(t *testing.T) {
	server := newMockServer(t)
	f := newFixture(t, server, "")

	if err := f.run(t, "--config", "/tmp/custom.yaml", "config", "path"); err != nil {
		t.Fatalf("config path: %v", err)
	}
	if !strings.Contains(f.out.String(), "/tmp/custom.yaml") {
		t.Errorf("output = %q", f.out.String())
	}
}
