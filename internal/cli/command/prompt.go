package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptLine prints a prompt and reads one trimmed line.
func promptLine(env *Env, prompt string) (string, error) {
	fmt.Fprint(env.Stdout, prompt)

	line, err := env.In().ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads a value without echoing when stdin is a terminal.
// Piped input falls back to a plain line read so scripting still works.
func promptSecret(env *Env, prompt string) (string, error) {
	f, ok := env.Stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return promptLine(env, prompt)
	}

	fmt.Fprint(env.Stdout, prompt)
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(env.Stdout)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// requireValue returns the flag value or prompts for it.
func requireValue(env *Env, c interface{ String(string) string }, flag, prompt string) (string, error) {
	if v := c.String(flag); v != "" {
		return v, nil
	}
	v, err := promptLine(env, prompt)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%s is required", flag)
	}
	return v, nil
}
