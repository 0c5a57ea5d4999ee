package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// PromptFilterID asks for a JIRA filter id.
func PromptFilterID(defaultID string) (string, error) {
	id := defaultID
	err := huh.NewInput().
		Title("JIRA filter ID").
		Placeholder("12345").
		Value(&id).
		Validate(validateFilterID).
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to read filter id: %w", err)
	}
	return strings.TrimSpace(id), nil
}

// PromptOutputDir asks for the output directory. An empty answer keeps
// defaultDir, or "." when that is empty too.
func PromptOutputDir(defaultDir string) (string, error) {
	if defaultDir == "" {
		defaultDir = "."
	}
	dir := defaultDir
	err := huh.NewInput().
		Title("Output directory").
		Value(&dir).
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to read output directory: %w", err)
	}
	if dir = strings.TrimSpace(dir); dir == "" {
		dir = defaultDir
	}
	return dir, nil
}

// PromptSecret asks for a value without echoing it.
func PromptSecret(title string) (string, error) {
	var secret string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&secret).
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(title), err)
	}
	return strings.TrimSpace(secret), nil
}

// Confirm asks a yes/no question. The answer defaults to no.
func Confirm(title string) (bool, error) {
	var ok bool
	if err := confirmField(title, &ok).Run(); err != nil {
		return false, fmt.Errorf("failed to confirm: %w", err)
	}
	return ok, nil
}

func confirmField(title string, value *bool) *huh.Confirm {
	return huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(value)
}

func validateFilterID(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("filter id is required")
	}
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("filter id must be a number")
	}
	return nil
}
