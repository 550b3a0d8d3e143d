// Package editor launches the user's text editor for multi-line input.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// fallbackEditor is used when nothing else is configured.
const fallbackEditor = "vi"

// Resolve picks the editor command: explicit config first, then $VISUAL,
// then $EDITOR, then a plain vi fallback.
func Resolve(configured string) string {
	if configured != "" {
		return configured
	}
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if v := os.Getenv("EDITOR"); v != "" {
		return v
	}
	return fallbackEditor
}

// Open writes initial to a temp file, runs the editor command on it, and
// returns the trimmed file contents afterwards. The editor command may
// carry arguments ("code -w").
func Open(editorCmd, initial string) (string, error) {
	parts := strings.Fields(editorCmd)
	if len(parts) == 0 {
		return "", fmt.Errorf("empty editor command")
	}

	tmp, err := os.CreateTemp("", "tood-*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(initial); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor %s: %w", parts[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read temp file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
