package narrative

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ConfiguredAPIKey returns OPENAI_API_KEY, or configured when the variable is unset.
func ConfiguredAPIKey(configured string) string {
	if k := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); k != "" {
		return k
	}
	return strings.TrimSpace(configured)
}

// ResolveAPIKey is ConfiguredAPIKey falling back to a terminal prompt. It returns ErrNoAPIKey when
// stdin is not a terminal and no key is set.
func ResolveAPIKey(configured string) (string, error) {
	if k := ConfiguredAPIKey(configured); k != "" {
		return k, nil
	}
	return PromptAPIKey(os.Stdout)
}

// PromptAPIKey reads a key from the terminal without echoing it.
func PromptAPIKey(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoAPIKey
	}
	fmt.Fprint(w, "Enter your OpenAI API key (sk-...): ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("reading key: %w", err)
	}
	k := strings.TrimSpace(string(b))
	if k == "" {
		return "", ErrNoAPIKey
	}
	return k, nil
}
