package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

var errNoInput = errors.New("no input: pass a file or pipe text on stdin")

// readInput returns the text of the file named by the first argument, or
// of stdin when there is none or it is "-".
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("unable to read %s: %w", args[0], err)
		}
		log.Debug("read input", "file", args[0], "bytes", len(b))
		return string(b), nil
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) && len(args) == 0 {
		return "", errNoInput
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("unable to read stdin: %w", err)
	}
	return string(b), nil
}

// writeOutput writes text to the named file, or w when the name is empty
// or "-".
func writeOutput(name string, w io.Writer, text string) error {
	if name == "" || name == "-" {
		_, err := io.WriteString(w, text)
		return err
	}
	if err := os.WriteFile(name, []byte(text), 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("unable to write %s: %w", name, err)
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or fallback when it is not a
// terminal.
func terminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
