package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. The trailing newline is trimmed; a partial line before EOF is
// returned as-is.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password from the
// user's terminal without echo.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetChoice prompts until the user enters one of the allowed values or an
// empty line. Empty input returns "" so callers can treat it as "keep" or
// "none".
func GetChoice(reader *bufio.Reader, prompt string, allowed []string, w io.Writer) (string, error) {
	full := fmt.Sprintf("%s (%s, empty to skip)", prompt, strings.Join(allowed, "/"))
	for {
		v, err := GetSimpleText(reader, full, w)
		if err != nil {
			return "", err
		}
		if v == "" {
			return "", nil
		}
		for _, ok := range allowed {
			if v == ok {
				return v, nil
			}
		}
		fmt.Fprintln(w, "Please pick one of:", strings.Join(allowed, ", "))
	}
}
