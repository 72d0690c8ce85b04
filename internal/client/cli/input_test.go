package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword(&out, "Password")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetChoice(t *testing.T) {
	allowed := []string{"public", "private"}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Accepts an allowed value",
			input:    "public\n",
			expected: "public",
		},
		{
			name:     "Empty line skips",
			input:    "\n",
			expected: "",
		},
		{
			name:     "Reprompts until a value is allowed",
			input:    "nope\nalso-nope\nprivate\n",
			expected: "private",
		},
		{
			name:     "Whitespace trimmed before matching",
			input:    "  public  \n",
			expected: "public",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetChoice(rdr(tc.input), "Visibility", allowed, &out)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}
