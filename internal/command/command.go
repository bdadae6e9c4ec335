// Package command builds GDB/MI command lines.
//
// Builders are pure functions: they validate their typed arguments and
// return the command text to pass to session.IssueCommand or session.Exec.
// They never talk to a debugger.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tessro/gdbmi/internal/mi"
)

// Errors returned by builders.
var (
	ErrEmptyArgument = errors.New("argument cannot be empty")
	ErrInvalidNumber = errors.New("number must not be negative")
	ErrInvalidID     = errors.New("id must be positive")
	ErrInvalidMode   = errors.New("unknown mode")
)

// ArgumentError describes an invalid builder argument.
type ArgumentError struct {
	Command string
	Arg     string
	Err     error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Command, e.Arg, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Quote returns s as a single MI argument: unchanged when it is a plain
// word, otherwise as a C string literal.
func Quote(s string) string {
	if s == "" {
		return `""`
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c <= ' ', c == '"', c == '\\', c == '\'', c >= 0x7f:
			return mi.Quote(s)
		}
	}
	return s
}

// line joins a command name and its non-empty parts with single spaces.
func line(name string, parts ...string) string {
	var b strings.Builder
	b.WriteString(name)
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(p)
	}
	return b.String()
}

func requireText(cmd, arg, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ArgumentError{Command: cmd, Arg: arg, Err: ErrEmptyArgument}
	}
	return nil
}

func requireID(cmd, arg string, id int) error {
	if id <= 0 {
		return &ArgumentError{Command: cmd, Arg: arg, Err: ErrInvalidID}
	}
	return nil
}

func requireCount(cmd, arg string, n int) error {
	if n < 0 {
		return &ArgumentError{Command: cmd, Arg: arg, Err: ErrInvalidNumber}
	}
	return nil
}

func ids(cmd string, list []int) (string, error) {
	if len(list) == 0 {
		return "", &ArgumentError{Command: cmd, Arg: "ids", Err: ErrEmptyArgument}
	}
	parts := make([]string, len(list))
	for i, id := range list {
		if err := requireID(cmd, "ids", id); err != nil {
			return "", err
		}
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " "), nil
}

func flag(set bool, name string) string {
	if set {
		return name
	}
	return ""
}
