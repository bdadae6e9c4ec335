package mi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedFields is returned when a field section cannot be decoded.
var ErrMalformedFields = errors.New("malformed field section")

// Fields is a decoded MI field section. Values are string, map[string]any
// (tuples) or []any (lists), nested arbitrarily.
type Fields map[string]any

// String returns the string value stored under key.
func (f Fields) String(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}

// Tuple returns the tuple stored under key.
func (f Fields) Tuple(key string) (Fields, bool) {
	m, ok := f[key].(map[string]any)
	return Fields(m), ok
}

// List returns the list stored under key.
func (f Fields) List(key string) ([]any, bool) {
	l, ok := f[key].([]any)
	return l, ok
}

// DecodeFields decodes the comma-separated `key=value` section that follows
// a record's class. It returns the fields and their JSON form. On failure it
// returns empty (non-nil) fields, "{}" and an error wrapping
// ErrMalformedFields.
func DecodeFields(section string) (Fields, string, error) {
	doc := "{" + rewriteFields(section) + "}"
	if !gjson.Valid(doc) {
		return Fields{}, "{}", fmt.Errorf("%w: %s", ErrMalformedFields, abbreviate(section, 80))
	}
	m, ok := gjson.Parse(doc).Value().(map[string]any)
	if !ok {
		return Fields{}, "{}", fmt.Errorf("%w: not an object", ErrMalformedFields)
	}
	return Fields(m), doc, nil
}

type bracketContext uint8

const (
	contextObject bracketContext = iota
	contextArray
)

// rewriteFields turns an MI field section into the body of a JSON object
// in one pass. Outside quoted strings, `key=` becomes `"key":`. A stack of
// enclosing bracket contexts is kept; GDB labels list elements
// (`stack=[frame={...},frame={...}]`), so a label that directly follows `,`
// or `[` while the innermost context is a list is dropped.
func rewriteFields(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)

	var stack []bracketContext
	inList := func() bool {
		return len(stack) > 0 && stack[len(stack)-1] == contextArray
	}

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			i = copyCString(&b, s, i)
		case isKeyChar(c):
			j := i
			for j < len(s) && isKeyChar(s[j]) {
				j++
			}
			if j < len(s) && s[j] == '=' {
				labelsElement := i > 0 && (s[i-1] == ',' || s[i-1] == '[') && inList()
				if !labelsElement {
					b.WriteByte('"')
					b.WriteString(s[i:j])
					b.WriteString(`":`)
				}
				i = j + 1
				continue
			}
			b.WriteString(s[i:j])
			i = j
		default:
			switch c {
			case '[':
				stack = append(stack, contextArray)
			case '{':
				stack = append(stack, contextObject)
			case ']', '}':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func isKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}

// copyCString copies the C string starting at s[start] (an opening quote)
// into b as a JSON string and returns the index after the closing quote.
// C escapes JSON does not know are translated; octal escapes become raw
// bytes so multi-byte UTF-8 sequences survive.
func copyCString(b *strings.Builder, s string, start int) int {
	b.WriteByte('"')
	i := start + 1
	for i < len(s) {
		c := s[i]
		switch {
		case c == '"':
			b.WriteByte('"')
			return i + 1
		case c == '\\' && i+1 < len(s):
			n, consumed := translateEscape(s[i+1:])
			b.WriteString(n)
			i += 1 + consumed
		case c < 0x20:
			fmt.Fprintf(b, `\u%04x`, c)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	// Unterminated: leave it for the JSON validator to reject.
	return i
}

// translateEscape maps the escape sequence at the start of rest (the text
// after a backslash) to its JSON spelling and reports how many bytes of rest
// it used.
func translateEscape(rest string) (string, int) {
	switch c := rest[0]; c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return `\` + string(c), 1
	case '\'', '?':
		return string(c), 1
	case 'a':
		return `\u0007`, 1
	case 'v':
		return `\u000b`, 1
	case 'e':
		return `\u001b`, 1
	}
	if v, n := octalPrefix(rest); n > 0 {
		switch {
		case v == '"' || v == '\\':
			return `\` + string(rune(v)), n
		case v < 0x20 || v == 0x7f:
			return fmt.Sprintf(`\u%04x`, v), n
		default:
			return string([]byte{byte(v)}), n
		}
	}
	// Unknown escape: keep the character, drop the backslash.
	return string(rest[0]), 1
}

// octalPrefix parses up to three octal digits at the start of s.
func octalPrefix(s string) (int, int) {
	n := 0
	for n < 3 && n < len(s) && s[n] >= '0' && s[n] <= '7' {
		n++
	}
	if n == 0 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:n], 8, 16)
	if err != nil || v > 0xff {
		return 0, 0
	}
	return int(v), n
}

func abbreviate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
