package mi

import "strings"

// TrimQuotes strips one leading and one trailing double quote from a stream
// record payload, leaving escape sequences untouched.
func TrimQuotes(payload string) string {
	s := strings.TrimSpace(payload)
	s = strings.TrimPrefix(s, `"`)
	if !strings.HasSuffix(s, `"`) {
		return s
	}
	// The final quote is escaped when an odd number of backslashes precede it.
	backslashes := 0
	for i := len(s) - 2; i >= 0 && s[i] == '\\'; i-- {
		backslashes++
	}
	if backslashes%2 == 0 {
		s = s[:len(s)-1]
	}
	return s
}

// Unescape resolves C escape sequences (\" \\ \n \t \r and octal) in s.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case 'e':
			b.WriteByte(0x1b)
		default:
			if v, n := octalPrefix(s[i:]); n > 0 {
				b.WriteByte(byte(v))
				i += n - 1
				continue
			}
			b.WriteByte(e)
		}
	}
	return b.String()
}

// Unquote returns the text of a stream record payload: surrounding quotes
// stripped and escapes resolved.
func Unquote(payload string) string {
	return Unescape(TrimQuotes(payload))
}

// Quote renders s as a C string literal suitable for an MI command argument.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
