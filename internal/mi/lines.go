// Package mi decodes the GDB/MI output stream into records.
//
// The stream is line oriented but arrives in arbitrary chunks. A
// LineAssembler turns chunks into complete lines, ParseLine classifies a
// line by its leading descriptor and decodes the quasi-structured payload
// into Fields.
package mi

import "strings"

// PromptMarker is the line GDB prints when it is ready for input.
const PromptMarker = "(gdb)"

// LineAssembler reconstructs complete lines from fragmented chunks.
// It is not safe for concurrent use; the owner serializes Feed calls.
type LineAssembler struct {
	pending string
	raw     bool
}

// NewLineAssembler returns an assembler for the MI stream. Lines are
// trimmed, and empty lines and the prompt marker are dropped.
func NewLineAssembler() *LineAssembler {
	return &LineAssembler{}
}

// NewRawLineAssembler returns an assembler for plain program output.
// Lines keep their content (only a trailing carriage return is removed)
// and blank lines are yielded.
func NewRawLineAssembler() *LineAssembler {
	return &LineAssembler{raw: true}
}

// Feed appends chunk to the pending partial line and returns every line
// completed by it, in order. An unterminated tail is held back until a
// later chunk supplies its newline.
func (a *LineAssembler) Feed(chunk []byte) []string {
	data := a.pending + string(chunk)
	a.pending = ""

	segments := strings.Split(data, "\n")
	if !strings.HasSuffix(data, "\n") {
		a.pending = segments[len(segments)-1]
	}
	// The last segment is either the new pending tail or the empty string
	// after a terminating newline; neither is a complete line.
	segments = segments[:len(segments)-1]

	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		if line, ok := a.clean(seg); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// Flush returns the pending partial line as a final line, if it is one
// that Feed would have yielded, and clears it. Call it when the stream ends.
func (a *LineAssembler) Flush() (string, bool) {
	tail := a.pending
	a.pending = ""
	if tail == "" {
		return "", false
	}
	return a.clean(tail)
}

// Pending returns the buffered partial line.
func (a *LineAssembler) Pending() string {
	return a.pending
}

// Reset discards any buffered partial line.
func (a *LineAssembler) Reset() {
	a.pending = ""
}

func (a *LineAssembler) clean(seg string) (string, bool) {
	if a.raw {
		return strings.TrimSuffix(seg, "\r"), true
	}
	line := strings.TrimSpace(seg)
	if line == "" || line == PromptMarker {
		return "", false
	}
	return line, true
}
