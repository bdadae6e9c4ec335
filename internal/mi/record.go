package mi

import (
	"regexp"

	"github.com/tidwall/gjson"
)

// Descriptor is the leading character of an MI output line.
type Descriptor byte

const (
	DescriptorNone    Descriptor = 0
	DescriptorLog     Descriptor = '&' // log-stream-output (GDB internals)
	DescriptorConsole Descriptor = '~' // console-stream-output
	DescriptorStatus  Descriptor = '+' // status-async-output (progress)
	DescriptorNotify  Descriptor = '=' // notify-async-output
	DescriptorResult  Descriptor = '^' // result-record
	DescriptorExec    Descriptor = '*' // exec-async-output
	DescriptorTarget  Descriptor = '@' // target-stream-output
)

// Kind groups descriptors by how a session reacts to them.
type Kind int

const (
	// KindProgram is output from the debuggee: '@' or no descriptor.
	KindProgram Kind = iota
	// KindConsole is GDB console or log chatter: '~' and '&'.
	KindConsole
	// KindAsync is supplementary async information: '+' and '='.
	KindAsync
	// KindTerminal may complete the in-flight command: '^' and '*'.
	KindTerminal
)

// Kind returns the descriptor's kind.
func (d Descriptor) Kind() Kind {
	switch d {
	case DescriptorLog, DescriptorConsole:
		return KindConsole
	case DescriptorStatus, DescriptorNotify:
		return KindAsync
	case DescriptorResult, DescriptorExec:
		return KindTerminal
	default:
		return KindProgram
	}
}

// String returns the descriptor's name.
func (d Descriptor) String() string {
	switch d {
	case DescriptorLog:
		return "log"
	case DescriptorConsole:
		return "console"
	case DescriptorStatus:
		return "status"
	case DescriptorNotify:
		return "notify"
	case DescriptorResult:
		return "result"
	case DescriptorExec:
		return "exec"
	case DescriptorTarget:
		return "target"
	default:
		return "none"
	}
}

func isDescriptor(c byte) bool {
	switch Descriptor(c) {
	case DescriptorLog, DescriptorConsole, DescriptorStatus, DescriptorNotify,
		DescriptorResult, DescriptorExec, DescriptorTarget:
		return true
	}
	return false
}

// Record is one classified and decoded output line.
type Record struct {
	// Token is the numeric command token preceding the descriptor, if any.
	Token string

	Descriptor Descriptor

	// Payload is the line text following the descriptor. For lines without
	// a descriptor it is the whole line.
	Payload string

	// Class is the state label (e.g. "done", "stopped", "thread-group-started").
	// HasClass reports whether the payload carried one.
	Class    string
	HasClass bool

	// Fields holds the decoded key/value section. It is nil when the record
	// carries no field section at all, and empty (non-nil) when the record
	// has a class but no fields or the fields failed to decode.
	Fields Fields

	// Raw is the JSON form of Fields, usable with Get.
	Raw string

	// Err is set when the field section could not be decoded.
	Err error
}

// Get looks up a gjson path (e.g. "frame.line", "stack.0.func") in the
// record's fields.
func (r Record) Get(path string) gjson.Result {
	if r.Raw == "" {
		return gjson.Result{}
	}
	return gjson.Get(r.Raw, path)
}

var (
	classWithFields = regexp.MustCompile(`^([a-z-]+),`)
	classOnly       = regexp.MustCompile(`^[a-z-]+$`)
)

// ParseLine classifies a trimmed, non-empty MI line and decodes it.
// It never fails; a malformed field section yields empty Fields and Err.
func ParseLine(line string) Record {
	rec := Record{Payload: line}

	rest := line
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(rest) && isDescriptor(rest[digits]) {
		rec.Token = rest[:digits]
		rest = rest[digits:]
	}

	if rest == "" || !isDescriptor(rest[0]) {
		return rec
	}
	rec.Descriptor = Descriptor(rest[0])
	rec.Payload = rest[1:]

	if m := classWithFields.FindStringSubmatch(rec.Payload); m != nil {
		rec.Class = m[1]
		rec.HasClass = true
		rec.Fields, rec.Raw, rec.Err = DecodeFields(rec.Payload[len(m[0]):])
	} else if classOnly.MatchString(rec.Payload) {
		rec.Class = rec.Payload
		rec.HasClass = true
		rec.Fields = Fields{}
		rec.Raw = "{}"
	}
	return rec
}
