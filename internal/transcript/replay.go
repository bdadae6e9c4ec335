package transcript

import (
	"errors"
	"fmt"
	"io"

	"github.com/tessro/gdbmi/internal/mi"
	"github.com/tessro/gdbmi/internal/session"
)

// Summary is what a session tracked after replaying a transcript.
type Summary struct {
	State         string    `json:"state" yaml:"state"`
	Fields        mi.Fields `json:"fields,omitempty" yaml:"fields,omitempty"`
	Results       int       `json:"results" yaml:"results"`
	Errors        int       `json:"errors" yaml:"errors"`
	Notifications int       `json:"notifications" yaml:"notifications"`
	Pids          []string  `json:"pids,omitempty" yaml:"pids,omitempty"`
	Console       string    `json:"console,omitempty" yaml:"console,omitempty"`
	Program       string    `json:"program,omitempty" yaml:"program,omitempty"`
}

// Replay feeds r through a fresh session, as if gdb had printed it, and
// summarizes the resulting state. Console and Program hold the last tail
// lines of each log.
func Replay(r io.Reader, cfg session.Config, tail int) (Summary, error) {
	s := session.New(io.Discard, nil, cfg)

	var sum Summary
	s.OnReady(func(session.Snapshot) { sum.Results++ })
	s.OnError(func(session.Snapshot) { sum.Errors++ })
	s.OnNotify(func(session.Snapshot) { sum.Notifications++ })

	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			s.Feed(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("reading transcript: %w", err)
		}
	}
	s.Flush()

	snap := s.Snapshot()
	sum.State = snap.State
	sum.Fields = snap.Fields
	sum.Pids = s.Pids()
	sum.Console = s.ConsoleOutput(tail)
	sum.Program = s.ProgramOutput(tail)
	return sum, nil
}
