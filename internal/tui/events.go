package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/gdbmi/internal/mi"
	"github.com/tessro/gdbmi/internal/session"
)

// eventBufferSize bounds how far session output may run ahead of the UI
// before the read loop blocks.
const eventBufferSize = 256

// EventStream merges the events of a session into one channel of Bubble
// Tea messages. Delivery blocks when the buffer is full so no output is
// lost; Close releases any blocked sender.
type EventStream struct {
	ch     chan tea.Msg
	done   chan struct{}
	once   sync.Once
	unsubs []func()
}

// Subscribe starts streaming the events of s. Subscribe before starting the
// debugger so that early output is not missed.
func Subscribe(s *session.Session) *EventStream {
	e := &EventStream{
		ch:   make(chan tea.Msg, eventBufferSize),
		done: make(chan struct{}),
	}
	e.unsubs = []func(){
		s.OnConsoleOutput(func(text string) { e.send(consoleMsg{Text: mi.Unescape(text)}) }),
		s.OnProgramOutput(func(text string) { e.send(programMsg{Text: text}) }),
		s.OnReady(func(snap session.Snapshot) { e.send(readyMsg{Snapshot: snap}) }),
		s.OnNotify(func(snap session.Snapshot) { e.send(notifyMsg{Snapshot: snap}) }),
		s.OnExited(func(status session.ExitStatus) { e.send(exitedMsg{Status: status}) }),
		s.OnProcessError(func(err error) { e.send(processErrorMsg{Err: err}) }),
	}
	return e
}

// C returns the message channel.
func (e *EventStream) C() <-chan tea.Msg {
	return e.ch
}

func (e *EventStream) send(msg tea.Msg) {
	select {
	case e.ch <- msg:
	case <-e.done:
	}
}

// Close unsubscribes from the session. The channel is left open; readers
// stop when the program exits.
func (e *EventStream) Close() {
	e.once.Do(func() {
		close(e.done)
		for _, u := range e.unsubs {
			u()
		}
	})
}
