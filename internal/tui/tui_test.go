package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/gdbmi/internal/mi"
	"github.com/tessro/gdbmi/internal/session"
)

type fakeDebugger struct {
	mu         sync.Mutex
	commands   []string
	interrupts int
	result     session.Snapshot
	err        error
	pids       []string
}

func (f *fakeDebugger) Exec(ctx context.Context, text string) (session.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, text)
	return f.result, f.err
}

func (f *fakeDebugger) Interrupt(h session.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interrupts++
	return f.err
}

func (f *fakeDebugger) Pids() []string { return f.pids }

func newTestModel(d Debugger) Model {
	m := New(context.Background(), d, nil, Options{Program: "./hello"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestModel_ViewBeforeSize(t *testing.T) {
	m := New(context.Background(), &fakeDebugger{}, nil, Options{})
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}

func TestModel_ViewShowsProgramAndState(t *testing.T) {
	m := newTestModel(&fakeDebugger{})
	view := m.View()
	for _, want := range []string{"gdbmi", "./hello", "idle", "Waiting for gdb..."} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_SubmitExecutesCommand(t *testing.T) {
	d := &fakeDebugger{result: session.Snapshot{State: "done"}}
	m := newTestModel(d)
	m.inputLine.input.SetValue("  -break-insert main ")

	cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit() returned nil command")
	}
	msg, ok := cmd().(resultMsg)
	if !ok {
		t.Fatalf("command returned %T, want resultMsg", msg)
	}
	if msg.Command != "-break-insert main" || msg.Err != nil {
		t.Errorf("resultMsg = %+v", msg)
	}
	if len(d.commands) != 1 || d.commands[0] != "-break-insert main" {
		t.Errorf("commands = %q", d.commands)
	}
	if m.inputLine.Value() != "" {
		t.Errorf("input not cleared: %q", m.inputLine.Value())
	}
	if h := m.inputLine.History(); len(h) != 1 || h[0] != "-break-insert main" {
		t.Errorf("history = %q", h)
	}
	if m.output.Len() != 1 || m.output.entries[0].kind != entryCommand {
		t.Errorf("output entries = %+v", m.output.entries)
	}
}

func TestModel_SubmitEmptyDoesNothing(t *testing.T) {
	d := &fakeDebugger{}
	m := newTestModel(d)
	m.inputLine.input.SetValue("   ")

	if cmd := m.submit(); cmd != nil {
		t.Error("submit() of blank input should return nil")
	}
	if m.output.Len() != 0 {
		t.Errorf("output should be empty, got %d entries", m.output.Len())
	}
}

func TestModel_SubmitInterrupt(t *testing.T) {
	d := &fakeDebugger{}
	m := newTestModel(d)
	m.inputLine.input.SetValue("interrupt")

	cmd := m.submit()
	if _, ok := cmd().(interruptMsg); !ok {
		t.Fatal("expected interruptMsg")
	}
	if d.interrupts != 1 {
		t.Errorf("interrupts = %d, want 1", d.interrupts)
	}
	if len(d.commands) != 0 {
		t.Errorf("interrupt should not be sent as a command: %q", d.commands)
	}
}

func TestModel_SubmitAfterExit(t *testing.T) {
	d := &fakeDebugger{}
	m := newTestModel(d)
	m = update(t, m, exitedMsg{Status: session.ExitStatus{Code: 0}})
	m.inputLine.input.SetValue("-exec-run")

	if cmd := m.submit(); cmd != nil {
		t.Error("submit() after exit should return nil")
	}
	last := m.output.entries[m.output.Len()-1]
	if last.kind != entryError || last.text != "gdb has exited" {
		t.Errorf("last entry = %+v", last)
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := newTestModel(&fakeDebugger{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}

func TestModel_InterruptKey(t *testing.T) {
	d := &fakeDebugger{}
	m := newTestModel(d)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	switch msg := cmd().(type) {
	case interruptMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			if c != nil {
				c()
			}
		}
	default:
		t.Fatalf("ctrl+c returned %T", msg)
	}
	if d.interrupts != 1 {
		t.Errorf("interrupts = %d, want 1", d.interrupts)
	}
}

// runCmd runs cmd and any commands it batches.
func runCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(c)
		}
	}
}

func TestModel_ExecutionKeys(t *testing.T) {
	tests := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyF4, "-exec-run"},
		{tea.KeyF5, "-exec-continue"},
		{tea.KeyF10, "-exec-next"},
		{tea.KeyF11, "-exec-step"},
		{tea.KeyF12, "-exec-finish"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			d := &fakeDebugger{result: session.Snapshot{State: "stopped"}}
			m := newTestModel(d)

			updated, cmd := m.Update(tea.KeyMsg{Type: tt.key})
			m = updated.(Model)
			runCmd(cmd)

			if len(d.commands) != 1 || d.commands[0] != tt.want {
				t.Errorf("commands = %q, want [%q]", d.commands, tt.want)
			}
			if m.output.Len() != 1 || m.output.entries[0].text != tt.want {
				t.Errorf("output entries = %+v", m.output.entries)
			}
		})
	}
}

func TestModel_ExecutionKeyAfterExit(t *testing.T) {
	d := &fakeDebugger{}
	m := newTestModel(d)
	m = update(t, m, exitedMsg{Status: session.ExitStatus{Code: 0}})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyF5})
	m = updated.(Model)
	runCmd(cmd)

	if len(d.commands) != 0 {
		t.Errorf("commands sent after exit: %q", d.commands)
	}
	last := m.output.entries[m.output.Len()-1]
	if last.kind != entryError || last.text != "gdb has exited" {
		t.Errorf("last entry = %+v", last)
	}
}

func TestModel_SubmitShorthand(t *testing.T) {
	d := &fakeDebugger{}
	m := newTestModel(d)
	m.inputLine.input.SetValue("next")

	cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit() returned nil command")
	}
	msg, ok := cmd().(resultMsg)
	if !ok {
		t.Fatalf("command returned %T, want resultMsg", msg)
	}
	if msg.Command != "-exec-next" {
		t.Errorf("resultMsg.Command = %q, want -exec-next", msg.Command)
	}
	if len(d.commands) != 1 || d.commands[0] != "-exec-next" {
		t.Errorf("commands = %q", d.commands)
	}
	if h := m.inputLine.History(); len(h) != 1 || h[0] != "next" {
		t.Errorf("history = %q, want the typed text", h)
	}
}

func TestHelpBar_ShowsExecutionKeys(t *testing.T) {
	h := NewHelpBar()
	h.SetWidth(200)
	view := h.View()
	for _, want := range []string{"f5: continue", "f10: next", "f11: step"} {
		if !strings.Contains(view, want) {
			t.Errorf("help bar missing %q:\n%s", want, view)
		}
	}
}

func TestModel_SessionMessages(t *testing.T) {
	d := &fakeDebugger{pids: []string{"4242"}}
	m := newTestModel(d)

	m = update(t, m, consoleMsg{Text: "GNU gdb "})
	m = update(t, m, consoleMsg{Text: "14.2\nCopyright\n"})
	m = update(t, m, programMsg{Text: "hello"})
	m = update(t, m, notifyMsg{Snapshot: session.Snapshot{State: "thread-group-started", Fields: mi.Fields{"pid": "4242"}}})
	m = update(t, m, readyMsg{Snapshot: session.Snapshot{State: "running"}})

	want := []struct {
		kind entryKind
		text string
	}{
		{entryConsole, "GNU gdb 14.2"},
		{entryConsole, "Copyright"},
		{entryProgram, "hello"},
		{entryRecord, `=thread-group-started {"pid":"4242"}`},
		{entryRecord, "running"},
	}
	if len(m.output.entries) != len(want) {
		t.Fatalf("entries = %+v, want %+v", m.output.entries, want)
	}
	for i, e := range want {
		got := m.output.entries[i]
		if got.kind != e.kind || got.text != e.text {
			t.Errorf("entries[%d] = %v %q, want %v %q", i, got.kind, got.text, e.kind, e.text)
		}
		if got.rendered == "" {
			t.Errorf("entries[%d] not rendered", i)
		}
	}
	if m.header.state != "running" || m.header.pids != 1 {
		t.Errorf("header state = %q pids = %d", m.header.state, m.header.pids)
	}
}

func TestModel_ResultErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr string // empty means no output
	}{
		{"success", nil, ""},
		{"error result", &session.ResultError{Command: "-foo", Message: "Undefined MI command: foo", Code: "undefined-command"}, "-foo: Undefined MI command: foo (undefined-command)"},
		{"cancelled", context.Canceled, ""},
		{"closed", session.ErrClosed, "-foo: gdb has exited"},
		{"other", errors.New("boom"), "-foo: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(&fakeDebugger{})
			m = update(t, m, resultMsg{Command: "-foo", Err: tt.err})
			if tt.wantErr == "" {
				if m.output.Len() != 0 {
					t.Errorf("unexpected output: %+v", m.output.entries)
				}
				return
			}
			if m.output.Len() != 1 || m.output.entries[0].text != tt.wantErr {
				t.Errorf("output = %+v, want %q", m.output.entries, tt.wantErr)
			}
		})
	}
}

func TestModel_ExitedShowsStatus(t *testing.T) {
	m := newTestModel(&fakeDebugger{})
	m = update(t, m, exitedMsg{Status: session.ExitStatus{Code: -1, Signal: "SIGKILL"}})

	if !m.exited {
		t.Error("model should be marked exited")
	}
	if !strings.Contains(m.View(), "gdb killed by SIGKILL") {
		t.Error("view should show the exit status")
	}
}

func TestEventStream_DeliversSessionEvents(t *testing.T) {
	s := session.New(io.Discard, nil, session.Config{})
	events := Subscribe(s)
	defer events.Close()

	s.Feed([]byte("~\"Reading symbols\\n\"\n^done,msg=\"ok\"\nhello\n"))

	var got []tea.Msg
	timeout := time.After(time.Second)
	for len(got) < 3 {
		select {
		case msg := <-events.C():
			got = append(got, msg)
		case <-timeout:
			t.Fatalf("timed out, got %+v", got)
		}
	}

	if c, ok := got[0].(consoleMsg); !ok || c.Text != "Reading symbols\n" {
		t.Errorf("got[0] = %#v, want consoleMsg with resolved escapes", got[0])
	}
	if r, ok := got[1].(readyMsg); !ok || r.Snapshot.State != "done" {
		t.Errorf("got[1] = %#v, want readyMsg done", got[1])
	}
	if p, ok := got[2].(programMsg); !ok || p.Text != "hello" {
		t.Errorf("got[2] = %#v, want programMsg", got[2])
	}
}

func TestEventStream_CloseReleasesSender(t *testing.T) {
	s := session.New(io.Discard, nil, session.Config{})
	events := Subscribe(s)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// More lines than the buffer holds; nobody reads.
		s.Feed([]byte(strings.Repeat("out\n", eventBufferSize+10)))
	}()

	time.Sleep(10 * time.Millisecond)
	events.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Feed still blocked after Close")
	}
}

func TestHeader_View(t *testing.T) {
	h := NewHeader("/usr/local/bin/some/very/long/program/path")
	h.SetWidth(40)
	h.SetState("stopped", 0)

	view := h.View()
	if !strings.Contains(view, "stopped") {
		t.Errorf("header missing state: %q", view)
	}
	if !strings.Contains(view, "…") {
		t.Errorf("long program path should be truncated: %q", view)
	}
}

func TestHelpBar_Error(t *testing.T) {
	h := NewHelpBar()
	h.SetWidth(80)
	if !strings.Contains(h.View(), "enter: send") {
		t.Errorf("help bar = %q", h.View())
	}
	h.SetError("broken pipe")
	if !strings.Contains(h.View(), "Error: broken pipe") {
		t.Errorf("help bar = %q", h.View())
	}
	h.ClearError()
	if strings.Contains(h.View(), "Error") {
		t.Errorf("error not cleared: %q", h.View())
	}
}

func TestOutputView_WrapsLongLines(t *testing.T) {
	v := NewOutputView()
	v.SetSize(22, 10) // 20 columns inside the border
	v.AppendProgram("the quick brown fox jumps over the lazy dog")

	content := v.viewport.View()
	if !strings.Contains(content, "the quick brown fox") || !strings.Contains(content, "jumps over the lazy") {
		t.Errorf("content not wrapped at word boundaries:\n%s", content)
	}
}

func TestOutputView_CapsEntries(t *testing.T) {
	v := NewOutputView()
	for i := 0; i < maxEntries+5; i++ {
		v.AppendProgram("line")
	}
	if v.Len() != maxEntries {
		t.Errorf("Len() = %d, want %d", v.Len(), maxEntries)
	}
}

func TestOutputView_ConsoleFragmentFlushedByOtherOutput(t *testing.T) {
	v := NewOutputView()
	v.AppendConsole("partial")
	if v.Len() != 0 {
		t.Fatalf("unterminated console text should be held, got %d entries", v.Len())
	}
	v.AppendRecord("done")
	if v.Len() != 2 || v.entries[0].text != "partial" || v.entries[0].kind != entryConsole {
		t.Errorf("entries = %+v", v.entries)
	}
}
