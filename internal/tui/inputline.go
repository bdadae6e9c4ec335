package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// InputLine is the single-line command prompt.
type InputLine struct {
	width   int
	focused bool
	input   textarea.Model
	history history
}

// NewInputLine creates a new input line component.
func NewInputLine() InputLine {
	ta := textarea.New()
	ta.Placeholder = "MI command, e.g. -break-insert main (\"interrupt\" stops the program)"
	ta.CharLimit = 4096
	ta.Prompt = "(gdb) "
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	// Commands are one line; enter submits.
	ta.KeyMap.InsertNewline.SetEnabled(false)
	return InputLine{input: ta}
}

// SetWidth updates the component width.
func (i *InputLine) SetWidth(width int) {
	i.width = width
	i.input.SetWidth(max(width-8, 1)) // padding (2) and prompt (6)
}

// SetFocused focuses or blurs the prompt.
func (i *InputLine) SetFocused(focused bool) {
	i.focused = focused
	if focused {
		i.input.Focus()
	} else {
		i.input.Blur()
	}
}

// Update forwards msg to the textarea.
func (i *InputLine) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return cmd
}

// Value returns the text at the prompt.
func (i *InputLine) Value() string {
	return i.input.Value()
}

// Clear empties the prompt.
func (i *InputLine) Clear() {
	i.input.SetValue("")
}

func (i InputLine) View() string {
	style := inputLineStyle
	if i.focused {
		style = inputLineFocusedStyle
	}
	return style.Width(i.width).Render(i.input.View())
}

// AddToHistory records a submitted command.
func (i *InputLine) AddToHistory(input string) {
	i.history.add(input)
}

// History returns the recorded commands, oldest first.
func (i *InputLine) History() []string {
	return append([]string(nil), i.history.entries...)
}

// HistoryUp replaces the prompt with the previous command. It reports
// whether the prompt changed.
func (i *InputLine) HistoryUp() bool {
	cmd, ok := i.history.prev(i.input.Value())
	if ok {
		i.show(cmd)
	}
	return ok
}

// HistoryDown replaces the prompt with the next command, or the unsent
// draft after the newest one.
func (i *InputLine) HistoryDown() bool {
	cmd, ok := i.history.next()
	if ok {
		i.show(cmd)
	}
	return ok
}

// ResetHistoryNavigation stops browsing without touching the prompt.
func (i *InputLine) ResetHistoryNavigation() {
	i.history.reset()
}

// LoadHistory adds the commands saved in path, one per line.
func (i *InputLine) LoadHistory(path string) error {
	return i.history.load(path)
}

// SaveHistory writes the recorded commands to path.
func (i *InputLine) SaveHistory(path string) error {
	return i.history.save(path)
}

func (i *InputLine) show(cmd string) {
	i.input.SetValue(cmd)
	i.input.CursorEnd()
}
