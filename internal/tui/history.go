package tui

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// maxHistorySize bounds the commands kept, in memory and on disk.
const maxHistorySize = 100

// history holds submitted commands, oldest first, and a browsing cursor.
// pos == len(entries) means the prompt shows the draft, not an entry.
type history struct {
	entries []string
	pos     int
	draft   string
}

// add appends cmd unless it is blank or repeats the newest entry, and
// ends any browsing.
func (h *history) add(cmd string) {
	if cmd == "" {
		return
	}
	if n := len(h.entries); n == 0 || h.entries[n-1] != cmd {
		h.entries = append(h.entries, cmd)
		if len(h.entries) > maxHistorySize {
			h.entries = h.entries[len(h.entries)-maxHistorySize:]
		}
	}
	h.reset()
}

func (h *history) reset() {
	h.pos = len(h.entries)
	h.draft = ""
}

func (h *history) browsing() bool {
	return h.pos < len(h.entries)
}

// prev moves to the next older entry. current is remembered as the draft
// when browsing starts.
func (h *history) prev(current string) (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	if !h.browsing() {
		h.draft = current
	}
	h.pos--
	return h.entries[h.pos], true
}

// next moves to the next newer entry, returning the draft after the newest.
func (h *history) next() (string, bool) {
	if !h.browsing() {
		return "", false
	}
	h.pos++
	if h.browsing() {
		return h.entries[h.pos], true
	}
	draft := h.draft
	h.draft = ""
	return draft, true
}

// load adds the commands in a history file. A missing file is not an error.
func (h *history) load(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		h.add(strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	return nil
}

// save replaces the history file. A lock file next to it keeps two
// front ends exiting together from interleaving their writes.
func (h *history) save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock history: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data := strings.Join(h.entries, "\n")
	if data != "" {
		data += "\n"
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(data), 0600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
