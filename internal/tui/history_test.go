package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestHistory_Add(t *testing.T) {
	tests := []struct {
		name string
		add  []string
		want []string
	}{
		{"blank ignored", []string{""}, nil},
		{"in order", []string{"-break-insert main", "-exec-run", "-exec-next"}, []string{"-break-insert main", "-exec-run", "-exec-next"}},
		{"consecutive repeat dropped", []string{"-exec-next", "-exec-next"}, []string{"-exec-next"}},
		{"earlier repeat kept", []string{"-exec-next", "-exec-step", "-exec-next"}, []string{"-exec-next", "-exec-step", "-exec-next"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h history
			for _, c := range tt.add {
				h.add(c)
			}
			if !reflect.DeepEqual(h.entries, tt.want) {
				t.Errorf("entries = %q, want %q", h.entries, tt.want)
			}
		})
	}
}

func TestHistory_Cap(t *testing.T) {
	var h history
	for n := 0; n < maxHistorySize+10; n++ {
		h.add(fmt.Sprintf("-data-evaluate-expression %d", n))
	}
	if len(h.entries) != maxHistorySize {
		t.Fatalf("len = %d, want %d", len(h.entries), maxHistorySize)
	}
	if h.entries[0] != "-data-evaluate-expression 10" {
		t.Errorf("oldest = %q, want entry 10", h.entries[0])
	}
}

func TestHistory_Browse(t *testing.T) {
	var h history
	if _, ok := h.prev("draft"); ok {
		t.Error("prev on empty history should fail")
	}
	if _, ok := h.next(); ok {
		t.Error("next while not browsing should fail")
	}

	h.add("first")
	h.add("second")

	steps := []struct {
		up     bool
		want   string
		wantOK bool
	}{
		{true, "second", true},
		{true, "first", true},
		{true, "", false},
		{false, "second", true},
		{false, "draft", true},
		{false, "", false},
	}
	for n, s := range steps {
		var got string
		var ok bool
		if s.up {
			got, ok = h.prev("draft")
		} else {
			got, ok = h.next()
		}
		if got != s.want || ok != s.wantOK {
			t.Errorf("step %d: got (%q, %v), want (%q, %v)", n, got, ok, s.want, s.wantOK)
		}
	}
}

func TestHistory_AddEndsBrowsing(t *testing.T) {
	var h history
	h.add("-exec-run")
	h.prev("draft")
	h.add("-exec-continue")

	if h.browsing() || h.draft != "" {
		t.Errorf("still browsing after add: pos=%d draft=%q", h.pos, h.draft)
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")

	var h history
	h.add("-break-insert main")
	h.add("-exec-run")
	if err := h.save(path); err != nil {
		t.Fatalf("save() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("history mode = %o, want 600", perm)
	}

	var loaded history
	if err := loaded.load(path); err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if want := []string{"-break-insert main", "-exec-run"}; !reflect.DeepEqual(loaded.entries, want) {
		t.Errorf("entries = %q, want %q", loaded.entries, want)
	}
	if loaded.browsing() {
		t.Error("loaded history should not be browsing")
	}
}

func TestHistory_LoadMissingFile(t *testing.T) {
	var h history
	if err := h.load(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("load() on missing file error: %v", err)
	}
	if len(h.entries) != 0 {
		t.Errorf("entries = %q, want empty", h.entries)
	}
}

func TestHistory_LoadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	if err := os.WriteFile(path, []byte("-exec-next\n\n  \n-exec-next\n-exec-step\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var h history
	if err := h.load(path); err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if want := []string{"-exec-next", "-exec-step"}; !reflect.DeepEqual(h.entries, want) {
		t.Errorf("entries = %q, want %q", h.entries, want)
	}
}
