package tui

import (
	"path/filepath"
	"testing"
)

func TestInputLine_HistoryRestoresDraft(t *testing.T) {
	il := NewInputLine()
	if il.HistoryUp() {
		t.Error("HistoryUp with no history should not change the prompt")
	}

	il.AddToHistory("-break-insert main")
	il.AddToHistory("-exec-run")
	il.input.SetValue("-stack-list-fr")

	il.HistoryUp()
	il.HistoryUp()
	if got := il.Value(); got != "-break-insert main" {
		t.Errorf("after two ups, prompt = %q", got)
	}

	il.HistoryDown()
	il.HistoryDown()
	if got := il.Value(); got != "-stack-list-fr" {
		t.Errorf("draft not restored, prompt = %q", got)
	}
}

func TestInputLine_ResetKeepsPrompt(t *testing.T) {
	il := NewInputLine()
	il.AddToHistory("-exec-next")
	il.HistoryUp()
	il.ResetHistoryNavigation()

	if got := il.Value(); got != "-exec-next" {
		t.Errorf("prompt = %q, want -exec-next", got)
	}
	if il.HistoryDown() {
		t.Error("HistoryDown after reset should not change the prompt")
	}
}

func TestInputLine_SaveLoadHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	il := NewInputLine()
	il.AddToHistory("-exec-finish")
	if err := il.SaveHistory(path); err != nil {
		t.Fatalf("SaveHistory() error: %v", err)
	}

	loaded := NewInputLine()
	if err := loaded.LoadHistory(path); err != nil {
		t.Fatalf("LoadHistory() error: %v", err)
	}
	if got := loaded.History(); len(got) != 1 || got[0] != "-exec-finish" {
		t.Errorf("History() = %q", got)
	}

	got := loaded.History()
	got[0] = "mutated"
	if loaded.History()[0] != "-exec-finish" {
		t.Error("History() should return a copy")
	}
}
