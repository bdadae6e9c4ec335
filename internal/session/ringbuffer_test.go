package session

import (
	"fmt"
	"sync"
	"testing"
)

func TestNewRingBuffer(t *testing.T) {
	t.Run("default size", func(t *testing.T) {
		rb := NewRingBuffer(0)
		if rb.Cap() != DefaultLogCapacity {
			t.Errorf("expected capacity %d, got %d", DefaultLogCapacity, rb.Cap())
		}
	})

	t.Run("custom size", func(t *testing.T) {
		rb := NewRingBuffer(100)
		if rb.Cap() != 100 {
			t.Errorf("expected capacity 100, got %d", rb.Cap())
		}
	})

	t.Run("negative size uses default", func(t *testing.T) {
		rb := NewRingBuffer(-5)
		if rb.Cap() != DefaultLogCapacity {
			t.Errorf("expected capacity %d, got %d", DefaultLogCapacity, rb.Cap())
		}
	})
}

func TestRingBuffer_Append(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"trailing newline", "hello\n", []string{"hello"}},
		{"multiple lines", "abc\ndef", []string{"abc", "def"}},
		{"multiple lines with trailing newline", "abc\ndef\n", []string{"abc", "def"}},
		{"blank line kept", "abc\n\ndef", []string{"abc", "", "def"}},
		{"lone newline", "\n", []string{""}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := NewRingBuffer(10)
			rb.Append(tt.text)

			got := rb.Lines(0)
			if len(got) != len(tt.want) {
				t.Fatalf("Lines(0) = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRingBuffer_AppendLine(t *testing.T) {
	rb := NewRingBuffer(10)
	rb.AppendLine("first")
	rb.AppendLine("")
	rb.AppendLine("last")

	if rb.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", rb.Len())
	}
	if got, want := rb.Read(0), "first\n\nlast\n"; got != want {
		t.Errorf("Read(0) = %q, want %q", got, want)
	}
}

func TestRingBuffer_Eviction(t *testing.T) {
	rb := NewRingBuffer(3)
	for i := 1; i <= 5; i++ {
		rb.Append(fmt.Sprintf("line%d", i))
	}

	if rb.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", rb.Len())
	}
	if rb.Total() != 5 {
		t.Errorf("expected total 5, got %d", rb.Total())
	}
	if got, want := rb.Read(0), "line3\nline4\nline5\n"; got != want {
		t.Errorf("Read(0) = %q, want %q", got, want)
	}
}

func TestRingBuffer_Read(t *testing.T) {
	rb := NewRingBuffer(256)
	rb.Append("a\nb\nc")

	tests := []struct {
		n    int
		want string
	}{
		{2, "b\nc\n"},
		{1, "c\n"},
		{3, "a\nb\nc\n"},
		{10, "a\nb\nc\n"},
		{0, "a\nb\nc\n"},
		{-1, "a\nb\nc\n"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			if got := rb.Read(tt.n); got != tt.want {
				t.Errorf("Read(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestRingBuffer_ReadAfterWrap(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Append("1\n2\n3\n4\n5\n6")

	if got, want := rb.Read(2), "5\n6\n"; got != want {
		t.Errorf("Read(2) = %q, want %q", got, want)
	}
	if got, want := rb.Read(0), "3\n4\n5\n6\n"; got != want {
		t.Errorf("Read(0) = %q, want %q", got, want)
	}
}

func TestRingBuffer_ReadEmpty(t *testing.T) {
	rb := NewRingBuffer(4)
	if got := rb.Read(5); got != "" {
		t.Errorf("Read on empty buffer = %q, want empty", got)
	}
}

func TestRingBuffer_Clear(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Append("a\nb")
	rb.Clear()

	if rb.Len() != 0 {
		t.Errorf("expected 0 entries after Clear, got %d", rb.Len())
	}
	rb.Append("c")
	if got := rb.Read(0); got != "c\n" {
		t.Errorf("Read(0) = %q, want %q", got, "c\n")
	}
}

func TestRingBuffer_Concurrent(t *testing.T) {
	rb := NewRingBuffer(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rb.Append(fmt.Sprintf("writer %d line %d", i, j))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rb.Read(10)
			}
		}()
	}
	wg.Wait()

	if rb.Len() != 100 {
		t.Errorf("expected full buffer of 100, got %d", rb.Len())
	}
	if rb.Total() != 500 {
		t.Errorf("expected total 500, got %d", rb.Total())
	}
}
