package session

import (
	"strings"
	"sync"
)

// DefaultLogCapacity is the default number of entries each output log retains.
const DefaultLogCapacity = 256

// RingBuffer is a thread-safe fixed-capacity log of text entries.
// When full, appending evicts the oldest entry.
type RingBuffer struct {
	// +checklocks:mu
	entries []string // Circular storage
	size    int      // Maximum number of entries (immutable after creation)
	// +checklocks:mu
	head int // Next write position
	// +checklocks:mu
	count int // Current number of entries stored
	// +checklocks:mu
	total int64 // Entries ever appended
	mu    sync.RWMutex
}

// NewRingBuffer creates a ring buffer with the specified capacity.
// If size <= 0, DefaultLogCapacity is used.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultLogCapacity
	}
	return &RingBuffer{
		entries: make([]string, size),
		size:    size,
	}
}

// Append stores text, one entry per line. A single trailing newline
// terminates the last line rather than starting an empty one, so
// "abc\ndef" and "abc\ndef\n" both add two entries. Empty text adds nothing.
func (rb *RingBuffer) Append(text string) {
	if text == "" {
		return
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	rb.mu.Lock()
	defer rb.mu.Unlock()

	for _, line := range lines {
		rb.store(line)
	}
}

// AppendLine stores line as exactly one entry, even when it is empty.
// Program output is already split into lines, and a blank line is output.
func (rb *RingBuffer) AppendLine(line string) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.store(line)
}

// +checklocks:rb.mu
func (rb *RingBuffer) store(line string) {
	rb.entries[rb.head] = line
	rb.head = (rb.head + 1) % rb.size
	if rb.count < rb.size {
		rb.count++
	}
	rb.total++
}

// Lines returns the last n entries, oldest first.
// If n <= 0 or n > count, returns all stored entries.
func (rb *RingBuffer) Lines(n int) []string {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if n <= 0 || n > rb.count {
		n = rb.count
	}
	if n == 0 {
		return nil
	}

	// head is the next write position, so the newest entry sits just
	// before it whether or not the buffer has wrapped.
	start := (rb.head - n + rb.size) % rb.size

	result := make([]string, n)
	for i := 0; i < n; i++ {
		result[i] = rb.entries[(start+i)%rb.size]
	}
	return result
}

// Read returns the last n entries, oldest first, each followed by a newline.
// If n <= 0 or n > count, every stored entry is returned.
func (rb *RingBuffer) Read(n int) string {
	lines := rb.Lines(n)
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Len returns the number of entries currently stored.
func (rb *RingBuffer) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}

// Cap returns the maximum number of entries the buffer can hold.
func (rb *RingBuffer) Cap() int {
	return rb.size
}

// Total returns how many entries were ever appended, including evicted ones.
func (rb *RingBuffer) Total() int64 {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.total
}

// Clear removes all entries from the buffer.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for i := range rb.entries {
		rb.entries[i] = ""
	}
	rb.head = 0
	rb.count = 0
}
