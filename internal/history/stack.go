// Package history provides a bounded, linear undo/redo stack of full-text
// snapshots.
package history

import (
	"fmt"
	"slices"
)

// DefaultCapacity is the number of snapshots kept when no capacity is given.
const DefaultCapacity = 100

// Stack is an ordered list of text snapshots with a cursor pointing at the
// current one. Recording from a position before the tail discards the redo
// branch; there is no branching history.
type Stack struct {
	entries  []string
	index    int
	capacity int
}

// New creates an empty stack holding at most capacity snapshots. A
// non-positive capacity selects DefaultCapacity.
func New(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{
		index:    -1,
		capacity: capacity,
	}
}

// Record appends text as the newest snapshot and moves the cursor to it.
func (s *Stack) Record(text string) {
	// Drop the redo branch
	if s.index < len(s.entries)-1 {
		s.entries = s.entries[:s.index+1]
	}

	s.entries = append(s.entries, text)

	if over := len(s.entries) - s.capacity; over > 0 {
		s.entries = slices.Delete(s.entries, 0, over)
	}
	s.index = len(s.entries) - 1
}

// Undo steps the cursor back and returns the snapshot it now points to. At
// the oldest snapshot, or with no history, live is returned unchanged.
func (s *Stack) Undo(live string) string {
	if s.index <= 0 {
		return live
	}
	s.index--
	return s.entries[s.index]
}

// Redo steps the cursor forward and returns that snapshot. At the tail live
// is returned unchanged.
func (s *Stack) Redo(live string) string {
	if s.index >= len(s.entries)-1 {
		return live
	}
	s.index++
	return s.entries[s.index]
}

// CanUndo reports whether Undo would move the cursor.
func (s *Stack) CanUndo() bool {
	return s.index > 0
}

// CanRedo reports whether Redo would move the cursor.
func (s *Stack) CanRedo() bool {
	return s.index >= 0 && s.index < len(s.entries)-1
}

// Index returns the cursor, or -1 for an empty stack.
func (s *Stack) Index() int {
	return s.index
}

// Len returns the number of snapshots.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Capacity returns the snapshot limit.
func (s *Stack) Capacity() int {
	return s.capacity
}

// Current returns the snapshot under the cursor.
func (s *Stack) Current() (string, bool) {
	if s.index < 0 {
		return "", false
	}
	return s.entries[s.index], true
}

// Status returns the cursor position as "current/total", e.g. "3/7".
func (s *Stack) Status() string {
	return fmt.Sprintf("%d/%d", s.index+1, len(s.entries))
}

// Entries returns a copy of all snapshots, oldest first.
func (s *Stack) Entries() []string {
	return slices.Clone(s.entries)
}

// Restore replaces the stack contents, keeping the newest snapshots when
// entries exceed the capacity. The index is shifted along with any dropped
// entries and clamped into range.
func (s *Stack) Restore(entries []string, index int) {
	if over := len(entries) - s.capacity; over > 0 {
		entries = entries[over:]
		index -= over
	}
	s.entries = slices.Clone(entries)

	switch {
	case len(s.entries) == 0:
		s.index = -1
	case index < 0:
		s.index = 0
	case index >= len(s.entries):
		s.index = len(s.entries) - 1
	default:
		s.index = index
	}
}

// Clear removes every snapshot.
func (s *Stack) Clear() {
	s.entries = nil
	s.index = -1
}
