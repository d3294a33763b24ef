package queue

import "github.com/opd-ai/inappmsg/message"

// Queue is an ordered sequence of messages pending presentation. By
// convention the head entry is the only one that may be presenting.
type Queue struct {
	entries    []*message.Message
	presenting bool
}

// New creates an empty display queue.
func New() *Queue {
	return &Queue{
		entries: make([]*message.Message, 0),
	}
}

// Append adds a message to the back of the queue.
func (q *Queue) Append(m *message.Message) {
	q.entries = append(q.entries, m)
}

// InsertAt inserts a message at the given position, clamped to the queue
// bounds. Position 0 displaces the head; inserting at 0 while the head is
// presenting violates the single-presenter convention and is the caller's
// responsibility to avoid.
func (q *Queue) InsertAt(index int, m *message.Message) {
	if index < 0 {
		index = 0
	}
	if index > len(q.entries) {
		index = len(q.entries)
	}
	q.entries = append(q.entries, nil)
	copy(q.entries[index+1:], q.entries[index:])
	q.entries[index] = m
}

// Head returns the front message, or nil when the queue is empty.
func (q *Queue) Head() *message.Message {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[0]
}

// PopHead removes and returns the front message, clearing the presenting
// flag. Returns nil when the queue is empty.
func (q *Queue) PopHead() *message.Message {
	if len(q.entries) == 0 {
		return nil
	}
	head := q.entries[0]
	q.entries[0] = nil
	q.entries = q.entries[1:]
	q.presenting = false
	return head
}

// Contains reports whether a message with the given id is resident.
func (q *Queue) Contains(id string) bool {
	for _, m := range q.entries {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Len returns the number of resident messages.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Presenting reports whether the head entry is currently presenting.
func (q *Queue) Presenting() bool {
	return q.presenting
}

// MarkPresenting transitions the head entry to presenting. It returns false
// when the queue is empty or an entry is already presenting, making the
// check-then-act a single call under the owner's lock.
func (q *Queue) MarkPresenting() bool {
	if len(q.entries) == 0 || q.presenting {
		return false
	}
	q.presenting = true
	return true
}

// Messages returns a copy of the queue contents in order.
func (q *Queue) Messages() []*message.Message {
	out := make([]*message.Message, len(q.entries))
	copy(out, q.entries)
	return out
}
