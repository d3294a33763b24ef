// Package queue implements the display queue: the ordered sequence of
// messages pending presentation.
//
// The queue is deliberately not self-locking. All reads and writes, including
// the check-then-act around "is something currently presenting", must happen
// inside the single critical section the owning engine scopes to the queue.
// That keeps enqueue, head inspection, and the presenting transition atomic
// with respect to concurrent dismissals.
package queue
