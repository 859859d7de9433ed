// Package queue provides FIFO queues of integers used to schedule cells for
// constraint propagation.
//
// Coordinates travel as consecutive values: PushPair enqueues x then y and
// PopPair dequeues them in the same order. Three implementations share the
// Queue interface and produce identical dequeue orders:
//
//   - Slice: growable slice, O(n) pop. Baseline for benchmarks.
//   - List:  doubly linked list, O(1) push/pop with one allocation per push.
//   - Ring:  fixed-capacity ring buffer, O(1) and allocation-free. Used by the solver.
package queue

// Empty is returned by Pop on an empty unbounded queue.
const Empty = -1

// Queue is a FIFO of non-negative integers.
type Queue interface {
	// Push appends v at the tail.
	Push(v int)
	// Pop removes and returns the head.
	Pop() int
	// Len returns the number of queued values.
	Len() int
	// Reset drops every queued value and keeps any allocated storage.
	Reset()
}

// Factory builds a queue able to hold at least capacity values.
type Factory func(capacity int) Queue

// PushPair enqueues a coordinate.
func PushPair(q Queue, x, y int) {
	q.Push(x)
	q.Push(y)
}

// PopPair dequeues a coordinate pushed by PushPair.
func PopPair(q Queue) (x, y int) {
	x = q.Pop()
	y = q.Pop()
	return x, y
}
