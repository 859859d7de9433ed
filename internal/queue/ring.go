package queue

import "fmt"

// Ring is a fixed-capacity circular queue of int32 values. Push on a full
// ring and Pop on an empty ring panic: the owner sizes the ring so that
// neither can happen.
type Ring struct {
	buf   []int32
	head  int
	count int
}

// NewRing allocates a ring holding exactly capacity values.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]int32, capacity)}
}

// Cap returns the fixed capacity.
func (q *Ring) Cap() int { return len(q.buf) }

func (q *Ring) Push(v int) {
	if q.count == len(q.buf) {
		panic(fmt.Sprintf("queue: ring overflow (capacity %d)", len(q.buf)))
	}
	tail := q.head + q.count
	if tail >= len(q.buf) {
		tail -= len(q.buf)
	}
	q.buf[tail] = int32(v)
	q.count++
}

func (q *Ring) Pop() int {
	if q.count == 0 {
		panic("queue: ring underflow")
	}
	v := q.buf[q.head]
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.count--
	return int(v)
}

func (q *Ring) Len() int { return q.count }

func (q *Ring) Reset() {
	q.head = 0
	q.count = 0
}

var (
	_ Queue = (*Slice)(nil)
	_ Queue = (*List)(nil)
	_ Queue = (*Ring)(nil)
)

// SliceFactory, ListFactory and RingFactory adapt the constructors to Factory.
var (
	SliceFactory Factory = func(c int) Queue { return NewSlice(c) }
	ListFactory  Factory = func(c int) Queue { return NewList(c) }
	RingFactory  Factory = func(c int) Queue { return NewRing(c) }
)
