package queue

// Slice is a queue over a growable slice. Pop shifts the remaining values
// down one slot.
type Slice struct {
	items []int
}

// NewSlice returns an empty Slice queue with room for capacity values.
func NewSlice(capacity int) *Slice {
	return &Slice{items: make([]int, 0, capacity)}
}

func (q *Slice) Push(v int) { q.items = append(q.items, v) }

func (q *Slice) Pop() int {
	if len(q.items) == 0 {
		return Empty
	}
	v := q.items[0]
	copy(q.items, q.items[1:])
	q.items = q.items[:len(q.items)-1]
	return v
}

func (q *Slice) Len() int { return len(q.items) }

func (q *Slice) Reset() { q.items = q.items[:0] }
