package queue

import "container/list"

// List is a queue over container/list.
type List struct {
	l *list.List
}

// NewList returns an empty List queue. The capacity hint is ignored.
func NewList(int) *List {
	return &List{l: list.New()}
}

func (q *List) Push(v int) { q.l.PushBack(v) }

func (q *List) Pop() int {
	front := q.l.Front()
	if front == nil {
		return Empty
	}
	return q.l.Remove(front).(int)
}

func (q *List) Len() int { return q.l.Len() }

func (q *List) Reset() { q.l.Init() }
