package schedule

// queue is a stable priority queue: items come out highest-priority first, and
// equal priorities keep insertion (FIFO) order. A sorted-insert slice keeps
// that invariant trivially; the queue never grows beyond a handful of items.
type queue struct {
	items []Item
}

func (q *queue) push(it Item) {
	// Insert after the last item with priority >= it.Priority.
	idx := len(q.items)
	for i, cur := range q.items {
		if cur.Priority < it.Priority {
			idx = i
			break
		}
	}
	q.items = append(q.items, Item{})
	copy(q.items[idx+1:], q.items[idx:])
	q.items[idx] = it
}

func (q *queue) pop() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	it := q.items[0]
	q.items = q.items[1:]
	return it, true
}

func (q *queue) len() int { return len(q.items) }

// peek returns up to n items in airing order without removing them.
func (q *queue) peek(n int) []Item {
	if n <= 0 || n > len(q.items) {
		n = len(q.items)
	}
	out := make([]Item, n)
	copy(out, q.items[:n])
	return out
}

func (q *queue) maxPriority() int {
	if len(q.items) == 0 {
		return 0
	}
	// Head has the highest priority by construction.
	return q.items[0].Priority
}
