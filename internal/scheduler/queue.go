package scheduler

// reminderHeap orders pending reminders by trigger time. Each entry keeps
// its slot so a re-armed or cancelled task can be fixed in place.
type reminderHeap []*entry

type entry struct {
	ev   ReminderEvent
	slot int
}

func (h reminderHeap) Len() int { return len(h) }

func (h reminderHeap) Less(a, b int) bool {
	return h[a].ev.TriggerAt.Before(h[b].ev.TriggerAt)
}

func (h reminderHeap) Swap(a, b int) {
	h[a], h[b] = h[b], h[a]
	h[a].slot, h[b].slot = a, b
}

func (h *reminderHeap) Push(x any) {
	e := x.(*entry)
	e.slot = len(*h)
	*h = append(*h, e)
}

func (h *reminderHeap) Pop() any {
	cur := *h
	last := len(cur) - 1
	e := cur[last]
	cur[last] = nil
	e.slot = -1
	*h = cur[:last]
	return e
}
