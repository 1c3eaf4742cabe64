package tasks

// IDAllocator hands out identities shared by tasks, epics and subtasks.
// It is not safe for concurrent use; the Manager guards it with its own lock.
type IDAllocator struct {
	last int64
}

// NewIDAllocator returns an allocator whose first identity is start+1.
func NewIDAllocator(start int64) *IDAllocator {
	return &IDAllocator{last: start}
}

// Next reserves and returns a fresh identity.
func (a *IDAllocator) Next() int64 {
	a.last++
	return a.last
}

// Observe records an identity chosen by a caller so it is never handed out later.
func (a *IDAllocator) Observe(id int64) {
	if id > a.last {
		a.last = id
	}
}

// Last returns the most recently reserved or observed identity.
func (a *IDAllocator) Last() int64 {
	return a.last
}
