package lifecycle

import "sync"

// Journal is a Sink that accumulates every status in arrival order.
// Safe for concurrent use.
type Journal struct {
	mu       sync.Mutex
	statuses []Status
}

func (j *Journal) UpdateStatus(s Status) {
	j.mu.Lock()
	j.statuses = append(j.statuses, s)
	j.mu.Unlock()
}

// Statuses returns a copy of everything recorded so far.
func (j *Journal) Statuses() []Status {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Status, len(j.statuses))
	copy(out, j.statuses)
	return out
}

// Last returns the most recent status, or nil when nothing was recorded.
func (j *Journal) Last() Status {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.statuses) == 0 {
		return nil
	}
	return j.statuses[len(j.statuses)-1]
}

func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return len(j.statuses)
}
