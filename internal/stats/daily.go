package stats

// This file contains helpers around daily stats. It complements stats.go.

// Prune drops every day except today, so a long-running server does not grow without bound.
func (r *Recorder) Prune() int {
	key := dateKey(r.clock())
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k := range r.days {
		if k != key {
			delete(r.days, k)
			n++
		}
	}
	return n
}
