package worker

// incrGlobalCount implements the credit-amortised increment: bump the
// worker's local credit, and only when it grows to at least the queue's
// size is the credit above half the queue's size folded into the shared
// atomic (the local credit is then reset to half the queue's size),
// keeping steady-state task production free of atomic contention.
func (r *Resource[T]) incrGlobalCount() {
	r.localCount++
	if r.localCount >= r.queue.Len() {
		half := r.queue.Len() / 2
		delta := r.localCount - half
		r.localCount = half
		r.globalCount.AddAcqRel(int64(delta))
	}
}

// decrGlobalCount is the mirror operation, called once per popped task.
func (r *Resource[T]) decrGlobalCount() {
	if r.localCount == 0 {
		half := r.queue.Len() / 2
		r.localCount = half
		r.globalCount.AddAcqRel(-(int64(half) + 1))
		return
	}
	r.localCount--
}

// flushLocalCount publishes any remaining local credit to the shared
// atomic with a release, so that a peer observing globalCount == 0 can
// trust it reflects this worker's true remaining slack.
func (r *Resource[T]) flushLocalCount() {
	if r.localCount == 0 {
		return
	}
	r.globalCount.AddAcqRel(int64(r.localCount))
	r.localCount = 0
}
