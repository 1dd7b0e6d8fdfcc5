package runctl

import "code.hybscloud.com/atomix"

// Barrier is a one-shot rendezvous for exactly n arrivals. No third-party
// barrier primitive appears anywhere in the corpus's dependency graph, so
// this is hand-rolled the same way the corpus hand-rolls its ring buffers:
// an atomic arrival counter and a channel closed exactly once by whichever
// arrival happens to be the last.
//
// A Barrier is single-use. Construct a fresh one for each start/teardown
// cycle (spapqueue.Queue does this per InitQueue/WaitProcessFinish pair).
type Barrier struct {
	n        int64
	arrived  atomix.Int64
	released chan struct{}
}

// NewBarrier returns a barrier that releases once n goroutines have called
// Arrive.
func NewBarrier(n int) *Barrier {
	return &Barrier{n: int64(n), released: make(chan struct{})}
}

// Arrive blocks the calling goroutine until all n parties have arrived.
func (b *Barrier) Arrive() {
	if b.arrived.AddAcqRel(1) == b.n {
		close(b.released)
		return
	}
	<-b.released
}
