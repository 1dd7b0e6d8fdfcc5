package spapqueue

import (
	"errors"

	"github.com/quantflow/spapq/spapqerr"
	"github.com/quantflow/spapq/xlog"
)

// PushBeforeProcessing seeds worker workerID's local queue directly,
// bypassing the ring-buffer ports, and increments the global census by
// one. Only valid after InitQueue and before ProcessQueue; not
// thread-safe across concurrent callers targeting the same worker.
func (q *Queue[T]) PushBeforeProcessing(v T, workerID int) error {
	if !q.flags.Active() {
		return spapqerr.ErrNotActive
	}
	q.workers[workerID].PushUnsafe(v)
	q.globalCount.AddAcqRel(1)
	return nil
}

// ProcessQueue opens the start gate, releasing every worker goroutine
// blocked since the allocation barrier.
func (q *Queue[T]) ProcessQueue() {
	q.startGate.Open()
}

// PushDuringProcessing pushes v onto workerID's self-loop input port
// (portIdx) while processing is underway. The increment to globalCount is
// applied via a CAS loop that only succeeds while the count is currently
// positive (i.e. the run has not already reached quiescence); on push
// failure the increment is rolled back and false is returned so the
// caller may retry or drop v.
func (q *Queue[T]) PushDuringProcessing(workerID, portIdx int, v T) bool {
	for {
		cur := q.globalCount.LoadAcquire()
		if cur <= 0 {
			return false
		}
		if q.globalCount.CompareAndSwapAcqRel(cur, cur+1) {
			break
		}
	}
	if !q.workers[workerID].InPort(portIdx).Push(v) {
		q.globalCount.AddAcqRel(-1)
		return false
	}
	return true
}

// RequestStop sets the cooperative stop flag on every worker and, in case
// workers are still waiting on the start gate, opens it so they can
// observe the stop and exit immediately. Idempotent.
func (q *Queue[T]) RequestStop() {
	q.flags.RequestStop()
	q.startGate.Open()
}

// WaitProcessFinish joins every worker goroutine, clears the start gate
// and global count, and marks the queue inactive, readying it for a
// subsequent InitQueue/ProcessQueue cycle.
func (q *Queue[T]) WaitProcessFinish() error {
	err := q.eg.Wait()
	if err != nil {
		var hp *spapqerr.HookPanic
		if errors.As(err, &hp) {
			xlog.Fatal("worker hook panicked", "worker", hp.WorkerID, "value", hp.Value)
		}
	}
	q.startGate.Reset()
	q.globalCount.StoreRelease(0)
	q.flags.Deactivate()
	return err
}

// Close requests a stop, opens the start gate so workers still waiting on
// it observe the stop, and, if InitQueue has run, joins every worker
// through WaitProcessFinish, which leaves the queue inactive. It does not
// hold the queue active while closing, so it does not keep a concurrent
// InitQueue from starting. It is safe to call at any time and is
// idempotent; analogous to the reference implementation's noexcept
// destructor.
func (q *Queue[T]) Close() error {
	q.flags.RequestStop()
	q.startGate.Open()
	if q.eg == nil {
		return nil
	}
	return q.WaitProcessFinish()
}
