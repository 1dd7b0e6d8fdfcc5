package worker

import (
	"runtime/debug"

	"github.com/quantflow/spapq/runctl"
	"github.com/quantflow/spapq/spapqerr"
)

// Run is the worker's main loop: pop the local queue's maximum element,
// invoke the processing hook, and repeat until the global census reaches
// zero or a stop is requested. Cancellation is checked every 128 tasks in
// the inner loop and at every iteration of the outer loop, per the
// runtime's cooperative-cancellation contract.
//
// A panic inside the hook is recovered and returned as a *spapqerr.HookPanic
// instead of crashing this worker's OS thread outright, so the caller
// (spapqueue.Queue.WaitProcessFinish, via errgroup) can decide how to
// react.
func (r *Resource[T]) Run(flags *runctl.Flags) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &spapqerr.HookPanic{WorkerID: r.id, Value: rec, Stack: debug.Stack()}
		}
	}()

	cnt := 0
	for r.globalCount.LoadAcquire() > 0 && !flags.StopRequested() {
		for !r.queue.Empty() {
			if cnt%128 == 0 && flags.StopRequested() {
				break
			}
			if cnt%r.enqueueFrequency == 0 {
				r.enqueueInChannels()
			}
			v := r.queue.Pop()
			r.hook(v, r.EnqueueGlobal)
			r.decrGlobalCount()
			cnt++
		}
		r.enqueueInChannels()
		r.flushOutBuffer()
	}
	r.flushLocalCount()
	return nil
}
