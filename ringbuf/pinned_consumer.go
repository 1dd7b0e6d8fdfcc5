// pinned_consumer.go
//
// OS-thread affinity helper shared by every worker goroutine in the
// runtime. A worker's throughput depends on staying resident on one
// logical core for its whole lifetime — cross-core migration invalidates
// exactly the cache lines this package's Ring type works hard to keep
// warm.

package ringbuf

import "runtime"

// RunPinned locks the calling goroutine to its current OS thread, pins
// that thread to logical core, runs body, then releases the thread back
// to the scheduler once body returns.
//
// body is expected to be the entire lifetime of the calling goroutine
// (typically a worker's run loop); RunPinned does not return until body
// does.
func RunPinned(core int, body func()) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	setAffinity(core)
	body()
}
