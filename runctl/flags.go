// Package runctl provides the cooperative lifecycle primitives shared by
// spapqueue and worker: instance-scoped active/stop flags, the one-shot
// start gate, and the one-shot barrier used at teardown time.
//
// This generalises the reference control package's global hot/stop flags
// (one system-wide pair, meant for a single websocket ingest pipeline)
// into a per-Queue struct, since a SPAPQ runtime may have multiple
// independent Queue instances alive in the same process.
package runctl

import "code.hybscloud.com/atomix"

// Flags bundles the atomic lifecycle state one SpapQueue instance needs:
// whether it is currently active, and whether a stop has been requested.
// Every field is safe for concurrent use by the main goroutine and every
// worker goroutine.
type Flags struct {
	active  atomix.Bool
	stopped atomix.Bool
}

// TryActivate atomically transitions from inactive to active. It reports
// false if the flags were already active (the InitQueue "AlreadyActive"
// precondition).
func (f *Flags) TryActivate() bool {
	return f.active.CompareAndSwapAcqRel(false, true)
}

// Deactivate clears the active flag. Called from WaitProcessFinish once
// every worker has joined.
func (f *Flags) Deactivate() {
	f.active.StoreRelease(false)
}

// Active reports whether the queue is currently initialised or running.
func (f *Flags) Active() bool {
	return f.active.LoadAcquire()
}

// RequestStop sets the cooperative stop flag. Idempotent.
func (f *Flags) RequestStop() {
	f.stopped.StoreRelease(true)
}

// StopRequested reports whether RequestStop has been called since the last
// ResetStop.
func (f *Flags) StopRequested() bool {
	return f.stopped.LoadAcquire()
}

// ResetStop clears the stop flag, readying the flags for reuse by a
// subsequent InitQueue/ProcessQueue cycle (the "Reusability" property).
func (f *Flags) ResetStop() {
	f.stopped.StoreRelease(false)
}
