// Package hooks provides the processing-hook contract every worker.Resource
// invokes on each popped task, plus three reference hooks realising the
// end-to-end scenarios used to test the runtime. These are documented,
// tested reference material; the runtime never imports them back.
package hooks

// Func is the processing hook contract: given a task and an enqueue
// closure bound to the owning worker's EnqueueGlobal, do whatever caller
// logic is required, possibly enqueueing zero or more follow-on tasks. A
// hook is required to be non-panicking; a panic is fatal to the run (see
// spapqerr.HookPanic).
type Func[T any] func(v T, enqueue func(T))
