package runctl

import "sync"

// StartGate is a one-shot broadcast: every worker calls Wait before it may
// begin processing; ProcessQueue calls Open exactly once (guarded by
// sync.Once so a racing RequestStop-then-ProcessQueue sequence never
// double-closes the channel) to release them all simultaneously. This is
// the same closed-once broadcast idiom the corpus uses for its consumer
// shutdown channels.
type StartGate struct {
	once sync.Once
	ch   chan struct{}
	init sync.Once
}

// Wait blocks until Open has been called.
func (g *StartGate) Wait() {
	g.lazyInit()
	<-g.ch
}

// Open releases every goroutine blocked in Wait. Safe to call more than
// once or concurrently; only the first call has effect.
func (g *StartGate) Open() {
	g.lazyInit()
	g.once.Do(func() { close(g.ch) })
}

// Reset prepares the gate for a subsequent InitQueue/ProcessQueue cycle.
// Must only be called when no goroutine holds a reference to the previous
// channel (i.e. after WaitProcessFinish has joined every worker).
func (g *StartGate) Reset() {
	g.once = sync.Once{}
	g.ch = make(chan struct{})
}

func (g *StartGate) lazyInit() {
	g.init.Do(func() { g.ch = make(chan struct{}) })
}
