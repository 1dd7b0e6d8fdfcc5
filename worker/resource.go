// Package worker implements the per-worker runtime loop: a local priority
// queue, an out-buffer that batches produced tasks onto outgoing
// channels according to a dispatch schedule, input ports for receiving
// tasks from peers, and the count-amortisation bookkeeping that lets
// spapqueue.Queue observe global completion without contending on a
// single atomic for every task.
package worker

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"

	"github.com/quantflow/spapq/dispatch"
	"github.com/quantflow/spapq/hooks"
	"github.com/quantflow/spapq/pq"
	"github.com/quantflow/spapq/ringbuf"
)

// channelRoute describes one of this worker's outgoing channels: the
// peer input port (ring buffer) to push into, or nil for self-push, and
// the batch size.
type channelRoute[T any] struct {
	target    *ringbuf.Ring[T] // nil means self-push
	batchSize int
}

// Resource is the per-worker runtime state, exclusively owned by its
// worker goroutine after construction, aside from the ring buffers other
// workers push into (each single-producer/single-consumer by
// construction) and the shared global-count/flags in Queue.
type Resource[T any] struct {
	id int

	queue pq.Queue[T]
	hook  hooks.Func[T]

	outBuffer []T
	bufPos    int
	routes    []channelRoute[T]

	schedule  dispatch.Table
	schedPos  int
	maxAttempts int

	ports []*ringbuf.Ring[T]

	enqueueFrequency int

	localCount  int
	globalCount *atomix.Int64
}

// Config bundles the construction parameters a Resource needs beyond the
// values already implied by qnet.Network (those are resolved by the
// caller, typically spapqueue.Queue, and passed in already-materialised
// form so this package stays independent of qnet).
type Config[T any] struct {
	ID               int
	Queue            pq.Queue[T]
	Hook             hooks.Func[T]
	Schedule         dispatch.Table
	Routes           []Route[T]
	NumPorts         int
	PortCapacity     int
	EnqueueFrequency int
	MaxPushAttempts  int
	GlobalCount      *atomix.Int64
	MaxBatchSize     int
}

// Route describes one outgoing channel at construction time: Target is
// nil for a self-push channel.
type Route[T any] struct {
	Target    *Resource[T]
	BatchSize int
	Port      int
}

// New constructs a Resource from cfg. Input ports are allocated here;
// Routes must reference already-constructed peer Resources so their
// ports exist to push into.
func New[T any](cfg Config[T]) *Resource[T] {
	r := &Resource[T]{
		id:               cfg.ID,
		queue:            cfg.Queue,
		hook:             cfg.Hook,
		outBuffer:        make([]T, cfg.MaxBatchSize),
		schedule:         cfg.Schedule,
		maxAttempts:      cfg.MaxPushAttempts,
		enqueueFrequency: cfg.EnqueueFrequency,
		globalCount:      cfg.GlobalCount,
	}
	r.ports = make([]*ringbuf.Ring[T], cfg.NumPorts)
	for i := range r.ports {
		r.ports[i] = ringbuf.New[T](nextPow2(cfg.PortCapacity))
	}
	r.SetRoutes(cfg.Routes)
	return r
}

// SetRoutes (re)installs r's outgoing channel routes. Split out from New
// because a route may target a peer Resource that does not exist yet at
// the time r itself is constructed — spapqueue.Queue.InitQueue builds
// every Resource first, then wires routes in a second pass.
func (r *Resource[T]) SetRoutes(routes []Route[T]) {
	r.routes = make([]channelRoute[T], len(routes))
	for i, route := range routes {
		cr := channelRoute[T]{batchSize: route.BatchSize}
		if route.Target != nil {
			cr.target = route.Target.ports[route.Port]
		}
		r.routes[i] = cr
	}
}

// InPort exposes port idx so spapqueue.Queue can push into it from
// outside the worker (PushDuringProcessing).
func (r *Resource[T]) InPort(idx int) *ringbuf.Ring[T] { return r.ports[idx] }

// ID returns the worker's index.
func (r *Resource[T]) ID() int { return r.id }

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PushUnsafe seeds the local queue directly. Not thread-safe; only valid
// before ProcessQueue starts the worker loop.
func (r *Resource[T]) PushUnsafe(v T) {
	r.queue.Push(v)
}

// EnqueueGlobal is the closure bound into the processing hook. It charges
// one task to the global census, appends v to the out-buffer, and drives
// the dispatch schedule forward, falling back to a self-push if every
// attempt to route the batch onto a peer channel fails.
func (r *Resource[T]) EnqueueGlobal(v T) {
	r.incrGlobalCount()
	r.outBuffer[r.bufPos] = v
	r.bufPos++

	attempts := r.maxAttempts
	for attempts > 0 {
		c := r.currentChannel()
		if c < 0 {
			break
		}
		route := r.routes[c]
		if r.bufPos < route.batchSize {
			break
		}
		batch := r.outBuffer[r.bufPos-route.batchSize : r.bufPos]
		if route.target == nil {
			for _, item := range batch {
				r.queue.Push(item)
			}
			r.bufPos -= route.batchSize
			r.advanceSchedule()
			continue
		}
		if route.target.PushN(batch) {
			r.bufPos -= route.batchSize
			r.advanceSchedule()
			continue
		}
		attempts--
		r.advanceSchedule()
		spin.Pause()
	}

	if attempts == 0 && r.bufPos > 0 {
		for _, item := range r.outBuffer[:r.bufPos] {
			r.queue.Push(item)
		}
		r.bufPos = 0
	}
}

// currentChannel returns the local channel index at the dispatch cursor,
// skipping sentinel entries, or -1 if the schedule is empty.
func (r *Resource[T]) currentChannel() int {
	if len(r.schedule) == 0 {
		return -1
	}
	for i := 0; i < len(r.schedule); i++ {
		c := r.schedule[r.schedPos]
		if c != dispatch.Sentinel {
			return c
		}
		r.schedPos = (r.schedPos + 1) % len(r.schedule)
	}
	return -1
}

func (r *Resource[T]) advanceSchedule() {
	if len(r.schedule) == 0 {
		return
	}
	r.schedPos = (r.schedPos + 1) % len(r.schedule)
}

// enqueueInChannels drains every input port into the local queue.
func (r *Resource[T]) enqueueInChannels() {
	for _, port := range r.ports {
		for {
			v, ok := port.Pop()
			if !ok {
				break
			}
			r.queue.Push(v)
		}
	}
}

// flushOutBuffer moves any remaining out-buffer contents into the local
// queue, ensuring no task is stranded on this worker after the run ends.
func (r *Resource[T]) flushOutBuffer() {
	if r.bufPos == 0 {
		return
	}
	for _, item := range r.outBuffer[:r.bufPos] {
		r.queue.Push(item)
	}
	r.bufPos = 0
}
