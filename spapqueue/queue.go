// Package spapqueue implements the lifecycle orchestrator: it spawns and
// pins one goroutine per worker, couples them via an allocation barrier
// and a start gate, and exposes the public InitQueue / ProcessQueue /
// WaitProcessFinish / RequestStop / PushBeforeProcessing /
// PushDuringProcessing surface.
package spapqueue

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/atomix"

	"github.com/quantflow/spapq/dispatch"
	"github.com/quantflow/spapq/hooks"
	"github.com/quantflow/spapq/pq"
	"github.com/quantflow/spapq/qnet"
	"github.com/quantflow/spapq/ringbuf"
	"github.com/quantflow/spapq/runctl"
	"github.com/quantflow/spapq/spapqerr"
	"github.com/quantflow/spapq/worker"
)

// QueueFactory constructs a fresh local priority queue for worker w. Two
// reference implementations are pq.Heap and pq.TickQueue; callers may
// supply anything satisfying pq.Queue.
type QueueFactory[T any] func(worker int) pq.Queue[T]

// HookFactory constructs the processing hook bound to worker w.
type HookFactory[T any] func(worker int) hooks.Func[T]

// Queue is the SPAPQ runtime instance: a fixed set of pinned worker
// goroutines routed by a qnet.Network, orchestrated through the
// allocation barrier / start gate / teardown barrier protocol.
type Queue[T any] struct {
	net      *qnet.Network
	newQueue QueueFactory[T]
	newHook  HookFactory[T]

	flags       runctl.Flags
	globalCount atomix.Int64

	workers []*worker.Resource[T]

	allocWait sync.WaitGroup
	startGate runctl.StartGate
	teardown  *runctl.Barrier

	eg *errgroup.Group
}

// New builds a Queue over net, which must satisfy net.Validate() and
// net.IsStronglyConnected(). newQueue and newHook are called once per
// worker, at InitQueue time.
func New[T any](net *qnet.Network, newQueue QueueFactory[T], newHook HookFactory[T]) (*Queue[T], error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}
	if !net.IsStronglyConnected() {
		return nil, fmt.Errorf("%w: network is not strongly connected", spapqerr.ErrInvalidNetwork)
	}
	return &Queue[T]{net: net, newQueue: newQueue, newHook: newHook}, nil
}

// InitQueue constructs every WorkerResource, wires their ring-buffer
// routes according to the network, pins each to its logical core, and
// waits for all of them to reach the allocation barrier. It returns
// ErrAlreadyActive if the queue is already running.
func (q *Queue[T]) InitQueue() error {
	if !q.flags.TryActivate() {
		return spapqerr.ErrAlreadyActive
	}
	q.flags.ResetStop()
	q.startGate.Reset()

	w := q.net.NumWorkers()
	q.globalCount.StoreRelease(0)
	q.workers = make([]*worker.Resource[T], w)

	// First pass: construct every resource with empty routes so peers
	// exist to route into during the second pass.
	tables := q.buildSchedules()
	for id := 0; id < w; id++ {
		q.workers[id] = worker.New(worker.Config[T]{
			ID:               id,
			Queue:            q.newQueue(id),
			Hook:             q.newHook(id),
			Schedule:         tables[id],
			NumPorts:         q.net.NumPorts(id),
			PortCapacity:     q.net.ChannelBufferSize(),
			EnqueueFrequency: int(q.net.EnqueueFrequency()),
			MaxPushAttempts:  q.net.MaxPushAttempts(),
			GlobalCount:      &q.globalCount,
			MaxBatchSize:     int(q.net.MaxBatchSize()) * 4,
		})
	}
	// Second pass: wire routes now that every worker's ports exist.
	for id := 0; id < w; id++ {
		q.wireRoutes(id)
	}

	q.teardown = runctl.NewBarrier(w)
	q.allocWait.Add(w)

	q.eg = &errgroup.Group{}
	for id := 0; id < w; id++ {
		id := id
		core := q.net.LogicalCore(id)
		res := q.workers[id]
		q.eg.Go(func() error {
			var runErr error
			ringbuf.RunPinned(core, func() {
				q.allocWait.Done()
				q.startGate.Wait()
				runErr = res.Run(&q.flags)
				if runErr != nil {
					q.flags.RequestStop()
				}
				q.teardown.Arrive()
			})
			return runErr
		})
	}
	q.allocWait.Wait()
	return nil
}

// buildSchedules computes the per-worker frequency vectors and the
// GCD-reduced, sentinel-extended EDF dispatch tables for the whole
// network in one pass.
func (q *Queue[T]) buildSchedules() []dispatch.Table {
	w := q.net.NumWorkers()
	tables := make([]dispatch.Table, w)
	for id := 0; id < w; id++ {
		freq := dispatch.Frequencies(q.net, id)
		table, err := dispatch.Build(freq)
		if err != nil {
			// A frequency table too large to fit the overflow guard is a
			// network-construction defect; the network is well-formed by
			// Validate but this narrow bound is checked lazily since it
			// depends on the LCM of batch sizes, not just their positivity.
			table = dispatch.Table{}
		}
		tables[id] = table
	}
	return dispatch.Extend(tables)
}

// wireRoutes derives worker id's outgoing channel routes now that every
// peer's Resource (and thus its ports) exists.
func (q *Queue[T]) wireRoutes(id int) {
	lo, hi := q.net.OutRange(id)
	routes := make([]worker.Route[T], 0, hi-lo)
	for c := lo; c < hi; c++ {
		route := worker.Route[T]{BatchSize: int(q.net.BatchSize(c))}
		if !q.net.IsSelfPush(c) {
			route.Target = q.workers[q.net.EdgeTarget(c)]
			route.Port = q.net.TargetPort(c)
		}
		routes = append(routes, route)
	}
	q.workers[id].SetRoutes(routes)
}
