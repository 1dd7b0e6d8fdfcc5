// Package qnet describes the static dispatch topology a SpapQueue runs
// over: workers, directed channels between them, per-channel batching and
// multiplicity, core affinity, and the derived fields (target ports, port
// counts) the runtime needs at construction time.
//
// Network values are immutable once returned by New; construction never
// panics on malformed input — callers must call Validate before handing
// the network to spapqueue.Queue.InitQueue, mirroring the "construction is
// total, invalidity is asserted separately" contract.
package qnet

import "fmt"

// noSentinelYet is an unused placeholder value; self-push channels are
// labelled with numWorkers instead (see Network.SelfSentinel).
const noSentinelYet = -1

// Graph is the CSR adjacency the caller supplies to New: numWorkers
// vertices, and one entry in EdgeTargets per outgoing channel, grouped by
// source worker via VertexPointer.
type Graph struct {
	// VertexPointer has length NumWorkers+1; worker w's outgoing channels
	// are the half-open range [VertexPointer[w], VertexPointer[w+1]).
	VertexPointer []int
	// EdgeTargets has one entry per channel: the destination worker's
	// literal index (before self-loop rewriting).
	EdgeTargets []int
}

// NumWorkers returns len(VertexPointer)-1, or 0 if the graph is empty.
func (g Graph) NumWorkers() int {
	if len(g.VertexPointer) == 0 {
		return 0
	}
	return len(g.VertexPointer) - 1
}

// NumChannels returns len(EdgeTargets).
func (g Graph) NumChannels() int { return len(g.EdgeTargets) }

// Network is the immutable, fully-derived topology description consumed
// by worker.Resource and spapqueue.Queue.
type Network struct {
	numWorkers int
	numChannels int

	vertexPointer []int
	edgeTargets   []int // rewritten: self-loops now hold the sentinel numWorkers

	multiplicities []uint32
	batchSize      []uint32
	targetPort     []int
	numPorts       []int
	logicalCore    []int

	enqueueFrequency  uint32
	channelBufferSize int
	maxPushAttempts   int
}

// SelfSentinel is the reserved edgeTargets value denoting "push to self".
func (n *Network) SelfSentinel() int { return n.numWorkers }

func (n *Network) NumWorkers() int         { return n.numWorkers }
func (n *Network) NumChannels() int        { return n.numChannels }
func (n *Network) OutRange(w int) (lo, hi int) { return n.vertexPointer[w], n.vertexPointer[w+1] }
func (n *Network) EdgeTarget(c int) int    { return n.edgeTargets[c] }
func (n *Network) Multiplicity(c int) uint32 { return n.multiplicities[c] }
func (n *Network) BatchSize(c int) uint32  { return n.batchSize[c] }
func (n *Network) TargetPort(c int) int    { return n.targetPort[c] }
func (n *Network) NumPorts(w int) int      { return n.numPorts[w] }
func (n *Network) LogicalCore(w int) int   { return n.logicalCore[w] }
func (n *Network) EnqueueFrequency() uint32 { return n.enqueueFrequency }
func (n *Network) ChannelBufferSize() int  { return n.channelBufferSize }
func (n *Network) MaxPushAttempts() int    { return n.maxPushAttempts }

// IsSelfPush reports whether channel c targets its own source worker.
func (n *Network) IsSelfPush(c int) bool { return n.edgeTargets[c] == n.numWorkers }

// MaxBatchSize returns the largest batch size over all channels, or 0 for
// an empty network.
func (n *Network) MaxBatchSize() uint32 {
	var m uint32
	for _, b := range n.batchSize {
		if b > m {
			m = b
		}
	}
	return m
}

// HasHomogeneousInPorts reports whether every worker has the same input
// port count. spapqueue.Queue routes through a flat slice of workers
// whatever this reports.
func (n *Network) HasHomogeneousInPorts() bool {
	if len(n.numPorts) == 0 {
		return true
	}
	first := n.numPorts[0]
	for _, p := range n.numPorts[1:] {
		if p != first {
			return false
		}
	}
	return true
}

// HasHomogeneousOutPorts reports whether every worker has the same
// out-degree.
func (n *Network) HasHomogeneousOutPorts() bool {
	if n.numWorkers == 0 {
		return true
	}
	first := n.vertexPointer[1] - n.vertexPointer[0]
	for w := 1; w < n.numWorkers; w++ {
		if n.vertexPointer[w+1]-n.vertexPointer[w] != first {
			return false
		}
	}
	return true
}

// HasSeparateLogicalCores reports whether every worker is pinned to a
// distinct core, a required precondition for correct affinity pinning.
func (n *Network) HasSeparateLogicalCores() bool {
	seen := make(map[int]bool, n.numWorkers)
	for _, c := range n.logicalCore {
		if seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

// Validate performs the isValid() checks: positive batch sizes and
// multiplicities, every worker has ≥1 outgoing edge, every targetPort is
// in range, every input port is occupied by exactly one channel, and
// distinct core affinity.
func (n *Network) Validate() error {
	if n.numWorkers == 0 {
		return fmt.Errorf("%w: zero workers", errInvalid)
	}
	for w := 0; w < n.numWorkers; w++ {
		lo, hi := n.OutRange(w)
		if hi <= lo {
			return fmt.Errorf("%w: worker %d has no outgoing channel", errInvalid, w)
		}
	}
	for c := 0; c < n.numChannels; c++ {
		if n.multiplicities[c] == 0 {
			return fmt.Errorf("%w: channel %d has zero multiplicity", errInvalid, c)
		}
		if n.batchSize[c] == 0 {
			return fmt.Errorf("%w: channel %d has zero batch size", errInvalid, c)
		}
		if !n.IsSelfPush(c) {
			target := n.edgeTargets[c]
			if n.targetPort[c] >= n.numPorts[target] {
				return fmt.Errorf("%w: channel %d targetPort out of range", errInvalid, c)
			}
		}
	}
	if !n.HasSeparateLogicalCores() {
		return fmt.Errorf("%w: duplicate logical core assignment", errInvalid)
	}
	if int(n.MaxBatchSize()) > n.channelBufferSize {
		return fmt.Errorf("%w: channel buffer smaller than max batch size", errInvalid)
	}
	return nil
}

// IsStronglyConnected runs BFS from every worker (ignoring self-loops,
// which trivially reach only themselves) and reports whether every
// worker's reachable set is the whole vertex set.
func (n *Network) IsStronglyConnected() bool {
	if n.numWorkers <= 1 {
		return true
	}
	for start := 0; start < n.numWorkers; start++ {
		if !n.reachesAll(start) {
			return false
		}
	}
	return true
}

func (n *Network) reachesAll(start int) bool {
	visited := make([]bool, n.numWorkers)
	visited[start] = true
	queue := []int{start}
	count := 1
	for len(queue) > 0 {
		w := queue[0]
		queue = queue[1:]
		lo, hi := n.OutRange(w)
		for c := lo; c < hi; c++ {
			if n.IsSelfPush(c) {
				continue
			}
			t := n.edgeTargets[c]
			if !visited[t] {
				visited[t] = true
				count++
				queue = append(queue, t)
			}
		}
	}
	return count == n.numWorkers
}
