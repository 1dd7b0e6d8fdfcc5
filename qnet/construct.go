package qnet

// New builds a Network from a CSR graph and optional parameters. It never
// panics or errors on malformed input beyond argument shape; callers must
// call (*Network).Validate before use.
func New(g Graph, opts ...Option) (*Network, error) {
	w := g.NumWorkers()
	c := g.NumChannels()

	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	n := &Network{
		numWorkers:    w,
		numChannels:   c,
		vertexPointer: append([]int(nil), g.VertexPointer...),
		edgeTargets:   append([]int(nil), g.EdgeTargets...),
	}

	n.logicalCore = make([]int, w)
	for i := 0; i < w; i++ {
		if b.logicalCore != nil && i < len(b.logicalCore) {
			n.logicalCore[i] = b.logicalCore[i]
		} else {
			n.logicalCore[i] = i
		}
	}

	n.multiplicities = make([]uint32, c)
	n.batchSize = make([]uint32, c)
	for i := 0; i < c; i++ {
		if b.multiplicities != nil && i < len(b.multiplicities) {
			n.multiplicities[i] = b.multiplicities[i]
		} else {
			n.multiplicities[i] = 1
		}
		if b.batchSize != nil && i < len(b.batchSize) {
			n.batchSize[i] = b.batchSize[i]
		} else {
			n.batchSize[i] = 1
		}
	}

	// Rewrite self-loops to the sentinel and compute each target's
	// per-channel input-port index by counting incoming edges in CSR
	// (source-worker) order.
	n.numPorts = make([]int, w)
	n.targetPort = make([]int, c)
	for src := 0; src < w; src++ {
		lo, hi := n.vertexPointer[src], n.vertexPointer[src+1]
		for ch := lo; ch < hi; ch++ {
			target := n.edgeTargets[ch]
			if target == src {
				n.edgeTargets[ch] = w // sentinel
				continue
			}
			n.targetPort[ch] = n.numPorts[target]
			n.numPorts[target]++
		}
	}

	if b.enqueueFrequency != 0 {
		n.enqueueFrequency = b.enqueueFrequency
	} else {
		avgOutDegree := ceilDiv(c, maxInt(w, 1))
		n.enqueueFrequency = nextPowerOfTwo(uint32(avgOutDegree))
		if n.enqueueFrequency < 16 {
			n.enqueueFrequency = 16
		}
	}

	maxBatch := n.MaxBatchSize()
	if b.channelBufferSize != 0 {
		n.channelBufferSize = b.channelBufferSize
	} else {
		n.channelBufferSize = maxInt(int(maxBatch)*8, int(n.enqueueFrequency)*4)
	}

	if b.maxPushAttempts != 0 {
		n.maxPushAttempts = b.maxPushAttempts
	} else {
		n.maxPushAttempts = 4
	}

	return n, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
