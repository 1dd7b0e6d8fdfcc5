package qnet

// LineGraph derives L(G): vertices are the channels of G, and an edge
// c1 -> c2 exists iff target(c1) has outgoing edge c2. Multiplicity
// multiplies, batch size is inherited from the source channel c1. The
// product is re-validated for strong connectivity and port uniqueness by
// the caller via Validate/IsStronglyConnected, same as any other Network.
func LineGraph(g *Network, opts ...Option) (*Network, error) {
	numChannels := g.numChannels

	// source[c] is the worker whose outgoing range c belongs to; needed to
	// chain self-push channels through their own worker below, since a
	// self-push's recorded target is the sentinel numWorkers, not a real
	// vertex to look up an outgoing range for.
	source := make([]int, numChannels)
	for w := 0; w < g.numWorkers; w++ {
		lo, hi := g.OutRange(w)
		for c := lo; c < hi; c++ {
			source[c] = w
		}
	}

	vp := make([]int, numChannels+1)
	var edgeTargets []int
	var multiplicities []uint32
	var batchSize []uint32

	for c1 := 0; c1 < numChannels; c1++ {
		vp[c1] = len(edgeTargets)
		target := g.edgeTargets[c1]
		if target == g.numWorkers {
			// self-push: chain through the source worker's own outgoing
			// range rather than dropping the channel from the product.
			target = source[c1]
		}
		lo, hi := g.OutRange(target)
		for c2 := lo; c2 < hi; c2++ {
			edgeTargets = append(edgeTargets, c2)
			multiplicities = append(multiplicities, g.multiplicities[c1]*g.multiplicities[c2])
			batchSize = append(batchSize, g.batchSize[c1])
		}
	}
	vp[numChannels] = len(edgeTargets)

	product := Graph{VertexPointer: vp, EdgeTargets: edgeTargets}
	allOpts := append([]Option{
		WithMultiplicities(multiplicities),
		WithBatchSizes(batchSize),
	}, opts...)
	return New(product, allOpts...)
}

// FullyConnected returns the complete digraph on numWorkers vertices: one
// channel per ordered pair (including self), i.e. one self-loop per
// worker plus one channel to every other worker. This is the natural
// degenerate seed network LineGraph is usually applied to.
func FullyConnected(numWorkers int, opts ...Option) (*Network, error) {
	vp := make([]int, numWorkers+1)
	edgeTargets := make([]int, 0, numWorkers*numWorkers)
	for w := 0; w < numWorkers; w++ {
		vp[w] = len(edgeTargets)
		for t := 0; t < numWorkers; t++ {
			edgeTargets = append(edgeTargets, t)
		}
	}
	vp[numWorkers] = len(edgeTargets)
	return New(Graph{VertexPointer: vp, EdgeTargets: edgeTargets}, opts...)
}
