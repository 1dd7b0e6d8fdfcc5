package dispatch

// Network is the minimal view dispatch needs from qnet.Network, kept as an
// interface here so this package does not import qnet and create a cycle
// (qnet has no need to know about dispatch).
type Network interface {
	OutRange(w int) (lo, hi int)
	Multiplicity(c int) uint32
	BatchSize(c int) uint32
}

func lcm(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}

// Frequencies computes worker w's per-outgoing-channel frequency vector:
// the LCM of its outgoing batch sizes, multiplicity·(lcm/batchSize) per
// channel, all reduced by their GCD. The returned slice is indexed
// 0..outDegree(w), local to worker w's own channel ordering (caller maps
// back to global channel indices via OutRange).
func Frequencies(net Network, w int) []uint32 {
	lo, hi := net.OutRange(w)
	n := hi - lo
	if n == 0 {
		return nil
	}

	l := uint64(1)
	for c := lo; c < hi; c++ {
		l = lcm(l, uint64(net.BatchSize(c)))
	}

	freq := make([]uint32, n)
	for i, c := 0, lo; c < hi; i, c = i+1, c+1 {
		freq[i] = net.Multiplicity(c) * uint32(l/uint64(net.BatchSize(c)))
	}

	g := gcdAll(freq)
	if g > 1 {
		for i := range freq {
			freq[i] = uint32(uint64(freq[i]) / g)
		}
	}
	return freq
}
