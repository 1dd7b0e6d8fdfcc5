package qnet

// Option configures optional Network construction parameters. Unset
// options fall back to the defaults below.
type Option func(*builder)

type builder struct {
	logicalCore       []int
	multiplicities    []uint32
	batchSize         []uint32
	enqueueFrequency  uint32
	channelBufferSize int
	maxPushAttempts   int
}

// WithAffinity sets logicalCore[w] explicitly; unset workers default to
// their own index.
func WithAffinity(logicalCore []int) Option {
	return func(b *builder) { b.logicalCore = logicalCore }
}

// WithMultiplicities sets multiplicities[c]; unset channels default to 1.
func WithMultiplicities(m []uint32) Option {
	return func(b *builder) { b.multiplicities = m }
}

// WithBatchSizes sets batchSize[c]; unset channels default to 1.
func WithBatchSizes(bs []uint32) Option {
	return func(b *builder) { b.batchSize = bs }
}

// WithEnqueueFrequency overrides the default input-port drain cadence.
func WithEnqueueFrequency(f uint32) Option {
	return func(b *builder) { b.enqueueFrequency = f }
}

// WithChannelBufferSize overrides the default ring buffer capacity.
func WithChannelBufferSize(n int) Option {
	return func(b *builder) { b.channelBufferSize = n }
}

// WithMaxPushAttempts overrides the default self-push fallback threshold.
func WithMaxPushAttempts(n int) Option {
	return func(b *builder) { b.maxPushAttempts = n }
}

func nextPowerOfTwo(n uint32) uint32 {
	if n == 0 {
		return 1
	}
	p := uint32(1)
	for p < n {
		p <<= 1
	}
	return p
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
