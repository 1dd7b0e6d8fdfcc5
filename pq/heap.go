package pq

import "container/heap"

// Heap is a generic binary max-heap over container/heap for workloads
// whose priority is an arbitrary caller-supplied Less function, mirroring
// the corpus's own container/heap wrapper pattern (job priority queue
// with a caller comparison) generalised from float64 priorities to an
// arbitrary Less over T.
type Heap[T any] struct {
	items []T
	less  func(a, b T) bool
}

// NewHeap returns an empty Heap ordered so that Top returns the maximum
// element under less (i.e. less(a, b) means a has lower priority than b).
func NewHeap[T any](less func(a, b T) bool) *Heap[T] {
	return &Heap[T]{less: less}
}

func (h *Heap[T]) Len() int    { return len(h.items) }
func (h *Heap[T]) Empty() bool { return len(h.items) == 0 }

func (h *Heap[T]) Push(v T) {
	heap.Push((*heapAdapter[T])(h), v)
}

func (h *Heap[T]) Top() T {
	return h.items[0]
}

func (h *Heap[T]) Pop() T {
	return heap.Pop((*heapAdapter[T])(h)).(T)
}

// heapAdapter satisfies container/heap.Interface by delegating to Heap's
// own slice; kept as a distinct type so Heap's public surface stays the
// Basic Queue contract instead of container/heap's five-method interface.
type heapAdapter[T any] Heap[T]

func (h *heapAdapter[T]) Len() int { return len(h.items) }
func (h *heapAdapter[T]) Less(i, j int) bool {
	// container/heap produces a min-heap over Less; negate so index 0 is
	// the maximum under the caller's less, matching Top's contract.
	return h.less(h.items[j], h.items[i])
}
func (h *heapAdapter[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *heapAdapter[T]) Push(x any)    { h.items = append(h.items, x.(T)) }
func (h *heapAdapter[T]) Pop() any {
	n := len(h.items)
	v := h.items[n-1]
	var zero T
	h.items[n-1] = zero
	h.items = h.items[:n-1]
	return v
}
