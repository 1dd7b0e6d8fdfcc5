package worker

import (
	"testing"

	"code.hybscloud.com/atomix"

	"github.com/quantflow/spapq/dispatch"
	"github.com/quantflow/spapq/hooks"
	"github.com/quantflow/spapq/pq"
	"github.com/quantflow/spapq/runctl"
)

func TestResource_SingleWorkerDivisorCount(t *testing.T) {
	const n = 200
	dc := hooks.NewDivisorCount(1, n)

	var global atomix.Int64
	global.StoreRelease(1)

	r := New(Config[int]{
		ID:               0,
		Queue:            pq.NewHeap[int](func(a, b int) bool { return a < b }),
		Hook:             dc.Hook(0),
		Schedule:         dispatch.Table{0},
		Routes:           []Route[int]{{Target: nil, BatchSize: 1, Port: 0}},
		NumPorts:         1,
		PortCapacity:     64,
		EnqueueFrequency: 16,
		MaxPushAttempts:  4,
		GlobalCount:      &global,
		MaxBatchSize:     4,
	})
	r.PushUnsafe(1)

	var flags runctl.Flags
	if err := r.Run(&flags); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for v := 1; v < n; v++ {
		want := countDivisors(v)
		got := dc.Total(v)
		if got != uint64(want) {
			t.Fatalf("value %d: got %d divisors, want %d", v, got, want)
		}
	}
}

func countDivisors(v int) int {
	count := 0
	for d := 1; d <= v; d++ {
		if v%d == 0 {
			count++
		}
	}
	return count
}

func TestResource_Fibonacci(t *testing.T) {
	const n = 20
	fib := hooks.NewFibonacci(1, n)

	var global atomix.Int64
	global.StoreRelease(1)

	r := New(Config[int]{
		ID:               0,
		Queue:            pq.NewHeap[int](func(a, b int) bool { return a < b }),
		Hook:             fib.Hook(0),
		Schedule:         dispatch.Table{0},
		Routes:           []Route[int]{{Target: nil, BatchSize: 1, Port: 0}},
		NumPorts:         1,
		PortCapacity:     64,
		EnqueueFrequency: 16,
		MaxPushAttempts:  4,
		GlobalCount:      &global,
		MaxBatchSize:     4,
	})
	r.PushUnsafe(n)

	var flags runctl.Flags
	if err := r.Run(&flags); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f := fibonacciSeq(n + 2)
	for v := 0; v <= n; v++ {
		want := f[n-v]
		got := fib.Total(v)
		if got != uint64(want) {
			t.Fatalf("value %d: got %d, want %d", v, got, want)
		}
	}
}

func fibonacciSeq(n int) []uint64 {
	f := make([]uint64, n+1)
	f[0] = 1
	if n >= 1 {
		f[1] = 1
	}
	for i := 2; i <= n; i++ {
		f[i] = f[i-1] + f[i-2]
	}
	return f
}
