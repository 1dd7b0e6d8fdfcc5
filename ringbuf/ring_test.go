package ringbuf

import (
	"math/rand"
	"testing"
)

// TestNewPanicsOnBadSize verifies that the constructor rejects sizes that
// are either non-power-of-two or <= 0.
func TestNewPanicsOnBadSize(t *testing.T) {
	bad := []int{0, -1, 3, 1000}
	for _, sz := range bad {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("New(%d) should panic", sz)
				}
			}()
			_ = New[int](sz)
		}()
	}
}

// TestPushPopRoundTrip performs a minimal sanity round-trip on a size-8
// ring.
func TestPushPopRoundTrip(t *testing.T) {
	r := New[int](8)
	if !r.Push(42) {
		t.Fatal("first push must succeed")
	}
	got, ok := r.Pop()
	if !ok || got != 42 {
		t.Fatalf("got (%v,%v), want (42,true)", got, ok)
	}
	if _, ok := r.Pop(); ok {
		t.Fatal("ring should now be empty")
	}
}

// TestPushFailsWhenFull fills the ring to capacity and checks that a
// further Push returns false.
func TestPushFailsWhenFull(t *testing.T) {
	r := New[int](4)
	for i := 0; i < 4; i++ {
		if !r.Push(i) {
			t.Fatalf("push %d unexpectedly failed", i)
		}
	}
	if r.Push(99) {
		t.Fatal("push into full ring should return false")
	}
	if !r.Full() {
		t.Fatal("Full() should report true once capacity is reached")
	}
}

// TestPopEmpty confirms that Pop on an empty ring reports ok=false.
func TestPopEmpty(t *testing.T) {
	r := New[int](4)
	if _, ok := r.Pop(); ok {
		t.Fatal("Pop on empty ring returned ok=true")
	}
	if !r.Empty() {
		t.Fatal("Empty() should report true on a freshly-built ring")
	}
}

// TestWrapAround exercises many more iterations than the ring's capacity
// to make sure head/tail wrap and the mask arithmetic stays sound.
func TestWrapAround(t *testing.T) {
	const size = 4
	r := New[int](size)
	for i := 0; i < 10*size; i++ {
		if !r.Push(i) {
			t.Fatalf("push %d failed unexpectedly", i)
		}
		got, ok := r.Pop()
		if !ok || got != i {
			t.Fatalf("iteration %d: got (%v,%v), want (%v,true)", i, got, ok, i)
		}
	}
}

// TestPushNAtomicity checks that PushN either lands the whole batch or
// none of it, and that PopInto drains the landed batch in order.
func TestPushNAtomicity(t *testing.T) {
	r := New[int](8)
	if !r.Push(-1) {
		t.Fatal("seed push failed")
	}
	if _, ok := r.Pop(); !ok {
		t.Fatal("seed pop failed")
	}

	batch := []int{1, 2, 3, 4, 5, 6}
	if !r.PushN(batch) {
		t.Fatal("PushN of 6 into empty 8-capacity ring should succeed")
	}
	if r.Occupancy() != len(batch) {
		t.Fatalf("occupancy = %d, want %d", r.Occupancy(), len(batch))
	}
	oversized := []int{7, 8, 9}
	if r.PushN(oversized) {
		t.Fatal("PushN should fail when it would overflow capacity")
	}
	if r.Occupancy() != len(batch) {
		t.Fatalf("failed PushN changed occupancy to %d, want %d", r.Occupancy(), len(batch))
	}
	for _, want := range batch {
		var got int
		if !r.PopInto(&got) {
			t.Fatalf("expected value %d, ring reported empty", want)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
}

// TestSPSCConcurrentNoLossNoDuplication runs a single producer and single
// consumer goroutine over a shared ring and checks that every value pushed
// is popped exactly once, in order.
func TestSPSCConcurrentNoLossNoDuplication(t *testing.T) {
	const n = 200000
	r := New[int](256)
	done := make(chan struct{})
	var got []int

	go func() {
		defer close(done)
		got = make([]int, 0, n)
		for len(got) < n {
			if v, ok := r.Pop(); ok {
				got = append(got, v)
			}
		}
	}()

	for i := 0; i < n; i++ {
		for !r.Push(i) {
		}
	}
	<-done

	if len(got) != n {
		t.Fatalf("consumed %d values, want %d", len(got), n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order at index %d: got %d, want %d", i, v, i)
		}
	}
}

// TestOccupancyProperty exercises random push/pop sequences and checks
// that Occupancy always matches the number of values actually resident.
func TestOccupancyProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := New[int](32)
	resident := 0
	next := 0
	for i := 0; i < 5000; i++ {
		if resident < r.Cap() && (resident == 0 || rng.Intn(2) == 0) {
			if !r.Push(next) {
				t.Fatalf("push unexpectedly failed at resident=%d", resident)
			}
			next++
			resident++
		} else if resident > 0 {
			if _, ok := r.Pop(); !ok {
				t.Fatalf("pop unexpectedly failed at resident=%d", resident)
			}
			resident--
		}
		if r.Occupancy() != resident {
			t.Fatalf("Occupancy() = %d, want %d", r.Occupancy(), resident)
		}
	}
}
