package runctl

import (
	"sync"
	"testing"
	"time"
)

// TestBarrierReleasesAllArrivalsTogether checks that no goroutine returns
// from Arrive until every one of the n parties has called it.
func TestBarrierReleasesAllArrivalsTogether(t *testing.T) {
	const n = 8
	b := NewBarrier(n)
	var wg sync.WaitGroup
	released := make([]bool, n)
	var mu sync.Mutex
	arrived := 0

	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			time.Sleep(time.Duration(i) * time.Millisecond)
			mu.Lock()
			arrived++
			mu.Unlock()
			b.Arrive()
			mu.Lock()
			released[i] = arrived == n
			mu.Unlock()
		}()
	}
	wg.Wait()
	for i, r := range released {
		if !r {
			t.Fatalf("goroutine %d returned from Arrive before all %d parties had arrived", i, n)
		}
	}
}

// TestStartGateBroadcastsToAllWaiters checks that Open releases every
// goroutine blocked in Wait, and that Wait called after Open returns
// immediately.
func TestStartGateBroadcastsToAllWaiters(t *testing.T) {
	var g StartGate
	const n = 5
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			g.Wait()
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
		t.Fatal("waiters returned before Open was called")
	case <-time.After(20 * time.Millisecond):
	}

	g.Open()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Open did not release all waiters")
	}

	waitReturned := make(chan struct{})
	go func() { g.Wait(); close(waitReturned) }()
	select {
	case <-waitReturned:
	case <-time.After(time.Second):
		t.Fatal("Wait after Open should return immediately")
	}
}

// TestStartGateResetAllowsAnotherCycle checks that Reset lets a gate be
// reused for a second open/wait cycle.
func TestStartGateResetAllowsAnotherCycle(t *testing.T) {
	var g StartGate
	g.Open()
	g.Reset()

	waitReturned := make(chan struct{})
	go func() { g.Wait(); close(waitReturned) }()

	select {
	case <-waitReturned:
		t.Fatal("Wait returned before the reset gate was reopened")
	case <-time.After(20 * time.Millisecond):
	}

	g.Open()
	select {
	case <-waitReturned:
	case <-time.After(time.Second):
		t.Fatal("Open after Reset did not release the waiter")
	}
}

// TestFlagsLifecycle exercises TryActivate/Deactivate/RequestStop/ResetStop
// in the sequence spapqueue.Queue drives them through.
func TestFlagsLifecycle(t *testing.T) {
	var f Flags
	if f.Active() {
		t.Fatal("fresh Flags should not be active")
	}
	if !f.TryActivate() {
		t.Fatal("first TryActivate should succeed")
	}
	if f.TryActivate() {
		t.Fatal("second TryActivate should fail while already active")
	}
	if f.StopRequested() {
		t.Fatal("StopRequested should be false before RequestStop")
	}
	f.RequestStop()
	if !f.StopRequested() {
		t.Fatal("StopRequested should be true after RequestStop")
	}
	f.ResetStop()
	if f.StopRequested() {
		t.Fatal("ResetStop should clear the stop flag")
	}
	f.Deactivate()
	if f.Active() {
		t.Fatal("Deactivate should clear the active flag")
	}
	if !f.TryActivate() {
		t.Fatal("TryActivate should succeed again after Deactivate")
	}
}
