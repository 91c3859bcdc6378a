package scheduler

import (
	"testing"
	"time"

	"github.com/lixenwraith/chronoforge/clock"
	"github.com/lixenwraith/chronoforge/event"
	"github.com/lixenwraith/chronoforge/trigger"
)

func newTestScheduler(strategy Strategy) (*Scheduler, *clock.TimeSource) {
	ts := clock.New()
	return New(strategy, WithClock(ts)), ts
}

// Linear chain A->B->C->D->E: each listener schedules the next at "now".
func TestLinearChain(t *testing.T) {
	s, ts := newTestScheduler(HighRes)

	var order []string
	var ev event.Event[string]
	ev.AddListener(func(e *event.Event[string]) {
		name := e.Payload()
		order = append(order, name)
		switch name {
		case "A":
			s.Schedule(trigger.New(&ev, "B"), ts.NowUs())
		case "B":
			s.Schedule(trigger.New(&ev, "C"), ts.NowUs())
		case "C":
			s.Schedule(trigger.New(&ev, "D"), ts.NowUs())
		case "D":
			s.Schedule(trigger.New(&ev, "E"), ts.NowUs())
		}
	})

	s.Schedule(trigger.New(&ev, "A"), ts.NowUs())
	s.Run()

	if len(order) != 5 {
		t.Fatalf("order = %v, want 5 entries", order)
	}
	want := []string{"A", "B", "C", "D", "E"}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("order[%d] = %q, want %q (full: %v)", i, order[i], w, order)
		}
	}
}

// Fan-out 3x3: three parents each schedule three children at "now".
func TestFanOut3x3(t *testing.T) {
	s, ts := newTestScheduler(HighRes)

	var executions int
	var ev event.Event[int]
	ev.AddListener(func(e *event.Event[int]) {
		executions++
		id := e.Payload()
		if id < 3 { // parents are ids 0,1,2; each schedules 3 children
			for i := 0; i < 3; i++ {
				s.Schedule(trigger.New(&ev, 100+id*10+i), ts.NowUs())
			}
		}
	})

	for i := 0; i < 3; i++ {
		s.Schedule(trigger.New(&ev, i), ts.NowUs())
	}
	s.Run()

	if executions != 12 {
		t.Fatalf("executions = %d, want 12", executions)
	}
}

// Cancel-during-execution: A cancels B and schedules C; B must never fire.
func TestCancelDuringExecution(t *testing.T) {
	s, ts := newTestScheduler(HighRes)

	var log []int
	var ev event.Event[int]
	ev.AddListener(func(e *event.Event[int]) { log = append(log, e.Payload()) })

	refB, _ := s.Schedule(trigger.New(&ev, 2), ts.NowUs()+1000)
	s.Schedule(trigger.New(&ev, 1), ts.NowUs()) // fires first

	var evA event.Event[int]
	evA.AddListener(func(e *event.Event[int]) {
		s.Cancel(refB)
		s.Schedule(trigger.New(&ev, 3), ts.NowUs()+1000)
	})
	s.Schedule(trigger.New(&evA, 0), ts.NowUs())

	s.Run()

	want := []int{1, 3}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
}

// Multi-event different payload types: an Event[int] and an Event[string]
// scheduled at the same instant both fire exactly once, FIFO.
func TestMultiEventDifferentPayloadTypes(t *testing.T) {
	s, ts := newTestScheduler(HighRes)

	var gotInt int
	var gotStr string
	var intCount, strCount int

	var evInt event.Event[int]
	evInt.AddListener(func(e *event.Event[int]) {
		gotInt = e.Payload()
		intCount++
	})
	var evStr event.Event[string]
	evStr.AddListener(func(e *event.Event[string]) {
		gotStr = e.Payload()
		strCount++
	})

	now := ts.NowUs()
	s.Schedule(trigger.New(&evInt, 42), now)
	s.Schedule(trigger.New(&evStr, "hi"), now)
	s.Run()

	if intCount != 1 || gotInt != 42 {
		t.Fatalf("int trigger: count=%d got=%d", intCount, gotInt)
	}
	if strCount != 1 || gotStr != "hi" {
		t.Fatalf("string trigger: count=%d got=%q", strCount, gotStr)
	}
}

// Background reentrancy: X schedules Y from within its own listener on a
// Background scheduler; both must fire, no deadlock.
func TestBackgroundReentrancy(t *testing.T) {
	s, ts := newTestScheduler(Background)
	if err := s.Exec(); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	defer s.Stop()

	done := make(chan struct{})
	var order []string
	var ev event.Event[string]
	ev.AddListener(func(e *event.Event[string]) {
		name := e.Payload()
		order = append(order, name)
		if name == "X" {
			s.Schedule(trigger.New(&ev, "Y"), ts.NowUs()+5_000)
		} else {
			close(done)
		}
	})

	s.Schedule(trigger.New(&ev, "X"), ts.NowUs()+2_000)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for background reentrant chain")
	}

	if len(order) != 2 || order[0] != "X" || order[1] != "Y" {
		t.Fatalf("order = %v, want [X Y]", order)
	}
}

// Polled strict-deadline: ten triggers at now+i*5ms; after 27ms of real
// elapsed time, exactly triggers 0..5 (indices whose scheduled time has
// passed) have fired.
func TestPolledStrictDeadline(t *testing.T) {
	s, ts := newTestScheduler(Polled)

	var fired []int
	var ev event.Event[int]
	ev.AddListener(func(e *event.Event[int]) { fired = append(fired, e.Payload()) })

	base := ts.NowUs()
	for i := 0; i < 10; i++ {
		s.Schedule(trigger.New(&ev, i), base+int64(i)*5000)
	}

	// The TimeSource has no way to inject a synthetic "now", so let 27ms
	// of real time pass by busy-waiting the wall clock, then poll once.
	deadline := time.Now().Add(27 * time.Millisecond)
	for time.Now().Before(deadline) {
	}
	s.Poll()

	if len(fired) != 6 {
		t.Fatalf("fired = %v (%d entries), want 6", fired, len(fired))
	}
	for i, id := range fired {
		if id != i {
			t.Fatalf("fired[%d] = %d, want %d", i, id, i)
		}
	}
	if s.Len() != 4 {
		t.Fatalf("remaining = %d, want 4", s.Len())
	}
}

func TestCancelAlreadyExecutedOrCancelledIsNoop(t *testing.T) {
	s, ts := newTestScheduler(Polled)
	var ev event.Event[int]
	ref, _ := s.Schedule(trigger.New(&ev, 1), ts.NowUs())

	s.Cancel(ref)
	s.Cancel(ref) // double-cancel: must be a no-op, not a panic

	if s.Len() != 0 {
		t.Fatalf("len = %d, want 0", s.Len())
	}

	// Cancel of an already-executed node is likewise a no-op.
	ref2, _ := s.Schedule(trigger.New(&ev, 2), ts.NowUs())
	s.Poll()
	s.Cancel(ref2)
	if s.Len() != 0 {
		t.Fatalf("len after executed-cancel = %d, want 0", s.Len())
	}
}

func TestClearThenPeekReturnsEmpty(t *testing.T) {
	s, ts := newTestScheduler(Polled)
	var ev event.Event[int]
	s.Schedule(trigger.New(&ev, 1), ts.NowUs())
	s.Schedule(trigger.New(&ev, 2), ts.NowUs()+1000)

	s.Clear()

	if _, _, ok := s.Peek(); ok {
		t.Fatal("Peek after Clear should report empty")
	}
	if s.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", s.Len())
	}
}

func TestLowResRoundsAndDispatchesInOrder(t *testing.T) {
	s, ts := newTestScheduler(LowRes)
	var order []int
	var ev event.Event[int]
	ev.AddListener(func(e *event.Event[int]) { order = append(order, e.Payload()) })

	now := ts.NowUs()
	s.Schedule(trigger.New(&ev, 2), now+2000)
	s.Schedule(trigger.New(&ev, 1), now)
	s.Schedule(trigger.New(&ev, 3), now+4000)

	s.Run()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("order = %v, want [1 2 3]", order)
	}
}
