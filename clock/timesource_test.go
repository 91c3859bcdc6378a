package clock

import "testing"

func TestNowUsMonotonic(t *testing.T) {
	ts := New()
	prev := ts.NowUs()
	for i := 0; i < 1000; i++ {
		next := ts.NowUs()
		if next < prev {
			t.Fatalf("NowUs went backwards: %d -> %d", prev, next)
		}
		prev = next
	}
}

func TestUsTicksRoundTripWithinOneMicrosecond(t *testing.T) {
	ts := New()
	for _, us := range []int64{0, 1, 500, 1000, 1_000_000, 123_456_789} {
		ticks := ts.UsToTicks(us)
		back := ts.TicksToUs(ticks)
		diff := back - us
		if diff < 0 {
			diff = -diff
		}
		if diff > 1 {
			t.Fatalf("UsToTicks/TicksToUs round trip for %d drifted by %dus", us, diff)
		}
	}
}

func TestTicksPerSecondNeverBelowOne(t *testing.T) {
	ts := New()
	if ts.TicksPerSecond() < 1 {
		t.Fatalf("TicksPerSecond = %d, must be clamped to at least 1", ts.TicksPerSecond())
	}
}

func TestBusyWaitUntilNeverReturnsBeforeTarget(t *testing.T) {
	ts := New()
	target := ts.NowUs() + 2000 // 2ms out
	lateness := ts.BusyWaitUntil(target)
	if lateness < 0 {
		t.Fatalf("lateness = %d, want >= 0", lateness)
	}
	if ts.NowUs() < target {
		t.Fatal("BusyWaitUntil returned before reaching its target")
	}
}

func TestBusyWaitUntilPastTargetReturnsImmediately(t *testing.T) {
	ts := New()
	lateness := ts.BusyWaitUntil(ts.NowUs() - 1000)
	if lateness < 1000 {
		t.Fatalf("lateness = %d, want >= 1000 for an already-past target", lateness)
	}
}
