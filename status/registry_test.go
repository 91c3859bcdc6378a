package status

import "testing"

func TestRegistryTicksAndDeltaRoundTrip(t *testing.T) {
	r := NewRegistry()

	r.Ints.Get("ticks").Add(1)
	r.Ints.Get("ticks").Add(1)
	if got := r.Ints.Get("ticks").Load(); got != 2 {
		t.Fatalf("ticks = %d, want 2", got)
	}

	r.Floats.Get("last_delta_us").Set(-42.5)
	if got := r.Floats.Get("last_delta_us").Get(); got != -42.5 {
		t.Fatalf("last_delta_us = %v, want -42.5", got)
	}
}

func TestRegistryTotalCountAcrossMaps(t *testing.T) {
	r := NewRegistry()
	if got := r.TotalCount(); got != 0 {
		t.Fatalf("TotalCount on empty registry = %d, want 0", got)
	}

	r.Ints.Get("ticks")
	r.Floats.Get("last_delta_us")
	r.Strings.Get("strategy")

	if got := r.TotalCount(); got != 3 {
		t.Fatalf("TotalCount = %d, want 3", got)
	}
}

func TestMetricMapGetIsIdempotent(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	a := m.Get("x")
	a.Set(1.5)

	b := m.Get("x")
	if b.Get() != 1.5 {
		t.Fatalf("second Get returned a fresh pointer, want the same one: got %v", b.Get())
	}
	if m.Count() != 1 {
		t.Fatalf("Count = %d, want 1", m.Count())
	}
}
