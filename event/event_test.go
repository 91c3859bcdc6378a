package event

import "testing"

func TestAddListenerFireOrder(t *testing.T) {
	var ev Event[int]
	var order []int
	ev.AddListener(func(e *Event[int]) { order = append(order, 1) })
	ev.AddListener(func(e *Event[int]) { order = append(order, 2) })
	ev.AddListener(func(e *Event[int]) { order = append(order, 3) })

	ev.Fire()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("unexpected fire order: %v", order)
	}
}

func TestNotifyWithPayload(t *testing.T) {
	var ev Event[string]
	var seen string
	ev.AddListener(func(e *Event[string]) { seen = e.Payload() })

	ev.NotifyWithPayload("hi")

	if seen != "hi" {
		t.Fatalf("listener observed %q, want %q", seen, "hi")
	}
}

func TestRemoveListenerO1Swap(t *testing.T) {
	var ev Event[int]
	ha := ev.AddListener(func(e *Event[int]) {})
	hb := ev.AddListener(func(e *Event[int]) {})
	hc := ev.AddListener(func(e *Event[int]) {})

	ev.RemoveListener(hb)

	if ev.Len() != 2 {
		t.Fatalf("len = %d, want 2", ev.Len())
	}
	// ha and hc must remain individually removable after the swap.
	ev.RemoveListener(ha)
	if ev.Len() != 1 {
		t.Fatalf("len after removing ha = %d, want 1", ev.Len())
	}
	ev.RemoveListener(hc)
	if ev.Len() != 0 {
		t.Fatalf("len after removing hc = %d, want 0", ev.Len())
	}
}

func TestRemoveListenerNoopOnStaleOrNilHandle(t *testing.T) {
	var ev Event[int]
	h := ev.AddListener(func(e *Event[int]) {})
	ev.RemoveListener(h)
	ev.RemoveListener(h) // double-remove: no-op, must not panic

	var zero Handle
	ev.RemoveListener(zero) // never-issued handle: no-op

	if ev.Len() != 0 {
		t.Fatalf("len = %d, want 0", ev.Len())
	}
}

func TestSelfRemovalDuringFireDoesNotCorruptIteration(t *testing.T) {
	var ev Event[int]
	var ran []int
	var selfHandle Handle
	selfHandle = ev.AddListener(func(e *Event[int]) {
		ran = append(ran, 1)
		ev.RemoveListener(selfHandle)
	})
	ev.AddListener(func(e *Event[int]) { ran = append(ran, 2) })
	ev.AddListener(func(e *Event[int]) { ran = append(ran, 3) })

	ev.Fire()

	if len(ran) != 3 {
		t.Fatalf("ran = %v, want all 3 listeners to fire this round", ran)
	}
	if ev.Len() != 2 {
		t.Fatalf("len after self-removing fire = %d, want 2", ev.Len())
	}

	ran = nil
	ev.Fire()
	if len(ran) != 2 {
		t.Fatalf("second fire ran = %v, want exactly the 2 survivors", ran)
	}
}

func TestAddListenerDuringFireNotInvokedThisRound(t *testing.T) {
	var ev Event[int]
	var ran []int
	ev.AddListener(func(e *Event[int]) {
		ran = append(ran, 1)
		ev.AddListener(func(e *Event[int]) { ran = append(ran, 99) })
	})

	ev.Fire()
	if len(ran) != 1 {
		t.Fatalf("ran = %v, want only the pre-existing listener this round", ran)
	}

	ran = nil
	ev.Fire()
	if len(ran) != 2 {
		t.Fatalf("second fire ran = %v, want both listeners now", ran)
	}
}

func TestClearResetsPayloadAndListeners(t *testing.T) {
	var ev Event[int]
	ev.AddListener(func(e *Event[int]) {})
	ev.NotifyWithPayload(7)

	ev.Clear()

	if ev.Len() != 0 {
		t.Fatalf("len after Clear = %d, want 0", ev.Len())
	}
	if ev.Payload() != 0 {
		t.Fatalf("payload after Clear = %d, want zero value", ev.Payload())
	}
}
