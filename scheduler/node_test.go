package scheduler

import "testing"

func assertRingShape(t *testing.T, r *ring) {
	t.Helper()
	if r.head == nil {
		return
	}
	n := r.head
	count := 0
	for {
		if n.prev.next != n {
			t.Fatalf("ring broken: node.prev.next != node at time %d", n.execAtUs)
		}
		if n.next.prev != n {
			t.Fatalf("ring broken: node.next.prev != node at time %d", n.execAtUs)
		}
		if n.next != r.head && n.execAtUs > n.next.execAtUs {
			t.Fatalf("ring unsorted: %d appears before %d", n.execAtUs, n.next.execAtUs)
		}
		n = n.next
		count++
		if n == r.head {
			break
		}
		if count > 1000 {
			t.Fatal("ring traversal did not terminate; likely corrupted")
		}
	}
}

func TestRingInsertMaintainsSortedRing(t *testing.T) {
	var r ring
	times := []int64{50, 10, 30, 10, 90, 5, 5, 20}
	for i, tm := range times {
		r.insert(&node{execAtUs: tm, id: uint64(i + 1)})
		assertRingShape(t, &r)
	}
}

func TestRingTieBreaksFIFO(t *testing.T) {
	var r ring
	first := &node{execAtUs: 100, id: 1}
	second := &node{execAtUs: 100, id: 2}
	third := &node{execAtUs: 100, id: 3}
	r.insert(first)
	r.insert(second)
	r.insert(third)

	got := []uint64{}
	n := r.head
	for i := 0; i < 3; i++ {
		got = append(got, n.id)
		n = n.next
	}
	want := []uint64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie-break order = %v, want %v", got, want)
		}
	}
}

func TestRingRemoveHeadAdvances(t *testing.T) {
	var r ring
	a := &node{execAtUs: 1, id: 1}
	b := &node{execAtUs: 2, id: 2}
	c := &node{execAtUs: 3, id: 3}
	r.insert(a)
	r.insert(b)
	r.insert(c)

	r.remove(a)
	assertRingShape(t, &r)
	if r.head != b {
		t.Fatalf("head after removing a = %v, want b", r.head.id)
	}

	r.remove(b)
	r.remove(c)
	if r.head != nil {
		t.Fatal("head should be nil after removing all nodes")
	}
}

func TestRingRemoveSoleNodeClearsHead(t *testing.T) {
	var r ring
	a := &node{execAtUs: 1, id: 1}
	r.insert(a)
	r.remove(a)
	if r.head != nil {
		t.Fatal("head should be nil after removing the only node")
	}
}

func TestRingClearReturnsAllInRemovalOrder(t *testing.T) {
	var r ring
	r.insert(&node{execAtUs: 3, id: 3})
	r.insert(&node{execAtUs: 1, id: 1})
	r.insert(&node{execAtUs: 2, id: 2})

	removed := r.clear()
	if len(removed) != 3 {
		t.Fatalf("clear returned %d nodes, want 3", len(removed))
	}
	if r.peek() != nil {
		t.Fatal("peek after clear should be nil")
	}
}
