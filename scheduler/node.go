package scheduler

import "github.com/lixenwraith/chronoforge/trigger"

// node is an intrusive circular-doubly-linked-list entry. It is heap
// owned by the Scheduler for its entire lifetime; NodeRef (see
// scheduler.go) is the only handle callers ever see, so this type and
// its pointers never cross the package boundary.
type node struct {
	trig     trigger.Notifier
	execAtUs int64
	id       uint64
	prev     *node
	next     *node
}

// ring is the sorted queue described in the spec's sorted-queue
// section: insert/remove/clear/peek, tail-biased insertion, FIFO
// tie-break on equal execAtUs. Not safe for concurrent use on its own;
// the owning Scheduler serializes access.
type ring struct {
	head *node
}

// insert walks backward from the tail while the walker's time exceeds
// n's, then splices n in after the first node with a lesser-or-equal
// time (or makes n the new head if even head's time exceeds n's).
// Scheduling tends to land near or after the current tail, so this
// backward-from-tail walk is the cheap path in the common case.
func (r *ring) insert(n *node) {
	if r.head == nil {
		n.next, n.prev = n, n
		r.head = n
		return
	}
	walker := r.head.prev
	for walker != r.head && walker.execAtUs > n.execAtUs {
		walker = walker.prev
	}
	if walker == r.head && r.head.execAtUs > n.execAtUs {
		n.prev = r.head.prev
		n.next = r.head
		r.head.prev.next = n
		r.head.prev = n
		r.head = n
		return
	}
	n.next = walker.next
	n.prev = walker
	walker.next.prev = n
	walker.next = n
}

// remove unlinks n from the ring. Advances head if n was it; clears
// head if n was the only node.
func (r *ring) remove(n *node) {
	if n.next == n {
		r.head = nil
	} else {
		n.prev.next = n.next
		n.next.prev = n.prev
		if n == r.head {
			r.head = n.next
		}
	}
	n.next, n.prev = nil, nil
}

// clear removes every node, returning them in removal order.
func (r *ring) clear() []*node {
	var removed []*node
	for r.head != nil {
		n := r.head
		r.remove(n)
		removed = append(removed, n)
	}
	return removed
}

// peek returns the earliest node, or nil if empty.
func (r *ring) peek() *node {
	return r.head
}
