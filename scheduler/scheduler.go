// Package scheduler implements the sorted timeline at the core of the
// engine: callers schedule type-erased triggers at absolute microsecond
// instants, and one of four execution strategies (HighRes, LowRes,
// Polled, Background) dispatches them in time order.
package scheduler

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/chronoforge/clock"
	"github.com/lixenwraith/chronoforge/trigger"
)

// Strategy selects when and how a Scheduler dispatches its queue head.
// Expressed as a sum type rather than a class hierarchy: all four share
// the same queue and differ only in their wait discipline.
type Strategy int

const (
	// HighRes busy-spins the calling goroutine on the monotonic clock.
	// Sub-microsecond latency at 100% CPU cost during waits.
	HighRes Strategy = iota
	// LowRes sleeps the calling goroutine, rounding the remaining delay
	// to the nearest millisecond.
	LowRes
	// Polled never waits; Poll() drains whatever is already due.
	Polled
	// Background runs dispatch on a dedicated goroutine, guarded by a
	// mutex and woken via a buffered channel when the head changes.
	Background
)

// String implements fmt.Stringer for diagnostics and logging.
func (s Strategy) String() string {
	switch s {
	case HighRes:
		return "highres"
	case LowRes:
		return "lowres"
	case Polled:
		return "polled"
	case Background:
		return "background"
	default:
		return "unknown"
	}
}

// NodeRef is an opaque, non-owning handle to a scheduled node. It
// remains valid until the node is removed by execution or Cancel; using
// a stale NodeRef is always a safe no-op, never a dereference of freed
// memory, since the Scheduler resolves it through an id-keyed map
// rather than exposing the node pointer itself.
type NodeRef struct {
	id uint64
}

// Valid reports whether r was ever issued by Schedule/Delay.
func (r NodeRef) Valid() bool { return r.id != 0 }

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithLogger attaches a structured logger used for TimeSkewWarning and
// Background worker diagnostics. Nil (the default) disables logging.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithAggressiveJitter switches the jitter compensator to the
// offsetUs += deltaUs*3/4 rule instead of the default /4 step. No
// effect on a Polled scheduler, which never compensates.
func WithAggressiveJitter() Option {
	return func(s *Scheduler) { s.jitter.mode = jitterAggressive }
}

// WithPrimedJitter sets offsetUs to the raw delta on the first dispatch
// instead of folding it through the exponential rule immediately.
func WithPrimedJitter() Option {
	return func(s *Scheduler) { s.jitter.prime = true }
}

// WithMetrics attaches a JitterCollector that records every observed
// (scheduled, actual) delta for post-hoc analysis. Debug-only: adds a
// small amount of bookkeeping per dispatch.
func WithMetrics(c *JitterCollector) Option {
	return func(s *Scheduler) { s.metrics = c }
}

// WithClock overrides the TimeSource; defaults to clock.Default().
// Intended for tests that need an isolated epoch.
func WithClock(ts *clock.TimeSource) Option {
	return func(s *Scheduler) { s.clock = ts }
}

// Scheduler owns a sorted queue of nodes and dispatches them according
// to its Strategy. The zero value is not usable; construct with New.
type Scheduler struct {
	strategy Strategy
	clock    *clock.TimeSource
	logger   *zap.SugaredLogger
	metrics  *JitterCollector

	mu     sync.Mutex
	queue  ring
	nodes  map[uint64]*node
	nextID uint64
	jitter jitterCompensator

	// Background-only state. The worker goroutine is launched on demand
	// (by Exec, or implicitly by Schedule when the queue had drained and
	// the prior worker idle-exited) and captures stopCh/wake at launch
	// time so a Stop racing a relaunch never signals the wrong instance.
	running     atomic.Bool
	poisoned    atomic.Bool
	workerAlive atomic.Bool
	stopCh      chan struct{}
	wake        chan struct{}
	wg          sync.WaitGroup
}

// New constructs a Scheduler using strategy. Background schedulers must
// be started with Exec before Schedule/Delay are meaningful; scheduling
// against one that was never started, or was Stop()ped, panics with a
// PreconditionViolation, since that is a programmer sequencing error
// rather than a runtime failure.
func New(strategy Strategy, opts ...Option) *Scheduler {
	s := &Scheduler{
		strategy: strategy,
		clock:    clock.Default(),
		nodes:    make(map[uint64]*node),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strategy returns the strategy this scheduler was constructed with.
func (s *Scheduler) Strategy() Strategy { return s.strategy }

// Schedule inserts trig into the sorted queue at executeAtUs (an
// absolute microsecond instant per the TimeSource) and returns a stable
// reference to the resulting node. For Background schedulers, the
// worker is woken (or relaunched, if it had idle-exited on an empty
// queue) whenever the new node becomes the new head. The returned error
// is always nil except for a Background scheduler that has been poisoned
// by an unwinding listener (ErrResourceFailure); a Background scheduler
// that is not running panics with a PreconditionViolation instead.
func (s *Scheduler) Schedule(trig trigger.Notifier, executeAtUs int64) (NodeRef, error) {
	s.mu.Lock()
	if s.strategy == Background {
		if s.poisoned.Load() {
			s.mu.Unlock()
			return NodeRef{}, ErrResourceFailure
		}
		if !s.running.Load() {
			s.mu.Unlock()
			precondition("scheduler: Schedule called on a Background scheduler that is not running")
		}
	}

	s.nextID++
	n := &node{trig: trig, execAtUs: executeAtUs, id: s.nextID}
	s.queue.insert(n)
	s.nodes[n.id] = n
	becameHead := s.queue.peek() == n
	s.mu.Unlock()

	if s.strategy == Background && becameHead {
		s.wakeWorker()
	}
	return NodeRef{id: n.id}, nil
}

// Delay is sugar for Schedule(trig, clock.NowUs()+delayUs).
func (s *Scheduler) Delay(trig trigger.Notifier, delayUs int64) (NodeRef, error) {
	return s.Schedule(trig, s.clock.NowUs()+delayUs)
}

// Cancel removes the node referenced by ref. A no-op, never an error,
// if the node has already executed or was already cancelled — this is
// the idempotent cancellation the ring's invariants require.
func (s *Scheduler) Cancel(ref NodeRef) {
	if !ref.Valid() {
		return
	}
	s.mu.Lock()
	n, ok := s.nodes[ref.id]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.queue.remove(n)
	delete(s.nodes, ref.id)
	s.mu.Unlock()
}

// Clear cancels every pending node, in an unspecified but total order,
// and resets the jitter offset.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	removed := s.queue.clear()
	for _, n := range removed {
		delete(s.nodes, n.id)
	}
	s.jitter.reset()
	s.mu.Unlock()
}

// Peek returns the earliest pending node's reference and execution
// time, or ok=false if the queue is empty.
func (s *Scheduler) Peek() (ref NodeRef, executeAtUs int64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.queue.peek()
	if n == nil {
		return NodeRef{}, 0, false
	}
	return NodeRef{id: n.id}, n.execAtUs, true
}

// Len returns the number of pending nodes.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// dispatchHead pops the head under the lock, notifies it outside the lock
// (so listeners may reentrantly Schedule/Cancel without deadlocking),
// and folds the observed delta into the jitter compensator when useJitter
// is true. Returns false if the queue was empty.
func (s *Scheduler) dispatchHead(useJitter bool) bool {
	s.mu.Lock()
	n := s.queue.peek()
	if n == nil {
		s.mu.Unlock()
		return false
	}
	s.queue.remove(n)
	delete(s.nodes, n.id)
	s.mu.Unlock()

	actualUs := s.clock.NowUs()
	n.trig.Notify()

	if useJitter {
		deltaUs := actualUs - n.execAtUs
		if deltaUs < -5 && s.logger != nil {
			s.logger.Warnw("scheduler: clock skew observed", "deltaUs", deltaUs)
		}
		s.mu.Lock()
		s.jitter.update(deltaUs)
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.Observe(deltaUs)
		}
	}
	return true
}
