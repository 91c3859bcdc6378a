package scheduler

import (
	"time"

	"github.com/lixenwraith/chronoforge/constant"
)

// Run drives the dispatch loop for a HighRes or LowRes scheduler on the
// calling goroutine: capture head, wait for its compensated deadline,
// notify, remove, repeat until the queue is empty. Returns once the
// queue drains. Panics with a PreconditionViolation if called on any
// other strategy.
func (s *Scheduler) Run() {
	switch s.strategy {
	case HighRes:
		s.runHighRes()
	case LowRes:
		s.runLowRes()
	default:
		precondition("scheduler: Run is only valid for the HighRes/LowRes strategies")
	}
}

func (s *Scheduler) runHighRes() {
	for {
		_, execAtUs, ok := s.Peek()
		if !ok {
			return
		}
		s.clock.BusyWaitUntil(s.jitter.target(execAtUs))
		s.dispatchHead(true)
	}
}

func (s *Scheduler) runLowRes() {
	for {
		_, execAtUs, ok := s.Peek()
		if !ok {
			return
		}
		target := s.jitter.target(execAtUs)
		now := s.clock.NowUs()
		delayUs := remaining(target, now)
		// Round to the nearest millisecond, half up; a delay that rounds
		// to zero (including any negative, already-past delay) sleeps
		// not at all.
		ms := (delayUs + 500) / 1000
		if ms > 0 {
			d := time.Duration(ms) * time.Millisecond
			if d < constant.LowResMinInterval {
				d = constant.LowResMinInterval
			}
			time.Sleep(d)
		}
		s.dispatchHead(true)
	}
}

// Poll executes every node whose scheduled time has already passed, in
// order, without sleeping, and returns. Intended to be driven on the
// caller's own cadence (once per frame, for instance). There is no
// jitter compensation for Polled. Panics with a PreconditionViolation
// if called on any other strategy.
func (s *Scheduler) Poll() {
	if s.strategy != Polled {
		precondition("scheduler: Poll is only valid for the Polled strategy")
	}
	for {
		_, execAtUs, ok := s.Peek()
		if !ok || execAtUs > s.clock.NowUs() {
			return
		}
		s.dispatchHead(false)
	}
}

// Exec launches the background worker if it is not already running.
// Safe to call again after the worker idle-exited on an empty queue, or
// after a prior Stop; it also clears the poisoned state left by an
// unwinding listener, re-arming the scheduler. Panics with a
// PreconditionViolation if called on any other strategy. The returned
// error is reserved for worker spawn failure; goroutine launch in this
// runtime does not fail the way a native thread spawn can, so it is
// always nil today.
func (s *Scheduler) Exec() error {
	if s.strategy != Background {
		precondition("scheduler: Exec is only valid for the Background strategy")
	}
	s.running.Store(true)
	s.poisoned.Store(false)
	s.launchWorker()
	return nil
}

// Stop flips the running flag, signals the worker to exit, and joins
// it. A no-op if the worker is not running. Panics with a
// PreconditionViolation if called on any other strategy.
func (s *Scheduler) Stop() {
	if s.strategy != Background {
		precondition("scheduler: Stop is only valid for the Background strategy")
	}
	s.running.Store(false)
	s.mu.Lock()
	stopCh := s.stopCh
	s.stopCh = nil
	s.mu.Unlock()
	if stopCh != nil {
		close(stopCh)
	}
	s.wg.Wait()
}

func (s *Scheduler) launchWorker() {
	s.mu.Lock()
	if s.workerAlive.Load() {
		s.mu.Unlock()
		return
	}
	s.workerAlive.Store(true)
	stopCh := make(chan struct{})
	wake := make(chan struct{}, 1)
	s.stopCh = stopCh
	s.wake = wake
	s.mu.Unlock()

	s.wg.Add(1)
	go s.backgroundLoop(stopCh, wake)
}

func (s *Scheduler) wakeWorker() {
	if !s.workerAlive.Load() {
		s.launchWorker()
		return
	}
	s.mu.Lock()
	wake := s.wake
	s.mu.Unlock()
	if wake == nil {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}

// backgroundLoop is the worker body described in §4.3.3: lock, inspect
// head, either dispatch immediately (non-positive delay) or wait up to
// one second for either a wake signal (head changed), a stop signal, or
// the capped timeout, then loop. The queue lock is released across
// notify() so listeners may reentrantly Schedule/Cancel.
func (s *Scheduler) backgroundLoop(stopCh, wake chan struct{}) {
	defer s.wg.Done()
	idleExit := false
	defer func() {
		if r := recover(); r != nil {
			s.poisoned.Store(true)
			if s.logger != nil {
				s.logger.Errorw("background scheduler worker terminated by listener panic", "panic", r)
			}
		}
		if !idleExit {
			s.workerAlive.Store(false)
		}
	}()

	for {
		s.mu.Lock()
		n := s.queue.peek()
		if n == nil {
			// Cleared under the lock, so a Schedule that inserts after this
			// point sees the worker as gone and relaunches it.
			s.workerAlive.Store(false)
			idleExit = true
			s.mu.Unlock()
			return
		}
		target := s.jitter.target(n.execAtUs)
		now := s.clock.NowUs()
		delayUs := remaining(target, now)

		if delayUs <= 0 {
			s.queue.remove(n)
			delete(s.nodes, n.id)
			s.mu.Unlock()

			actualUs := s.clock.NowUs()
			n.trig.Notify()

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
			continue
		}
		s.mu.Unlock()

		wait := time.Duration(delayUs) * time.Microsecond
		if wait > constant.BackgroundMaxWait {
			wait = constant.BackgroundMaxWait
		}
		select {
		case <-wake:
		case <-stopCh:
			return
		case <-time.After(wait):
		}
	}
}
