package frame

// Handle identifies a pending tick request so it can be cancelled.
type Handle int

// Scheduler abstracts the per-frame callback loop. The scene store requests a
// tick when it becomes dirty; the hosting loop decides when ticks actually
// fire. Tests drive a StepScheduler by hand for deterministic, synchronous
// flushes.
type Scheduler interface {
	RequestTick(fn func()) Handle
	CancelTick(h Handle)
}

// StepScheduler queues tick callbacks and runs them when Step is called.
// The game loop calls Step once per display frame, so callbacks requested
// within a frame are coalesced to the refresh rate. Everything runs on the
// event-loop goroutine; no locking.
type StepScheduler struct {
	next    Handle
	pending map[Handle]func()
	order   []Handle
}

func NewStepScheduler() *StepScheduler {
	return &StepScheduler{pending: map[Handle]func(){}}
}

func (s *StepScheduler) RequestTick(fn func()) Handle {
	s.next++
	h := s.next
	s.pending[h] = fn
	s.order = append(s.order, h)
	return h
}

func (s *StepScheduler) CancelTick(h Handle) {
	delete(s.pending, h)
}

// Step runs every callback queued before this call, in request order.
// Callbacks that request a new tick while running land in the next Step.
func (s *StepScheduler) Step() {
	order := s.order
	pending := s.pending
	s.order = nil
	s.pending = map[Handle]func(){}
	for _, h := range order {
		if fn, ok := pending[h]; ok {
			fn()
		}
	}
}

// Pending reports how many callbacks are queued for the next Step.
func (s *StepScheduler) Pending() int {
	return len(s.pending)
}
