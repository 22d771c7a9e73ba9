package phab

import "time"

// Throttle enforces a minimum interval between outbound Conduit requests.
// It guarantees a floor on inter-call spacing but no upper bound: bursts
// after a long idle period are not penalised. The run is strictly
// sequential, so a Throttle is not safe for concurrent use.
type Throttle struct {
	delay time.Duration
	last  time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

// ThrottleOption customises a Throttle during construction.
type ThrottleOption func(*Throttle)

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) ThrottleOption {
	return func(t *Throttle) { t.now = now }
}

// WithSleep overrides the sleep function, for tests.
func WithSleep(sleep func(time.Duration)) ThrottleOption {
	return func(t *Throttle) { t.sleep = sleep }
}

// NewThrottle returns a throttle spacing calls at least delay apart.
func NewThrottle(delay time.Duration, opts ...ThrottleOption) *Throttle {
	t := &Throttle{
		delay: delay,
		now:   time.Now,
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Wait blocks until at least the configured delay has passed since the
// previous call, then records the send time. The timestamp is taken at send
// time, not at completion time.
func (t *Throttle) Wait() time.Duration {
	wait := t.delay - t.now().Sub(t.last)
	if wait > 0 {
		t.sleep(wait)
	} else {
		wait = 0
	}
	t.last = t.now()
	return wait
}
