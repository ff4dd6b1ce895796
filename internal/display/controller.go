package display

import (
	"sync"
	"time"

	"timetrack/internal/clock"
)

// DefaultPeriod is the refresh rate of a ticking display.
const DefaultPeriod = time.Second

// Source is the per-update snapshot of the record fields a controller
// observes: a running flag, a nullable start timestamp in any shape accepted
// by NormalizeInstant, and the accumulated hours shown while idle.
type Source struct {
	Running bool
	Start   any
	Hours   float64
}

// IdleStyle selects how the display is rendered while not ticking.
type IdleStyle int

const (
	// IdleFloatHours renders accumulated hours as "1h 30m".
	IdleFloatHours IdleStyle = iota
	// IdleAdaptive renders accumulated hours through the adaptive
	// seconds formatter.
	IdleAdaptive
	// IdleClock renders accumulated hours in compact colon form, "1:30".
	IdleClock
)

// Controller owns the ticking lifecycle of one live display instance.
//
// It holds at most one active periodic handle at any time. While the
// observed source is running with a start timestamp present, the controller
// recomputes and publishes the display text once immediately and then once
// per period. Hosts feed updates through the two-phase protocol: WillChange
// before new field values are applied, Changed after they are committed.
// Close cancels the handle and makes every later tick a no-op.
//
// The publish callback runs with the controller's lock held and must not
// call back into the controller.
type Controller struct {
	mu      sync.Mutex
	clk     clock.Clock
	period  time.Duration
	idle    IdleStyle
	publish func(string)

	src    Source
	text   string
	gen    uint64
	stop   chan struct{} // non-nil only while ticking
	closed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock, for deterministic tests.
func WithClock(clk clock.Clock) Option {
	return func(c *Controller) { c.clk = clk }
}

// WithPeriod replaces the refresh period.
func WithPeriod(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.period = d
		}
	}
}

// WithIdleStyle replaces the idle rendering variant.
func WithIdleStyle(s IdleStyle) Option {
	return func(c *Controller) { c.idle = s }
}

// NewController returns an idle controller publishing display text through
// publish. A nil publish is allowed; the latest text stays readable via Text.
func NewController(publish func(string), opts ...Option) *Controller {
	c := &Controller{
		clk:     clock.Real{},
		period:  DefaultPeriod,
		publish: publish,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Text returns the most recently published display text.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// WillChange is phase one of an update: it synchronously cancels any active
// periodic handle before the host applies new field values, so no stale tick
// can run against data that is about to change.
func (c *Controller) WillChange() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

// Changed is phase two of an update: the host has committed new field
// values and the controller re-derives its state from them. The display is
// recomputed and published once immediately; if the source is running with a
// start timestamp present, a fresh periodic handle is scheduled after that
// first publish.
func (c *Controller) Changed(src Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	// Cancel here too, so a lone Changed still never stacks handles.
	c.cancelLocked()
	c.src = src
	c.publishLocked()
	if !src.Running {
		return
	}
	if _, ok := NormalizeInstant(src.Start); !ok {
		// Absent or malformed start: stay idle on the zero display.
		return
	}
	stop := make(chan struct{})
	c.stop = stop
	go c.run(c.gen, stop)
}

// Sync performs a full two-phase update in one call, for hosts that only
// observe committed state.
func (c *Controller) Sync(src Source) {
	c.WillChange()
	c.Changed(src)
}

// Close tears the controller down. After Close returns no publish is
// observable, even if a tick was already in flight.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.closed = true
}

// cancelLocked releases the active handle, if any, and invalidates stale
// ticks by bumping the generation.
func (c *Controller) cancelLocked() {
	c.gen++
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Controller) run(gen uint64, stop chan struct{}) {
	t := time.NewTicker(c.period)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			c.mu.Lock()
			if c.closed || c.gen != gen {
				// Cancelled between the ticker firing and the lock.
				c.mu.Unlock()
				return
			}
			c.publishLocked()
			c.mu.Unlock()
		}
	}
}

func (c *Controller) publishLocked() {
	c.text = c.renderLocked()
	if c.publish != nil {
		c.publish(c.text)
	}
}

func (c *Controller) renderLocked() string {
	if c.src.Running {
		return FormatAdaptive(float64(ElapsedSeconds(c.clk, c.src.Start)))
	}
	switch c.idle {
	case IdleAdaptive:
		return FormatAdaptive(c.src.Hours * 3600)
	case IdleClock:
		return FormatClock(c.src.Hours)
	default:
		return FormatFloatHours(c.src.Hours)
	}
}
