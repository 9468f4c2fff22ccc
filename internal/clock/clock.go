// Package clock implements the canonical game-time authority: a
// monotonic game-time anchored to real time, with pause and scale
// controls, persisted across restarts.
//
// A small, self-contained, heavily commented wrapper around time with no
// DB or config dependency of its own: a narrow leaf package.
package clock

import (
	"sync"
	"time"
)

// Epoch is the game-time zero point, 2000-01-01T00:00:00Z: game-seconds
// (as returned by Now) count from this instant.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultScale is the sole configuration constant of this subsystem: one
// real hour advances the game clock by roughly one game-week.
const DefaultScale = (7 * 24.0) / 1.0

// Snapshot is the persisted representation of a Clock, matching a
// key/value meta table row (sim_real_time_anchor_s, sim_game_time_anchor_s, sim_paused).
type Snapshot struct {
	RealAnchorS float64
	GameAnchorS float64
	Paused      bool
	Scale       float64
}

// Clock is the simulation clock. All reads and writes are protected by a
// mutex since multiple requests may observe or mutate it concurrently.
type Clock struct {
	mu          sync.Mutex
	realAnchor  time.Time
	gameAnchorS float64
	paused      bool
	scale       float64
	nowFn       func() time.Time
}

// New creates a clock anchored at the epoch, unpaused, at DefaultScale.
func New() *Clock {
	c := &Clock{
		scale: DefaultScale,
		nowFn: time.Now,
	}
	c.Reset()
	return c
}

// Import restores a clock from a persisted snapshot.
func Import(snap Snapshot) *Clock {
	c := &Clock{
		realAnchor:  time.Unix(0, 0).UTC().Add(time.Duration(snap.RealAnchorS * float64(time.Second))),
		gameAnchorS: snap.GameAnchorS,
		paused:      snap.Paused,
		scale:       snap.Scale,
		nowFn:       time.Now,
	}
	if c.scale <= 0 {
		c.scale = DefaultScale
	}
	return c
}

// Export captures the clock's current anchors for persistence.
func (c *Clock) Export() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		RealAnchorS: float64(c.realAnchor.UnixNano()) / float64(time.Second),
		GameAnchorS: c.gameAnchorS,
		Paused:      c.paused,
		Scale:       c.scale,
	}
}

// Now returns the current game-time in game-seconds since Epoch.
//
// now() = game_anchor + (real_now - real_anchor) * scale when unpaused,
// now() = game_anchor when paused. Idempotent: calling it repeatedly with
// no intervening mutation returns values that only ever advance forward,
// never jump.
func (c *Clock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nowLocked()
}

func (c *Clock) nowLocked() float64 {
	if c.paused {
		return c.gameAnchorS
	}
	elapsedReal := c.nowFn().Sub(c.realAnchor).Seconds()
	return c.gameAnchorS + elapsedReal*c.scale
}

// NowTime returns the current game-time as a time.Time offset from Epoch,
// a convenience used wherever a subsystem wants to compare against
// time.Time-typed persisted fields (arrives_at, completes_at, ...).
func (c *Clock) NowTime() time.Time {
	return Epoch.Add(time.Duration(c.Now() * float64(time.Second)))
}

// SetPaused flips the pause flag. Capturing the current game-time into
// game_anchor and resetting real_anchor to real-now before flipping the
// flag is what makes pausing twice idempotent: the second call captures
// the same game-time it already holds.
func (c *Clock) SetPaused(flag bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameAnchorS = c.nowLocked()
	c.realAnchor = c.nowFn()
	c.paused = flag
}

// Paused reports whether the clock is currently paused.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// SetScale changes the real-to-game time multiplier. scale must be > 0;
// invalid values are silently ignored (the caller-facing validation
// lives one layer up, in the control surface).
func (c *Clock) SetScale(scale float64) {
	if scale <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameAnchorS = c.nowLocked()
	c.realAnchor = c.nowFn()
	c.scale = scale
}

// Scale returns the current real-to-game time multiplier.
func (c *Clock) Scale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale
}

// Reset re-anchors the clock to Epoch, real-now, unpaused.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameAnchorS = 0
	c.realAnchor = c.nowFn()
	c.paused = false
}
