package clock

import (
	"testing"
	"time"
)

func newTestClock(start time.Time) (*Clock, *time.Time) {
	cur := start
	c := &Clock{scale: DefaultScale, nowFn: func() time.Time { return cur }}
	c.realAnchor = cur
	c.gameAnchorS = 0
	return c, &cur
}

func TestNowAdvancesWithScale(t *testing.T) {
	c, cur := newTestClock(time.Unix(1000, 0))
	c.scale = 10

	*cur = cur.Add(5 * time.Second)
	got := c.Now()
	want := 50.0
	if got != want {
		t.Fatalf("Now() = %v, want %v", got, want)
	}
}

func TestPauseFreezesTime(t *testing.T) {
	c, cur := newTestClock(time.Unix(0, 0))
	c.scale = 1

	*cur = cur.Add(10 * time.Second)
	c.SetPaused(true)
	frozen := c.Now()

	*cur = cur.Add(100 * time.Second)
	if c.Now() != frozen {
		t.Fatalf("time advanced while paused: got %v, want %v", c.Now(), frozen)
	}

	// Pausing twice is idempotent.
	c.SetPaused(true)
	if c.Now() != frozen {
		t.Fatalf("double-pause moved time: got %v, want %v", c.Now(), frozen)
	}
}

func TestSetScaleRejectsNonPositive(t *testing.T) {
	c, _ := newTestClock(time.Unix(0, 0))
	before := c.Scale()
	c.SetScale(0)
	c.SetScale(-5)
	if c.Scale() != before {
		t.Fatalf("SetScale accepted a non-positive value")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	c, cur := newTestClock(time.Unix(500, 0))
	c.scale = 3
	*cur = cur.Add(2 * time.Second)
	c.SetPaused(true)

	snap := c.Export()
	restored := Import(snap)
	if restored.Now() != c.Now() {
		t.Fatalf("restored clock disagrees: got %v, want %v", restored.Now(), c.Now())
	}
	if restored.Paused() != c.Paused() {
		t.Fatalf("restored pause flag mismatch")
	}
}

func TestResetReturnsToEpoch(t *testing.T) {
	c, cur := newTestClock(time.Unix(0, 0))
	*cur = cur.Add(1000 * time.Second)
	c.Reset()
	if got := c.Now(); got != 0 {
		t.Fatalf("Reset() left Now() = %v, want 0", got)
	}
	if c.Paused() {
		t.Fatalf("Reset() left clock paused")
	}
}
