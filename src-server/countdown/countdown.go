package countdown

import (
	"fmt"
	"sync"
	"time"
)

// Whole days / hours-within-day / minutes-within-hour / seconds-within-minute
// left until a registration deadline.
type Parts struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Split decomposes a remaining duration by integer division, no rounding.
// Non-positive input collapses to all zeros.
func Split(remaining time.Duration) Parts {
	if remaining <= 0 {
		return Parts{}
	}
	total := int(remaining / time.Second)
	return Parts{
		Days:    total / 86400,
		Hours:   (total % 86400) / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// Until returns the countdown parts for a deadline and whether there is any
// time left. Expired deadlines report zeros and false.
func Until(deadline, now time.Time) (Parts, bool) {
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return Parts{}, false
	}
	return Split(remaining), true
}

// Snapshot is the wire form of the countdown, zero-padded to two digits the
// way the detail page renders it.
type Snapshot struct {
	Days    string `json:"days"`
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds"`
	Expired bool   `json:"expired"`
}

func (p Parts) Snapshot(expired bool) Snapshot {
	return Snapshot{
		Days:    fmt.Sprintf("%02d", p.Days),
		Hours:   fmt.Sprintf("%02d", p.Hours),
		Minutes: fmt.Sprintf("%02d", p.Minutes),
		Seconds: fmt.Sprintf("%02d", p.Seconds),
		Expired: expired,
	}
}

// At is Until + Snapshot in one step.
func At(deadline, now time.Time) Snapshot {
	parts, open := Until(deadline, now)
	return parts.Snapshot(!open)
}

// Ticker emits a countdown snapshot on C every interval until the deadline
// passes, at which point it emits one final expired snapshot, closes C and
// stops ticking on its own. Stop tears it down early; calling Stop after the
// deadline passed, or more than once, is fine.
type Ticker struct {
	C chan Snapshot

	stop     chan struct{}
	stopOnce sync.Once
}

func NewTicker(deadline time.Time, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	t := &Ticker{
		C:    make(chan Snapshot, 1),
		stop: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(t.C)
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				snapshot := At(deadline, time.Now())
				select {
				case t.C <- snapshot:
				case <-t.stop:
					return
				}
				if snapshot.Expired {
					return
				}
			}
		}
	}()

	return t
}

// Stop cancels the ticker so no snapshot fires after teardown.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}
