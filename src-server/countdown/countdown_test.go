package countdown_test

import (
	"testing"
	"time"

	"stridercup/src-server/countdown"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		name      string
		remaining time.Duration
		want      countdown.Parts
	}{
		{
			"two days three hours",
			2*24*time.Hour + 3*time.Hour,
			countdown.Parts{Days: 2, Hours: 3},
		},
		{
			"full decomposition",
			5*24*time.Hour + 23*time.Hour + 59*time.Minute + 59*time.Second,
			countdown.Parts{Days: 5, Hours: 23, Minutes: 59, Seconds: 59},
		},
		{
			"under a minute",
			42 * time.Second,
			countdown.Parts{Seconds: 42},
		},
		{
			"sub-second truncates to zero",
			900 * time.Millisecond,
			countdown.Parts{},
		},
		{"zero", 0, countdown.Parts{}},
		{"negative", -time.Hour, countdown.Parts{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := countdown.Split(tc.remaining); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUntil(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	parts, open := countdown.Until(now.Add(26*time.Hour), now)
	if !open {
		t.Error("future deadline should report open")
	}
	if want := (countdown.Parts{Days: 1, Hours: 2}); parts != want {
		t.Errorf("got %+v, want %+v", parts, want)
	}

	parts, open = countdown.Until(now.Add(-time.Second), now)
	if open {
		t.Error("past deadline should report closed")
	}
	if parts != (countdown.Parts{}) {
		t.Errorf("past deadline should report zeros, got %+v", parts)
	}
}

func TestSnapshotZeroPadding(t *testing.T) {
	snapshot := countdown.Parts{Days: 2, Hours: 3, Minutes: 0, Seconds: 7}.Snapshot(false)
	if snapshot.Days != "02" || snapshot.Hours != "03" || snapshot.Minutes != "00" || snapshot.Seconds != "07" {
		t.Errorf("fields must be two-digit zero padded, got %+v", snapshot)
	}
	if snapshot.Expired {
		t.Error("expired flag should be false")
	}

	expired := countdown.At(time.Now().Add(-time.Minute), time.Now())
	if !expired.Expired {
		t.Error("expired flag should be true")
	}
	if expired.Days != "00" || expired.Seconds != "00" {
		t.Errorf("expired snapshot should be all zeros, got %+v", expired)
	}
}

func TestTickerExpiresAndCloses(t *testing.T) {
	ticker := countdown.NewTicker(time.Now().Add(45*time.Millisecond), 10*time.Millisecond)

	var last countdown.Snapshot
	received := 0
	timeout := time.After(2 * time.Second)
	for {
		select {
		case snapshot, ok := <-ticker.C:
			if !ok {
				if received == 0 {
					t.Fatal("channel closed without emitting anything")
				}
				if !last.Expired {
					t.Error("final snapshot should be expired")
				}
				return
			}
			last = snapshot
			received++
		case <-timeout:
			t.Fatal("ticker never closed its channel")
		}
	}
}

func TestTickerStopIsIdempotent(t *testing.T) {
	ticker := countdown.NewTicker(time.Now().Add(time.Hour), 10*time.Millisecond)
	ticker.Stop()
	ticker.Stop()

	select {
	case _, ok := <-ticker.C:
		if ok {
			// a snapshot already in flight when Stop hit is fine, but the
			// channel must still close right after it
			if _, ok := <-ticker.C; ok {
				t.Error("ticker kept emitting after Stop")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel never closed after Stop")
	}
}
