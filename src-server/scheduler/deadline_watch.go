package scheduler

import (
	"context"
	"log/slog"
	"stridercup/src-server/model"
	"stridercup/src-server/utils"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DeadlineWatch periodically counts events whose registration deadline has
// passed while the admin-set status flag still says "open". The two signals
// are allowed to disagree (the detail page closes on either one), but a
// lingering disagreement usually means the admin forgot to flip the flag,
// so it's surfaced here instead of silently mutated.
func DeadlineWatch(as *utils.AppState) {
	deadlinePassedOpen := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stridercup_deadline_passed_open_events",
		Help: "Events past their registration deadline still flagged open",
	})
	good := true
	if err := prometheus.Register(deadlinePassedOpen); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register stridercup_deadline_passed_open_events metric", "error", err)
			good = false
		}
	}
	if good {
		deadlinePassedOpen.Set(0)
	}

	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-*gracefulShutdownCh:
			prometheus.Unregister(deadlinePassedOpen)
			return
		case <-ticker.C:
			count, err := as.BunDB.
				NewSelect().
				Model((*model.Event)(nil)).
				Where("registration_status = ?", model.REGISTRATION_STATUS_OPEN).
				Where("deadline < ?", time.Now().UTC().Unix()).
				Count(context.Background())
			if err != nil {
				slog.Error("can't count past-deadline events", "error", err)
				continue
			}
			deadlinePassedOpen.Set(float64(count))
			if count > 0 {
				slog.Warn("events past deadline still flagged open", "count", count)
			}
		}
	}
}
