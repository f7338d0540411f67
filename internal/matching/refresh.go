package matching

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/daniel/fieldnote-analyzer/internal/logging"
)

// RefreshInterval is the administrative auto-refresh cadence for the catalog.
type RefreshInterval string

const (
	RefreshHourly RefreshInterval = "hourly"
	RefreshDaily  RefreshInterval = "daily"
	RefreshWeekly RefreshInterval = "weekly"
)

// Duration converts the interval enum to a wall-clock period. Unknown values
// fall back to daily.
func (r RefreshInterval) Duration() time.Duration {
	switch r {
	case RefreshHourly:
		return time.Hour
	case RefreshWeekly:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Valid reports whether r is one of the supported interval values.
func (r RefreshInterval) Valid() bool {
	switch r {
	case RefreshHourly, RefreshDaily, RefreshWeekly:
		return true
	}
	return false
}

// Refresher re-syncs the catalog on a schedule, outside any request's
// critical path. Refresh failures are retried with exponential backoff,
// logged, and leave the previous snapshot serving reads.
type Refresher struct {
	catalog   *Catalog
	interval  RefreshInterval
	scheduled bool
	trigger   chan struct{}
	stop      chan struct{}
	done      chan struct{}
}

// NewRefresher creates a refresher for the catalog. Start must be called to
// begin the loop.
func NewRefresher(catalog *Catalog, interval RefreshInterval) *Refresher {
	return &Refresher{
		catalog:   catalog,
		interval:  interval,
		scheduled: true,
		trigger:   make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// WithoutSchedule disables the interval ticker; the refresher then only
// responds to TriggerNow. Must be called before Start.
func (r *Refresher) WithoutSchedule() *Refresher {
	r.scheduled = false
	return r
}

// Start launches the refresh loop.
func (r *Refresher) Start() {
	go r.loop()
}

// TriggerNow requests an immediate out-of-cycle refresh. Non-blocking; a
// pending trigger is collapsed into one refresh.
func (r *Refresher) TriggerNow() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Stop terminates the loop and waits for it to exit.
func (r *Refresher) Stop() {
	close(r.stop)
	<-r.done
}

func (r *Refresher) loop() {
	defer close(r.done)

	log := logging.New("matching")

	var tick <-chan time.Time
	if r.scheduled {
		ticker := time.NewTicker(r.interval.Duration())
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-tick:
			r.refreshOnce(log)
		case <-r.trigger:
			r.refreshOnce(log)
		case <-r.stop:
			return
		}
	}
}

func (r *Refresher) refreshOnce(log *logrus.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	bo := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	err := backoff.Retry(func() error {
		return r.catalog.Refresh(ctx)
	}, bo)
	if err != nil {
		log.WithError(err).Error("catalog refresh failed, keeping previous snapshot")
		return
	}

	log.WithField("tags", len(r.catalog.Snapshot().Entries())).Info("catalog refreshed")
}
