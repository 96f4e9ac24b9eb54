package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	relayBatchSize = 100

	// A failed event waits interval, then twice that, up to maxRetryDelay.
	maxRetryDelay = time.Minute
)

// Dispatcher delivers one event. Returning nil acknowledges it.
type Dispatcher func(ctx context.Context, event *Event) error

// Relay drains the outbox in order, handing each event to the dispatcher
// registered for its kind.
type Relay struct {
	outbox   *Outbox
	interval time.Duration
	limiter  *rate.Limiter
	log      *logrus.Entry

	mutex       sync.RWMutex
	dispatchers map[string]Dispatcher
	flushing    sync.Mutex

	now func() time.Time
}

// NewRelay paces dispatches to perSecond events; perSecond <= 0 disables pacing
func NewRelay(outbox *Outbox, interval time.Duration, perSecond int, log *logrus.Entry) *Relay {
	limit, burst := rate.Inf, 1
	if perSecond > 0 {
		limit, burst = rate.Limit(perSecond), perSecond
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Relay{
		outbox:      outbox,
		interval:    interval,
		limiter:     rate.NewLimiter(limit, burst),
		log:         log.WithField("component", "relay"),
		dispatchers: make(map[string]Dispatcher),
		now:         time.Now,
	}
}

func (r *Relay) Register(kind string, dispatcher Dispatcher) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.dispatchers[kind] = dispatcher
}

func (r *Relay) dispatcher(kind string) (Dispatcher, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	d, ok := r.dispatchers[kind]
	return d, ok
}

// Run flushes on every tick and whenever the outbox is notified, until ctx is done
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.WithField("interval", r.interval).Info("relay started")
	for {
		if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
			r.log.WithError(err).Error("outbox flush failed")
		}
		select {
		case <-ctx.Done():
			r.log.Info("relay stopped")
			return nil
		case <-ticker.C:
		case <-r.outbox.Wake():
		}
	}
}

// Flush makes one pass over the whole outbox and returns how many events were
// delivered. A failed event is kept with its attempt count, backs off, and does
// not hold back the events after it.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	r.flushing.Lock()
	defer r.flushing.Unlock()

	delivered := 0
	var after int64
	for {
		batch, err := r.outbox.PendingAfter(after, relayBatchSize)
		if err != nil {
			return delivered, fmt.Errorf("failed to read outbox: %w", err)
		}

		for _, event := range batch {
			after = event.Seq
			if !event.Due(r.now()) {
				continue
			}
			ok, err := r.dispatch(ctx, event)
			if err != nil {
				return delivered, err
			}
			if ok {
				delivered++
			}
		}

		if len(batch) < relayBatchSize {
			return delivered, nil
		}
	}
}

// dispatch hands one event to its dispatcher. It reports whether the event was
// delivered; the error is only set when the outbox itself could not be updated.
func (r *Relay) dispatch(ctx context.Context, event *Event) (bool, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return false, err
	}
	log := r.log.WithFields(logrus.Fields{
		"kind":         event.Kind,
		"aggregate_id": event.AggregateID,
		"seq":          event.Seq,
	})

	var err error
	if dispatch, ok := r.dispatcher(event.Kind); !ok {
		err = fmt.Errorf("no dispatcher for %s", event.Kind)
	} else {
		err = dispatch(ctx, event)
	}
	if err != nil {
		attempts := event.Attempts + 1
		retryAt := r.now().Add(r.retryDelay(attempts))
		log.WithError(err).WithFields(logrus.Fields{
			"attempts": attempts,
			"retry_at": retryAt,
		}).Warn("dispatch failed")
		if markErr := r.outbox.MarkFailed(event.Seq, err, retryAt); markErr != nil {
			return false, fmt.Errorf("failed to record dispatch failure: %w", markErr)
		}
		return false, nil
	}

	if err := r.outbox.Ack(event.Seq); err != nil {
		return false, fmt.Errorf("failed to ack event %d: %w", event.Seq, err)
	}
	log.Debug("event dispatched")
	return true, nil
}

func (r *Relay) retryDelay(attempts int) time.Duration {
	delay := r.interval
	for i := 1; i < attempts && delay < maxRetryDelay; i++ {
		delay *= 2
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
