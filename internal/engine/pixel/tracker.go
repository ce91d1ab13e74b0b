package pixel

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"adpulse/internal/platform/models"
)

// EventStore persists batches of pixel events.
// *repositories.PixelEventRepository satisfies it.
type EventStore interface {
	InsertBatch(events []*models.PixelEvent) error
}

// ErrQueueFull is returned by Track when the buffer is saturated; the
// caller decides whether to drop or report.
var ErrQueueFull = errors.New("pixel event queue full")

var ErrStopped = errors.New("tracker is stopped")

// Tracker buffers incoming pixel events and flushes them to the store in
// batches on an interval or when a batch fills up. All collaborators are
// injected: storage, clock and id generation, so tests construct isolated
// instances with a fake clock. Lifecycle is explicit via Start/Stop; Stop
// drains the queue before returning.
type Tracker struct {
	store      EventStore
	clock      clockwork.Clock
	newID      func() string
	queue      chan *models.PixelEvent
	flushEvery time.Duration
	batchSize  int

	mu      sync.Mutex
	started bool
	done    chan struct{}
	wg      sync.WaitGroup
}

type TrackerOptions struct {
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
}

func NewTracker(store EventStore, clock clockwork.Clock, newID func() string, opts TrackerOptions) *Tracker {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 5 * time.Second
	}

	return &Tracker{
		store:      store,
		clock:      clock,
		newID:      newID,
		queue:      make(chan *models.PixelEvent, opts.QueueSize),
		flushEvery: opts.FlushInterval,
		batchSize:  opts.BatchSize,
	}
}

func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.started = true
	t.done = make(chan struct{})
	t.wg.Add(1)
	go t.loop(t.done)
}

// Stop halts the flush loop and drains whatever is still queued.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return
	}
	t.started = false
	close(t.done)
	t.mu.Unlock()

	t.wg.Wait()
}

// Track stamps the event with an id and timestamp and enqueues it. It never
// blocks the caller: a full queue returns ErrQueueFull.
func (t *Tracker) Track(ev *models.PixelEvent) error {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()
	if !started {
		return ErrStopped
	}

	ev.ID = t.newID()
	ev.Timestamp = t.clock.Now().UnixMilli()

	select {
	case t.queue <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

func (t *Tracker) loop(done chan struct{}) {
	defer t.wg.Done()

	ticker := t.clock.NewTicker(t.flushEvery)
	defer ticker.Stop()

	batch := make([]*models.PixelEvent, 0, t.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := t.store.InsertBatch(batch); err != nil {
			log.Error().Err(err).Int("count", len(batch)).Msg("failed to flush pixel events")
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-t.queue:
			batch = append(batch, ev)
			if len(batch) >= t.batchSize {
				flush()
			}
		case <-ticker.Chan():
			flush()
		case <-done:
			// Drain remaining events, then flush once.
			for {
				select {
				case ev := <-t.queue:
					batch = append(batch, ev)
					if len(batch) >= t.batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
