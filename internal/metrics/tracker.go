package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cyphera/wallet-rpc/internal/logger"
)

var (
	ErrQueueFull = errors.New("metrics queue is full")
	ErrStopped   = errors.New("metrics tracker is stopped")
)

// Tracker queues events and publishes them from a worker pool.
// Delivery is best effort: events are not retried.
type Tracker struct {
	publisher      Publisher
	metaMetricsID  string
	events         chan Event
	workerCount    int
	publishTimeout time.Duration
	logger         *zap.Logger
	now            func() time.Time

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewTracker creates a tracker with workerCount publishers and a queue of bufferSize.
func NewTracker(publisher Publisher, metaMetricsID string, workerCount, bufferSize int) *Tracker {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Tracker{
		publisher:      publisher,
		metaMetricsID:  metaMetricsID,
		events:         make(chan Event, bufferSize),
		workerCount:    workerCount,
		publishTimeout: 10 * time.Second,
		logger:         logger.Log,
		now:            time.Now,
	}
}

// Start launches the workers.
func (t *Tracker) Start() {
	t.logger.Info("Starting metrics tracker", zap.Int("worker_count", t.workerCount))
	for i := 0; i < t.workerCount; i++ {
		workerID := i
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			for event := range t.events {
				t.publish(workerID, event)
			}
		}()
	}
}

func (t *Tracker) publish(workerID int, event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), t.publishTimeout)
	defer cancel()
	if err := t.publisher.Publish(ctx, event); err != nil {
		t.logger.Warn("Failed to publish metrics event",
			zap.Int("worker_id", workerID),
			zap.String("event", event.Event),
			zap.String("message_id", event.MessageID),
			zap.Error(err))
	}
}

// Stop drains queued events and waits for the workers to finish.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	close(t.events)
	t.mu.Unlock()

	t.wg.Wait()
	t.logger.Info("Metrics tracker stopped")
}

// Track stamps the event and enqueues it without blocking.
func (t *Tracker) Track(_ context.Context, event Event, opts Options) error {
	event.MessageID = uuid.New().String()
	event.Timestamp = t.now().UTC()
	if opts.ExcludeMetaMetricsID {
		event.MetaMetricsID = ""
	} else {
		event.MetaMetricsID = t.metaMetricsID
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.stopped {
		return ErrStopped
	}
	select {
	case t.events <- event:
		return nil
	default:
		return ErrQueueFull
	}
}
