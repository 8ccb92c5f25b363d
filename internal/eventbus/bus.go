package eventbus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/grachmannico95/topup-gateway/internal/metrics"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
	"github.com/grachmannico95/topup-gateway/pkg/retry"
)

var (
	// ErrBusFull is returned when an event could not be queued without blocking.
	ErrBusFull = errors.New("event channel full")
	// ErrBusClosed is returned by Publish after Shutdown began.
	ErrBusClosed = errors.New("event bus closed")
)

type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, consumer Consumer) error
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type eventBus struct {
	channels  map[EventType]chan Event
	consumers map[EventType][]Consumer
	mu        sync.RWMutex
	wg        sync.WaitGroup
	abort     context.CancelFunc
	logger    *logger.Logger
	cfg       Config
	started   bool
	closed    bool
}

type Config struct {
	ChannelBuffer int
	MaxRetries    int
	// RetryBaseDelay is the first backoff step; zero keeps the retry default.
	RetryBaseDelay time.Duration
}

func New(log *logger.Logger, cfg *Config) EventBus {
	c := Config{ChannelBuffer: 1000, MaxRetries: 5}
	if cfg != nil {
		c = *cfg
	}
	if c.MaxRetries < 1 {
		c.MaxRetries = 1
	}

	return &eventBus{
		channels:  make(map[EventType]chan Event),
		consumers: make(map[EventType][]Consumer),
		logger:    log,
		cfg:       c,
	}
}

func (eb *eventBus) Subscribe(eventType EventType, consumer Consumer) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return ErrBusClosed
	}
	if _, exists := eb.channels[eventType]; !exists {
		eb.channels[eventType] = make(chan Event, eb.cfg.ChannelBuffer)
	}

	eb.consumers[eventType] = append(eb.consumers[eventType], consumer)

	return nil
}

// Start launches the workers. Cancelling ctx aborts deliveries that are
// being retried; queued events are only drained by Shutdown.
func (eb *eventBus) Start(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.started {
		return nil
	}
	if eb.closed {
		return ErrBusClosed
	}

	workerCtx, abort := context.WithCancel(ctx)
	eb.abort = abort

	for eventType, consumers := range eb.consumers {
		ch := eb.channels[eventType]

		for _, consumer := range consumers {
			workerCount := consumer.GetWorkerCount()
			eb.logger.Info(workerCtx, "Starting workers",
				"event_type", eventType,
				"worker_count", workerCount,
			)

			for i := 0; i < workerCount; i++ {
				eb.wg.Add(1)
				go eb.worker(workerCtx, eventType, ch, consumer, i)
			}
		}
	}

	eb.started = true
	eb.logger.Info(workerCtx, "Event bus started")

	return nil
}

// worker runs until its channel is closed and drained.
func (eb *eventBus) worker(ctx context.Context, eventType EventType, ch <-chan Event, consumer Consumer, workerID int) {
	defer eb.wg.Done()

	for event := range ch {
		metrics.EventQueueDepth.WithLabelValues(string(eventType)).Set(float64(len(ch)))
		eb.processEvent(ctx, event, consumer, workerID)
	}

	eb.logger.Debug(ctx, "Channel drained, worker stopping", "worker_id", workerID)
}

func (eb *eventBus) processEvent(ctx context.Context, event Event, consumer Consumer, workerID int) {
	eventCtx := ctx
	if event.ID != "" {
		eventCtx = logger.WithTraceID(ctx, event.ID)
	}

	opts := []retry.Option{retry.WithMaxAttempts(eb.cfg.MaxRetries)}
	if eb.cfg.RetryBaseDelay > 0 {
		opts = append(opts, retry.WithBaseDelay(eb.cfg.RetryBaseDelay))
	}

	attempt := 0
	err := retry.Do(eventCtx, func() error {
		event.Retries = attempt
		attempt++
		return consumer.Consume(eventCtx, event)
	}, opts...)
	if err != nil {
		eb.logger.Error(eventCtx, "Event abandoned after retries",
			"event_id", event.ID,
			"event_type", event.Type,
			"worker_id", workerID,
			"attempts", attempt,
			"error", err,
		)
	}
}

// Publish never blocks the caller: a full queue is reported, not waited on.
func (eb *eventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return ErrBusClosed
	}

	ch, exists := eb.channels[event.Type]
	if !exists {
		eb.logger.Warn(ctx, "No channel for event type",
			"event_type", event.Type,
			"event_id", event.ID,
		)
		return nil
	}

	select {
	case ch <- event:
		metrics.EventQueueDepth.WithLabelValues(string(event.Type)).Set(float64(len(ch)))
		return nil
	default:
		eb.logger.Error(ctx, "Event channel full, event dropped",
			"event_type", event.Type,
			"event_id", event.ID,
			"capacity", cap(ch),
		)
		return ErrBusFull
	}
}

// Shutdown stops accepting events and waits for the queued ones to be
// delivered. When ctx expires first, pending retries are aborted.
func (eb *eventBus) Shutdown(ctx context.Context) error {
	eb.mu.Lock()
	if eb.closed {
		eb.mu.Unlock()
		return nil
	}
	eb.closed = true
	for eventType, ch := range eb.channels {
		if !eb.started && len(ch) > 0 {
			eb.logger.Warn(ctx, "Bus never started, queued events lost",
				"event_type", eventType,
				"count", len(ch),
			)
		}
		close(ch)
	}
	eb.mu.Unlock()

	eb.logger.Info(ctx, "Draining event bus")

	done := make(chan struct{})
	go func() {
		eb.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		eb.logger.Info(ctx, "Event bus shutdown complete")
		return nil
	case <-ctx.Done():
		if eb.abort != nil {
			eb.abort()
		}
		eb.logger.Warn(ctx, "Event bus shutdown timeout, pending deliveries aborted")
		return ctx.Err()
	}
}
