package eventbus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	failures int
	calls    int
	notices  []domain.SuspensionNotice
}

func (n *recordingNotifier) NotifySuspension(ctx context.Context, notice domain.SuspensionNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.calls++
	if n.calls <= n.failures {
		return errors.New("broker unavailable")
	}
	n.notices = append(n.notices, notice)
	return nil
}

func (n *recordingNotifier) delivered() []domain.SuspensionNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.SuspensionNotice(nil), n.notices...)
}

func newTestBus(buffer int) EventBus {
	return New(logger.NewNop(), &Config{
		ChannelBuffer:  buffer,
		MaxRetries:     3,
		RetryBaseDelay: time.Millisecond,
	})
}

func TestEventBus_DeliversSuspension(t *testing.T) {
	bus := newTestBus(10)
	notifier := &recordingNotifier{}
	require.NoError(t, bus.Subscribe(EventTypeSuspension, NewSuspensionConsumer(notifier, logger.NewNop(), 2)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, bus.Start(ctx))

	notice := domain.SuspensionNotice{TransactionID: 7, OperatorID: domain.OperatorMCI, Operator: "mci", Reason: "unknown response"}
	require.NoError(t, bus.Publish(ctx, NewSuspensionEvent(notice)))

	assert.Eventually(t, func() bool { return len(notifier.delivered()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(7), notifier.delivered()[0].TransactionID)

	shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
	defer done()
	assert.NoError(t, bus.Shutdown(shutdownCtx))
}

func TestEventBus_RetriesFailedDelivery(t *testing.T) {
	bus := newTestBus(10)
	notifier := &recordingNotifier{failures: 2}
	require.NoError(t, bus.Subscribe(EventTypeSuspension, NewSuspensionConsumer(notifier, logger.NewNop(), 1)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, bus.Start(ctx))

	require.NoError(t, bus.Publish(ctx, NewSuspensionEvent(domain.SuspensionNotice{TransactionID: 1})))

	assert.Eventually(t, func() bool { return len(notifier.delivered()) == 1 }, time.Second, 5*time.Millisecond)
	notifier.mu.Lock()
	assert.Equal(t, 3, notifier.calls)
	notifier.mu.Unlock()
}

func TestEventBus_FullChannel(t *testing.T) {
	bus := newTestBus(1)
	require.NoError(t, bus.Subscribe(EventTypeSuspension, NewSuspensionConsumer(&recordingNotifier{}, logger.NewNop(), 1)))

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewSuspensionEvent(domain.SuspensionNotice{TransactionID: 1})))
	err := bus.Publish(ctx, NewSuspensionEvent(domain.SuspensionNotice{TransactionID: 2}))
	assert.ErrorIs(t, err, ErrBusFull)
}

func TestEventBus_UnsubscribedTypeIsIgnored(t *testing.T) {
	bus := newTestBus(1)
	assert.NoError(t, bus.Publish(context.Background(), Event{ID: "x", Type: EventType("other")}))
}

type countingConsumer struct {
	count atomic.Int32
}

func (c *countingConsumer) Consume(ctx context.Context, event Event) error {
	c.count.Add(1)
	return nil
}

func (c *countingConsumer) GetWorkerCount() int { return 3 }

func TestEventBus_StartIsIdempotent(t *testing.T) {
	bus := newTestBus(10)
	consumer := &countingConsumer{}
	require.NoError(t, bus.Subscribe(EventTypeSuspension, consumer))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Start(ctx))

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(ctx, NewSuspensionEvent(domain.SuspensionNotice{TransactionID: int64(i)})))
	}

	assert.Eventually(t, func() bool { return consumer.count.Load() == 5 }, time.Second, 5*time.Millisecond)
}

type slowConsumer struct {
	count atomic.Int32
}

func (c *slowConsumer) Consume(ctx context.Context, event Event) error {
	time.Sleep(5 * time.Millisecond)
	c.count.Add(1)
	return nil
}

func (c *slowConsumer) GetWorkerCount() int { return 1 }

func TestEventBus_ShutdownDrainsQueuedEvents(t *testing.T) {
	bus := newTestBus(10)
	consumer := &slowConsumer{}
	require.NoError(t, bus.Subscribe(EventTypeSuspension, consumer))
	require.NoError(t, bus.Start(context.Background()))

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(context.Background(), NewSuspensionEvent(domain.SuspensionNotice{TransactionID: int64(i)})))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Shutdown(ctx))
	assert.Equal(t, int32(5), consumer.count.Load())
}

func TestEventBus_PublishAfterShutdown(t *testing.T) {
	bus := newTestBus(10)
	require.NoError(t, bus.Subscribe(EventTypeSuspension, &countingConsumer{}))
	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Shutdown(context.Background()))

	err := bus.Publish(context.Background(), NewSuspensionEvent(domain.SuspensionNotice{TransactionID: 1}))
	assert.ErrorIs(t, err, ErrBusClosed)
	assert.NoError(t, bus.Shutdown(context.Background()))
}
