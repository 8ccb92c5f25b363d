package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"

	"github.com/grachmannico95/topup-gateway/pkg/logger"
	"github.com/grachmannico95/topup-gateway/pkg/retry"
)

type ConsumerConfig struct {
	Brokers        []string
	Group          string
	Topic          string
	RecordsPerPoll int
	MaxAttempts    int
}

// Consumer reads resolution records and applies them in order. Offsets are
// committed only after a whole poll was applied. Re-applying a record is
// harmless: the second attempt is rejected as an invalid transition.
type Consumer struct {
	client  *kgo.Client
	config  ConsumerConfig
	applier *Applier
	logger  *logger.Logger
}

func NewConsumer(conf ConsumerConfig, applier *Applier, metrics *kprom.Metrics, log *logger.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(conf.Brokers...),
		kgo.ConsumerGroup(conf.Group),
		kgo.ConsumeTopics(conf.Topic),
		kgo.WithHooks(metrics),
		kgo.DisableAutoCommit(),
		kgo.BlockRebalanceOnPoll(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	return &Consumer{client: client, config: conf, applier: applier, logger: log}, nil
}

// Poll blocks until ctx is cancelled or the client is closed.
func (c *Consumer) Poll(ctx context.Context) error {
	defer c.client.Close()

	for {
		if ctx.Err() != nil {
			c.logger.Info(ctx, "Resolution polling stopped")
			return nil
		}

		fetches := c.client.PollRecords(ctx, c.config.RecordsPerPoll)
		if fetches.IsClientClosed() {
			return errors.New("kafka client closed")
		}
		if errors.Is(fetches.Err0(), context.Canceled) {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error(ctx, "Fetch error", "topic", topic, "partition", partition, "error", err)
		})

		records := fetches.Records()
		err := retry.Do(ctx, func() error {
			return c.applyAll(ctx, records)
		}, retry.WithMaxAttempts(c.config.MaxAttempts), retry.WithBaseDelay(time.Second))
		if err != nil {
			// Uncommitted: the batch is redelivered once the consumer is back.
			return fmt.Errorf("failed to apply resolutions: %w", err)
		}

		if err := c.client.CommitRecords(ctx, records...); err != nil {
			c.logger.Error(ctx, "Failed to commit resolution offsets", "error", err)
		}
		c.client.AllowRebalance()
	}
}

func (c *Consumer) applyAll(ctx context.Context, records []*kgo.Record) error {
	for _, record := range records {
		if err := c.applier.Apply(ctx, record.Value); err != nil {
			return err
		}
	}
	return nil
}
