package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"

	"github.com/grachmannico95/topup-gateway/internal/domain"
)

// Producer is the subset of *kgo.Client the notifier needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaNotifier publishes suspension notices to the topic the reconciliation
// actor reads. Records are keyed by transaction id so every notice for one
// transaction lands on the same partition.
type KafkaNotifier struct {
	producer Producer
	topic    string
}

func NewKafkaNotifier(producer Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

// NewProducerClient connects a producer-only client with metric hooks attached.
func NewProducerClient(brokers []string, metrics *kprom.Metrics) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.WithHooks(metrics),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return client, nil
}

func (n *KafkaNotifier) NotifySuspension(ctx context.Context, notice domain.SuspensionNotice) error {
	value, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to encode suspension notice: %w", err)
	}

	record := &kgo.Record{
		Topic: n.topic,
		Key:   []byte(strconv.FormatInt(notice.TransactionID, 10)),
		Value: value,
	}
	if err := n.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce suspension notice: %w", err)
	}
	return nil
}
