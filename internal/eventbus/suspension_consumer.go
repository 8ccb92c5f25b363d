package eventbus

import (
	"context"
	"fmt"

	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/grachmannico95/topup-gateway/internal/metrics"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
)

// Notifier delivers a suspension notice to the reconciliation actor.
type Notifier interface {
	NotifySuspension(ctx context.Context, notice domain.SuspensionNotice) error
}

type SuspensionConsumer struct {
	notifier    Notifier
	logger      *logger.Logger
	workerCount int
}

func NewSuspensionConsumer(notifier Notifier, log *logger.Logger, workerCount int) *SuspensionConsumer {
	return &SuspensionConsumer{
		notifier:    notifier,
		logger:      log,
		workerCount: workerCount,
	}
}

func (sc *SuspensionConsumer) Consume(ctx context.Context, event Event) error {
	notice, ok := event.Payload.(domain.SuspensionNotice)
	if !ok {
		sc.logger.Error(ctx, "Invalid payload type for suspension event",
			"event_id", event.ID,
		)
		return fmt.Errorf("invalid payload type %T", event.Payload)
	}

	ctx = logger.WithTransactionID(ctx, notice.TransactionID)
	ctx = logger.WithOperator(ctx, notice.Operator)

	if err := sc.notifier.NotifySuspension(ctx, notice); err != nil {
		metrics.NoticesTotal.WithLabelValues("attempt_failed").Inc()
		sc.logger.Warn(ctx, "Failed to deliver suspension notice",
			"event_id", event.ID,
			"attempt", event.Retries+1,
			"error", err,
		)
		return err
	}

	metrics.NoticesTotal.WithLabelValues("delivered").Inc()
	sc.logger.Info(ctx, "Suspension notice delivered",
		"event_id", event.ID,
		"reason", notice.Reason,
	)
	return nil
}

func (sc *SuspensionConsumer) GetWorkerCount() int {
	return sc.workerCount
}

// LogNotifier only records the notice; used when no broker is configured.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) NotifySuspension(ctx context.Context, notice domain.SuspensionNotice) error {
	n.logger.Warn(ctx, "Transaction awaiting reconciliation",
		"bank_receipt", notice.BankReceiptRef,
		"bank_code", notice.BankCode,
		"client_id", notice.ClientID,
		"consumer", notice.Consumer,
		"amount", notice.Amount,
		"reason", notice.Reason,
	)
	return nil
}
