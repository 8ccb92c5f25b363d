package reconciliation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/grachmannico95/topup-gateway/internal/metrics"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
)

// Resolution is the record the reconciliation actor writes once it has
// looked a suspended transaction up on the operator side.
type Resolution struct {
	TransactionID         int64  `json:"transaction_id"`
	STF                   int    `json:"stf"`
	OperatorResponseCode  string `json:"operator_response_code"`
	OperatorResponse      string `json:"operator_response"`
	OperatorTransactionID string `json:"operator_transaction_id"`
	OperatorCommandStatus string `json:"operator_command_status"`
}

// Resolution outcomes.
const (
	ResultApplied   = "applied"
	ResultMalformed = "malformed"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)

// Applier writes resolutions back onto suspended transactions.
type Applier struct {
	transactions domain.TransactionRepository
	logger       *logger.Logger
}

func NewApplier(transactions domain.TransactionRepository, log *logger.Logger) *Applier {
	return &Applier{transactions: transactions, logger: log}
}

// Apply decodes and applies one resolution record. Records that can never
// apply (bad json, unknown transaction, illegal transition) are logged and
// dropped; only storage failures are returned.
func (a *Applier) Apply(ctx context.Context, value []byte) error {
	var res Resolution
	if err := json.Unmarshal(value, &res); err != nil || res.TransactionID <= 0 {
		metrics.ResolutionsTotal.WithLabelValues(ResultMalformed).Inc()
		a.logger.Error(ctx, "Dropping malformed resolution record", "error", err, "value", string(value))
		return nil
	}

	ctx = logger.WithTransactionID(ctx, res.TransactionID)

	err := a.transactions.ResolveSuspension(ctx, res.TransactionID, domain.Resolution{
		STF:                   domain.STF(res.STF),
		OperatorResponseCode:  res.OperatorResponseCode,
		OperatorResponse:      res.OperatorResponse,
		OperatorTransactionID: res.OperatorTransactionID,
		OperatorCommandStatus: res.OperatorCommandStatus,
	})
	switch {
	case err == nil:
		metrics.ResolutionsTotal.WithLabelValues(ResultApplied).Inc()
		a.logger.Info(ctx, "Suspension resolved",
			"stf", res.STF,
			"operator_transaction_id", res.OperatorTransactionID,
		)
		return nil
	case errors.Is(err, domain.ErrInvalidSTFTransition), errors.Is(err, domain.ErrTransactionNotFound):
		metrics.ResolutionsTotal.WithLabelValues(ResultRejected).Inc()
		a.logger.Warn(ctx, "Resolution rejected", "stf", res.STF, "error", err)
		return nil
	default:
		metrics.ResolutionsTotal.WithLabelValues(ResultFailed).Inc()
		return fmt.Errorf("failed to resolve transaction %d: %w", res.TransactionID, err)
	}
}
