package idempotency

import (
	"context"
	"fmt"

	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
)

type Kind int

const (
	KindNew Kind = iota
	KindRepetitive
	KindDoubleSpend
	KindPendingReconciliation
	KindReconciledSuccess
	KindReconciledFailed
)

func (k Kind) String() string {
	switch k {
	case KindNew:
		return "new"
	case KindRepetitive:
		return "repetitive"
	case KindDoubleSpend:
		return "double_spend"
	case KindPendingReconciliation:
		return "pending_reconciliation"
	case KindReconciledSuccess:
		return "reconciled_success"
	case KindReconciledFailed:
		return "reconciled_failed"
	}
	return "unknown"
}

// Params is everything the resolver compares against a prior attempt.
type Params struct {
	Key        domain.BusinessKey
	OrderID    string
	OperatorID domain.OperatorID
	Amount     int64
	Channel    string
	Consumer   string
	CustomerIP string
}

// Decision is the outcome of a duplicate lookup. Prior is nil only for
// KindNew and for a double spend spread over several records.
type Decision struct {
	Kind  Kind
	Prior *domain.Transaction
}

// Response builds the caller-facing reply for any decision other than
// KindNew. Replies always reference the original transaction.
func (d Decision) Response() domain.Response {
	switch d.Kind {
	case KindRepetitive:
		if ref := priorReference(d.Prior); ref != "" {
			return domain.ErrorResponseWithDetail(domain.RepetitiveTransaction, ref)
		}
		return domain.ErrorResponse(domain.RepetitiveTransaction)
	case KindDoubleSpend:
		return domain.ErrorResponse(domain.DoubleSpendingTransaction)
	case KindPendingReconciliation:
		return domain.ErrorResponse(domain.OperatorServiceErrorDoNotReverse)
	case KindReconciledSuccess:
		return domain.OKResponse(d.Prior.ID, d.Prior.OperatorTransactionID)
	case KindReconciledFailed:
		return domain.ErrorResponseWithDetail(domain.OperatorServiceResponseNOK, d.Prior.OperatorResponseCode)
	}
	return domain.ErrorResponse(domain.InternalSystemError)
}

// priorReference is "<transaction id>:<operator reference>" for a prior
// success so the repeated caller can still verify by id.
func priorReference(tx *domain.Transaction) string {
	if tx.Status == domain.TransactionStatusSuccess {
		return fmt.Sprintf("%d:%s", tx.ID, tx.OperatorTransactionID)
	}
	return tx.OperatorResponseCode
}

type Resolver interface {
	Resolve(ctx context.Context, p Params) (Decision, error)
}

type resolver struct {
	transactions domain.TransactionRepository
	logger       *logger.Logger
}

func NewResolver(transactions domain.TransactionRepository, log *logger.Logger) Resolver {
	return &resolver{transactions: transactions, logger: log}
}

func (r *resolver) Resolve(ctx context.Context, p Params) (Decision, error) {
	priors, err := r.transactions.FindByBusinessKey(ctx, p.Key)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to look up business key: %w", err)
	}

	switch len(priors) {
	case 0:
		return Decision{Kind: KindNew}, nil
	case 1:
	default:
		r.logger.Error(ctx, "business key bound to several transactions",
			"bank_receipt", p.Key.BankReceiptRef,
			"bank_code", p.Key.BankCode,
			"client_id", p.Key.ClientID,
			"count", len(priors),
		)
		return Decision{Kind: KindDoubleSpend}, nil
	}

	prior := priors[0]
	ctx = logger.WithTransactionID(ctx, prior.ID)

	if !correlates(prior, p) {
		r.logger.Warn(ctx, "double spending attempt",
			"bank_receipt", p.Key.BankReceiptRef,
			"bank_code", p.Key.BankCode,
			"client_id", p.Key.ClientID,
			"order_id", p.OrderID,
			"prior_order_id", prior.OrderID,
		)
		return Decision{Kind: KindDoubleSpend, Prior: prior}, nil
	}

	if prior.STF == nil {
		if prior.Status == domain.TransactionStatusPending {
			// Still being dispatched, or the process died mid-call.
			return Decision{Kind: KindPendingReconciliation, Prior: prior}, nil
		}
		return Decision{Kind: KindRepetitive, Prior: prior}, nil
	}

	switch stf := *prior.STF; stf {
	case domain.STFResolvedSuccess:
		return Decision{Kind: KindReconciledSuccess, Prior: prior}, nil
	case domain.STFResolvedFailed:
		return Decision{Kind: KindReconciledFailed, Prior: prior}, nil
	default:
		if !stf.IsKnown() {
			r.logger.Warn(ctx, "unexpected stf value, treating as pending", "stf", int(stf))
		}
		return Decision{Kind: KindPendingReconciliation, Prior: prior}, nil
	}
}

func correlates(prior *domain.Transaction, p Params) bool {
	return prior.OrderID == p.OrderID &&
		prior.OperatorID == p.OperatorID &&
		prior.Amount == p.Amount &&
		prior.Channel == p.Channel &&
		prior.Consumer == p.Consumer
}
