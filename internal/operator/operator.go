package operator

import (
	"context"
	"errors"
	"fmt"

	"github.com/grachmannico95/topup-gateway/internal/domain"
)

var (
	// ErrNotAvailable means nothing state-changing reached the operator.
	ErrNotAvailable = errors.New("operator not available")
	// ErrUnknownResponse means a charge may have happened.
	ErrUnknownResponse = errors.New("operator response unknown")
)

type ChargeRequest struct {
	TransactionID int64
	Consumer      string
	Amount        int64
	Action        domain.Action

	CustomerName string
	Vendor       string
}

// Result is an operator's answer to a charge. Token is set by operators that
// need a session handshake, even when the charge itself failed.
type Result struct {
	Code          string
	Message       string
	TransactionID string
	CommandStatus string
	Token         string
}

// Validate rejects results an orchestrator cannot act on.
func (r *Result) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: empty result", ErrUnknownResponse)
	}

	var missing []string
	if r.Code == "" {
		missing = append(missing, "code")
	}
	if r.Message == "" {
		missing = append(missing, "message")
	}
	if r.TransactionID == "" {
		missing = append(missing, "transaction_id")
	}
	if r.CommandStatus == "" {
		missing = append(missing, "command_status")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrUnknownResponse, missing)
	}
	return nil
}

// Succeeded is true for the operator-wide success code.
func (r *Result) Succeeded() bool {
	return r.Code == "0"
}

// Dispatcher charges one operator. Implementations make exactly one attempt
// and report failures wrapped in ErrNotAvailable or ErrUnknownResponse.
type Dispatcher interface {
	Charge(ctx context.Context, req ChargeRequest) (*Result, error)
}

type DispatcherFunc func(ctx context.Context, req ChargeRequest) (*Result, error)

func (f DispatcherFunc) Charge(ctx context.Context, req ChargeRequest) (*Result, error) {
	return f(ctx, req)
}
