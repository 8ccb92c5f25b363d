package domain

import "context"

type ClientRepository interface {
	// FindByUsername returns the client with its allowlist loaded, or ErrClientNotFound.
	FindByUsername(ctx context.Context, username string) (*Client, error)
}

type OperatorRepository interface {
	FindOperator(ctx context.Context, id OperatorID) (*Operator, error)
}

type PaymentChannelRepository interface {
	FindPaymentChannel(ctx context.Context, id string) (*PaymentChannel, error)
}

type OperatorStatusRepository interface {
	FindOperatorStatus(ctx context.Context, id OperatorID) (*OperatorStatus, error)
}

// Resolution carries the operator fields an external reconciliation actor
// backfills when settling a suspended transaction.
type Resolution struct {
	STF                   STF
	OperatorResponseCode  string
	OperatorResponse      string
	OperatorTransactionID string
	OperatorCommandStatus string
}

type TransactionRepository interface {
	// Create assigns tx.ID. It returns ErrDuplicateBusinessKey when a
	// transaction with the same business key already exists.
	Create(ctx context.Context, tx *Transaction) error
	Update(ctx context.Context, tx *Transaction) error
	FindByID(ctx context.Context, id int64) (*Transaction, error)
	FindByBusinessKey(ctx context.Context, key BusinessKey) ([]*Transaction, error)

	// ResolveSuspension only moves stf from pending to one of the resolved
	// values; anything else is ErrInvalidSTFTransition.
	ResolveSuspension(ctx context.Context, id int64, res Resolution) error
}

// Store is the full persistence surface used by the gateway.
type Store interface {
	ClientRepository
	OperatorRepository
	PaymentChannelRepository
	TransactionRepository
}
