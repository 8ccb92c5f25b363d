package domain

import "errors"

// ErrorCode is the outcome code returned to bank channels. Zero is success,
// every failure is a distinct negative value.
type ErrorCode int64

const (
	OK ErrorCode = 0

	// input
	InsufficientParameters ErrorCode = -101
	InvalidAmount          ErrorCode = -102
	InvalidCellNumber      ErrorCode = -103
	InvalidOperatorAction  ErrorCode = -104
	InvalidBankCode        ErrorCode = -105
	InvalidOperator        ErrorCode = -106
	InvalidPaymentChannel  ErrorCode = -107

	// auth
	InvalidUsernameOrPassword ErrorCode = -201

	// idempotency
	RepetitiveTransaction     ErrorCode = -301
	DoubleSpendingTransaction ErrorCode = -302
	TransactionNotFound       ErrorCode = -303

	// operator
	OperatorServiceError             ErrorCode = -401
	OperatorServiceErrorDoNotReverse ErrorCode = -402
	OperatorServiceResponseNOK       ErrorCode = -403
	OperatorServiceUnavailable       ErrorCode = -404

	InternalSystemError ErrorCode = -500
)

var errorCodeNames = map[ErrorCode]string{
	OK:                               "OK",
	InsufficientParameters:           "INSUFFICIENT_PARAMETERS",
	InvalidAmount:                    "INVALID_AMOUNT",
	InvalidCellNumber:                "INVALID_CELL_NUMBER",
	InvalidOperatorAction:            "INVALID_OPERATOR_ACTION",
	InvalidBankCode:                  "INVALID_BANK_CODE",
	InvalidOperator:                  "INVALID_OPERATOR",
	InvalidPaymentChannel:            "INVALID_PAYMENT_CHANNEL",
	InvalidUsernameOrPassword:        "INVALID_USERNAME_OR_PASSWORD",
	RepetitiveTransaction:            "REPETITIVE_TRANSACTION",
	DoubleSpendingTransaction:        "DOUBLE_SPENDING_TRANSACTION",
	TransactionNotFound:              "TRANSACTION_NOT_FOUND",
	OperatorServiceError:             "OPERATOR_SERVICE_ERROR",
	OperatorServiceErrorDoNotReverse: "OPERATOR_SERVICE_ERROR_DONOT_REVERSE",
	OperatorServiceResponseNOK:       "OPERATOR_SERVICE_RESPONSE_NOK",
	OperatorServiceUnavailable:       "OPERATOR_SERVICE_UNAVAILABLE",
	InternalSystemError:              "INTERNAL_SYSTEM_ERROR",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

var (
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrClientNotFound         = errors.New("client not found")
	ErrOperatorNotFound       = errors.New("operator not found")
	ErrPaymentChannelNotFound = errors.New("payment channel not found")
	ErrOperatorStatusNotFound = errors.New("operator status not found")
	ErrDuplicateBusinessKey   = errors.New("transaction with this business key already exists")
	ErrInvalidSTFTransition   = errors.New("invalid stf transition")
)
