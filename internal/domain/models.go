package domain

import "time"

type OperatorID int

const (
	OperatorMCI     OperatorID = 1
	OperatorMTN     OperatorID = 2
	OperatorJiring  OperatorID = 3
	OperatorRightel OperatorID = 4
)

var operatorNames = map[OperatorID]string{
	OperatorMCI:     "mci",
	OperatorMTN:     "mtn",
	OperatorJiring:  "jiring",
	OperatorRightel: "rightel",
}

func (id OperatorID) String() string {
	if name, ok := operatorNames[id]; ok {
		return name
	}
	return "unknown"
}

// OperatorIDByName resolves the path name used by the HTTP surface.
func OperatorIDByName(name string) (OperatorID, bool) {
	for id, n := range operatorNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// Action is the closed set of services a bank channel can request.
type Action int

const (
	ActionTopUp     Action = 1
	ActionPayBill   Action = 2
	ActionBulk      Action = 3
	ActionWow       Action = 4
	ActionPostWimax Action = 5
	ActionPreWimax  Action = 6
	ActionGPRS      Action = 7
	ActionWallet    Action = 8
)

var actionNames = map[string]Action{
	"top-up":     ActionTopUp,
	"pay-bill":   ActionPayBill,
	"bulk":       ActionBulk,
	"wow":        ActionWow,
	"post-wimax": ActionPostWimax,
	"pre-wimax":  ActionPreWimax,
	"gprs":       ActionGPRS,
	"wallet":     ActionWallet,
}

// ParseAction returns false for names outside the enumeration.
func ParseAction(name string) (Action, bool) {
	a, ok := actionNames[name]
	return a, ok
}

func (a Action) String() string {
	for name, action := range actionNames {
		if action == a {
			return name
		}
	}
	return "unknown"
}

// TransactionStatus holds 1 for success, -1 while pending and the failure
// error code otherwise: NOK when the operator declared a failure, the plain
// service error when the charge never reached it.
type TransactionStatus int64

const (
	TransactionStatusPending      TransactionStatus = -1
	TransactionStatusSuccess      TransactionStatus = 1
	TransactionStatusFailed                         = TransactionStatus(OperatorServiceResponseNOK)
	TransactionStatusServiceError                   = TransactionStatus(OperatorServiceError)
)

// STF is the reconciliation flag. Nil on a Transaction means never suspended.
type STF int

const (
	STFPending         STF = 1
	STFResolvedSuccess STF = 2
	STFResolvedFailed  STF = 3
)

// IsResolved reports whether an external actor settled the suspension.
// Anything other than 2 or 3 counts as still pending.
func (s STF) IsResolved() bool {
	return s == STFResolvedSuccess || s == STFResolvedFailed
}

// IsKnown is false for values no reconciliation actor should ever write.
func (s STF) IsKnown() bool {
	return s == STFPending || s.IsResolved()
}

type Client struct {
	ID               int64
	Username         string
	PasswordHash     string
	Active           bool
	AllowedAddresses []string
}

type Operator struct {
	ID     OperatorID
	Name   string
	Active bool
}

type PaymentChannel struct {
	ID     string
	Active bool
}

// OperatorStatus is the health record maintained by an external checker.
type OperatorStatus struct {
	OperatorID  OperatorID
	IsAvailable bool
	CheckedAt   time.Time
}

// BusinessKey is the idempotency key of a topup attempt.
type BusinessKey struct {
	BankReceiptRef string
	BankCode       string
	ClientID       int64
}

type Transaction struct {
	ID         int64
	OperatorID OperatorID

	BankReceiptRef string
	BankCode       string
	ClientID       int64

	OrderID    string
	Channel    string
	State      string
	Consumer   string
	Amount     int64
	Action     Action
	CustomerIP string
	RemoteIP   string
	BankVerify int64

	CreatedAt      time.Time
	OperatorCallAt *time.Time
	VerifiedAt     *time.Time

	Status                TransactionStatus
	OperatorResponseCode  string
	OperatorResponse      string
	OperatorTransactionID string
	OperatorCommandStatus string
	Token                 string

	STF       *STF
	STFResult int
}

func (t *Transaction) Key() BusinessKey {
	return BusinessKey{
		BankReceiptRef: t.BankReceiptRef,
		BankCode:       t.BankCode,
		ClientID:       t.ClientID,
	}
}

// IsSuspended is true while a suspension awaits an external resolution.
func (t *Transaction) IsSuspended() bool {
	return t.STF != nil && !t.STF.IsResolved()
}

// TopupRequest is an inbound charge request after transport decoding.
type TopupRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	BankCode       string `json:"bank_code"`
	Amount         int64  `json:"amount"`
	Channel        string `json:"channel"`
	State          string `json:"state"`
	BankReceiptRef string `json:"bank_receipt"`
	OrderID        string `json:"order_id"`
	Consumer       string `json:"consumer"`
	CustomerIP     string `json:"customer_ip"`
	RemoteIP       string `json:"-"`
	Action         string `json:"action"`

	CustomerName string `json:"customer_name,omitempty"`
	Vendor       string `json:"vendor,omitempty"`
}

const (
	ResponseStatusOK    = "OK"
	ResponseStatusError = "ERROR"
)

// Response is returned by every gateway operation. On OK, Code holds the
// gateway transaction id and Detail the operator reference. On ERROR, Code
// holds the ErrorCode and Detail the operator-native code when known.
type Response struct {
	Status string  `json:"status"`
	Code   int64   `json:"code"`
	Detail *string `json:"detail"`
}

func OKResponse(transactionID int64, detail string) Response {
	return Response{Status: ResponseStatusOK, Code: transactionID, Detail: &detail}
}

func ErrorResponse(code ErrorCode) Response {
	return Response{Status: ResponseStatusError, Code: int64(code)}
}

func ErrorResponseWithDetail(code ErrorCode, detail string) Response {
	return Response{Status: ResponseStatusError, Code: int64(code), Detail: &detail}
}

// AvailabilityResponse answers the operator health probe. Code is OK or the
// reason no health verdict could be given.
type AvailabilityResponse struct {
	Status      string `json:"status"`
	Code        int64  `json:"code"`
	IsAvailable bool   `json:"is_available"`
}

// SuspensionNotice tells the reconciliation actor a transaction needs an
// operator-side lookup.
type SuspensionNotice struct {
	TransactionID  int64      `json:"transaction_id"`
	OperatorID     OperatorID `json:"operator_id"`
	Operator       string     `json:"operator"`
	BankReceiptRef string     `json:"bank_receipt"`
	BankCode       string     `json:"bank_code"`
	ClientID       int64      `json:"client_id"`
	Consumer       string     `json:"consumer"`
	Amount         int64      `json:"amount"`
	Token          string     `json:"token,omitempty"`
	Reason         string     `json:"reason"`
	SuspendedAt    time.Time  `json:"suspended_at"`
}
