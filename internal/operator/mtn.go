package operator

import (
	"context"
	"fmt"
	"strings"

	"github.com/grachmannico95/topup-gateway/internal/domain"
)

// Vendor is one MTN credential set. Charges are routed by vendor name.
type Vendor struct {
	Name     string
	Proxy    *Proxy
	Username string
	Password string
}

type MTN struct {
	vendors       map[string]Vendor
	defaultVendor string
}

// NewMTN keys vendors case-insensitively.
func NewMTN(vendors map[string]Vendor, defaultVendor string) *MTN {
	byName := make(map[string]Vendor, len(vendors))
	for name, v := range vendors {
		byName[strings.ToLower(name)] = v
	}
	return &MTN{vendors: byName, defaultVendor: strings.ToLower(defaultVendor)}
}

var mtnCommands = map[domain.Action]string{
	domain.ActionTopUp:     "recharge",
	domain.ActionBulk:      "bulk-transfer",
	domain.ActionPayBill:   "bill-payment",
	domain.ActionWow:       "wow",
	domain.ActionPostWimax: "post-wimax",
	domain.ActionPreWimax:  "pre-wimax",
	domain.ActionGPRS:      "gprs",
}

type mtnChargeRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Vendor       string `json:"vendor"`
	MSISDN       string `json:"msisdn"`
	Amount       int64  `json:"amount"`
	OrderID      string `json:"order_id"`
	CustomerName string `json:"customer_name,omitempty"`
}

type mtnChargeResponse struct {
	ErrorCode     flexString `json:"error_code"`
	Message       string     `json:"message"`
	TraceID       flexString `json:"trace_id"`
	CommandStatus string     `json:"command_status"`
}

func (m *MTN) Charge(ctx context.Context, req ChargeRequest) (*Result, error) {
	name := req.Vendor
	if name == "" {
		name = m.defaultVendor
	}
	vendor, ok := m.vendors[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown vendor %q", ErrNotAvailable, name)
	}

	command, ok := mtnCommands[req.Action]
	if !ok {
		return nil, fmt.Errorf("%w: no command for action %s", ErrNotAvailable, req.Action)
	}

	var out mtnChargeResponse
	err := vendor.Proxy.post(ctx, call{
		path: "/" + command,
		body: mtnChargeRequest{
			Username:     vendor.Username,
			Password:     vendor.Password,
			Vendor:       vendor.Name,
			MSISDN:       req.Consumer,
			Amount:       req.Amount,
			OrderID:      formatID(req.TransactionID),
			CustomerName: req.CustomerName,
		},
	}, &out)
	if err != nil {
		return nil, err
	}

	return &Result{
		Code:          out.ErrorCode.String(),
		Message:       out.Message,
		TransactionID: out.TraceID.String(),
		CommandStatus: out.CommandStatus,
	}, nil
}
