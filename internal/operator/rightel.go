package operator

import (
	"context"

	"github.com/grachmannico95/topup-gateway/internal/domain"
)

type Rightel struct {
	proxy    *Proxy
	username string
	password string
}

func NewRightel(proxy *Proxy, username, password string) *Rightel {
	return &Rightel{proxy: proxy, username: username, password: password}
}

type rightelTopupRequest struct {
	MSISDN string `json:"msisdn"`
	Amount int64  `json:"amount"`
	Type   string `json:"type"`
	Ref    string `json:"ref"`
}

type rightelTopupResponse struct {
	StatusCode    flexString `json:"status_code"`
	StatusMessage string     `json:"status_message"`
	OperatorRef   flexString `json:"operator_ref"`
	OrderStatus   string     `json:"order_status"`
}

func (r *Rightel) Charge(ctx context.Context, req ChargeRequest) (*Result, error) {
	chargeType := "normal"
	if req.Action == domain.ActionWow {
		chargeType = "wow"
	}

	var out rightelTopupResponse
	err := r.proxy.post(ctx, call{
		path:      "/topup",
		basicAuth: [2]string{r.username, r.password},
		body: rightelTopupRequest{
			MSISDN: req.Consumer,
			Amount: req.Amount,
			Type:   chargeType,
			Ref:    formatID(req.TransactionID),
		},
	}, &out)
	if err != nil {
		return nil, err
	}

	return &Result{
		Code:          out.StatusCode.String(),
		Message:       out.StatusMessage,
		TransactionID: out.OperatorRef.String(),
		CommandStatus: out.OrderStatus,
	}, nil
}
