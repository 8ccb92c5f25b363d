package operator

import (
	"context"

	"github.com/grachmannico95/topup-gateway/internal/domain"
)

type Jiring struct {
	proxy    *Proxy
	username string
	password string
}

func NewJiring(proxy *Proxy, username, password string) *Jiring {
	return &Jiring{proxy: proxy, username: username, password: password}
}

var jiringServices = map[domain.Action]string{
	domain.ActionTopUp:   "charge",
	domain.ActionPayBill: "bill",
	domain.ActionWallet:  "wallet",
}

type jiringChargeRequest struct {
	Service     string `json:"service"`
	Mobile      string `json:"mobile"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	Description string `json:"description,omitempty"`
}

type jiringChargeResponse struct {
	Code          flexString `json:"code"`
	Description   string     `json:"description"`
	TransactionID flexString `json:"transaction_id"`
	State         string     `json:"state"`
}

func (j *Jiring) Charge(ctx context.Context, req ChargeRequest) (*Result, error) {
	service, ok := jiringServices[req.Action]
	if !ok {
		service = jiringServices[domain.ActionTopUp]
	}

	var out jiringChargeResponse
	err := j.proxy.post(ctx, call{
		path:      "/charge",
		basicAuth: [2]string{j.username, j.password},
		body: jiringChargeRequest{
			Service:     service,
			Mobile:      req.Consumer,
			Amount:      req.Amount,
			Reference:   formatID(req.TransactionID),
			Description: req.CustomerName,
		},
	}, &out)
	if err != nil {
		return nil, err
	}

	return &Result{
		Code:          out.Code.String(),
		Message:       out.Description,
		TransactionID: out.TransactionID.String(),
		CommandStatus: out.State,
	}, nil
}
