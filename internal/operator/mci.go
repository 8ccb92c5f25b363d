package operator

import (
	"context"
	"fmt"
)

// MCI needs a session token before every charge. The token call changes no
// state, so any failure there is ErrNotAvailable.
type MCI struct {
	proxy    *Proxy
	username string
	password string
}

func NewMCI(proxy *Proxy, username, password string) *MCI {
	return &MCI{proxy: proxy, username: username, password: password}
}

type mciTokenResponse struct {
	Token string `json:"token"`
}

type mciRechargeRequest struct {
	Mobile    string `json:"mobile"`
	Amount    int64  `json:"amount"`
	RequestID string `json:"request_id"`
}

type mciRechargeResponse struct {
	ResultCode flexString `json:"result_code"`
	Message    string     `json:"message"`
	RefNum     flexString `json:"ref_num"`
	Status     string     `json:"status"`
}

func (m *MCI) token(ctx context.Context) (string, error) {
	var out mciTokenResponse
	err := m.proxy.post(ctx, call{
		path: "/token",
		body: map[string]string{"username": m.username, "password": m.password},
	}, &out)
	if err != nil {
		return "", fmt.Errorf("%w: token: %v", ErrNotAvailable, err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: empty token", ErrNotAvailable)
	}
	return out.Token, nil
}

func (m *MCI) Charge(ctx context.Context, req ChargeRequest) (*Result, error) {
	token, err := m.token(ctx)
	if err != nil {
		return nil, err
	}

	var out mciRechargeResponse
	err = m.proxy.post(ctx, call{
		path:    "/recharge",
		headers: map[string]string{"Authorization": "Bearer " + token},
		body: mciRechargeRequest{
			Mobile:    req.Consumer,
			Amount:    req.Amount,
			RequestID: formatID(req.TransactionID),
		},
	}, &out)
	if err != nil {
		return &Result{Token: token}, err
	}

	return &Result{
		Code:          out.ResultCode.String(),
		Message:       out.Message,
		TransactionID: out.RefNum.String(),
		CommandStatus: out.Status,
		Token:         token,
	}, nil
}
