package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/grachmannico95/topup-gateway/mocks"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newContext(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.RemoteAddr = "10.0.0.7:51000"
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	if len(params) > 0 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	return c, rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) domain.Response {
	t.Helper()
	var resp domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGatewayHandler_Topup(t *testing.T) {
	svc := mocks.NewMockGatewayService(t)
	h := NewGatewayHandler(svc, logger.NewNop())

	svc.EXPECT().
		Topup(mock.Anything, domain.OperatorMTN, mock.MatchedBy(func(r *domain.TopupRequest) bool {
			return r.BankReceiptRef == "r-1" && r.Amount == 20000 && r.RemoteIP == "10.0.0.7" && r.Vendor == "infotech"
		})).
		Return(domain.OKResponse(12, "op-12")).
		Once()

	body := `{"username":"bank","password":"x","bank_code":"056","amount":20000,"channel":"59","state":"s",
		"bank_receipt":"r-1","order_id":"o-1","consumer":"09351234567","customer_ip":"1.2.3.4","action":"top-up","vendor":"infotech"}`
	c, rec := newContext(http.MethodPost, "/api/v1/operators/mtn/topup", body, "operator", "mtn")

	require.NoError(t, h.Topup(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.Equal(t, domain.ResponseStatusOK, resp.Status)
	assert.Equal(t, int64(12), resp.Code)
	require.NotNil(t, resp.Detail)
	assert.Equal(t, "op-12", *resp.Detail)
}

func TestGatewayHandler_Topup_UnknownOperator(t *testing.T) {
	h := NewGatewayHandler(mocks.NewMockGatewayService(t), logger.NewNop())
	c, rec := newContext(http.MethodPost, "/api/v1/operators/acme/topup", `{}`, "operator", "acme")

	require.NoError(t, h.Topup(c))
	assert.Equal(t, int64(domain.InvalidOperator), decodeResponse(t, rec).Code)
}

func TestGatewayHandler_Topup_MalformedBody(t *testing.T) {
	h := NewGatewayHandler(mocks.NewMockGatewayService(t), logger.NewNop())
	c, rec := newContext(http.MethodPost, "/api/v1/operators/mci/topup", `{"amount":"lots"`, "operator", "mci")

	require.NoError(t, h.Topup(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int64(domain.InsufficientParameters), decodeResponse(t, rec).Code)
}

func TestGatewayHandler_Availability(t *testing.T) {
	svc := mocks.NewMockGatewayService(t)
	h := NewGatewayHandler(svc, logger.NewNop())

	svc.EXPECT().
		IsOperatorAvailable(mock.Anything, domain.OperatorRightel).
		Return(domain.AvailabilityResponse{Status: domain.ResponseStatusOK, IsAvailable: true}).
		Once()

	c, rec := newContext(http.MethodGet, "/api/v1/operators/rightel/availability", "", "operator", "rightel")
	require.NoError(t, h.Availability(c))

	var resp domain.AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsAvailable)
	assert.Equal(t, domain.ResponseStatusOK, resp.Status)
}

func TestGatewayHandler_Verify(t *testing.T) {
	svc := mocks.NewMockGatewayService(t)
	h := NewGatewayHandler(svc, logger.NewNop())

	svc.EXPECT().
		VerifyTransaction(mock.Anything, "09125067064", int64(5)).
		Return(domain.ErrorResponse(domain.OperatorServiceErrorDoNotReverse)).
		Once()

	c, rec := newContext(http.MethodGet, "/api/v1/transactions/verify?consumer=09125067064&transaction_id=5", "")
	require.NoError(t, h.Verify(c))
	assert.Equal(t, int64(domain.OperatorServiceErrorDoNotReverse), decodeResponse(t, rec).Code)
}

func TestGatewayHandler_Verify_BadID(t *testing.T) {
	h := NewGatewayHandler(mocks.NewMockGatewayService(t), logger.NewNop())

	c, rec := newContext(http.MethodGet, "/api/v1/transactions/verify?consumer=09125067064&transaction_id=abc", "")
	require.NoError(t, h.Verify(c))
	assert.Equal(t, int64(domain.InsufficientParameters), decodeResponse(t, rec).Code)
}

func TestHealthHandler_Check(t *testing.T) {
	h := NewHealthHandler(map[string]Check{
		"postgres": func(ctx context.Context) error { return nil },
	})
	c, rec := newContext(http.MethodGet, "/health", "")
	require.NoError(t, h.Check(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	h = NewHealthHandler(map[string]Check{
		"redis": func(ctx context.Context) error { return errors.New("connection refused") },
	})
	c, rec = newContext(http.MethodGet, "/health", "")
	require.NoError(t, h.Check(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
