package handler

import (
	"net/http"
	"strconv"

	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/grachmannico95/topup-gateway/internal/service"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
	"github.com/labstack/echo/v4"
)

// GatewayHandler exposes the gateway operations. Business outcomes travel in
// the body with HTTP 200; only undecodable requests get a 400.
type GatewayHandler struct {
	service service.GatewayService
	logger  *logger.Logger
}

func NewGatewayHandler(service service.GatewayService, log *logger.Logger) *GatewayHandler {
	return &GatewayHandler{
		service: service,
		logger:  log,
	}
}

func (h *GatewayHandler) Topup(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, ok := domain.OperatorIDByName(c.Param("operator"))
	if !ok {
		h.logger.Warn(ctx, "Topup for unknown operator",
			"operator", c.Param("operator"),
		)
		return c.JSON(http.StatusOK, domain.ErrorResponse(domain.InvalidOperator))
	}

	var req domain.TopupRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn(ctx, "Failed to decode topup request",
			"error", err,
		)
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse(domain.InsufficientParameters))
	}
	req.RemoteIP = c.RealIP()

	return c.JSON(http.StatusOK, h.service.Topup(ctx, operatorID, &req))
}

func (h *GatewayHandler) Availability(c echo.Context) error {
	ctx := c.Request().Context()

	operatorID, ok := domain.OperatorIDByName(c.Param("operator"))
	if !ok {
		return c.JSON(http.StatusOK, domain.AvailabilityResponse{
			Status: domain.ResponseStatusError,
			Code:   int64(domain.InvalidOperator),
		})
	}

	return c.JSON(http.StatusOK, h.service.IsOperatorAvailable(ctx, operatorID))
}

func (h *GatewayHandler) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	transactionID, err := strconv.ParseInt(c.QueryParam("transaction_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusOK, domain.ErrorResponse(domain.InsufficientParameters))
	}

	h.logger.Debug(ctx, "Verifying transaction",
		"transaction_id", transactionID,
	)

	return c.JSON(http.StatusOK, h.service.VerifyTransaction(ctx, c.QueryParam("consumer"), transactionID))
}
