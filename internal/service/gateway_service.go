package service

import (
	"context"
	"errors"
	"time"

	"github.com/grachmannico95/topup-gateway/internal/auth"
	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/grachmannico95/topup-gateway/internal/eventbus"
	"github.com/grachmannico95/topup-gateway/internal/idempotency"
	"github.com/grachmannico95/topup-gateway/internal/metrics"
	"github.com/grachmannico95/topup-gateway/internal/operator"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
)

type GatewayService interface {
	Topup(ctx context.Context, operatorID domain.OperatorID, req *domain.TopupRequest) domain.Response
	IsOperatorAvailable(ctx context.Context, operatorID domain.OperatorID) domain.AvailabilityResponse
	VerifyTransaction(ctx context.Context, consumer string, transactionID int64) domain.Response
}

type Validator interface {
	Validate(ctx context.Context, req *domain.TopupRequest, operatorID domain.OperatorID) (domain.ErrorCode, error)
}

type DispatcherRegistry interface {
	Get(id domain.OperatorID) (operator.Dispatcher, bool)
}

type Dependencies struct {
	Validator      Validator
	Access         auth.AccessControl
	Resolver       idempotency.Resolver
	Transactions   domain.TransactionRepository
	OperatorStatus domain.OperatorStatusRepository
	Dispatchers    DispatcherRegistry
	EventBus       eventbus.EventBus
	Logger         *logger.Logger
}

type gatewayService struct {
	validator      Validator
	access         auth.AccessControl
	resolver       idempotency.Resolver
	transactions   domain.TransactionRepository
	operatorStatus domain.OperatorStatusRepository
	dispatchers    DispatcherRegistry
	eventBus       eventbus.EventBus
	logger         *logger.Logger
	now            func() time.Time
}

func NewGatewayService(deps Dependencies) GatewayService {
	return &gatewayService{
		validator:      deps.Validator,
		access:         deps.Access,
		resolver:       deps.Resolver,
		transactions:   deps.Transactions,
		operatorStatus: deps.OperatorStatus,
		dispatchers:    deps.Dispatchers,
		eventBus:       deps.EventBus,
		logger:         deps.Logger,
		now:            time.Now,
	}
}

func (s *gatewayService) Topup(ctx context.Context, operatorID domain.OperatorID, req *domain.TopupRequest) domain.Response {
	ctx = logger.WithOperator(ctx, operatorID.String())

	resp := s.topup(ctx, operatorID, req)
	metrics.ObserveTopup(operatorID, resp)

	return resp
}

func (s *gatewayService) topup(ctx context.Context, operatorID domain.OperatorID, req *domain.TopupRequest) domain.Response {
	code, err := s.validator.Validate(ctx, req, operatorID)
	if err != nil {
		s.logger.Error(ctx, "Validation could not complete", "error", err)
		return domain.ErrorResponse(domain.InternalSystemError)
	}
	if code != domain.OK {
		s.logger.Info(ctx, "Request rejected",
			"code", code.String(),
			"bank_receipt", req.BankReceiptRef,
		)
		return domain.ErrorResponse(code)
	}

	client, code := s.access.Authenticate(ctx, req.Username, req.Password, req.RemoteIP)
	if code != domain.OK {
		return domain.ErrorResponse(code)
	}

	action, _ := domain.ParseAction(req.Action)
	tx := &domain.Transaction{
		OperatorID:     operatorID,
		BankReceiptRef: req.BankReceiptRef,
		BankCode:       req.BankCode,
		ClientID:       client.ID,
		OrderID:        req.OrderID,
		Channel:        req.Channel,
		State:          req.State,
		Consumer:       req.Consumer,
		Amount:         req.Amount,
		Action:         action,
		CustomerIP:     req.CustomerIP,
		RemoteIP:       req.RemoteIP,
		CreatedAt:      s.now(),
		Status:         domain.TransactionStatusPending,
	}

	if resp, admitted := s.admit(ctx, tx); !admitted {
		return resp
	}

	ctx = logger.WithTransactionID(ctx, tx.ID)
	s.logger.Info(ctx, "Transaction created",
		"bank_receipt", tx.BankReceiptRef,
		"amount", tx.Amount,
		"action", action.String(),
	)

	return s.dispatch(ctx, tx, req)
}

// admit persists tx as a pending record unless a prior attempt with the same
// business key decides the response. A unique-key collision means a
// concurrent identical request won the insert, so resolution runs once more.
func (s *gatewayService) admit(ctx context.Context, tx *domain.Transaction) (domain.Response, bool) {
	params := idempotency.Params{
		Key:        tx.Key(),
		OrderID:    tx.OrderID,
		OperatorID: tx.OperatorID,
		Amount:     tx.Amount,
		Channel:    tx.Channel,
		Consumer:   tx.Consumer,
		CustomerIP: tx.CustomerIP,
	}

	for attempt := 0; attempt < 2; attempt++ {
		decision, err := s.resolver.Resolve(ctx, params)
		if err != nil {
			s.logger.Error(ctx, "Duplicate resolution failed", "error", err)
			return domain.ErrorResponse(domain.InternalSystemError), false
		}
		if decision.Kind != idempotency.KindNew {
			s.logger.Info(ctx, "Prior attempt decides response",
				"decision", decision.Kind.String(),
				"bank_receipt", tx.BankReceiptRef,
			)
			return decision.Response(), false
		}

		err = s.transactions.Create(ctx, tx)
		if err == nil {
			return domain.Response{}, true
		}
		if !errors.Is(err, domain.ErrDuplicateBusinessKey) {
			s.logger.Error(ctx, "Failed to create transaction", "error", err)
			return domain.ErrorResponse(domain.InternalSystemError), false
		}

		s.logger.Warn(ctx, "Concurrent admission of the same business key",
			"bank_receipt", tx.BankReceiptRef,
		)
	}

	return domain.ErrorResponse(domain.InternalSystemError), false
}

// dispatch makes the single charge attempt and records its outcome. The
// caller's cancellation no longer applies once the pending record exists.
func (s *gatewayService) dispatch(ctx context.Context, tx *domain.Transaction, req *domain.TopupRequest) domain.Response {
	ctx = context.WithoutCancel(ctx)

	dispatcher, ok := s.dispatchers.Get(tx.OperatorID)
	if !ok {
		s.logger.Error(ctx, "No dispatcher configured")
		tx.Status = domain.TransactionStatusServiceError
		s.finalize(ctx, tx)
		return domain.ErrorResponse(domain.OperatorServiceError)
	}

	callAt := s.now()
	tx.OperatorCallAt = &callAt

	start := time.Now()
	result, err := dispatcher.Charge(ctx, operator.ChargeRequest{
		TransactionID: tx.ID,
		Consumer:      tx.Consumer,
		Amount:        tx.Amount,
		Action:        tx.Action,
		CustomerName:  req.CustomerName,
		Vendor:        req.Vendor,
	})
	elapsed := time.Since(start)

	if result != nil && result.Token != "" {
		tx.Token = result.Token
	}
	if err == nil {
		err = result.Validate()
	}

	var resp domain.Response
	var outcome string
	switch {
	case err == nil:
		tx.OperatorResponseCode = result.Code
		tx.OperatorResponse = result.Message
		tx.OperatorTransactionID = result.TransactionID
		tx.OperatorCommandStatus = result.CommandStatus

		if result.Succeeded() {
			tx.Status = domain.TransactionStatusSuccess
			resp = domain.OKResponse(tx.ID, result.TransactionID)
			outcome = metrics.OutcomeSuccess
		} else {
			tx.Status = domain.TransactionStatusFailed
			resp = domain.ErrorResponseWithDetail(domain.OperatorServiceResponseNOK, result.Code)
			outcome = metrics.OutcomeNOK
		}
		s.logger.Info(ctx, "Operator responded",
			"operator_code", result.Code,
			"operator_transaction_id", result.TransactionID,
			"duration_ms", elapsed.Milliseconds(),
		)

	case !errors.Is(err, operator.ErrUnknownResponse) && errors.Is(err, operator.ErrNotAvailable):
		tx.Status = domain.TransactionStatusServiceError
		resp = domain.ErrorResponse(domain.OperatorServiceError)
		outcome = metrics.OutcomeNotAvailable
		s.logger.Warn(ctx, "Operator not available", "error", err)

	default:
		// The charge may have gone through; only reconciliation can tell.
		stf := domain.STFPending
		tx.STF = &stf
		tx.STFResult = 0
		resp = domain.ErrorResponse(domain.OperatorServiceErrorDoNotReverse)
		outcome = metrics.OutcomeSuspended
		s.logger.Warn(ctx, "Operator outcome unknown, transaction suspended",
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	metrics.ObserveDispatch(tx.OperatorID, outcome, elapsed)

	s.finalize(ctx, tx)
	if outcome == metrics.OutcomeSuspended {
		s.publishSuspension(ctx, tx, err)
	}

	return resp
}

// finalize persists the post-dispatch state. A failure here never changes
// the response: the record stays pending and is answered as such.
func (s *gatewayService) finalize(ctx context.Context, tx *domain.Transaction) {
	if err := s.transactions.Update(ctx, tx); err != nil {
		s.logger.Error(ctx, "Failed to finalize transaction",
			"status", int64(tx.Status),
			"operator_transaction_id", tx.OperatorTransactionID,
			"error", err,
		)
	}
}

func (s *gatewayService) publishSuspension(ctx context.Context, tx *domain.Transaction, cause error) {
	if s.eventBus == nil {
		return
	}

	notice := domain.SuspensionNotice{
		TransactionID:  tx.ID,
		OperatorID:     tx.OperatorID,
		Operator:       tx.OperatorID.String(),
		BankReceiptRef: tx.BankReceiptRef,
		BankCode:       tx.BankCode,
		ClientID:       tx.ClientID,
		Consumer:       tx.Consumer,
		Amount:         tx.Amount,
		Token:          tx.Token,
		Reason:         cause.Error(),
		SuspendedAt:    s.now(),
	}

	if err := s.eventBus.Publish(ctx, eventbus.NewSuspensionEvent(notice)); err != nil {
		metrics.NoticesTotal.WithLabelValues("dropped").Inc()
		s.logger.Error(ctx, "Failed to queue suspension notice", "error", err)
	}
}

func (s *gatewayService) IsOperatorAvailable(ctx context.Context, operatorID domain.OperatorID) domain.AvailabilityResponse {
	ctx = logger.WithOperator(ctx, operatorID.String())

	status, err := s.operatorStatus.FindOperatorStatus(ctx, operatorID)
	if err != nil {
		if errors.Is(err, domain.ErrOperatorStatusNotFound) {
			s.logger.Warn(ctx, "No health record for operator")
			return domain.AvailabilityResponse{
				Status: domain.ResponseStatusError,
				Code:   int64(domain.OperatorServiceUnavailable),
			}
		}
		s.logger.Error(ctx, "Failed to read operator status", "error", err)
		return domain.AvailabilityResponse{
			Status: domain.ResponseStatusError,
			Code:   int64(domain.InternalSystemError),
		}
	}

	return domain.AvailabilityResponse{
		Status:      domain.ResponseStatusOK,
		Code:        int64(domain.OK),
		IsAvailable: status.IsAvailable,
	}
}

func (s *gatewayService) VerifyTransaction(ctx context.Context, consumer string, transactionID int64) domain.Response {
	if consumer == "" || transactionID <= 0 {
		return domain.ErrorResponse(domain.InsufficientParameters)
	}

	ctx = logger.WithTransactionID(ctx, transactionID)

	tx, err := s.transactions.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return domain.ErrorResponse(domain.TransactionNotFound)
		}
		s.logger.Error(ctx, "Failed to load transaction", "error", err)
		return domain.ErrorResponse(domain.InternalSystemError)
	}

	if tx.Consumer != consumer {
		s.logger.Warn(ctx, "Verification for a different consumer", "consumer", consumer)
		return domain.ErrorResponse(domain.TransactionNotFound)
	}

	switch {
	case tx.IsSuspended(), tx.Status == domain.TransactionStatusPending:
		return domain.ErrorResponse(domain.OperatorServiceErrorDoNotReverse)
	case tx.Status == domain.TransactionStatusSuccess:
		return domain.OKResponse(tx.ID, tx.OperatorTransactionID)
	case tx.Status == domain.TransactionStatusFailed:
		return domain.ErrorResponseWithDetail(domain.OperatorServiceResponseNOK, tx.OperatorResponseCode)
	default:
		return domain.ErrorResponse(domain.OperatorServiceError)
	}
}
