package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/grachmannico95/topup-gateway/internal/domain"
)

// Stage is one link of the admission chain. A non-nil error means the stage
// could not decide, which is never an input error.
type Stage interface {
	Validate(ctx context.Context, req *domain.TopupRequest, operatorID domain.OperatorID) (domain.ErrorCode, error)
}

type StageFunc func(ctx context.Context, req *domain.TopupRequest, operatorID domain.OperatorID) (domain.ErrorCode, error)

func (f StageFunc) Validate(ctx context.Context, req *domain.TopupRequest, operatorID domain.OperatorID) (domain.ErrorCode, error) {
	return f(ctx, req, operatorID)
}

// Chain runs its stages in order and stops at the first non-OK code.
type Chain struct {
	stages []Stage
}

func NewChain(stages ...Stage) *Chain {
	return &Chain{stages: stages}
}

func (c *Chain) Validate(ctx context.Context, req *domain.TopupRequest, operatorID domain.OperatorID) (domain.ErrorCode, error) {
	for _, stage := range c.stages {
		code, err := stage.Validate(ctx, req, operatorID)
		if err != nil {
			return domain.InternalSystemError, err
		}
		if code != domain.OK {
			return code, nil
		}
	}
	return domain.OK, nil
}

// NewDefaultChain builds the chain in admission order: required fields,
// action, amount, cell number, bank code, operator, payment channel.
func NewDefaultChain(
	rules map[domain.OperatorID]Rules,
	bankCodes []string,
	operators domain.OperatorRepository,
	channels domain.PaymentChannelRepository,
) *Chain {
	return NewChain(
		RequiredFields(),
		ActionValidator(rules),
		AmountValidator(rules),
		CellNumberValidator(rules),
		BankCodeValidator(bankCodes),
		OperatorValidator(operators),
		PaymentChannelValidator(channels),
	)
}

func RequiredFields() Stage {
	return StageFunc(func(ctx context.Context, req *domain.TopupRequest, _ domain.OperatorID) (domain.ErrorCode, error) {
		fields := []string{
			req.Username,
			req.Password,
			req.BankCode,
			req.State,
			req.BankReceiptRef,
			req.OrderID,
			req.Consumer,
			req.CustomerIP,
			req.Action,
		}
		for _, f := range fields {
			if f == "" {
				return domain.InsufficientParameters, nil
			}
		}
		return domain.OK, nil
	})
}

func ActionValidator(rules map[domain.OperatorID]Rules) Stage {
	return StageFunc(func(ctx context.Context, req *domain.TopupRequest, operatorID domain.OperatorID) (domain.ErrorCode, error) {
		r, ok := rules[operatorID]
		if !ok {
			return domain.InvalidOperator, nil
		}
		action, ok := domain.ParseAction(req.Action)
		if !ok || !r.AllowsAction(action) {
			return domain.InvalidOperatorAction, nil
		}
		return domain.OK, nil
	})
}

func AmountValidator(rules map[domain.OperatorID]Rules) Stage {
	return StageFunc(func(ctx context.Context, req *domain.TopupRequest, operatorID domain.OperatorID) (domain.ErrorCode, error) {
		r, ok := rules[operatorID]
		if !ok {
			return domain.InvalidOperator, nil
		}
		if !r.Amount.Allows(req.Amount) {
			return domain.InvalidAmount, nil
		}
		return domain.OK, nil
	})
}

func CellNumberValidator(rules map[domain.OperatorID]Rules) Stage {
	return StageFunc(func(ctx context.Context, req *domain.TopupRequest, operatorID domain.OperatorID) (domain.ErrorCode, error) {
		r, ok := rules[operatorID]
		if !ok {
			return domain.InvalidOperator, nil
		}
		if r.CellNumber == nil || !r.CellNumber.MatchString(req.Consumer) {
			return domain.InvalidCellNumber, nil
		}
		return domain.OK, nil
	})
}

func BankCodeValidator(codes []string) Stage {
	known := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		known[c] = struct{}{}
	}

	return StageFunc(func(ctx context.Context, req *domain.TopupRequest, _ domain.OperatorID) (domain.ErrorCode, error) {
		if _, ok := known[req.BankCode]; !ok {
			return domain.InvalidBankCode, nil
		}
		return domain.OK, nil
	})
}

func OperatorValidator(repo domain.OperatorRepository) Stage {
	return StageFunc(func(ctx context.Context, _ *domain.TopupRequest, operatorID domain.OperatorID) (domain.ErrorCode, error) {
		op, err := repo.FindOperator(ctx, operatorID)
		if err != nil {
			if errors.Is(err, domain.ErrOperatorNotFound) {
				return domain.InvalidOperator, nil
			}
			return domain.InternalSystemError, fmt.Errorf("failed to load operator %d: %w", operatorID, err)
		}
		if !op.Active {
			return domain.InvalidOperator, nil
		}
		return domain.OK, nil
	})
}

func PaymentChannelValidator(repo domain.PaymentChannelRepository) Stage {
	return StageFunc(func(ctx context.Context, req *domain.TopupRequest, _ domain.OperatorID) (domain.ErrorCode, error) {
		if req.Channel == "" {
			return domain.InvalidPaymentChannel, nil
		}

		ch, err := repo.FindPaymentChannel(ctx, req.Channel)
		if err != nil {
			if errors.Is(err, domain.ErrPaymentChannelNotFound) {
				return domain.InvalidPaymentChannel, nil
			}
			return domain.InternalSystemError, fmt.Errorf("failed to load payment channel %s: %w", req.Channel, err)
		}
		if !ch.Active {
			return domain.InvalidPaymentChannel, nil
		}
		return domain.OK, nil
	})
}
