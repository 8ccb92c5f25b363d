package idempotency

import (
	"context"
	"errors"
	"testing"

	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/grachmannico95/topup-gateway/internal/storage"
	"github.com/grachmannico95/topup-gateway/mocks"
	"github.com/grachmannico95/topup-gateway/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func baseParams() Params {
	return Params{
		Key:        domain.BusinessKey{BankReceiptRef: "receipt-1", BankCode: "056", ClientID: 1},
		OrderID:    "order-1",
		OperatorID: domain.OperatorMCI,
		Amount:     10000,
		Channel:    "59",
		Consumer:   "09125067064",
		CustomerIP: "192.168.1.10",
	}
}

func priorFor(p Params) *domain.Transaction {
	return &domain.Transaction{
		OperatorID:     p.OperatorID,
		BankReceiptRef: p.Key.BankReceiptRef,
		BankCode:       p.Key.BankCode,
		ClientID:       p.Key.ClientID,
		OrderID:        p.OrderID,
		Channel:        p.Channel,
		Consumer:       p.Consumer,
		Amount:         p.Amount,
		Status:         domain.TransactionStatusSuccess,
	}
}

func stfPtr(v domain.STF) *domain.STF { return &v }

func TestResolve_New(t *testing.T) {
	r := NewResolver(storage.NewMemoryStore(), logger.NewNop())

	d, err := r.Resolve(context.Background(), baseParams())
	require.NoError(t, err)
	assert.Equal(t, KindNew, d.Kind)
	assert.Nil(t, d.Prior)
}

func TestResolve_PriorOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(tx *domain.Transaction)
		params     func(p *Params)
		wantKind   Kind
		wantStatus string
		wantCode   domain.ErrorCode
		wantDetail string
	}{
		{
			name: "finished success repeated",
			mutate: func(tx *domain.Transaction) {
				tx.OperatorTransactionID = "op-9"
				tx.OperatorResponseCode = "0"
			},
			wantKind:   KindRepetitive,
			wantStatus: domain.ResponseStatusError,
			wantCode:   domain.RepetitiveTransaction,
			wantDetail: "1:op-9",
		},
		{
			name: "finished failure repeated",
			mutate: func(tx *domain.Transaction) {
				tx.Status = domain.TransactionStatusFailed
				tx.OperatorResponseCode = "17"
			},
			wantKind:   KindRepetitive,
			wantStatus: domain.ResponseStatusError,
			wantCode:   domain.RepetitiveTransaction,
			wantDetail: "17",
		},
		{
			name:     "different order id",
			params:   func(p *Params) { p.OrderID = "order-2" },
			wantKind: KindDoubleSpend,
			wantCode: domain.DoubleSpendingTransaction,
		},
		{
			name:     "different amount on a suspended record",
			mutate:   func(tx *domain.Transaction) { tx.STF = stfPtr(domain.STFPending) },
			params:   func(p *Params) { p.Amount = 20000 },
			wantKind: KindDoubleSpend,
			wantCode: domain.DoubleSpendingTransaction,
		},
		{
			name:     "different consumer",
			params:   func(p *Params) { p.Consumer = "09120000000" },
			wantKind: KindDoubleSpend,
			wantCode: domain.DoubleSpendingTransaction,
		},
		{
			name:     "different channel",
			params:   func(p *Params) { p.Channel = "60" },
			wantKind: KindDoubleSpend,
			wantCode: domain.DoubleSpendingTransaction,
		},
		{
			name: "customer ip is not part of correlation",
			params: func(p *Params) {
				p.CustomerIP = "10.0.0.1"
			},
			wantKind: KindRepetitive,
			wantCode: domain.RepetitiveTransaction,
		},
		{
			name: "suspended",
			mutate: func(tx *domain.Transaction) {
				tx.Status = domain.TransactionStatusPending
				tx.STF = stfPtr(domain.STFPending)
			},
			wantKind: KindPendingReconciliation,
			wantCode: domain.OperatorServiceErrorDoNotReverse,
		},
		{
			name: "unknown stf counts as pending",
			mutate: func(tx *domain.Transaction) {
				tx.STF = stfPtr(domain.STF(9))
			},
			wantKind: KindPendingReconciliation,
			wantCode: domain.OperatorServiceErrorDoNotReverse,
		},
		{
			name: "in flight without stf",
			mutate: func(tx *domain.Transaction) {
				tx.Status = domain.TransactionStatusPending
			},
			wantKind: KindPendingReconciliation,
			wantCode: domain.OperatorServiceErrorDoNotReverse,
		},
		{
			name: "resolved success",
			mutate: func(tx *domain.Transaction) {
				tx.STF = stfPtr(domain.STFResolvedSuccess)
				tx.OperatorTransactionID = "op-late"
			},
			wantKind:   KindReconciledSuccess,
			wantStatus: domain.ResponseStatusOK,
			wantDetail: "op-late",
		},
		{
			name: "resolved failed",
			mutate: func(tx *domain.Transaction) {
				tx.Status = domain.TransactionStatusFailed
				tx.STF = stfPtr(domain.STFResolvedFailed)
				tx.OperatorResponseCode = "23"
			},
			wantKind:   KindReconciledFailed,
			wantStatus: domain.ResponseStatusError,
			wantCode:   domain.OperatorServiceResponseNOK,
			wantDetail: "23",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			ctx := context.Background()

			p := baseParams()
			prior := priorFor(p)
			if tt.mutate != nil {
				tt.mutate(prior)
			}
			require.NoError(t, store.Create(ctx, prior))

			if tt.params != nil {
				tt.params(&p)
			}

			d, err := NewResolver(store, logger.NewNop()).Resolve(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, d.Kind)
			require.NotNil(t, d.Prior)
			assert.Equal(t, prior.ID, d.Prior.ID)

			resp := d.Response()
			if tt.wantStatus != "" {
				assert.Equal(t, tt.wantStatus, resp.Status)
			}
			if tt.wantKind == KindReconciledSuccess {
				assert.Equal(t, prior.ID, resp.Code)
			} else {
				assert.Equal(t, int64(tt.wantCode), resp.Code)
			}
			if tt.wantDetail != "" {
				require.NotNil(t, resp.Detail)
				assert.Equal(t, tt.wantDetail, *resp.Detail)
			}
		})
	}
}

func TestResolve_UnknownSTFIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := storage.NewMemoryStore()
	ctx := context.Background()

	p := baseParams()
	prior := priorFor(p)
	prior.STF = stfPtr(domain.STF(7))
	require.NoError(t, store.Create(ctx, prior))

	_, err := NewResolver(store, logger.NewFromZap(zap.New(core))).Resolve(ctx, p)
	require.NoError(t, err)

	entries := logs.FilterMessage("unexpected stf value, treating as pending").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].ContextMap()["stf"])
}

func TestResolve_SeveralPriors(t *testing.T) {
	p := baseParams()
	transactions := mocks.NewMockTransactionRepository(t)
	transactions.EXPECT().
		FindByBusinessKey(mock.Anything, p.Key).
		Return([]*domain.Transaction{priorFor(p), priorFor(p)}, nil).
		Once()

	d, err := NewResolver(transactions, logger.NewNop()).Resolve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, KindDoubleSpend, d.Kind)
	assert.Equal(t, int64(domain.DoubleSpendingTransaction), d.Response().Code)
}

func TestResolve_StoreError(t *testing.T) {
	p := baseParams()
	transactions := mocks.NewMockTransactionRepository(t)
	transactions.EXPECT().
		FindByBusinessKey(mock.Anything, p.Key).
		Return(nil, errors.New("db down")).
		Once()

	_, err := NewResolver(transactions, logger.NewNop()).Resolve(context.Background(), p)
	assert.Error(t, err)
}
