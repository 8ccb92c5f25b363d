package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/grachmannico95/topup-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingTransaction(receipt string) *domain.Transaction {
	return &domain.Transaction{
		OperatorID:     domain.OperatorMCI,
		BankReceiptRef: receipt,
		BankCode:       "056",
		ClientID:       1,
		OrderID:        "order-1",
		Channel:        "59",
		Consumer:       "09125067064",
		Amount:         10000,
		Action:         domain.ActionTopUp,
		Status:         domain.TransactionStatusPending,
	}
}

func TestMemoryStore_CreateAssignsID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tx := newPendingTransaction("r-1")
	require.NoError(t, store.Create(ctx, tx))
	assert.Equal(t, int64(1), tx.ID)
	assert.False(t, tx.CreatedAt.IsZero())

	found, err := store.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "r-1", found.BankReceiptRef)
	assert.Equal(t, domain.TransactionStatusPending, found.Status)
}

func TestMemoryStore_CreateDuplicateBusinessKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newPendingTransaction("r-1")))

	err := store.Create(ctx, newPendingTransaction("r-1"))
	assert.ErrorIs(t, err, domain.ErrDuplicateBusinessKey)
	assert.Equal(t, 1, store.TransactionCount())
}

func TestMemoryStore_ConcurrentCreateSameKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Create(ctx, newPendingTransaction("r-race")); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestMemoryStore_FindByID_NotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tx := newPendingTransaction("r-1")
	require.NoError(t, store.Create(ctx, tx))

	tx.Status = domain.TransactionStatusSuccess
	found, err := store.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, found.Status)
}

func TestMemoryStore_UpdateAndFindByBusinessKey(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tx := newPendingTransaction("r-1")
	require.NoError(t, store.Create(ctx, tx))

	tx.Status = domain.TransactionStatusSuccess
	tx.OperatorTransactionID = "op-77"
	require.NoError(t, store.Update(ctx, tx))

	found, err := store.FindByBusinessKey(ctx, tx.Key())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, domain.TransactionStatusSuccess, found[0].Status)
	assert.Equal(t, "op-77", found[0].OperatorTransactionID)

	none, err := store.FindByBusinessKey(ctx, domain.BusinessKey{BankReceiptRef: "other"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStore_Update_NotFound(t *testing.T) {
	store := NewMemoryStore()

	err := store.Update(context.Background(), &domain.Transaction{ID: 9})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestMemoryStore_ResolveSuspension(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tx := newPendingTransaction("r-1")
	require.NoError(t, store.Create(ctx, tx))

	stf := domain.STFPending
	tx.STF = &stf
	require.NoError(t, store.Update(ctx, tx))

	err := store.ResolveSuspension(ctx, tx.ID, domain.Resolution{
		STF:                   domain.STFResolvedSuccess,
		OperatorResponseCode:  "0",
		OperatorTransactionID: "op-1",
	})
	require.NoError(t, err)

	found, err := store.FindByID(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, found.STF)
	assert.Equal(t, domain.STFResolvedSuccess, *found.STF)
	assert.Equal(t, domain.TransactionStatusSuccess, found.Status)
	assert.Equal(t, "op-1", found.OperatorTransactionID)

	err = store.ResolveSuspension(ctx, tx.ID, domain.Resolution{STF: domain.STFResolvedFailed})
	assert.ErrorIs(t, err, domain.ErrInvalidSTFTransition)
}

func TestMemoryStore_ResolveSuspension_NotSuspended(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tx := newPendingTransaction("r-1")
	require.NoError(t, store.Create(ctx, tx))

	err := store.ResolveSuspension(ctx, tx.ID, domain.Resolution{STF: domain.STFResolvedSuccess})
	assert.ErrorIs(t, err, domain.ErrInvalidSTFTransition)

	err = store.ResolveSuspension(ctx, 99, domain.Resolution{STF: domain.STFResolvedSuccess})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestMemoryStore_Lookups(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.AddClient(domain.Client{ID: 1, Username: "bank", Active: true, AllowedAddresses: []string{"10.0.0.1"}})
	store.AddOperator(domain.Operator{ID: domain.OperatorMCI, Name: "mci", Active: true})
	store.AddPaymentChannel(domain.PaymentChannel{ID: "59", Active: true})
	require.NoError(t, store.SetOperatorStatus(ctx, domain.OperatorStatus{OperatorID: domain.OperatorMCI, IsAvailable: true}))

	client, err := store.FindByUsername(ctx, "bank")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1"}, client.AllowedAddresses)

	_, err = store.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	op, err := store.FindOperator(ctx, domain.OperatorMCI)
	require.NoError(t, err)
	assert.True(t, op.Active)

	_, err = store.FindOperator(ctx, domain.OperatorMTN)
	assert.ErrorIs(t, err, domain.ErrOperatorNotFound)

	_, err = store.FindPaymentChannel(ctx, "60")
	assert.ErrorIs(t, err, domain.ErrPaymentChannelNotFound)

	status, err := store.FindOperatorStatus(ctx, domain.OperatorMCI)
	require.NoError(t, err)
	assert.True(t, status.IsAvailable)
	assert.False(t, status.CheckedAt.IsZero())

	_, err = store.FindOperatorStatus(ctx, domain.OperatorRightel)
	assert.ErrorIs(t, err, domain.ErrOperatorStatusNotFound)
}
