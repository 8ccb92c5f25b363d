package storage

import (
	"context"
	"sync"
	"time"

	"github.com/grachmannico95/topup-gateway/internal/domain"
)

// MemoryStore keeps every table in process memory. The business key index
// gives it the same unique-constraint behaviour as the Postgres store.
type MemoryStore struct {
	clients         map[string]*domain.Client
	operators       map[domain.OperatorID]*domain.Operator
	paymentChannels map[string]*domain.PaymentChannel
	operatorStatus  map[domain.OperatorID]*domain.OperatorStatus
	transactions    map[int64]*domain.Transaction
	byBusinessKey   map[domain.BusinessKey][]int64
	nextID          int64
	mu              sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clients:         make(map[string]*domain.Client),
		operators:       make(map[domain.OperatorID]*domain.Operator),
		paymentChannels: make(map[string]*domain.PaymentChannel),
		operatorStatus:  make(map[domain.OperatorID]*domain.OperatorStatus),
		transactions:    make(map[int64]*domain.Transaction),
		byBusinessKey:   make(map[domain.BusinessKey][]int64),
	}
}

func (s *MemoryStore) AddClient(client domain.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := client
	c.AllowedAddresses = append([]string(nil), client.AllowedAddresses...)
	s.clients[c.Username] = &c
}

func (s *MemoryStore) AddOperator(op domain.Operator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := op
	s.operators[o.ID] = &o
}

func (s *MemoryStore) AddPaymentChannel(ch domain.PaymentChannel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := ch
	s.paymentChannels[c.ID] = &c
}

func (s *MemoryStore) SetOperatorStatus(ctx context.Context, status domain.OperatorStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := status
	if st.CheckedAt.IsZero() {
		st.CheckedAt = time.Now()
	}
	s.operatorStatus[st.OperatorID] = &st
	return nil
}

func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, exists := s.clients[username]
	if !exists {
		return nil, domain.ErrClientNotFound
	}

	c := *client
	c.AllowedAddresses = append([]string(nil), client.AllowedAddresses...)
	return &c, nil
}

func (s *MemoryStore) FindOperator(ctx context.Context, id domain.OperatorID) (*domain.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, exists := s.operators[id]
	if !exists {
		return nil, domain.ErrOperatorNotFound
	}

	o := *op
	return &o, nil
}

func (s *MemoryStore) FindPaymentChannel(ctx context.Context, id string) (*domain.PaymentChannel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, exists := s.paymentChannels[id]
	if !exists {
		return nil, domain.ErrPaymentChannelNotFound
	}

	c := *ch
	return &c, nil
}

func (s *MemoryStore) FindOperatorStatus(ctx context.Context, id domain.OperatorID) (*domain.OperatorStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, exists := s.operatorStatus[id]
	if !exists {
		return nil, domain.ErrOperatorStatusNotFound
	}

	cp := *st
	return &cp, nil
}

func (s *MemoryStore) Create(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tx.Key()
	if len(s.byBusinessKey[key]) > 0 {
		return domain.ErrDuplicateBusinessKey
	}

	s.nextID++
	tx.ID = s.nextID
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	s.transactions[tx.ID] = cloneTransaction(tx)
	s.byBusinessKey[key] = append(s.byBusinessKey[key], tx.ID)

	return nil
}

func (s *MemoryStore) Update(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.ID]; !exists {
		return domain.ErrTransactionNotFound
	}

	s.transactions[tx.ID] = cloneTransaction(tx)
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, exists := s.transactions[id]
	if !exists {
		return nil, domain.ErrTransactionNotFound
	}

	return cloneTransaction(tx), nil
}

func (s *MemoryStore) FindByBusinessKey(ctx context.Context, key domain.BusinessKey) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byBusinessKey[key]
	result := make([]*domain.Transaction, 0, len(ids))
	for _, id := range ids {
		result = append(result, cloneTransaction(s.transactions[id]))
	}

	return result, nil
}

func (s *MemoryStore) ResolveSuspension(ctx context.Context, id int64, res domain.Resolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.transactions[id]
	if !exists {
		return domain.ErrTransactionNotFound
	}

	tx := cloneTransaction(stored)
	if err := tx.ApplyResolution(res); err != nil {
		return err
	}

	s.transactions[id] = tx
	return nil
}

// TransactionCount is used by tests asserting that no record was created.
func (s *MemoryStore) TransactionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.transactions)
}

func cloneTransaction(tx *domain.Transaction) *domain.Transaction {
	cp := *tx
	if tx.STF != nil {
		stf := *tx.STF
		cp.STF = &stf
	}
	if tx.OperatorCallAt != nil {
		t := *tx.OperatorCallAt
		cp.OperatorCallAt = &t
	}
	if tx.VerifiedAt != nil {
		t := *tx.VerifiedAt
		cp.VerifiedAt = &t
	}
	return &cp
}
