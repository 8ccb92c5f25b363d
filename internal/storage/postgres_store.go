package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/grachmannico95/topup-gateway/internal/domain"
)

const pgUniqueViolation = "23505"

type clientRow struct {
	ID           int64              `gorm:"primaryKey"`
	Username     string             `gorm:"type:varchar(64);uniqueIndex;not null"`
	PasswordHash string             `gorm:"type:varchar(255);not null"`
	Active       bool               `gorm:"not null;default:false"`
	Addresses    []clientAddressRow `gorm:"foreignKey:ClientID"`
}

func (clientRow) TableName() string { return "clients" }

type clientAddressRow struct {
	ID       int64  `gorm:"primaryKey"`
	ClientID int64  `gorm:"index;not null"`
	Address  string `gorm:"type:varchar(64);not null"`
}

func (clientAddressRow) TableName() string { return "client_addresses" }

type operatorRow struct {
	ID     int    `gorm:"primaryKey;autoIncrement:false"`
	Name   string `gorm:"type:varchar(32);not null"`
	Active bool   `gorm:"not null;default:false"`
}

func (operatorRow) TableName() string { return "operators" }

type paymentChannelRow struct {
	ID     string `gorm:"type:varchar(32);primaryKey"`
	Active bool   `gorm:"not null;default:false"`
}

func (paymentChannelRow) TableName() string { return "payment_channels" }

type transactionRow struct {
	ID         int64 `gorm:"primaryKey"`
	OperatorID int   `gorm:"not null"`

	BankReceiptRef string `gorm:"type:varchar(64);not null;uniqueIndex:idx_transactions_business_key"`
	BankCode       string `gorm:"type:varchar(8);not null;uniqueIndex:idx_transactions_business_key"`
	ClientID       int64  `gorm:"not null;uniqueIndex:idx_transactions_business_key"`

	OrderID    string `gorm:"type:varchar(64)"`
	Channel    string `gorm:"type:varchar(32)"`
	State      string `gorm:"type:varchar(255)"`
	Consumer   string `gorm:"type:varchar(20);index"`
	Amount     int64
	Action     int
	CustomerIP string `gorm:"type:varchar(64)"`
	RemoteIP   string `gorm:"type:varchar(64)"`
	BankVerify int64

	CreatedAt      time.Time
	OperatorCallAt *time.Time
	VerifiedAt     *time.Time

	Status                int64  `gorm:"not null;default:-1"`
	OperatorResponseCode  string `gorm:"type:varchar(32)"`
	OperatorResponse      string `gorm:"type:text"`
	OperatorTransactionID string `gorm:"type:varchar(64)"`
	OperatorCommandStatus string `gorm:"type:varchar(64)"`
	Token                 string `gorm:"type:varchar(255)"`

	STF       *int `gorm:"column:stf;index"`
	STFResult int  `gorm:"column:stf_result;not null;default:0"`
}

func (transactionRow) TableName() string { return "transactions" }

func transactionRowFromDomain(tx *domain.Transaction) *transactionRow {
	row := &transactionRow{
		ID:                    tx.ID,
		OperatorID:            int(tx.OperatorID),
		BankReceiptRef:        tx.BankReceiptRef,
		BankCode:              tx.BankCode,
		ClientID:              tx.ClientID,
		OrderID:               tx.OrderID,
		Channel:               tx.Channel,
		State:                 tx.State,
		Consumer:              tx.Consumer,
		Amount:                tx.Amount,
		Action:                int(tx.Action),
		CustomerIP:            tx.CustomerIP,
		RemoteIP:              tx.RemoteIP,
		BankVerify:            tx.BankVerify,
		CreatedAt:             tx.CreatedAt,
		OperatorCallAt:        tx.OperatorCallAt,
		VerifiedAt:            tx.VerifiedAt,
		Status:                int64(tx.Status),
		OperatorResponseCode:  tx.OperatorResponseCode,
		OperatorResponse:      tx.OperatorResponse,
		OperatorTransactionID: tx.OperatorTransactionID,
		OperatorCommandStatus: tx.OperatorCommandStatus,
		Token:                 tx.Token,
		STFResult:             tx.STFResult,
	}
	if tx.STF != nil {
		stf := int(*tx.STF)
		row.STF = &stf
	}
	return row
}

func (r *transactionRow) toDomain() *domain.Transaction {
	tx := &domain.Transaction{
		ID:                    r.ID,
		OperatorID:            domain.OperatorID(r.OperatorID),
		BankReceiptRef:        r.BankReceiptRef,
		BankCode:              r.BankCode,
		ClientID:              r.ClientID,
		OrderID:               r.OrderID,
		Channel:               r.Channel,
		State:                 r.State,
		Consumer:              r.Consumer,
		Amount:                r.Amount,
		Action:                domain.Action(r.Action),
		CustomerIP:            r.CustomerIP,
		RemoteIP:              r.RemoteIP,
		BankVerify:            r.BankVerify,
		CreatedAt:             r.CreatedAt,
		OperatorCallAt:        r.OperatorCallAt,
		VerifiedAt:            r.VerifiedAt,
		Status:                domain.TransactionStatus(r.Status),
		OperatorResponseCode:  r.OperatorResponseCode,
		OperatorResponse:      r.OperatorResponse,
		OperatorTransactionID: r.OperatorTransactionID,
		OperatorCommandStatus: r.OperatorCommandStatus,
		Token:                 r.Token,
		STFResult:             r.STFResult,
	}
	if r.STF != nil {
		stf := domain.STF(*r.STF)
		tx.STF = &stf
	}
	return tx
}

// PostgresStore is the store of record. The unique index on the business
// key is what serializes concurrent admissions of the same bank receipt.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	gl := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&clientRow{},
		&clientAddressRow{},
		&operatorRow{},
		&paymentChannelRow{},
		&transactionRow{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*domain.Client, error) {
	var row clientRow
	err := s.db.WithContext(ctx).Preload("Addresses").Where("username = ?", username).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}

	client := &domain.Client{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Active:       row.Active,
	}
	for _, a := range row.Addresses {
		client.AllowedAddresses = append(client.AllowedAddresses, a.Address)
	}
	return client, nil
}

func (s *PostgresStore) FindOperator(ctx context.Context, id domain.OperatorID) (*domain.Operator, error) {
	var row operatorRow
	if err := s.db.WithContext(ctx).First(&row, int(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("failed to find operator: %w", err)
	}

	return &domain.Operator{ID: domain.OperatorID(row.ID), Name: row.Name, Active: row.Active}, nil
}

func (s *PostgresStore) FindPaymentChannel(ctx context.Context, id string) (*domain.PaymentChannel, error) {
	var row paymentChannelRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentChannelNotFound
		}
		return nil, fmt.Errorf("failed to find payment channel: %w", err)
	}

	return &domain.PaymentChannel{ID: row.ID, Active: row.Active}, nil
}

func (s *PostgresStore) Create(ctx context.Context, tx *domain.Transaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	row := transactionRowFromDomain(tx)
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBusinessKey
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	tx.ID = row.ID
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, tx *domain.Transaction) error {
	row := transactionRowFromDomain(tx)
	result := s.db.WithContext(ctx).
		Model(&transactionRow{}).
		Where("id = ?", tx.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction %d: %w", tx.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	var row transactionRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %d: %w", id, err)
	}
	return row.toDomain(), nil
}

func (s *PostgresStore) FindByBusinessKey(ctx context.Context, key domain.BusinessKey) ([]*domain.Transaction, error) {
	var rows []transactionRow
	err := s.db.WithContext(ctx).
		Where("bank_receipt_ref = ? AND bank_code = ? AND client_id = ?", key.BankReceiptRef, key.BankCode, key.ClientID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions by business key: %w", err)
	}

	result := make([]*domain.Transaction, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toDomain())
	}
	return result, nil
}

// ResolveSuspension locks the row so the transition is serialized against
// the orchestrator's own finalizing update.
func (s *PostgresStore) ResolveSuspension(ctx context.Context, id int64, res domain.Resolution) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var row transactionRow
		err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTransactionNotFound
			}
			return fmt.Errorf("failed to lock transaction %d: %w", id, err)
		}

		tx := row.toDomain()
		if err := tx.ApplyResolution(res); err != nil {
			return err
		}

		updated := transactionRowFromDomain(tx)
		err = db.Model(&transactionRow{}).
			Where("id = ?", id).
			Select("stf", "status", "operator_response_code", "operator_response", "operator_transaction_id", "operator_command_status").
			Updates(updated).Error
		if err != nil {
			return fmt.Errorf("failed to resolve transaction %d: %w", id, err)
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
