package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grachmannico95/topup-gateway/internal/domain"
)

const (
	statusFieldAvailable = "available"
	statusFieldCheckedAt = "checked_at"
)

// ConnectRedis opens a client and pings it once.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// RedisOperatorStatusStore reads the health records the external operator
// checker writes as hashes under operator:status:<id>.
type RedisOperatorStatusStore struct {
	client *redis.Client
}

func NewRedisOperatorStatusStore(client *redis.Client) *RedisOperatorStatusStore {
	return &RedisOperatorStatusStore{client: client}
}

func operatorStatusKey(id domain.OperatorID) string {
	return fmt.Sprintf("operator:status:%d", int(id))
}

func (s *RedisOperatorStatusStore) FindOperatorStatus(ctx context.Context, id domain.OperatorID) (*domain.OperatorStatus, error) {
	fields, err := s.client.HGetAll(ctx, operatorStatusKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read operator status: %w", err)
	}
	return decodeOperatorStatus(id, fields)
}

func (s *RedisOperatorStatusStore) SetOperatorStatus(ctx context.Context, status domain.OperatorStatus) error {
	if status.CheckedAt.IsZero() {
		status.CheckedAt = time.Now()
	}

	err := s.client.HSet(ctx, operatorStatusKey(status.OperatorID), encodeOperatorStatus(status)).Err()
	if err != nil {
		return fmt.Errorf("failed to write operator status: %w", err)
	}
	return nil
}

func encodeOperatorStatus(status domain.OperatorStatus) map[string]interface{} {
	return map[string]interface{}{
		statusFieldAvailable: strconv.FormatBool(status.IsAvailable),
		statusFieldCheckedAt: status.CheckedAt.UTC().Format(time.RFC3339),
	}
}

func decodeOperatorStatus(id domain.OperatorID, fields map[string]string) (*domain.OperatorStatus, error) {
	raw, ok := fields[statusFieldAvailable]
	if !ok {
		return nil, domain.ErrOperatorStatusNotFound
	}

	available, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q for operator %d: %w", statusFieldAvailable, raw, id, err)
	}

	status := &domain.OperatorStatus{OperatorID: id, IsAvailable: available}
	if ts, ok := fields[statusFieldCheckedAt]; ok {
		if checkedAt, err := time.Parse(time.RFC3339, ts); err == nil {
			status.CheckedAt = checkedAt
		}
	}
	return status, nil
}
