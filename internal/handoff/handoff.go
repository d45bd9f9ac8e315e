package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/production-timeline/backend/internal/domain"
)

// Store 在打开采购单详情页时暂存采购单，详情页再按 ID 取回
type Store interface {
	Put(ctx context.Context, po domain.PurchaseOrder) error
	Get(ctx context.Context, id string) (domain.PurchaseOrder, error)
}

// client 是 *redis.Client 中用到的部分
type client interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

type RedisStore struct {
	rdb client
	ttl time.Duration
}

func NewRedisStore(rdb client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func Key(id string) string {
	return fmt.Sprintf("po_detail_%s", id)
}

func (s *RedisStore) Put(ctx context.Context, po domain.PurchaseOrder) error {
	data, err := json.Marshal(po)
	if err != nil {
		return fmt.Errorf("序列化采购单失败: %w", err)
	}
	if err := s.rdb.Set(ctx, Key(po.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("写入 redis 失败: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (domain.PurchaseOrder, error) {
	data, err := s.rdb.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.PurchaseOrder{}, domain.ErrHandoffNotFound
		}
		return domain.PurchaseOrder{}, fmt.Errorf("读取 redis 失败: %w", err)
	}

	var po domain.PurchaseOrder
	if err := json.Unmarshal(data, &po); err != nil {
		return domain.PurchaseOrder{}, fmt.Errorf("解析采购单失败: %w", err)
	}
	return po, nil
}
