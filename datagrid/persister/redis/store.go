package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coderi421/kyuu-admin/datagrid/persister"
	redis "github.com/redis/go-redis/v9"
)

var _ persister.Persister = &Store{}

// StoreOption is a function type for configuring a Store.
type StoreOption func(store *Store)

type Store struct {
	prefix     string // redis 中 key 的前缀
	client     redis.Cmdable
	expiration time.Duration // 过期时间
}

func NewStore(client redis.Cmdable, opts ...StoreOption) *Store {
	res := &Store{
		client:     client,
		prefix:     "datagrid",
		expiration: time.Minute * 15,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

func WithPrefix(prefix string) StoreOption {
	return func(store *Store) {
		store.prefix = prefix
	}
}

func WithExpiration(expiration time.Duration) StoreOption {
	return func(store *Store) {
		store.expiration = expiration
	}
}

func (s *Store) key(key string) string {
	return fmt.Sprintf("%s_%s", s.prefix, key)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, persister.ErrNotFound
	}
	return data, err
}

func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, s.key(key), data, s.expiration).Err()
}

func (s *Store) Refresh(ctx context.Context, key string) error {
	affected, err := s.client.Expire(ctx, s.key(key), s.expiration).Result()
	if err != nil {
		return err
	}
	if !affected {
		return persister.ErrNotFound
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
