package memory

import (
	"context"
	"time"

	"github.com/coderi421/kyuu-admin/datagrid/persister"
	cache "github.com/patrickmn/go-cache"
)

var _ persister.Persister = &Store{}

type Store struct {
	// 利用一个内存缓存来帮助我们管理过期时间
	c          *cache.Cache
	expiration time.Duration
}

// NewStore expiration 是每个 key 的过期时间
func NewStore(expiration time.Duration) *Store {
	return &Store{
		c:          cache.New(expiration, time.Second),
		expiration: expiration,
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, ok := s.c.Get(key)
	if !ok {
		return nil, persister.ErrNotFound
	}
	data := val.([]byte)
	// 返回副本，调用方修改不会影响缓存
	return append([]byte(nil), data...), nil
}

func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	s.c.Set(key, append([]byte(nil), data...), s.expiration)
	return nil
}

func (s *Store) Refresh(ctx context.Context, key string) error {
	val, ok := s.c.Get(key)
	if !ok {
		return persister.ErrNotFound
	}
	s.c.Set(key, val, s.expiration)
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.c.Delete(key)
	return nil
}
