package persister

import (
	"context"
	"errors"
)

// ErrNotFound 没有保存过，或者已经过期
var ErrNotFound = errors.New("persister: values not found")

// Persister 保存列表页的筛选、排序和分页状态，key 通常是列表名加上用户标识。
// data 的格式由调用方决定
type Persister interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	// Refresh 延长过期时间
	Refresh(ctx context.Context, key string) error
	Remove(ctx context.Context, key string) error
}
