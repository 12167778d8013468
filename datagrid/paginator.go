package datagrid

import (
	"context"
	"fmt"

	"github.com/coderi421/kyuu-admin/orm"
	lru "github.com/hashicorp/golang-lru"
)

// 分页器认识的 hint，其余的 hint 会被忽略
const (
	// HintDistinctCount bool，统计总数的时候是否按照根实体主键去重。
	// 默认情况下，查询里面有 JOIN 的时候去重
	HintDistinctCount = "datagrid.distinct_count"
	// HintCountCache *CountCache，缓存总数
	HintCountCache = "datagrid.count_cache"
)

// Paginator 惰性的分页结果，调用 Results 或者 Count 的时候才查询数据库
type Paginator[T any] struct {
	query *orm.Selector[T]
	hints map[string]any
}

func NewPaginator[T any](query *orm.Selector[T], hints map[string]any) *Paginator[T] {
	return &Paginator[T]{
		query: query,
		hints: hints,
	}
}

// Query 最终执行的查询
func (p *Paginator[T]) Query() *orm.Selector[T] {
	return p.query
}

// Results 当前页的数据
func (p *Paginator[T]) Results(ctx context.Context) ([]*T, error) {
	return p.query.GetMulti(ctx)
}

// Count 不考虑分页的总数
func (p *Paginator[T]) Count(ctx context.Context) (int64, error) {
	distinct := len(p.query.JoinParts()) > 0
	if val, ok := p.hints[HintDistinctCount].(bool); ok {
		distinct = val
	}

	cache, _ := p.hints[HintCountCache].(*CountCache)
	if cache == nil {
		return p.query.Count(ctx, distinct)
	}

	// 分页和排序不影响总数，所以不同页共用一个缓存
	q, err := p.query.Clone().ResetOrderBy().SetFirstResult(0).SetMaxResults(0).Build()
	if err != nil {
		return 0, err
	}
	key := fmt.Sprintf("%t|%s|%v", distinct, q.SQL, q.Args)
	if cnt, ok := cache.Get(key); ok {
		return cnt, nil
	}
	cnt, err := p.query.Count(ctx, distinct)
	if err != nil {
		return 0, err
	}
	cache.Add(key, cnt)
	return cnt, nil
}

// CountCache 缓存 COUNT 的结果，可以在多个请求之间共享
type CountCache struct {
	cache *lru.Cache
}

// NewCountCache size 是最多缓存多少个查询
func NewCountCache(size int) (*CountCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CountCache{cache: c}, nil
}

func (c *CountCache) Get(key string) (int64, bool) {
	val, ok := c.cache.Get(key)
	if !ok {
		return 0, false
	}
	return val.(int64), true
}

func (c *CountCache) Add(key string, cnt int64) {
	c.cache.Add(key, cnt)
}

// Purge 数据发生变化之后清空
func (c *CountCache) Purge() {
	c.cache.Purge()
}

func (c *CountCache) Len() int {
	return c.cache.Len()
}
