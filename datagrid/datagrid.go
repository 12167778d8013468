package datagrid

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/coderi421/kyuu-admin/datagrid/persister"
)

// DefaultPerPage 每页默认条数
const DefaultPerPage = 25

// Values 用户在列表页上提交的状态
type Values struct {
	SortBy    string            `json:"sort_by,omitempty"`
	SortOrder string            `json:"sort_order,omitempty"`
	Page      int               `json:"page,omitempty"`
	PerPage   int               `json:"per_page,omitempty"`
	Filters   map[string]string `json:"filters,omitempty"`
}

func (v Values) isZero() bool {
	return v.SortBy == "" && v.SortOrder == "" && v.Page == 0 && v.PerPage == 0 && len(v.Filters) == 0
}

// Page 一页结果
type Page[T any] struct {
	Items    []*T
	Total    int64
	Page     int
	PerPage  int
	LastPage int
}

type Option[T any] func(d *Datagrid[T])

// Datagrid 把 Values 应用到查询上。每次查询都通过 newQuery 拿到一个新的 ProxyQuery
type Datagrid[T any] struct {
	name      string
	newQuery  func() *ProxyQuery[T]
	filters   map[string]Filter[T]
	persister persister.Persister
	perPage   int
	hints     map[string]any
}

func New[T any](name string, newQuery func() *ProxyQuery[T], opts ...Option[T]) *Datagrid[T] {
	res := &Datagrid[T]{
		name:     name,
		newQuery: newQuery,
		filters:  make(map[string]Filter[T], 4),
		perPage:  DefaultPerPage,
		hints:    make(map[string]any, 2),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

func WithFilter[T any](name string, f Filter[T]) Option[T] {
	return func(d *Datagrid[T]) {
		d.filters[name] = f
	}
}

// WithPersister 保存用户上一次的筛选条件
func WithPersister[T any](p persister.Persister) Option[T] {
	return func(d *Datagrid[T]) {
		d.persister = p
	}
}

// WithPerPage perPage 小于 1 的时候忽略
func WithPerPage[T any](perPage int) Option[T] {
	return func(d *Datagrid[T]) {
		if perPage > 0 {
			d.perPage = perPage
		}
	}
}

// WithHint 每次查询都会带上这个 hint
func WithHint[T any](name string, val any) Option[T] {
	return func(d *Datagrid[T]) {
		d.hints[name] = val
	}
}

// Name 列表名，也是持久化时 key 的前缀
func (d *Datagrid[T]) Name() string {
	return d.name
}

// Bind 决定这一次使用的 Values。
// values 为空的时候恢复 key 上次保存的值，否则保存 values
func (d *Datagrid[T]) Bind(ctx context.Context, key string, values Values) (Values, error) {
	if d.persister == nil {
		return values, nil
	}
	key = d.name + "_" + key
	if values.isZero() {
		data, err := d.persister.Get(ctx, key)
		if errors.Is(err, persister.ErrNotFound) {
			return values, nil
		}
		if err != nil {
			return values, err
		}
		var res Values
		if err = json.Unmarshal(data, &res); err != nil {
			return values, err
		}
		return res, d.persister.Refresh(ctx, key)
	}
	data, err := json.Marshal(values)
	if err != nil {
		return values, err
	}
	return values, d.persister.Set(ctx, key, data)
}

// Reset 清除 key 保存的值
func (d *Datagrid[T]) Reset(ctx context.Context, key string) error {
	if d.persister == nil {
		return nil
	}
	return d.persister.Remove(ctx, d.name+"_"+key)
}

// Query 构造一个应用了 values 的查询，但是不执行
func (d *Datagrid[T]) Query(values Values) (*ProxyQuery[T], error) {
	pq := d.newQuery()
	for name, val := range d.hints {
		pq.SetHint(name, val)
	}

	// 按照名字排序，保证生成的参数名和 SQL 是稳定的
	names := make([]string, 0, len(values.Filters))
	for name := range values.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, ok := d.filters[name]
		val := values.Filters[name]
		if !ok || val == "" {
			continue
		}
		if err := f(pq, val); err != nil {
			return nil, err
		}
	}

	parents, field, err := ResolvePath(pq.QueryBuilder().Registry(), new(T), values.SortBy)
	if err != nil {
		return nil, err
	}
	if err = pq.SetSortBy(parents, field); err != nil {
		return nil, err
	}
	if values.SortOrder != "" {
		if err = pq.SetSortOrder(values.SortOrder); err != nil {
			return nil, err
		}
	}

	page, perPage := d.bounds(values)
	pq.SetFirstResult((page - 1) * perPage).SetMaxResults(perPage)
	return pq, nil
}

// Results 执行查询，返回一页数据和总数
func (d *Datagrid[T]) Results(ctx context.Context, values Values) (*Page[T], error) {
	pq, err := d.Query(values)
	if err != nil {
		return nil, err
	}
	pager, err := pq.Execute()
	if err != nil {
		return nil, err
	}
	items, err := pager.Results(ctx)
	if err != nil {
		return nil, err
	}
	total, err := pager.Count(ctx)
	if err != nil {
		return nil, err
	}

	page, perPage := d.bounds(values)
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return &Page[T]{
		Items:    items,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		LastPage: lastPage,
	}, nil
}

func (d *Datagrid[T]) bounds(values Values) (page int, perPage int) {
	page, perPage = values.Page, values.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = d.perPage
	}
	return page, perPage
}
