package datagrid

import (
	"strings"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/coderi421/kyuu-admin/orm"
	"github.com/gotomicro/ekit/slice"
)

// 排序方向
const (
	SortASC  = "ASC"
	SortDESC = "DESC"
)

var validSortOrders = []string{SortASC, SortDESC}

// aliasPrefix 自动生成的 JOIN 别名前缀，例如 s_Category_Parent
const aliasPrefix = "s"

// AssociationMapping 描述一个关联字段，FieldName 是结构体上的字段名
type AssociationMapping struct {
	FieldName string
}

// FieldMapping 描述一个普通字段。FieldName 为空代表没有字段
type FieldMapping struct {
	FieldName string
}

// ProxyQuery 在 orm.Selector 上面提供列表页需要的能力：
// 排序，分页，按照关联字段排序时自动 JOIN，以及保证结果的顺序是确定的。
// 它不是并发安全的，需要共享的时候先 Clone
type ProxyQuery[T any] struct {
	query *orm.Selector[T]

	sortBy    string
	sortOrder string

	// entityJoinAliases 已经由 EntityJoin 登记过的别名，只增不减
	entityJoinAliases []string
	hints             map[string]any
	uniqueParameterID int
}

func NewProxyQuery[T any](query *orm.Selector[T]) *ProxyQuery[T] {
	return &ProxyQuery[T]{
		query: query,
		hints: make(map[string]any, 4),
	}
}

// QueryBuilder 返回被代理的查询，过滤器通过它追加条件
func (pq *ProxyQuery[T]) QueryBuilder() *orm.Selector[T] {
	return pq.query
}

// SetSortBy 按照 parents 这条关联路径上的 field 排序。
// field 没有字段名的时候清空排序
func (pq *ProxyQuery[T]) SetSortBy(parents []AssociationMapping, field FieldMapping) error {
	if field.FieldName == "" {
		pq.sortBy = ""
		return nil
	}
	alias, err := pq.EntityJoin(parents)
	if err != nil {
		return err
	}
	pq.sortBy = alias + "." + field.FieldName
	return nil
}

func (pq *ProxyQuery[T]) SortBy() string {
	return pq.sortBy
}

// SetSortOrder 只接受 ASC 和 DESC，不区分大小写
func (pq *ProxyQuery[T]) SetSortOrder(order string) error {
	upper := strings.ToUpper(order)
	if !slice.Contains(validSortOrders, upper) {
		return errs.NewErrInvalidSortOrder(order, validSortOrders)
	}
	pq.sortOrder = upper
	return nil
}

// SortOrder 没有设置过的时候为空
func (pq *ProxyQuery[T]) SortOrder() string {
	return pq.sortOrder
}

func (pq *ProxyQuery[T]) SetFirstResult(offset int) *ProxyQuery[T] {
	pq.query.SetFirstResult(offset)
	return pq
}

func (pq *ProxyQuery[T]) FirstResult() int {
	return pq.query.FirstResult()
}

func (pq *ProxyQuery[T]) SetMaxResults(limit int) *ProxyQuery[T] {
	pq.query.SetMaxResults(limit)
	return pq
}

func (pq *ProxyQuery[T]) MaxResults() int {
	return pq.query.MaxResults()
}

// UniqueParameterID 用来生成不会重复的参数名，第一次返回 0
func (pq *ProxyQuery[T]) UniqueParameterID() int {
	id := pq.uniqueParameterID
	pq.uniqueParameterID++
	return id
}

// SetHint 未知的 hint 会被执行阶段忽略
func (pq *ProxyQuery[T]) SetHint(name string, val any) *ProxyQuery[T] {
	pq.hints[name] = val
	return pq
}

func (pq *ProxyQuery[T]) Hints() map[string]any {
	res := make(map[string]any, len(pq.hints))
	for k, v := range pq.hints {
		res[k] = v
	}
	return res
}

// EntityJoin 沿着关联路径 LEFT JOIN，返回最后一跳的别名。
// 查询里已经有的 JOIN，不管是谁加的，都会直接复用
func (pq *ProxyQuery[T]) EntityJoin(mappings []AssociationMapping) (string, error) {
	aliases := pq.query.RootAliases()
	if len(aliases) == 0 {
		return "", errs.ErrNoRootAlias
	}
	alias := aliases[0]
	newAlias := aliasPrefix

	joins := pq.query.JoinParts()
outer:
	for _, mapping := range mappings {
		// 生成的别名包含路径上所有的字段，复用的也算，
		// 这样不同路径上同名的关联不会冲突
		newAlias += "_" + mapping.FieldName
		join := alias + "." + mapping.FieldName
		for _, j := range joins {
			if j.Join == join {
				pq.registerAlias(j.Alias)
				alias = j.Alias
				continue outer
			}
		}

		if pq.registerAlias(newAlias) {
			pq.query.LeftJoin(join, newAlias)
		}
		alias = newAlias
	}
	return alias, nil
}

// registerAlias 返回 alias 是不是第一次登记
func (pq *ProxyQuery[T]) registerAlias(alias string) bool {
	if slice.Contains(pq.entityJoinAliases, alias) {
		return false
	}
	pq.entityJoinAliases = append(pq.entityJoinAliases, alias)
	return true
}

// Finalize 返回一个可以执行的查询，它是被代理查询的副本：
// 调用方指定的排序排在最前面，原有的排序跟在后面，
// 最后补上根实体的主键，保证顺序是确定的。
// 多次调用结果一样
func (pq *ProxyQuery[T]) Finalize() (*orm.Selector[T], error) {
	q := pq.query.Clone()

	var rootAlias string
	if aliases := q.RootAliases(); len(aliases) > 0 {
		rootAlias = aliases[0]
	}

	if pq.sortBy != "" {
		existing := q.OrderByParts()
		sortBy := pq.sortBy
		if !strings.Contains(sortBy, ".") {
			sortBy = rootAlias + "." + sortBy
		}
		q.ResetOrderBy().
			AddOrderBy(orm.Order(sortBy, pq.sortOrder)).
			AddOrderBy(existing...)
	}

	entities := q.RootEntities()
	if len(entities) == 0 {
		return nil, errs.ErrNoRootEntity
	}
	meta, err := q.Registry().Metadata(entities[0])
	if err != nil {
		return nil, err
	}

	parts := q.OrderByParts()
	existingOrders := make([]string, 0, len(parts))
	for _, ob := range parts {
		existingOrders = append(existingOrders, ob.Column())
	}
	for _, id := range meta.IdentifierFieldNames() {
		field := rootAlias + "." + id
		if !slice.Contains(existingOrders, field) {
			q.AddOrderBy(orm.Order(field, pq.sortOrder))
		}
	}
	return q, nil
}

// Execute 返回一个惰性的分页器，hint 会交给它处理
func (pq *ProxyQuery[T]) Execute() (*Paginator[T], error) {
	q, err := pq.Finalize()
	if err != nil {
		return nil, err
	}
	return NewPaginator[T](q, pq.Hints()), nil
}

// Clone 返回完全独立的副本，包括已经登记的别名和参数计数
func (pq *ProxyQuery[T]) Clone() *ProxyQuery[T] {
	return &ProxyQuery[T]{
		query:             pq.query.Clone(),
		sortBy:            pq.sortBy,
		sortOrder:         pq.sortOrder,
		entityJoinAliases: append([]string(nil), pq.entityJoinAliases...),
		hints:             pq.Hints(),
		uniqueParameterID: pq.uniqueParameterID,
	}
}
