package orm

import (
	"context"
	"reflect"
	"strings"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/coderi421/kyuu-admin/orm/model"
)

// JoinKind LEFT 或者 INNER
type JoinKind string

const (
	JoinLeft  JoinKind = "LEFT"
	JoinInner JoinKind = "INNER"
)

// Join 一个 JOIN 子句。Join 是 "别名.关联字段"，例如 "p.Category"
type Join struct {
	Kind  JoinKind
	Join  string
	Alias string
}

// DefaultOrder 没有指定方向的时候使用的排序方向
const DefaultOrder = "ASC"

// OrderBy 一个排序子句
type OrderBy struct {
	col   Column
	order string
}

// Order 创建排序子句，order 为空的时候使用 DefaultOrder
func Order(col string, order string) OrderBy {
	if order == "" {
		order = DefaultOrder
	}
	return OrderBy{
		col:   C(strings.TrimSpace(col)),
		order: order,
	}
}

func ASC(col string) OrderBy {
	return Order(col, "ASC")
}

func Desc(col string) OrderBy {
	return Order(col, "DESC")
}

// Column 返回排序的列，也就是去掉方向之后的部分，例如 "p.Name"
func (o OrderBy) Column() string {
	return o.col.String()
}

func (o OrderBy) Order() string {
	return o.order
}

// String 例如 "p.Name DESC"
func (o OrderBy) String() string {
	return o.Column() + " " + o.order
}

// Selectable 标记接口，可检索指定字段的标记
// 使用接口为的是：让 聚合函数， columns， 以及 RawExpr（原生sql） 都能作为参数传入统一个函数，做统一处理
type Selectable interface {
	selectable()
}

// Selector represents a query selector that allows building SQL SELECT statements.
// T 是根实体，From 声明根实体在查询里的别名
type Selector[T any] struct {
	core
	sess Session

	alias    string
	distinct bool
	columns  []Selectable
	joins   []Join
	where   []Predicate
	groupBy []Column
	having  []Predicate
	orderBy []OrderBy
	params  map[string]any
	offset  int
	limit   int
}

// NewSelector creates a new instance of Selector.
func NewSelector[T any](sess Session) *Selector[T] {
	return &Selector[T]{
		core: sess.getCore(),
		sess: sess,
	}
}

// From 声明根实体的别名
func (s *Selector[T]) From(alias string) *Selector[T] {
	s.alias = alias
	return s
}

// RootAliases 返回根实体的别名，没有调用过 From 的时候为空
func (s *Selector[T]) RootAliases() []string {
	if s.alias == "" {
		return nil
	}
	return []string{s.alias}
}

// RootEntities 返回根实体的名字，和 RootAliases 一一对应
func (s *Selector[T]) RootEntities() []string {
	if s.alias == "" {
		return nil
	}
	m, err := s.r.Get(new(T))
	if err != nil {
		return nil
	}
	return []string{m.Name}
}

// Registry 元数据，可以用来查找实体的主键字段
func (s *Selector[T]) Registry() model.Registry {
	return s.r
}

// Distinct 生成 SELECT DISTINCT
func (s *Selector[T]) Distinct() *Selector[T] {
	s.distinct = true
	return s
}

// Select 检索指定 column
func (s *Selector[T]) Select(cols ...Selectable) *Selector[T] {
	s.columns = cols
	return s
}

// LeftJoin 例如 LeftJoin("p.Category", "c")
func (s *Selector[T]) LeftJoin(join string, alias string) *Selector[T] {
	s.joins = append(s.joins, Join{Kind: JoinLeft, Join: join, Alias: alias})
	return s
}

func (s *Selector[T]) InnerJoin(join string, alias string) *Selector[T] {
	s.joins = append(s.joins, Join{Kind: JoinInner, Join: join, Alias: alias})
	return s
}

// JoinParts 返回已经声明的 JOIN，按照声明顺序
func (s *Selector[T]) JoinParts() []Join {
	res := make([]Join, len(s.joins))
	copy(res, s.joins)
	return res
}

// Where 用于构造 WHERE 查询条件。如果 ps 长度为 0，那么不会构造 WHERE 部分
func (s *Selector[T]) Where(ps ...Predicate) *Selector[T] {
	s.where = ps
	return s
}

// AndWhere 追加 WHERE 条件
func (s *Selector[T]) AndWhere(ps ...Predicate) *Selector[T] {
	s.where = append(s.where, ps...)
	return s
}

// SetParameter 绑定命名参数 P(name) 的值
func (s *Selector[T]) SetParameter(name string, val any) *Selector[T] {
	if s.params == nil {
		s.params = make(map[string]any, 4)
	}
	s.params[name] = val
	return s
}

func (s *Selector[T]) GroupBy(cols ...Column) *Selector[T] {
	s.groupBy = cols
	return s
}

func (s *Selector[T]) Having(ps ...Predicate) *Selector[T] {
	s.having = ps
	return s
}

// OrderBy 替换掉已有的排序
func (s *Selector[T]) OrderBy(orderBys ...OrderBy) *Selector[T] {
	s.orderBy = orderBys
	return s
}

// AddOrderBy 追加排序
func (s *Selector[T]) AddOrderBy(orderBys ...OrderBy) *Selector[T] {
	s.orderBy = append(s.orderBy, orderBys...)
	return s
}

// OrderByParts 返回已有的排序，按照声明顺序
func (s *Selector[T]) OrderByParts() []OrderBy {
	res := make([]OrderBy, len(s.orderBy))
	copy(res, s.orderBy)
	return res
}

func (s *Selector[T]) ResetOrderBy() *Selector[T] {
	s.orderBy = nil
	return s
}

// SetFirstResult 偏移量，0 表示不偏移
func (s *Selector[T]) SetFirstResult(offset int) *Selector[T] {
	s.offset = offset
	return s
}

func (s *Selector[T]) FirstResult() int {
	return s.offset
}

// SetMaxResults 最多返回多少行，0 表示不限制
func (s *Selector[T]) SetMaxResults(limit int) *Selector[T] {
	s.limit = limit
	return s
}

func (s *Selector[T]) MaxResults() int {
	return s.limit
}

// Clone 返回一个独立的副本，修改副本不会影响原本的查询
func (s *Selector[T]) Clone() *Selector[T] {
	res := &Selector[T]{
		core:     s.core,
		sess:     s.sess,
		alias:    s.alias,
		distinct: s.distinct,
		columns:  append([]Selectable(nil), s.columns...),
		joins:    append([]Join(nil), s.joins...),
		where:    append([]Predicate(nil), s.where...),
		groupBy:  append([]Column(nil), s.groupBy...),
		having:   append([]Predicate(nil), s.having...),
		orderBy:  append([]OrderBy(nil), s.orderBy...),
		offset:   s.offset,
		limit:    s.limit,
	}
	if s.params != nil {
		res.params = make(map[string]any, len(s.params))
		for k, v := range s.params {
			res.params[k] = v
		}
	}
	return res
}

// Build generates the SELECT statement.
func (s *Selector[T]) Build() (*Query, error) {
	m, err := s.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	b := newBuilder(s.core, m, s.alias)
	b.params = s.params

	// JOIN 需要先解析，SELECT 和 WHERE 里面才能引用 JOIN 的别名
	joins, err := s.resolveJoins(b)
	if err != nil {
		return nil, err
	}

	b.sb.WriteString("SELECT ")
	if s.distinct {
		b.sb.WriteString("DISTINCT ")
	}
	if err = s.buildColumns(b); err != nil {
		return nil, err
	}
	b.sb.WriteString(" FROM ")
	b.quote(m.TableName)
	b.buildAs(s.alias)

	for _, j := range joins {
		b.sb.WriteByte(' ')
		b.sb.WriteString(string(j.kind))
		b.sb.WriteString(" JOIN ")
		b.quote(j.target.TableName)
		b.buildAs(j.alias)
		b.sb.WriteString(" ON ")
		b.quote(j.alias)
		b.sb.WriteByte('.')
		b.quote(j.targetCol)
		b.sb.WriteString(" = ")
		b.quote(j.parent)
		b.sb.WriteByte('.')
		b.quote(j.fkCol)
	}

	// 类似这种可有可无的部分，都要在前面加一个空格
	if len(s.where) > 0 {
		b.sb.WriteString(" WHERE ")
		if err = b.buildPredicates(s.where); err != nil {
			return nil, err
		}
	}

	if len(s.groupBy) > 0 {
		b.sb.WriteString(" GROUP BY ")
		for i, c := range s.groupBy {
			if i > 0 {
				b.sb.WriteByte(',')
			}
			if err = b.buildColumn(c); err != nil {
				return nil, err
			}
		}
	}

	if len(s.having) > 0 {
		b.sb.WriteString(" HAVING ")
		if err = b.buildPredicates(s.having); err != nil {
			return nil, err
		}
	}

	if len(s.orderBy) > 0 {
		b.sb.WriteString(" ORDER BY ")
		for i, ob := range s.orderBy {
			if i > 0 {
				b.sb.WriteByte(',')
			}
			if err = b.buildColumn(ob.col); err != nil {
				return nil, err
			}
			b.sb.WriteByte(' ')
			b.sb.WriteString(ob.order)
		}
	}

	if s.limit > 0 {
		b.sb.WriteString(" LIMIT ?")
		b.addArgs(s.limit)
	} else if s.offset > 0 {
		// MySQL 和 SQLite 都不支持单独的 OFFSET
		if ml := s.dialect.maxLimit(); ml != "" {
			b.sb.WriteString(" LIMIT ")
			b.sb.WriteString(ml)
		}
	}

	if s.offset > 0 {
		b.sb.WriteString(" OFFSET ?")
		b.addArgs(s.offset)
	}

	b.sb.WriteByte(';')
	return b.query(), nil
}

type resolvedJoin struct {
	kind      JoinKind
	parent    string
	alias     string
	fkCol     string
	target    *model.Model
	targetCol string
}

func (s *Selector[T]) resolveJoins(b *builder) ([]resolvedJoin, error) {
	res := make([]resolvedJoin, 0, len(s.joins))
	for _, j := range s.joins {
		idx := strings.IndexByte(j.Join, '.')
		if idx < 0 {
			return nil, errs.NewErrUnknownField(j.Join)
		}
		parent, field := j.Join[:idx], j.Join[idx+1:]
		pm, ok := b.aliases[parent]
		if !ok {
			return nil, errs.NewErrUnknownAlias(parent)
		}
		fd, ok := pm.FieldMap[field]
		if !ok {
			return nil, errs.NewErrUnknownField(field)
		}
		if fd.Assoc == nil {
			return nil, errs.NewErrNotAssociation(field)
		}
		target, err := s.r.Get(reflect.New(fd.Assoc.Target).Interface())
		if err != nil {
			return nil, err
		}
		targetID, ok := target.FieldMap[fd.Assoc.TargetIDField]
		if !ok {
			return nil, errs.ErrNoIdentifier
		}
		b.aliases[j.Alias] = target
		res = append(res, resolvedJoin{
			kind:      j.Kind,
			parent:    parent,
			alias:     j.Alias,
			fkCol:     fd.ColName,
			target:    target,
			targetCol: targetID.ColName,
		})
	}
	return res, nil
}

func (s *Selector[T]) buildColumns(b *builder) error {
	if len(s.columns) == 0 {
		if s.alias != "" {
			b.quote(s.alias)
			b.sb.WriteByte('.')
		}
		b.sb.WriteByte('*')
		return nil
	}

	for i, c := range s.columns {
		if i > 0 {
			b.sb.WriteByte(',')
		}

		switch val := c.(type) {
		case Column:
			if err := b.buildColumn(val); err != nil {
				return err
			}
			b.buildAs(val.alias)
		case Aggregate:
			if err := b.buildAggregate(val); err != nil {
				return err
			}
			b.buildAs(val.alias)
		case RawExpr:
			b.sb.WriteString(val.raw)
			if len(val.args) != 0 {
				b.addArgs(val.args...)
			}
		default:
			return errs.NewErrUnsupportedSelectable(c)
		}
	}

	return nil
}

func (s *Selector[T]) model() (*model.Model, error) {
	return s.r.Get(new(T))
}

// Get 根据拼接成的 sql 文，到 db 中获取数据
func (s *Selector[T]) Get(ctx context.Context) (*T, error) {
	m, err := s.model()
	if err != nil {
		return nil, err
	}
	res := get[T](ctx, s.sess, s.core, &QueryContext{
		Type:    "SELECT",
		Builder: s,
		Model:   m,
	})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Result.(*T), nil
}

func (s *Selector[T]) GetMulti(ctx context.Context) ([]*T, error) {
	m, err := s.model()
	if err != nil {
		return nil, err
	}
	res := getMulti[T](ctx, s.sess, s.core, &QueryContext{
		Type:    "SELECT",
		Builder: s,
		Model:   m,
	})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Result.([]*T), nil
}

// Count 统计行数，会忽略排序和分页。
// distinct 为 true 的时候按照根实体的主键去重，联合主键会用子查询
func (s *Selector[T]) Count(ctx context.Context, distinct bool) (int64, error) {
	m, err := s.model()
	if err != nil {
		return 0, err
	}

	q := s.Clone().ResetOrderBy().SetFirstResult(0).SetMaxResults(0)
	var builder QueryBuilder = q
	switch {
	case len(m.IDFields) == 0:
		q.columns = []Selectable{Raw("COUNT(*)")}
	case distinct && len(m.IDFields) > 1:
		// COUNT(DISTINCT) 只能作用在一列上
		cols := make([]Selectable, 0, len(m.IDFields))
		for _, fd := range m.IDFields {
			cols = append(cols, C(qualify(s.alias, fd)))
		}
		q.columns = cols
		q.distinct = true
		builder = subqueryCount{inner: q}
	case distinct:
		q.columns = []Selectable{CountDistinct(qualify(s.alias, m.IDFields[0]))}
	default:
		q.columns = []Selectable{Count(qualify(s.alias, m.IDFields[0]))}
	}

	res := s.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		query, err := qc.Builder.Build()
		if err != nil {
			return &QueryResult{Err: err}
		}
		rows, err := s.sess.queryContext(ctx, query.SQL, query.Args...)
		if err != nil {
			return &QueryResult{Err: err}
		}
		defer func() { _ = rows.Close() }()
		var cnt int64
		if !rows.Next() {
			return &QueryResult{Result: cnt, Err: rows.Err()}
		}
		err = rows.Scan(&cnt)
		return &QueryResult{Result: cnt, Err: err}
	})(ctx, &QueryContext{
		Type:    "SELECT",
		Builder: builder,
		Model:   m,
	})
	if res.Err != nil {
		return 0, res.Err
	}
	return res.Result.(int64), nil
}

// subqueryCount 统计子查询返回的行数
type subqueryCount struct {
	inner QueryBuilder
}

func (c subqueryCount) Build() (*Query, error) {
	q, err := c.inner.Build()
	if err != nil {
		return nil, err
	}
	return &Query{
		SQL:  "SELECT COUNT(*) FROM (" + strings.TrimSuffix(q.SQL, ";") + ") AS cnt;",
		Args: q.Args,
	}, nil
}

func qualify(alias, field string) string {
	if alias == "" {
		return field
	}
	return alias + "." + field
}
