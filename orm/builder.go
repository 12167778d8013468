package orm

import (
	"strings"

	"github.com/coderi421/kyuu-admin/internal/errs"
	"github.com/coderi421/kyuu-admin/orm/model"
)

type builder struct {
	core
	sb     strings.Builder // sb is used to build the SQL query string.
	args   []any           // args holds the arguments for the query.
	model  *model.Model    // model 根实体的元数据
	quoter byte

	// alias 根实体的别名，为空的时候列名不加前缀
	alias string
	// aliases 查询里面所有可以引用的别名，包括 JOIN 进来的
	aliases map[string]*model.Model
	// params 命名参数的值
	params map[string]any
}

// newBuilder 每次 Build 都用一个新的 builder，所以同一个查询可以 Build 多次
func newBuilder(c core, m *model.Model, alias string) *builder {
	b := &builder{
		core:    c,
		model:   m,
		quoter:  c.dialect.quoter(),
		alias:   alias,
		aliases: make(map[string]*model.Model, 4),
	}
	if alias != "" {
		b.aliases[alias] = m
	}
	return b
}

func (b *builder) quote(name string) {
	b.sb.WriteByte(b.quoter)
	b.sb.WriteString(name)
	b.sb.WriteByte(b.quoter)
}

// buildColumn 把字段名翻译成列名，带别名的会加上别名前缀
func (b *builder) buildColumn(c Column) error {
	m, alias := b.model, b.alias
	if c.table != "" {
		var ok bool
		m, ok = b.aliases[c.table]
		if !ok {
			return errs.NewErrUnknownAlias(c.table)
		}
		alias = c.table
	}
	fd, ok := m.FieldMap[c.name]
	if !ok {
		return errs.NewErrUnknownField(c.name)
	}
	if alias != "" {
		b.quote(alias)
		b.sb.WriteByte('.')
	}
	b.quote(fd.ColName)
	return nil
}

func (b *builder) buildAs(alias string) {
	if alias != "" {
		b.sb.WriteString(" AS ")
		b.quote(alias)
	}
}

// buildPredicates builds the predicates for the given list of predicates.
func (b *builder) buildPredicates(ps []Predicate) error {
	p := ps[0]
	// Merge multiple predicates using the `And` method.
	for i := 1; i < len(ps); i++ {
		p = p.And(ps[i])
	}
	return b.buildExpression(p)
}

// buildExpression builds the SQL query for the given expression.
// It takes an expression as input and recursively constructs the SQL query.
func (b *builder) buildExpression(e Expression) error {
	// Column 代表是列名，直接拼接列名
	// value 代表参数，加入参数列表
	// Predicate 代表一个查询条件：
	// 如果左边是一个 Predicate，那么加上括号
	// 递归构造左边
	// 构造操作符
	// 如果右边是一个 Predicate，那么加上括号
	if e == nil {
		return nil
	}

	switch expr := e.(type) {
	case Column:
		return b.buildColumn(expr)
	case Aggregate:
		return b.buildAggregate(expr)
	case value:
		b.sb.WriteByte('?')
		b.addArgs(expr.val)
	case Param:
		val, ok := b.params[expr.name]
		if !ok {
			return errs.NewErrUnboundParameter(expr.name)
		}
		b.sb.WriteByte('?')
		b.addArgs(val)
	case RawExpr:
		b.sb.WriteString(expr.raw)
		if len(expr.args) != 0 {
			b.addArgs(expr.args...)
		}
	case Predicate:
		// 如果左边有复杂结构，则在最外边套一层括号
		_, lp := expr.left.(Predicate)
		if lp {
			b.sb.WriteByte('(')
		}
		if err := b.buildExpression(expr.left); err != nil {
			return err
		}
		if lp {
			b.sb.WriteByte(')')
		}

		if expr.op == "" {
			// 如果只有左边，例如执行原生 sql raw 的时候
			return nil
		}

		if expr.left != nil {
			b.sb.WriteByte(' ')
		}
		b.sb.WriteString(expr.op.String())
		if expr.right == nil {
			// IS NULL 这种没有右边
			return nil
		}
		b.sb.WriteByte(' ')

		_, rp := expr.right.(Predicate)
		if rp {
			b.sb.WriteByte('(')
		}
		if err := b.buildExpression(expr.right); err != nil {
			return err
		}
		if rp {
			b.sb.WriteByte(')')
		}
	default:
		return errs.NewErrUnsupportedExpressionType(expr)
	}

	return nil
}

func (b *builder) buildAggregate(a Aggregate) error {
	b.sb.WriteString(a.fn)
	b.sb.WriteByte('(')
	if a.distinct {
		b.sb.WriteString("DISTINCT ")
	}
	if err := b.buildColumn(a.arg); err != nil {
		return err
	}
	b.sb.WriteByte(')')
	return nil
}

func (b *builder) addArgs(args ...any) {
	if b.args == nil {
		b.args = make([]any, 0, 8)
	}
	b.args = append(b.args, args...)
}

func (b *builder) query() *Query {
	return &Query{
		SQL:  b.sb.String(),
		Args: b.args,
	}
}
