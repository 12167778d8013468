package orm

// RawExpr 代表一个原生表达式
// 意味着 ORM 不会对它进行任何处理
type RawExpr struct {
	raw  string
	args []any
}

func (r RawExpr) selectable() {}

func (r RawExpr) expr() {}

func (r RawExpr) AsPredicate() Predicate {
	return Predicate{
		left: r,
	}
}

// Raw 创建一个 RawExpr
func Raw(expr string, args ...any) RawExpr {
	return RawExpr{
		raw:  expr,
		args: args,
	}
}

// Param 命名参数，值通过 Selector.SetParameter 绑定，构造 SQL 的时候才取值
type Param struct {
	name string
}

func (p Param) expr() {}

// P 引用一个命名参数
func P(name string) Param {
	return Param{name: name}
}
