package orm

import "strings"

// Column 代表一列。name 是结构体字段名，table 是查询里的别名
// C("p.Name") 表示别名 p 对应实体的 Name 字段
type Column struct {
	table string
	name  string
	alias string
}

func (c Column) expr() {}

func (c Column) selectable() {}

func (c Column) assign() {}

// String 返回 alias.Field 形式，没有别名的时候只有字段名
func (c Column) String() string {
	if c.table == "" {
		return c.name
	}
	return c.table + "." + c.name
}

type value struct {
	val any
}

func (v value) expr() {}

// valueOf creates a new value object with the given value.
func valueOf(val any) value {
	return value{val: val}
}

// C 创建一列，可以带上别名前缀，例如 C("s_Category.Name")
func C(name string) Column {
	if idx := strings.IndexByte(name, '.'); idx >= 0 {
		return Column{table: name[:idx], name: name[idx+1:]}
	}
	return Column{name: name}
}

// As 在 SELECT 里面使用的别名
func (c Column) As(alias string) Column {
	return Column{
		table: c.table,
		name:  c.name,
		alias: alias,
	}
}

// EQ 例如 C("id").EQ(12)
func (c Column) EQ(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opEQ,
		right: exprOf(arg), // 如果 arg 不是 Expression 类型 就让他变成这个类型
	}
}

func (c Column) NEQ(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opNEQ,
		right: exprOf(arg),
	}
}

// LT 例如 C("id").LT(12)
func (c Column) LT(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opLT,
		right: exprOf(arg),
	}
}

func (c Column) GT(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opGT,
		right: exprOf(arg),
	}
}

// Like 例如 C("Name").Like("%pen%")
func (c Column) Like(arg any) Predicate {
	return Predicate{
		left:  c,
		op:    opLIKE,
		right: exprOf(arg),
	}
}

// IsNull 右边没有表达式
func (c Column) IsNull() Predicate {
	return Predicate{
		left: c,
		op:   opISNULL,
	}
}
