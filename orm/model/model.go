package model

import "reflect"

// Option is a function type that modifies a Model.
type Option func(model *Model) error

// Model 结构体映射db后的结构
type Model struct {
	// Name 实体名，也就是结构体的类型名，用于按名字查找元数据
	Name string
	// TableName 结构体对应的表名
	TableName string
	// Fields 按照声明顺序排列的字段，嵌入结构体的字段会被展开
	Fields    []*Field
	FieldMap  map[string]*Field // 结构体 属性名 attr name 为 key  ItemId
	ColumnMap map[string]*Field // DB column name 为 key    item_id
	// IDFields 主键字段的 Go 名字，顺序和声明顺序一致
	IDFields []string
}

// IdentifierFieldNames returns the identifier fields in declaration order.
func (m *Model) IdentifierFieldNames() []string {
	res := make([]string, len(m.IDFields))
	copy(res, m.IDFields)
	return res
}

// Field 字段相关的属性
type Field struct {
	ColName string       // 数据库中的字段名
	GoName  string       // go struct 中的名字
	Type    reflect.Type // go 中的数据类型，转换成 reflect.Value 的时候，知道是什么类型，不然那没法转
	// Index 用于 reflect.Value.FieldByIndex，嵌入字段会有多级
	Index []int
	// Offset 相对于对象起始地址的字段偏移量
	// uintptr 这个类型的值，只是简单记录一下位置
	Offset uintptr
	// Primary 是否是主键的一部分
	Primary bool
	// Assoc 不为 nil 说明这是一个关联字段，ColName 是外键列
	Assoc *Association
}

// AssocManyToOne 目前只支持在持有外键的一方声明关联
const AssocManyToOne = "many_to_one"

// Association 关联关系的元数据
type Association struct {
	Kind string
	// Target 关联的结构体类型，不是指针
	Target reflect.Type
	// TargetIDField 关联实体主键字段的 Go 名字，用于取外键的值
	TargetIDField string
}

// 我们支持的全部标签上的 key 都放在这里
// 方便用户查找，和我们后期维护
const (
	tagKeyColumn = "column"
	tagKeyPK     = "pk"
	tagKeyAssoc  = "assoc"
	tagORMName   = "orm"
)

// TableName 用户实现这个接口来返回自定义的表名
type TableName interface {
	TableName() string
}
